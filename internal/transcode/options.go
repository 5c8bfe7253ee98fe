package transcode

import (
	"fmt"
	"time"

	"asset-transcoder/internal/assettypes"
	"asset-transcoder/internal/discovery"
	"asset-transcoder/internal/engines"
	"asset-transcoder/internal/logging"
	"asset-transcoder/internal/metrics"
)

// RawOptions is the caller-supplied configuration for a Transcoder.
type RawOptions struct {
	// CSS, HTML and JS hold transformer options for each kind. The special
	// keys "fileExtensions" (replaces the default extension list) and
	// "plugins" (plugin names or engines.Plugin values) are consumed by the
	// transcoder itself.
	CSS  map[string]any
	HTML map[string]any
	JS   map[string]any

	// Index is the file served for requests that match no asset kind.
	// nil keeps the default "index.html"; false, "" or 0 disable the
	// fallback; any other value is formatted as the file name.
	Index any

	// ConfigName names a universal config file to search for, e.g.
	// "transcode" finds .transcoderc.yaml. Ignored when Config is set.
	ConfigName string
	// Config is an already-parsed universal config with optional "css",
	// "html" and "js" sections.
	Config map[string]any

	// OnReady is called once with the resolved options before the first
	// request is served.
	OnReady func(*ResolvedOptions)

	// OnCSS, OnHTML and OnJS replace the built-in transformer for a kind.
	OnCSS  Transformer
	OnHTML Transformer
	OnJS   Transformer
}

// KindOptions is the resolved configuration for one asset kind.
type KindOptions struct {
	// Options are the merged transformer options without fileExtensions
	// and plugins.
	Options        engines.Options
	FileExtensions []string
	Plugins        []any
}

// ResolvedOptions is the merged configuration shared by every request.
// It must not be modified after OnReady returns.
type ResolvedOptions struct {
	// Index is the index file name; empty when the fallback is disabled.
	Index string

	CSS  KindOptions
	HTML KindOptions
	JS   KindOptions

	OnReady func(*ResolvedOptions)
	OnCSS   Transformer
	OnHTML  Transformer
	OnJS    Transformer

	// Sources lists the config files that contributed, by source name.
	Sources map[string]string
}

// IndexEnabled reports whether index fallback applies.
func (o *ResolvedOptions) IndexEnabled() bool {
	return o.Index != ""
}

// Kind returns the options for k, or nil for KindNone.
func (o *ResolvedOptions) Kind(k assettypes.Kind) *KindOptions {
	if entry, ok := kindTable[k]; ok {
		return entry.options(o)
	}
	return nil
}

// Extensions returns each kind's file extension list.
func (o *ResolvedOptions) Extensions() map[assettypes.Kind][]string {
	out := make(map[assettypes.Kind][]string, len(assettypes.Kinds))
	for _, k := range assettypes.Kinds {
		out[k] = o.Kind(k).FileExtensions
	}
	return out
}

// resolver builds ResolvedOptions from RawOptions and discovered config.
type resolver struct {
	explorer  *discovery.Explorer
	searchDir string
}

func (r *resolver) resolve(raw RawOptions) *ResolvedOptions {
	start := time.Now()

	opts := &ResolvedOptions{
		Index:   resolveIndex(raw.Index),
		OnReady: raw.OnReady,
		OnCSS:   raw.OnCSS,
		OnHTML:  raw.OnHTML,
		OnJS:    raw.OnJS,
		Sources: make(map[string]string),
	}

	universal := raw.Config
	if universal == nil && raw.ConfigName != "" {
		universal = r.discover("universal", raw.ConfigName, opts)
	}

	for _, k := range assettypes.Kinds {
		specific := r.discover(assettypes.DiscoveryName(k), assettypes.DiscoveryName(k), opts)
		*opts.Kind(k) = mergeKind(k, section(universal, string(k)), specific, rawSection(raw, k))
	}

	if opts.OnReady != nil {
		opts.OnReady(opts)
	}

	metrics.ConfigResolutionsTotal.Inc()
	metrics.ConfigResolutionDuration.Set(time.Since(start).Seconds())
	logging.Debug("transcode: options resolved in %v (index=%q)", time.Since(start), opts.Index)

	return opts
}

// discover searches for a config and treats absent or malformed files as
// "no config".
func (r *resolver) discover(source, name string, opts *ResolvedOptions) map[string]any {
	res, err := r.explorer.Search(r.searchDir, name)
	if err != nil {
		logging.Warn("transcode: ignoring %s config %q: %v", source, name, err)
		metrics.ConfigParseErrors.WithLabelValues(source).Inc()
		metrics.ConfigSourcesFound.WithLabelValues(source).Set(0)
		return nil
	}
	if res == nil {
		metrics.ConfigSourcesFound.WithLabelValues(source).Set(0)
		return nil
	}

	logging.Debug("transcode: using %s config from %s", source, res.Filepath)
	metrics.ConfigSourcesFound.WithLabelValues(source).Set(1)
	opts.Sources[source] = res.Filepath
	return res.Config
}

// mergeKind shallow-merges the three layers, lowest precedence first.
func mergeKind(k assettypes.Kind, universal, specific, explicit map[string]any) KindOptions {
	merged := make(engines.Options)
	for _, layer := range []map[string]any{universal, specific, explicit} {
		for key, v := range layer {
			merged[key] = v
		}
	}

	// Only an explicit list replaces the defaults
	exts := assettypes.DefaultExtensions(k)
	if v, ok := explicit[assettypes.KeyFileExtensions]; ok && v != nil {
		exts = dedupe(toStringList(v))
	}

	plugins := toList(merged[assettypes.KeyPlugins])

	delete(merged, assettypes.KeyFileExtensions)
	delete(merged, assettypes.KeyPlugins)

	return KindOptions{
		Options:        merged,
		FileExtensions: exts,
		Plugins:        plugins,
	}
}

func resolveIndex(v any) string {
	if v == nil {
		return assettypes.DefaultIndex
	}
	if !engines.Truthy(v) {
		return ""
	}
	return fmt.Sprint(v)
}

func rawSection(raw RawOptions, k assettypes.Kind) map[string]any {
	switch k {
	case assettypes.KindCSS:
		return raw.CSS
	case assettypes.KindHTML:
		return raw.HTML
	case assettypes.KindJS:
		return raw.JS
	}
	return nil
}

// section returns cfg[key] when it is an object.
func section(cfg map[string]any, key string) map[string]any {
	if cfg == nil {
		return nil
	}
	switch s := cfg[key].(type) {
	case map[string]any:
		return s
	case engines.Options:
		return s
	}
	return nil
}

// toList coerces a value to a list: nil is empty, a slice is copied,
// anything else becomes a single element.
func toList(v any) []any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case []any:
		return append([]any{}, t...)
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []engines.Plugin:
		out := make([]any, len(t))
		for i, p := range t {
			out[i] = p
		}
		return out
	default:
		return []any{t}
	}
}

func toStringList(v any) []string {
	items := toList(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
