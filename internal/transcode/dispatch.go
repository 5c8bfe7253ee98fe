package transcode

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"asset-transcoder/internal/assettypes"
	"asset-transcoder/internal/engines"
	"asset-transcoder/internal/metrics"
)

// Transformer replaces the built-in processing for one asset kind.
type Transformer interface {
	Transform(ctx context.Context, req *Request) (string, error)
}

// TransformerFunc adapts a function to Transformer.
type TransformerFunc func(ctx context.Context, req *Request) (string, error)

// Transform calls f(ctx, req).
func (f TransformerFunc) Transform(ctx context.Context, req *Request) (string, error) {
	return f(ctx, req)
}

// Request describes one asset being transformed. Overrides receive it and
// may delegate back to the built-in processing through the Default methods.
type Request struct {
	Kind     assettypes.Kind
	Fullpath string
	Source   string
	Options  *ResolvedOptions

	// HTTP is the originating request; nil when rendering outside a server.
	HTTP *http.Request

	engines  engines.Set
	registry *engines.Registry
}

// DefaultOnCSS runs the built-in stylesheet processing on the source.
func (r *Request) DefaultOnCSS(ctx context.Context) (string, error) {
	return r.process(ctx, assettypes.KindCSS)
}

// DefaultOnHTML runs the built-in markup processing on the source.
func (r *Request) DefaultOnHTML(ctx context.Context) (string, error) {
	return r.process(ctx, assettypes.KindHTML)
}

// DefaultOnJS runs the built-in script processing on the source.
func (r *Request) DefaultOnJS(ctx context.Context) (string, error) {
	return r.process(ctx, assettypes.KindJS)
}

// Default runs the built-in processing for the request's own kind.
func (r *Request) Default(ctx context.Context) (string, error) {
	return r.process(ctx, r.Kind)
}

// ProcessOptions returns the options handed to the engine for kind: a copy
// of the merged options with the path key set and dispatcher keys removed.
func (r *Request) ProcessOptions(kind assettypes.Kind) engines.Options {
	ko := r.Options.Kind(kind)
	if ko == nil {
		return engines.Options{}
	}
	opts := ko.Options.Without(assettypes.StripKeys(kind)...)
	opts[assettypes.PathKey(kind)] = r.Fullpath
	return opts
}

func (r *Request) process(ctx context.Context, kind assettypes.Kind) (string, error) {
	entry, ok := kindTable[kind]
	if !ok {
		return "", fmt.Errorf("no processor for kind %q", kind)
	}

	plugins, err := r.registry.Resolve(kind, entry.options(r.Options).Plugins)
	if err != nil {
		return "", err
	}

	engine := entry.engine(r.engines)
	if engine == nil {
		return "", fmt.Errorf("no engine configured for kind %q", kind)
	}

	res, err := engine.Process(ctx, r.Source, plugins, r.ProcessOptions(kind))
	if err != nil {
		return "", err
	}
	return entry.output(res), nil
}

// dispatch produces the output buffer for req, preferring the kind's
// override when one is configured.
func dispatch(ctx context.Context, req *Request) (string, error) {
	entry, ok := kindTable[req.Kind]
	if !ok {
		return "", &ProcessError{Kind: req.Kind, Path: req.Fullpath, Err: fmt.Errorf("unknown kind")}
	}

	source := "default"
	run := req.Default
	override := entry.override(req.Options)
	if override != nil {
		source = "override"
		run = func(ctx context.Context) (string, error) {
			return override.Transform(ctx, req)
		}
	}

	start := time.Now()
	out, err := run(ctx)
	metrics.TransformDuration.WithLabelValues(string(req.Kind), source).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", &ProcessError{Kind: req.Kind, Path: req.Fullpath, Override: override != nil, Err: err}
	}

	metrics.TransformOutputBytes.WithLabelValues(string(req.Kind)).Observe(float64(len(out)))
	return out, nil
}
