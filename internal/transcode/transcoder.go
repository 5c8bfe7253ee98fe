package transcode

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"asset-transcoder/internal/assettypes"
	"asset-transcoder/internal/discovery"
	"asset-transcoder/internal/engines"
	"asset-transcoder/internal/filesystem"
	"asset-transcoder/internal/logging"
	"asset-transcoder/internal/metrics"
	"asset-transcoder/internal/workers"
)

// ErrNotHandled is returned by Render when the path is not a transcodable
// asset and would be passed to the next handler.
var ErrNotHandled = errors.New("not handled")

// Config holds the collaborators of a Transcoder. Zero fields are filled
// from DefaultConfig.
type Config struct {
	FS       filesystem.FS
	Explorer *discovery.Explorer
	// SearchDir is where config discovery starts. Defaults to the
	// transcoder's base directory.
	SearchDir    string
	Engines      engines.Set
	Registry     *engines.Registry
	ErrorHandler ErrorHandler
	// Limiter bounds concurrent transforms. Nil means unbounded.
	Limiter *workers.Limiter
}

// DefaultConfig returns the production collaborators.
func DefaultConfig() Config {
	return Config{
		FS:           filesystem.NewOS(),
		Explorer:     discovery.NewExplorer(discovery.DefaultExplorerConfig()),
		Engines:      engines.DefaultSet(),
		Registry:     engines.DefaultRegistry(),
		ErrorHandler: DefaultErrorHandler,
	}
}

// Transcoder serves transformed stylesheets, scripts and markup from a
// base directory.
type Transcoder struct {
	dir      string
	config   Config
	resolved func() *ResolvedOptions
}

// New creates a Transcoder for dir with the default collaborators.
func New(dir string, raw RawOptions) *Transcoder {
	return NewWithConfig(dir, raw, Config{})
}

// NewWithConfig creates a Transcoder for dir. Options are resolved lazily,
// once, on first use.
func NewWithConfig(dir string, raw RawOptions, config Config) *Transcoder {
	defaults := DefaultConfig()
	if config.FS == nil {
		config.FS = defaults.FS
	}
	if config.Explorer == nil {
		config.Explorer = defaults.Explorer
	}
	if config.SearchDir == "" {
		config.SearchDir = dir
	}
	if config.Engines.CSS == nil {
		config.Engines.CSS = defaults.Engines.CSS
	}
	if config.Engines.HTML == nil {
		config.Engines.HTML = defaults.Engines.HTML
	}
	if config.Engines.JS == nil {
		config.Engines.JS = defaults.Engines.JS
	}
	if config.Registry == nil {
		config.Registry = defaults.Registry
	}
	if config.ErrorHandler == nil {
		config.ErrorHandler = defaults.ErrorHandler
	}

	r := &resolver{explorer: config.Explorer, searchDir: config.SearchDir}
	return &Transcoder{
		dir:    dir,
		config: config,
		resolved: sync.OnceValue(func() *ResolvedOptions {
			return r.resolve(raw)
		}),
	}
}

// Resolved returns the resolved options, resolving them on the first call.
// Concurrent first callers share a single resolution.
func (t *Transcoder) Resolved() *ResolvedOptions {
	return t.resolved()
}

// Dir returns the base directory.
func (t *Transcoder) Dir() string {
	return t.dir
}

// Middleware serves transcodable assets and hands every other request to
// next unchanged. Stat, read and transform failures go to the configured
// ErrorHandler.
func (t *Transcoder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handled, err := t.serve(w, r)
		if err != nil {
			t.config.ErrorHandler(w, r, err)
			return
		}
		if !handled {
			next.ServeHTTP(w, r)
		}
	})
}

// Handler serves assets and answers everything else with 404.
func (t *Transcoder) Handler() http.Handler {
	return t.Middleware(http.NotFoundHandler())
}

func (t *Transcoder) serve(w http.ResponseWriter, r *http.Request) (bool, error) {
	if !isGet(r.Method) {
		return t.pass(r, passMethod), nil
	}

	opts := t.Resolved()
	tgt, reason := t.classify(opts, r.URL.Path)
	if reason != "" {
		return t.pass(r, reason), nil
	}

	info, err := t.config.FS.Stat(tgt.fullpath)
	if err != nil {
		metrics.TranscodeRequestsTotal.WithLabelValues(string(tgt.kind), "error").Inc()
		return true, err
	}

	modified := lastModified(info.ModTime())
	if notModified(r.Header.Get("If-Modified-Since"), modified) {
		writeNotModified(w)
		metrics.TranscodeRequestsTotal.WithLabelValues(string(tgt.kind), "not_modified").Inc()
		return true, nil
	}

	body, err := t.transform(r.Context(), opts, tgt, r)
	if err != nil {
		metrics.TranscodeRequestsTotal.WithLabelValues(string(tgt.kind), "error").Inc()
		return true, err
	}

	writeResponse(w, tgt.kind, body, modified)
	metrics.TranscodeRequestsTotal.WithLabelValues(string(tgt.kind), "transformed").Inc()
	return true, nil
}

func (t *Transcoder) pass(r *http.Request, reason string) bool {
	logging.Debug("transcode: passing %s %s (%s)", r.Method, r.URL.Path, reason)
	metrics.TranscodePassThroughTotal.WithLabelValues(reason).Inc()
	return false
}

func (t *Transcoder) transform(ctx context.Context, opts *ResolvedOptions, tgt target, r *http.Request) (string, error) {
	data, err := t.config.FS.ReadFile(tgt.fullpath)
	if err != nil {
		return "", err
	}

	req := &Request{
		Kind:     tgt.kind,
		Fullpath: tgt.fullpath,
		Source:   string(data),
		Options:  opts,
		HTTP:     r,
		engines:  t.config.Engines,
		registry: t.config.Registry,
	}

	var body string
	err = t.config.Limiter.Do(ctx, func() error {
		var derr error
		body, derr = dispatch(ctx, req)
		return derr
	})
	return body, err
}

// Output is a rendered asset.
type Output struct {
	Kind         assettypes.Kind
	Fullpath     string
	ContentType  string
	LastModified string
	Body         string
}

// Render transforms the asset a GET of urlPath would serve, without the
// conditional-GET check. It returns ErrNotHandled when the path would be
// passed through.
func (t *Transcoder) Render(ctx context.Context, urlPath string) (*Output, error) {
	opts := t.Resolved()
	tgt, reason := t.classify(opts, urlPath)
	if reason != "" {
		return nil, ErrNotHandled
	}

	info, err := t.config.FS.Stat(tgt.fullpath)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := t.transform(ctx, opts, tgt, nil)
	if err != nil {
		return nil, err
	}
	logging.Debug("transcode: rendered %s in %v", tgt.fullpath, time.Since(start))

	return &Output{
		Kind:         tgt.kind,
		Fullpath:     tgt.fullpath,
		ContentType:  assettypes.ContentType(tgt.kind),
		LastModified: lastModified(info.ModTime()),
		Body:         body,
	}, nil
}
