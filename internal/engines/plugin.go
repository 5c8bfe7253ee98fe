package engines

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"asset-transcoder/internal/assettypes"
)

// ErrUnknownPlugin is returned when a plugin list names a plugin that has not
// been registered for the kind.
var ErrUnknownPlugin = errors.New("unknown plugin")

// Plugin is one step of a transformer's plugin chain.
type Plugin interface {
	Name() string
	Apply(ctx context.Context, source string, opts Options) (string, error)
}

type funcPlugin struct {
	name string
	fn   func(ctx context.Context, source string, opts Options) (string, error)
}

func (p funcPlugin) Name() string { return p.name }

func (p funcPlugin) Apply(ctx context.Context, source string, opts Options) (string, error) {
	return p.fn(ctx, source, opts)
}

// NewPlugin wraps fn as a named Plugin.
func NewPlugin(name string, fn func(ctx context.Context, source string, opts Options) (string, error)) Plugin {
	return funcPlugin{name: name, fn: fn}
}

// Registry maps plugin names to implementations per asset kind. Config files
// refer to plugins by name; the registry turns those names into Plugins.
type Registry struct {
	mu      sync.RWMutex
	plugins map[assettypes.Kind]map[string]Plugin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[assettypes.Kind]map[string]Plugin)}
}

// DefaultRegistry creates a registry holding the built-in plugins.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(assettypes.KindCSS, cssLowerPlugin())
	r.Register(assettypes.KindCSS, cssMinifyPlugin())
	r.Register(assettypes.KindHTML, stripCommentsPlugin())
	r.Register(assettypes.KindHTML, collapseWhitespacePlugin())
	return r
}

// Register adds p under its name for kind, replacing any existing entry.
func (r *Registry) Register(kind assettypes.Kind, p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.plugins[kind] == nil {
		r.plugins[kind] = make(map[string]Plugin)
	}
	r.plugins[kind][p.Name()] = p
}

// Lookup returns the plugin registered under name for kind.
func (r *Registry) Lookup(kind assettypes.Kind, name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[kind][name]
	return p, ok
}

// Names returns the sorted plugin names registered for kind.
func (r *Registry) Names(kind assettypes.Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.plugins[kind]))
	for name := range r.plugins[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve converts a plugin list into Plugins. Entries may be Plugin values
// or names registered for kind.
func (r *Registry) Resolve(kind assettypes.Kind, entries []any) ([]Plugin, error) {
	plugins := make([]Plugin, 0, len(entries))
	for i, entry := range entries {
		switch e := entry.(type) {
		case Plugin:
			plugins = append(plugins, e)
		case string:
			p, ok := r.Lookup(kind, e)
			if !ok {
				return nil, fmt.Errorf("%s plugin %q: %w", kind, e, ErrUnknownPlugin)
			}
			plugins = append(plugins, p)
		default:
			return nil, fmt.Errorf("%s plugin entry %d: unsupported type %T", kind, i, entry)
		}
	}
	return plugins, nil
}
