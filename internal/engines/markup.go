package engines

import "context"

// Markup runs HTML source through its plugin chain. With no plugins the
// source is returned unchanged.
type Markup struct{}

// Process implements Engine.
func (Markup) Process(ctx context.Context, source string, plugins []Plugin, opts Options) (*Result, error) {
	out, err := runPlugins(ctx, source, plugins, opts)
	if err != nil {
		return nil, err
	}
	return &Result{HTML: out}, nil
}
