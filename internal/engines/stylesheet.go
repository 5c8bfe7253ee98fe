package engines

import "context"

// Stylesheet runs CSS source through its plugin chain. With no plugins the
// source is returned unchanged.
type Stylesheet struct{}

// Process implements Engine.
func (Stylesheet) Process(ctx context.Context, source string, plugins []Plugin, opts Options) (*Result, error) {
	out, err := runPlugins(ctx, source, plugins, opts)
	if err != nil {
		return nil, err
	}
	return &Result{CSS: out}, nil
}
