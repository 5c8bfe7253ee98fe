package engines

import (
	"context"
	"fmt"
)

// Result is what a transformer produces. Only the field matching the engine's
// kind is populated: CSS for stylesheets, HTML for markup, Code for scripts.
type Result struct {
	CSS  string
	HTML string
	Code string
	// Warnings are non-fatal diagnostics reported by the engine.
	Warnings []string
}

// Engine transforms source text through a plugin list.
type Engine interface {
	Process(ctx context.Context, source string, plugins []Plugin, opts Options) (*Result, error)
}

// Error is a diagnostic raised by an engine or plugin for a specific source.
type Error struct {
	Engine  string
	Plugin  string
	File    string
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	where := e.Engine
	if e.Plugin != "" {
		where += "/" + e.Plugin
	}
	if e.File == "" {
		return fmt.Sprintf("%s: %s", where, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s:%d:%d: %s", where, e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", where, e.File, e.Message)
}

// runPlugins applies plugins in order, feeding each the previous output.
func runPlugins(ctx context.Context, source string, plugins []Plugin, opts Options) (string, error) {
	out := source
	for _, p := range plugins {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		next, err := p.Apply(ctx, out, opts)
		if err != nil {
			return "", fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		out = next
	}
	return out, nil
}

// Set bundles the three engines used by the transcoder.
type Set struct {
	CSS  Engine
	HTML Engine
	JS   Engine
}

// DefaultSet returns the built-in engines.
func DefaultSet() Set {
	return Set{
		CSS:  Stylesheet{},
		HTML: Markup{},
		JS:   Script{},
	}
}
