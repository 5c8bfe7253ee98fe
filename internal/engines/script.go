package engines

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Script compiles JavaScript with esbuild after running any source plugins.
//
// Recognized options:
//
//	filename   source path used in diagnostics and source maps
//	loader     js (default), jsx, ts, tsx
//	target     es5 ... es2022, esnext (default)
//	format     esm, cjs, iife; empty keeps the input module format
//	jsx        transform (default), preserve, automatic
//	minify     truthy enables whitespace, identifier and syntax minification
//	sourcemap  truthy or "inline" appends an inline source map
type Script struct{}

// Process implements Engine.
func (Script) Process(ctx context.Context, source string, plugins []Plugin, opts Options) (*Result, error) {
	src, err := runPlugins(ctx, source, plugins, opts)
	if err != nil {
		return nil, err
	}

	tOpts, err := scriptTransformOptions(opts)
	if err != nil {
		return nil, err
	}

	res := api.Transform(src, tOpts)
	if len(res.Errors) > 0 {
		return nil, messageError("script", "", tOpts.Sourcefile, res.Errors[0])
	}

	return &Result{Code: string(res.Code), Warnings: messageTexts(res.Warnings)}, nil
}

func scriptTransformOptions(opts Options) (api.TransformOptions, error) {
	t := api.TransformOptions{
		Loader: api.LoaderJS,
		Target: api.ESNext,
	}
	t.Sourcefile, _ = opts.String("filename")

	if s, ok := opts.String("loader"); ok {
		switch strings.ToLower(s) {
		case "js":
			t.Loader = api.LoaderJS
		case "jsx":
			t.Loader = api.LoaderJSX
		case "ts":
			t.Loader = api.LoaderTS
		case "tsx":
			t.Loader = api.LoaderTSX
		default:
			return t, fmt.Errorf("script: unsupported loader %q", s)
		}
	}

	if s, ok := opts.String("target"); ok {
		target, err := parseTarget(s)
		if err != nil {
			return t, err
		}
		t.Target = target
	}

	if s, ok := opts.String("format"); ok {
		switch strings.ToLower(s) {
		case "", "preserve":
			t.Format = api.FormatDefault
		case "esm", "module":
			t.Format = api.FormatESModule
		case "cjs", "commonjs":
			t.Format = api.FormatCommonJS
		case "iife":
			t.Format = api.FormatIIFE
		default:
			return t, fmt.Errorf("script: unsupported format %q", s)
		}
	}

	if s, ok := opts.String("jsx"); ok {
		switch strings.ToLower(s) {
		case "transform":
			t.JSX = api.JSXTransform
		case "preserve":
			t.JSX = api.JSXPreserve
		case "automatic":
			t.JSX = api.JSXAutomatic
		default:
			return t, fmt.Errorf("script: unsupported jsx mode %q", s)
		}
	}

	if opts.Bool("minify") {
		t.MinifyWhitespace = true
		t.MinifyIdentifiers = true
		t.MinifySyntax = true
	}

	if opts.Bool("sourcemap") {
		t.Sourcemap = api.SourceMapInline
	}

	return t, nil
}

var targets = map[string]api.Target{
	"esnext": api.ESNext,
	"es5":    api.ES5,
	"es6":    api.ES2015,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
}

func parseTarget(s string) (api.Target, error) {
	if t, ok := targets[strings.ToLower(s)]; ok {
		return t, nil
	}
	return api.DefaultTarget, fmt.Errorf("unsupported target %q", s)
}

// messageError converts an esbuild diagnostic into an *Error.
func messageError(engine, plugin, file string, msg api.Message) *Error {
	e := &Error{Engine: engine, Plugin: plugin, File: file, Message: msg.Text}
	if loc := msg.Location; loc != nil {
		if loc.File != "" {
			e.File = loc.File
		}
		e.Line = loc.Line
		e.Column = loc.Column
	}
	return e
}

func messageTexts(msgs []api.Message) []string {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}
