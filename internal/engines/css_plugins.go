package engines

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// cssLowerPlugin rewrites modern CSS (nesting, newer color syntax) for the
// browsers listed in the "browsers" option, e.g. ["chrome87", "safari14"].
func cssLowerPlugin() Plugin {
	return NewPlugin("esbuild", func(_ context.Context, source string, opts Options) (string, error) {
		return transformCSS("esbuild", source, opts, false)
	})
}

// cssMinifyPlugin minifies the stylesheet.
func cssMinifyPlugin() Plugin {
	return NewPlugin("minify", func(_ context.Context, source string, opts Options) (string, error) {
		return transformCSS("minify", source, opts, true)
	})
}

func transformCSS(plugin, source string, opts Options, minify bool) (string, error) {
	t := api.TransformOptions{
		Loader:           api.LoaderCSS,
		Target:           api.ESNext,
		MinifyWhitespace: minify,
		MinifySyntax:     minify,
	}
	t.Sourcefile, _ = opts.String("from")

	if s, ok := opts.String("target"); ok {
		target, err := parseTarget(s)
		if err != nil {
			return "", err
		}
		t.Target = target
	}

	if v, ok := opts["browsers"]; ok {
		engines, err := parseBrowsers(v)
		if err != nil {
			return "", err
		}
		t.Engines = engines
	}

	res := api.Transform(source, t)
	if len(res.Errors) > 0 {
		return "", messageError("stylesheet", plugin, t.Sourcefile, res.Errors[0])
	}
	return string(res.Code), nil
}

var browserNames = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"ie":      api.EngineIE,
	"ios":     api.EngineIOS,
	"opera":   api.EngineOpera,
	"safari":  api.EngineSafari,
}

var browserPattern = regexp.MustCompile(`^([a-z]+)\s*([0-9][0-9.]*)$`)

// parseBrowsers accepts a string or list of strings such as "chrome87".
func parseBrowsers(v any) ([]api.Engine, error) {
	var entries []string
	switch t := v.(type) {
	case string:
		entries = []string{t}
	case []string:
		entries = t
	case []any:
		for _, e := range t {
			entries = append(entries, fmt.Sprint(e))
		}
	default:
		return nil, fmt.Errorf("stylesheet: browsers must be a string or list, got %T", v)
	}

	out := make([]api.Engine, 0, len(entries))
	for _, e := range entries {
		m := browserPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(e)))
		if m == nil {
			return nil, fmt.Errorf("stylesheet: invalid browser %q", e)
		}
		name, ok := browserNames[m[1]]
		if !ok {
			return nil, fmt.Errorf("stylesheet: unknown browser %q", m[1])
		}
		out = append(out, api.Engine{Name: name, Version: m[2]})
	}
	return out, nil
}
