package engines

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"asset-transcoder/internal/assettypes"
)

func appendPlugin(name, suffix string) Plugin {
	return NewPlugin(name, func(_ context.Context, source string, _ Options) (string, error) {
		return source + suffix, nil
	})
}

func TestOptionsCloneAndWithout(t *testing.T) {
	opts := Options{"a": 1, "fileExtensions": []string{"css"}, "plugins": []any{}}

	stripped := opts.Without("fileExtensions", "plugins")
	if _, ok := stripped["fileExtensions"]; ok {
		t.Error("Without() kept fileExtensions")
	}
	if stripped["a"] != 1 {
		t.Errorf("Without() dropped a: %v", stripped)
	}
	if _, ok := opts["plugins"]; !ok {
		t.Error("Without() mutated the receiver")
	}
}

func TestOptionsString(t *testing.T) {
	opts := Options{"s": "es2017", "n": 3, "nil": nil}

	if got, ok := opts.String("s"); !ok || got != "es2017" {
		t.Errorf("String(s) = %q, %v", got, ok)
	}
	if got, ok := opts.String("n"); !ok || got != "3" {
		t.Errorf("String(n) = %q, %v", got, ok)
	}
	if _, ok := opts.String("nil"); ok {
		t.Error("String(nil) ok = true, want false")
	}
	if _, ok := opts.String("missing"); ok {
		t.Error("String(missing) ok = true, want false")
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{"", false},
		{"false", false},
		{"inline", true},
		{0, false},
		{1, true},
		{float64(0), false},
		{2.5, true},
		{map[string]any{}, true},
	}

	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestStylesheetRunsPluginsInOrder(t *testing.T) {
	plugins := []Plugin{appendPlugin("one", "/*1*/"), appendPlugin("two", "/*2*/")}

	res, err := Stylesheet{}.Process(context.Background(), "a{}", plugins, Options{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if res.CSS != "a{}/*1*//*2*/" {
		t.Errorf("CSS = %q", res.CSS)
	}
	if res.HTML != "" || res.Code != "" {
		t.Errorf("unexpected fields populated: %+v", res)
	}
}

func TestStylesheetNoPluginsIsIdentity(t *testing.T) {
	src := "body { color: red }\n"
	res, err := Stylesheet{}.Process(context.Background(), src, nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if res.CSS != src {
		t.Errorf("CSS = %q, want %q", res.CSS, src)
	}
}

func TestMarkupPluginError(t *testing.T) {
	boom := errors.New("boom")
	failing := NewPlugin("fail", func(context.Context, string, Options) (string, error) {
		return "", boom
	})

	_, err := Markup{}.Process(context.Background(), "<p>", []Plugin{failing}, nil)
	if !errors.Is(err, boom) {
		t.Errorf("Process() error = %v, want wrapped boom", err)
	}
	if err != nil && !strings.Contains(err.Error(), "plugin fail") {
		t.Errorf("error %q does not name the plugin", err)
	}
}

func TestRunPluginsHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Markup{}.Process(ctx, "<p>", []Plugin{appendPlugin("x", "y")}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Process() error = %v, want context.Canceled", err)
	}
}

func TestScript(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		opts     Options
		contains string
	}{
		{name: "plain", source: "let a = 1", opts: Options{}, contains: "let a = 1;"},
		{name: "jsx loader", source: "const el = <div/>", opts: Options{"loader": "jsx"}, contains: "React.createElement"},
		{name: "typescript", source: "let n: number = 1", opts: Options{"loader": "ts"}, contains: "let n = 1;"},
		{name: "cjs format", source: "export const a = 1", opts: Options{"format": "cjs"}, contains: "module.exports"},
		{name: "sourcemap", source: "let a = 1", opts: Options{"sourcemap": true, "filename": "/site/app.js"}, contains: "sourceMappingURL=data:"},
		{name: "minify", source: "console.log( \"hi\" )", opts: Options{"minify": true}, contains: `console.log("hi")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Script{}.Process(context.Background(), tt.source, nil, tt.opts)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if !strings.Contains(res.Code, tt.contains) {
				t.Errorf("Code = %q, want it to contain %q", res.Code, tt.contains)
			}
		})
	}
}

func TestScriptRunsPluginsBeforeCompiling(t *testing.T) {
	banner := NewPlugin("banner", func(_ context.Context, source string, _ Options) (string, error) {
		return "let banner = 1;\n" + source, nil
	})

	res, err := Script{}.Process(context.Background(), "let a = 2", []Plugin{banner}, Options{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.Contains(res.Code, "let banner = 1;") || !strings.Contains(res.Code, "let a = 2;") {
		t.Errorf("Code = %q", res.Code)
	}
}

func TestScriptSyntaxError(t *testing.T) {
	_, err := Script{}.Process(context.Background(), "let = ;", nil, Options{"filename": "/site/bad.js"})

	var engineErr *Error
	if !errors.As(err, &engineErr) {
		t.Fatalf("Process() error = %v, want *Error", err)
	}
	if engineErr.Engine != "script" {
		t.Errorf("Engine = %q, want script", engineErr.Engine)
	}
	if engineErr.File != "/site/bad.js" {
		t.Errorf("File = %q, want /site/bad.js", engineErr.File)
	}
	if engineErr.Line != 1 {
		t.Errorf("Line = %d, want 1", engineErr.Line)
	}
}

func TestScriptInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "loader", opts: Options{"loader": "coffee"}},
		{name: "target", opts: Options{"target": "es3"}},
		{name: "format", opts: Options{"format": "amd"}},
		{name: "jsx", opts: Options{"jsx": "classic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (Script{}).Process(context.Background(), "1", nil, tt.opts); err == nil {
				t.Error("Process() error = nil, want invalid option error")
			}
		})
	}
}

func TestCSSPlugins(t *testing.T) {
	registry := DefaultRegistry()

	minify, ok := registry.Lookup(assettypes.KindCSS, "minify")
	if !ok {
		t.Fatal("minify plugin not registered")
	}
	out, err := minify.Apply(context.Background(), "a {\n  color: red;\n}\n", Options{"from": "/site/a.css"})
	if err != nil {
		t.Fatalf("minify error = %v", err)
	}
	if !strings.Contains(out, "a{color:red}") {
		t.Errorf("minify output = %q", out)
	}

	lower, ok := registry.Lookup(assettypes.KindCSS, "esbuild")
	if !ok {
		t.Fatal("esbuild plugin not registered")
	}
	out, err = lower.Apply(context.Background(), ".a { .b { color: red } }", Options{"browsers": []any{"chrome80"}})
	if err != nil {
		t.Fatalf("esbuild error = %v", err)
	}
	if !strings.Contains(out, ".a .b") {
		t.Errorf("esbuild output = %q, want nesting lowered", out)
	}
}

func TestParseBrowsers(t *testing.T) {
	got, err := parseBrowsers([]any{"chrome87", "Safari 14.1"})
	if err != nil {
		t.Fatalf("parseBrowsers() error = %v", err)
	}
	if len(got) != 2 || got[1].Version != "14.1" {
		t.Errorf("parseBrowsers() = %+v", got)
	}

	for _, bad := range []any{"netscape4", "chrome", 42} {
		if _, err := parseBrowsers(bad); err == nil {
			t.Errorf("parseBrowsers(%v) error = nil", bad)
		}
	}
}

func TestHTMLPlugins(t *testing.T) {
	registry := DefaultRegistry()

	tests := []struct {
		name   string
		plugin string
		source string
		want   string
	}{
		{
			name:   "strip comments in fragment",
			plugin: "strip-comments",
			source: "<p>a<!-- note --></p>",
			want:   "<p>a</p>",
		},
		{
			name:   "keep conditional comments",
			plugin: "strip-comments",
			source: "<p>a<!--[if IE]>x<![endif]--></p>",
			want:   "<p>a<!--[if IE]>x<![endif]--></p>",
		},
		{
			name:   "strip comments in document",
			plugin: "strip-comments",
			source: "<!DOCTYPE html><html><head></head><body><!-- c --><p>x</p></body></html>",
			want:   "<!DOCTYPE html><html><head></head><body><p>x</p></body></html>",
		},
		{
			name:   "collapse whitespace",
			plugin: "collapse-whitespace",
			source: "<p>a   \n   b</p><pre>x   y</pre>",
			want:   "<p>a b</p><pre>x   y</pre>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := registry.Lookup(assettypes.KindHTML, tt.plugin)
			if !ok {
				t.Fatalf("plugin %q not registered", tt.plugin)
			}
			got, err := p.Apply(context.Background(), tt.source, Options{})
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistryResolve(t *testing.T) {
	registry := DefaultRegistry()
	custom := appendPlugin("custom", "!")

	plugins, err := registry.Resolve(assettypes.KindHTML, []any{"strip-comments", custom})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(plugins) != 2 || plugins[0].Name() != "strip-comments" || plugins[1].Name() != "custom" {
		t.Errorf("Resolve() = %v", plugins)
	}

	if _, err := registry.Resolve(assettypes.KindJS, []any{"minify"}); !errors.Is(err, ErrUnknownPlugin) {
		t.Errorf("Resolve(js minify) error = %v, want ErrUnknownPlugin", err)
	}
	if _, err := registry.Resolve(assettypes.KindCSS, []any{42}); err == nil {
		t.Error("Resolve(42) error = nil, want unsupported type")
	}

	plugins, err = registry.Resolve(assettypes.KindCSS, nil)
	if err != nil || len(plugins) != 0 {
		t.Errorf("Resolve(nil) = %v, %v", plugins, err)
	}
}

func TestRegistryNames(t *testing.T) {
	registry := DefaultRegistry()
	if got := registry.Names(assettypes.KindCSS); !reflect.DeepEqual(got, []string{"esbuild", "minify"}) {
		t.Errorf("Names(css) = %v", got)
	}
	if got := registry.Names(assettypes.KindJS); len(got) != 0 {
		t.Errorf("Names(js) = %v, want none", got)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Engine: "script", Message: "bad"}, "script: bad"},
		{&Error{Engine: "markup", Plugin: "strip-comments", File: "/a.html", Message: "bad"}, "markup/strip-comments: /a.html: bad"},
		{&Error{Engine: "script", File: "/a.js", Line: 2, Column: 5, Message: "bad"}, "script: /a.js:2:5: bad"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
