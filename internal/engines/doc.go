// Package engines contains the transformers the transcoder dispatches to:
// a stylesheet engine, a markup engine and a script compiler.
//
// Each Engine takes source text, an ordered plugin list and an Options
// object, and returns a Result whose CSS, HTML or Code field holds the
// output. Plugins are named in configuration files; a Registry maps those
// names to implementations per asset kind.
//
// Built-in plugins:
//
//	css:  esbuild              lower modern syntax for "browsers"
//	css:  minify               minify with esbuild
//	html: strip-comments       drop comments (conditional comments kept)
//	html: collapse-whitespace  collapse text whitespace outside pre/script/style
//
// The Script engine always compiles with esbuild; see Script for options.
package engines
