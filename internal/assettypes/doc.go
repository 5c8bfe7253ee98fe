// Package assettypes holds the static table describing each asset kind the
// transcoder understands: stylesheets, scripts and markup.
//
// This package is a dependency-free leaf so both the transformation engines
// and the HTTP core can import it without cycles.
//
// # Kinds
//
//	assettypes.KindCSS  // text/css, default extensions css, pcss
//	assettypes.KindJS   // application/javascript, default extensions js, mjs
//	assettypes.KindHTML // text/html, default extensions html, phtml
//	assettypes.KindNone // not transcoded
//
// # Classification
//
// Classify tests an extension (without the leading dot) against per-kind
// lists in the fixed order CSS, JS, HTML:
//
//	kind := assettypes.Classify("pcss", map[assettypes.Kind][]string{
//	    assettypes.KindCSS: assettypes.DefaultExtensions(assettypes.KindCSS),
//	})
//
// Overlapping lists are a configuration error; the first kind in order wins.
package assettypes
