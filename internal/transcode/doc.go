// Package transcode implements the request-time asset transcoding
// middleware.
//
// A Transcoder wraps another http.Handler. For GET requests it maps the URL
// path onto its base directory and classifies the file by extension as a
// stylesheet, script or markup document, falling back to an index file for
// paths that match no kind. Matching files are stat'ed, answered with 304
// when the If-Modified-Since header equals the file's Last-Modified value,
// and otherwise read, run through the kind's engine (or a caller-supplied
// Transformer) and written with Content-Type, Content-Length and
// Last-Modified headers.
//
// Everything else, including non-GET requests, goes to the wrapped handler
// untouched. Stat, read and transform failures are passed to the
// configured ErrorHandler.
//
// # Options
//
// Per-kind options are merged once, lowest precedence first, from the
// "css", "html" and "js" sections of a universal config, the kind's own
// config file (stylesheet, markup or script) and the explicit RawOptions.
// The merge is shallow. Malformed config files are logged and ignored.
package transcode
