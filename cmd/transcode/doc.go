// Command transcode renders assets from the command line using the same
// configuration resolution and transformers as the HTTP server.
//
// Usage:
//
//	transcode <command> [arguments]
//
// Commands:
//
//	render <dir> <path>  Transform the asset a GET of <path> against <dir>
//	                     would serve and write the body to stdout. When
//	                     stdout is a terminal a header line naming the
//	                     source file precedes the body.
//
//	config <dir>         Print the resolved options for <dir> as YAML,
//	                     including the config files that contributed.
//
// Environment:
//
//	TRANSCODE_CONFIG_NAME - Universal config name (default: transcode)
//	LOG_LEVEL             - Log level (default: warn)
//
// Exit status is 1 when the path is not a transcoded asset or the
// transform fails.
package main
