// Package discovery finds configuration files by name, searching a start
// directory and each of its parents.
//
// For a name such as "stylesheet" the following files are checked in every
// directory, first hit wins:
//
//	package.json        ("stylesheet" property)
//	.stylesheetrc       (YAML or JSON)
//	.stylesheetrc.json
//	.stylesheetrc.yaml
//	.stylesheetrc.yml
//	stylesheet.config.json
//	stylesheet.config.yaml
//	stylesheet.config.yml
//
// Empty files are skipped. Search results (including "not found") are
// cached per directory and name until ClearCache is called.
package discovery
