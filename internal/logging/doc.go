// Package logging provides a simple leveled logging interface for the
// asset transcoder.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (pass-through decisions, config sources)
//   - INFO: General operational messages
//   - WARN: Warning conditions (malformed config files)
//   - ERROR: Error conditions (failed transformations)
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the DEBUG or LOG_LEVEL environment
// variables and may be overridden at runtime with SetLevel.
package logging
