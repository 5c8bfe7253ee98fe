package transcode

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"asset-transcoder/internal/assettypes"
	"asset-transcoder/internal/logging"
)

// ProcessError reports a failed transform.
type ProcessError struct {
	Kind     assettypes.Kind
	Path     string
	Override bool
	Err      error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("transcode %s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// ErrorHandler receives every error the middleware does not handle itself.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// StatusCode maps a pipeline error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// DefaultErrorHandler logs err and writes a plain status response.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		logging.Error("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		logging.Debug("%s %s: %v", r.Method, r.URL.Path, err)
	}
	http.Error(w, http.StatusText(status), status)
}

// VerboseErrorHandler is DefaultErrorHandler with the error text in the
// response body. Only for development servers.
func VerboseErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	logging.Error("%s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, fmt.Sprintf("%s\n\n%v", http.StatusText(status), err), status)
}
