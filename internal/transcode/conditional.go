package transcode

import (
	"net/http"
	"time"
)

// lastModified formats a modification time the way it is sent in the
// Last-Modified header.
func lastModified(mtime time.Time) string {
	return mtime.UTC().Format(http.TimeFormat)
}

// notModified reports whether the client's If-Modified-Since value is the
// exact Last-Modified string for the file. Any other value, including a
// later date, is a miss.
func notModified(ifModifiedSince, lastModified string) bool {
	return ifModifiedSince != "" && ifModifiedSince == lastModified
}
