package transcode

import (
	"net/http"
	"strconv"

	"asset-transcoder/internal/assettypes"
	"asset-transcoder/internal/logging"
)

func writeResponse(w http.ResponseWriter, kind assettypes.Kind, body, modified string) {
	h := w.Header()
	h.Set("Content-Type", assettypes.ContentType(kind))
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set("Last-Modified", modified)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(body)); err != nil {
		logging.Debug("transcode: write response: %v", err)
	}
}

func writeNotModified(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotModified)
}
