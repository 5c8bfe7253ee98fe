package handlers

import (
	"encoding/json"
	"net/http"

	"asset-transcoder/internal/logging"
)

// writeJSON encodes v as JSON. Errors are logged since the status line has
// already been sent.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONStatus writes {"status": status}. The caller sets the headers.
func writeJSONStatus(w http.ResponseWriter, status string) {
	writeJSON(w, map[string]string{"status": status})
}
