package handlers

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"asset-transcoder/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status        string `json:"status"`
	Ready         bool   `json:"ready"`
	Version       string `json:"version"`
	Uptime        string `json:"uptime"`
	AssetDir      string `json:"assetDir"`
	AssetDirError string `json:"assetDirError,omitempty"`

	// Resolved transcoder options, present once ready
	Index         string              `json:"index,omitempty"`
	Extensions    map[string][]string `json:"extensions,omitempty"`
	ConfigSources map[string]string   `json:"configSources,omitempty"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// checkAssetDir returns a description of why the asset directory cannot be
// served, or "" when it is fine.
func (h *Handlers) checkAssetDir() string {
	info, err := os.Stat(h.assetDir)
	if err != nil {
		return err.Error()
	}
	if !info.IsDir() {
		return fmt.Sprintf("%s is not a directory", h.assetDir)
	}
	return ""
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	ready := h.IsReady()

	response := HealthResponse{
		Status:       statusStarting,
		Ready:        ready,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		AssetDir:     h.assetDir,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if ready {
		response.Status = statusHealthy

		opts := h.transcoder.Resolved()
		response.Index = opts.Index
		response.ConfigSources = opts.Sources
		response.Extensions = make(map[string][]string)
		for kind, exts := range opts.Extensions() {
			response.Extensions[string(kind)] = exts
		}
	}

	if msg := h.checkAssetDir(); msg != "" {
		response.AssetDirError = msg
		response.Status = statusDegraded
	}

	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSONStatus(w, "alive")
	}
}

// ReadinessCheck returns 200 only when options are resolved and the asset
// directory is reachable
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.IsReady() && h.checkAssetDir() == "" {
		w.WriteHeader(http.StatusOK)
		writeJSONStatus(w, "ready")
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	writeJSONStatus(w, "not_ready")
}
