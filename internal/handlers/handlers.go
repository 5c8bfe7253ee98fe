package handlers

import (
	"sync/atomic"
	"time"

	"asset-transcoder/internal/startup"
	"asset-transcoder/internal/transcode"
)

// Handlers serves the operational endpoints next to the transcoded assets.
type Handlers struct {
	transcoder *transcode.Transcoder
	assetDir   string
	startTime  time.Time
	ready      atomic.Bool
}

func New(t *transcode.Transcoder, config *startup.Config) *Handlers {
	return &Handlers{
		transcoder: t,
		assetDir:   config.AssetDir,
		startTime:  time.Now(),
	}
}

// MarkReady flags the service as ready once the transcoder options have
// been resolved.
func (h *Handlers) MarkReady() {
	h.ready.Store(true)
}

// IsReady reports whether MarkReady has been called.
func (h *Handlers) IsReady() bool {
	return h.ready.Load()
}
