package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-transcoder/internal/filesystem"
	"asset-transcoder/internal/handlers"
	"asset-transcoder/internal/logging"
	"asset-transcoder/internal/memory"
	"asset-transcoder/internal/metrics"
	"asset-transcoder/internal/middleware"
	"asset-transcoder/internal/startup"
	"asset-transcoder/internal/transcode"
	"asset-transcoder/internal/workers"

	"github.com/gorilla/mux"
)

const shutdownTimeout = 30 * time.Second

func main() {
	startTime := time.Now()
	memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	if config.MetricsEnabled {
		metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
		metrics.InitializeMetrics()
		filesystem.SetObserver(metrics.NewFilesystemObserver())
	}

	tr := transcode.NewWithConfig(config.AssetDir, config.RawOptions(), transcoderConfig(config))
	h := handlers.New(tr, config)

	// Resolve eagerly so config problems show up in the startup log rather
	// than on the first request.
	resolveStart := time.Now()
	opts := tr.Resolved()
	startup.LogTranscoderInit(opts, time.Since(resolveStart))
	h.MarkReady()

	router := setupRouter(h, tr, config.AssetDir)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	srv := newServer(config.Port, wrapMiddleware(router, config))

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = newMetricsServer(config.MetricsPort, h.MetricsHandler())
		go func() {
			if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	done := make(chan struct{})
	go handleShutdown(srv, metricsSrv, done)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
	<-done
}

func transcoderConfig(config *startup.Config) transcode.Config {
	tc := transcode.DefaultConfig()
	tc.Limiter = workers.NewLimiter(config.TransformWorkers)
	if config.VerboseErrors {
		tc.ErrorHandler = transcode.VerboseErrorHandler
	}
	return tc
}

func setupRouter(h *handlers.Handlers, tr *transcode.Transcoder, assetDir string) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET").Name("health")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET").Name("healthz")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD").Name("livez")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET").Name("readyz")
	r.HandleFunc("/version", h.GetVersion).Methods("GET").Name("version")

	// Everything else: transcoded assets, then plain files
	r.PathPrefix("/").Handler(tr.Middleware(http.FileServer(http.Dir(assetDir)))).Name("assets")

	return r
}

// wrapMiddleware applies, outermost first: compression, access log, metrics.
func wrapMiddleware(router http.Handler, config *startup.Config) http.Handler {
	handler := router

	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggingConfig.ServiceName = "AssetTranscoder/" + startup.Version
	handler = middleware.Logger(loggingConfig)(handler)

	if config.CompressionEnabled {
		handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)
	}

	return handler
}

func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func newMetricsServer(port string, handler http.Handler) *http.Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", handler)
	return &http.Server{
		Addr:              ":" + port,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}

func handleShutdown(srv, metricsSrv *http.Server, done chan<- struct{}) {
	defer close(done)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
