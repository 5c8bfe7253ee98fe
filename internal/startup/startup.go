package startup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"asset-transcoder/internal/assettypes"
	"asset-transcoder/internal/logging"
	"asset-transcoder/internal/transcode"
	"asset-transcoder/internal/workers"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	AssetDir           string
	Port               string
	MetricsPort        string
	MetricsEnabled     bool
	LogStaticFiles     bool
	LogHealthChecks    bool
	CompressionEnabled bool
	VerboseErrors      bool
	// TransformWorkers bounds concurrent transforms.
	TransformWorkers int

	// Index is passed to transcode.RawOptions.Index: nil for the default,
	// false to disable the fallback, or a file name.
	Index any
	// ConfigName is the universal config name searched for by the transcoder.
	ConfigName string
	// EnvFile is the dotenv file that was loaded, if any.
	EnvFile string
}

// RawOptions returns the transcoder options described by the config.
func (c *Config) RawOptions() transcode.RawOptions {
	return transcode.RawOptions{
		Index:      c.Index,
		ConfigName: c.ConfigName,
	}
}

// LoadConfig loads configuration from the environment, after applying an
// optional dotenv file named by ENV_FILE (default .env).
func LoadConfig() (*Config, error) {
	envFile, envErr := loadEnvFile(getEnv("ENV_FILE", ".env"))

	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	if envErr != nil {
		return nil, envErr
	}
	if envFile != "" {
		logging.Info("  Loaded environment from %s", envFile)
	}

	assetDir := getEnv("ASSET_DIR", ".")
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	indexSetting, indexSet := os.LookupEnv("INDEX")
	configName := getEnv("CONFIG_NAME", "transcode")
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", true)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	compressionEnabled := getEnvBool("COMPRESSION_ENABLED", true)
	verboseErrors := getEnvBool("VERBOSE_ERRORS", false)
	transformWorkers := workers.ForCPU(0)

	index := parseIndex(indexSetting, indexSet)

	logging.Info("  ASSET_DIR:           %s", assetDir)
	logging.Info("  PORT:                %s", port)
	logging.Info("  METRICS_PORT:        %s", metricsPort)
	logging.Info("  METRICS_ENABLED:     %v", metricsEnabled)
	logging.Info("  INDEX:               %s", describeIndex(index))
	logging.Info("  CONFIG_NAME:         %s", configName)
	logging.Info("  COMPRESSION_ENABLED: %v", compressionEnabled)
	logging.Info("  VERBOSE_ERRORS:      %v", verboseErrors)
	logging.Info("  TRANSFORM_WORKERS:   %d", transformWorkers)
	logging.Info("  LOG_STATIC_FILES:    %v", logStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", logHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	assetDir, err := filepath.Abs(assetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve asset directory path: %w", err)
	}
	logging.Info("  Asset directory (absolute): %s", assetDir)

	if err := checkDirectory(assetDir); err != nil {
		return nil, fmt.Errorf("asset directory error: %w", err)
	}

	return &Config{
		AssetDir:           assetDir,
		Port:               port,
		MetricsPort:        metricsPort,
		MetricsEnabled:     metricsEnabled,
		LogStaticFiles:     logStaticFiles,
		LogHealthChecks:    logHealthChecks,
		CompressionEnabled: compressionEnabled,
		VerboseErrors:      verboseErrors,
		TransformWorkers:   transformWorkers,
		Index:              index,
		ConfigName:         configName,
		EnvFile:            envFile,
	}, nil
}

// loadEnvFile applies path with godotenv. Variables already set in the
// environment win. A missing file is not an error.
func loadEnvFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return path, nil
}

// parseIndex maps the INDEX variable onto RawOptions.Index.
func parseIndex(value string, set bool) any {
	if !set {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "off", "no", "0":
		return false
	}
	return value
}

func describeIndex(index any) string {
	switch v := index.(type) {
	case nil:
		return assettypes.DefaultIndex + " (default)"
	case bool:
		return "disabled"
	default:
		return fmt.Sprint(v)
	}
}

// LogTranscoderInit logs the resolved transcoder options
func LogTranscoderInit(opts *transcode.ResolvedOptions, duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("TRANSCODER INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Options resolved in %v", duration)

	for _, k := range assettypes.Kinds {
		ko := opts.Kind(k)
		logging.Info("  %-5s extensions: %s", k, strings.Join(ko.FileExtensions, ", "))
		if len(ko.Plugins) > 0 {
			logging.Info("        plugins:    %d configured", len(ko.Plugins))
		}
	}

	if opts.IndexEnabled() {
		logging.Info("  Index fallback:   %s", opts.Index)
	} else {
		logging.Info("  Index fallback:   DISABLED")
	}

	if len(opts.Sources) == 0 {
		logging.Info("  Config files:     none found")
		return
	}
	sources := make([]string, 0, len(opts.Sources))
	for source := range opts.Sources {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	for _, source := range sources {
		logging.Info("  Config (%s): %s", source, opts.Sources[source])
	}
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// No method matcher, e.g. the asset catch-all
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path != routes[j].Path {
				return routes[i].Path < routes[j].Path
			}
			return routes[i].Method < routes[j].Method
		})

		logging.Debug("  Registered routes (%d total):", len(routes))
		for _, route := range routes {
			name := route.Name
			if name == "" {
				name = "-"
			}
			logging.Debug("    %-6s %-20s %s", route.Method, route.Path, name)
		}
		logging.Debug("")
	}

	logging.Info("  HTTP logging enabled")
	if logStaticFiles {
		logging.Info("    Static file logging: ON")
	} else {
		logging.Info("    Static file logging: OFF (set LOG_STATIC_FILES=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Assets:        http://0.0.0.0:%s/", config.Port)
	logging.Info("    Health:        http://0.0.0.0:%s/healthz", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	banner := `
------------------------------------------------------------
    ___                    __     ______                                __
   /   |  _____________  _/ /_   /_  __/______ ____  ___________  ____/ /__  _____
  / /| | / ___/ ___/ _ \/ __/     / / / ___/ __ '/ __ \/ ___/ __ \/ __  / _ \/ ___/
 / ___ |(__  |__  )  __/ /_      / / / /  / /_/ / / / (__  ) /_/ / /_/ /  __/ /
/_/  |_/____/____/\___/\__/     /_/ /_/   \__,_/_/ /_/____/\____/\__,_/\___/_/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

// checkDirectory verifies that path is an existing directory and logs a
// summary of the assets it holds at the top level.
func checkDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", path)
	}
	logging.Info("  [OK] Directory exists")

	if logging.IsDebugEnabled() {
		entries, err := os.ReadDir(path)
		if err == nil {
			counts := make(map[assettypes.Kind]int)
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				ext := strings.TrimPrefix(filepath.Ext(e.Name()), ".")
				for _, k := range assettypes.Kinds {
					for _, d := range assettypes.DefaultExtensions(k) {
						if d == ext {
							counts[k]++
						}
					}
				}
			}
			logging.Debug("    Top level: %d css, %d js, %d html of %d entries",
				counts[assettypes.KindCSS], counts[assettypes.KindJS], counts[assettypes.KindHTML], len(entries))
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
