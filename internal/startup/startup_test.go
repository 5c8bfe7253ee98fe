package startup

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("Expected OS and Arch to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_SET_VAR", "custom")
	os.Unsetenv("TEST_UNSET_VAR")

	if got := getEnv("TEST_SET_VAR", "default"); got != "custom" {
		t.Errorf("getEnv(TEST_SET_VAR) = %q, want %q", got, "custom")
	}
	if got := getEnv("TEST_UNSET_VAR", "default"); got != "default" {
		t.Errorf("getEnv(TEST_UNSET_VAR) = %q, want %q", got, "default")
	}
}

// clearConfigEnv unsets every variable LoadConfig reads.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ASSET_DIR", "PORT", "METRICS_PORT", "METRICS_ENABLED", "INDEX", "CONFIG_NAME",
		"LOG_STATIC_FILES", "LOG_HEALTH_CHECKS", "COMPRESSION_ENABLED", "VERBOSE_ERRORS", "ENV_FILE", "TRANSFORM_WORKERS",
	} {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Setenv("ASSET_DIR", dir)
	t.Setenv("ENV_FILE", filepath.Join(dir, "absent.env"))

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.AssetDir != dir {
		t.Errorf("Expected AssetDir=%s, got %s", dir, config.AssetDir)
	}
	if config.Port != "8080" || config.MetricsPort != "9090" {
		t.Errorf("Expected ports 8080/9090, got %s/%s", config.Port, config.MetricsPort)
	}
	if !config.MetricsEnabled || !config.CompressionEnabled || !config.LogStaticFiles {
		t.Errorf("Expected metrics, compression and static logging on: %+v", config)
	}
	if config.Index != nil {
		t.Errorf("Expected default Index nil, got %#v", config.Index)
	}
	if config.ConfigName != "transcode" {
		t.Errorf("Expected ConfigName=transcode, got %s", config.ConfigName)
	}
	if config.EnvFile != "" {
		t.Errorf("Expected no env file, got %s", config.EnvFile)
	}
	if config.TransformWorkers < 1 {
		t.Errorf("Expected at least one transform worker, got %d", config.TransformWorkers)
	}

	raw := config.RawOptions()
	if raw.ConfigName != "transcode" || raw.Index != nil {
		t.Errorf("RawOptions() = %+v", raw)
	}
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "site.env")
	content := "ASSET_DIR=" + dir + "\nINDEX=false\nCONFIG_NAME=sitewide\nTRANSFORM_WORKERS=3\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("ENV_FILE", envFile)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.EnvFile != envFile {
		t.Errorf("Expected EnvFile=%s, got %s", envFile, config.EnvFile)
	}
	if config.Index != false {
		t.Errorf("Expected Index=false, got %#v", config.Index)
	}
	if config.ConfigName != "sitewide" {
		t.Errorf("Expected ConfigName=sitewide, got %s", config.ConfigName)
	}
	if config.TransformWorkers != 3 {
		t.Errorf("Expected TransformWorkers=3, got %d", config.TransformWorkers)
	}
}

func TestLoadConfigRejectsMissingAssetDir(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Setenv("ASSET_DIR", filepath.Join(dir, "nope"))
	t.Setenv("ENV_FILE", filepath.Join(dir, "absent.env"))

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for missing asset directory")
	}
}

func TestGetRoutes(t *testing.T) {
	router := mux.NewRouter()
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	router.HandleFunc("/healthz", noop).Methods("GET", "HEAD").Name("healthz")
	router.PathPrefix("/").Handler(noop).Name("assets")

	routes, err := GetRoutes(router)
	if err != nil {
		t.Fatalf("GetRoutes: %v", err)
	}

	want := []RouteInfo{
		{Method: "GET", Path: "/healthz", Name: "healthz"},
		{Method: "HEAD", Path: "/healthz", Name: "healthz"},
		{Method: "*", Path: "/", Name: "assets"},
	}
	if len(routes) != len(want) {
		t.Fatalf("Expected %d routes, got %d: %+v", len(want), len(routes), routes)
	}
	for i := range want {
		if routes[i] != want[i] {
			t.Errorf("route %d = %+v, want %+v", i, routes[i], want[i])
		}
	}
}
