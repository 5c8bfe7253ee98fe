package discovery

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"
)

// Result is a configuration object found on disk.
type Result struct {
	Config   map[string]any
	Filepath string
}

// ParseError reports a config file that exists but could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("discovery: parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExplorerConfig holds configuration for an Explorer
type ExplorerConfig struct {
	// StopDir ends the upward search after this directory has been checked.
	// Empty means search up to the filesystem root.
	StopDir string
	// CacheSize is the number of search results kept in memory.
	CacheSize int
}

// DefaultExplorerConfig returns the default explorer configuration
func DefaultExplorerConfig() ExplorerConfig {
	return ExplorerConfig{
		CacheSize: 128,
	}
}

// Explorer searches directories for named configuration files.
type Explorer struct {
	stopDir string
	cache   *lru.Cache[string, *Result]
}

// NewExplorer creates an explorer. A non-positive CacheSize disables caching.
func NewExplorer(config ExplorerConfig) *Explorer {
	e := &Explorer{}
	if config.StopDir != "" {
		if abs, err := filepath.Abs(config.StopDir); err == nil {
			e.stopDir = abs
		}
	}
	if config.CacheSize > 0 {
		// lru.New only fails for non-positive sizes
		e.cache, _ = lru.New[string, *Result](config.CacheSize)
	}
	return e
}

// SearchPlaces returns the file names checked in each directory for name,
// in priority order.
func SearchPlaces(name string) []string {
	return []string{
		"package.json",
		"." + name + "rc",
		"." + name + "rc.json",
		"." + name + "rc.yaml",
		"." + name + "rc.yml",
		name + ".config.json",
		name + ".config.yaml",
		name + ".config.yml",
	}
}

// Search looks for a config named name in startDir and each parent directory.
// It returns (nil, nil) when nothing is found. A file that exists but cannot
// be decoded yields a *ParseError.
func (e *Explorer) Search(startDir, name string) (*Result, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	key := dir + "|" + name
	if e.cache != nil {
		if res, ok := e.cache.Get(key); ok {
			return res, nil
		}
	}

	res, err := e.search(dir, name)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Add(key, res)
	}
	return res, nil
}

func (e *Explorer) search(dir, name string) (*Result, error) {
	for {
		for _, place := range SearchPlaces(name) {
			res, err := loadPlace(filepath.Join(dir, place), name)
			if err != nil {
				return nil, err
			}
			if res != nil {
				return res, nil
			}
		}

		if dir == e.stopDir {
			return nil, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Load reads a single config file. Empty files yield (nil, nil).
func (e *Explorer) Load(path string) (*Result, error) {
	return loadPlace(path, "")
}

// ClearCache drops all cached search results.
func (e *Explorer) ClearCache() {
	if e.cache != nil {
		e.cache.Purge()
	}
}

func loadPlace(path, name string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isDirError(path) {
			return nil, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	base := filepath.Base(path)
	if base == "package.json" {
		return loadPackageProp(path, data, name)
	}

	var cfg map[string]any
	switch strings.ToLower(filepath.Ext(base)) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		// rc files without an extension may hold YAML or JSON
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if cfg == nil {
		return nil, &ParseError{Path: path, Err: errors.New("top-level value is not an object")}
	}
	return &Result{Config: cfg, Filepath: path}, nil
}

// loadPackageProp extracts the property called name from a package.json.
func loadPackageProp(path string, data []byte, name string) (*Result, error) {
	if name == "" {
		return nil, nil
	}
	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	raw, ok := pkg[name]
	if !ok {
		return nil, nil
	}
	var cfg map[string]any
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("property %q: %w", name, err)}
	}
	if cfg == nil {
		return nil, nil
	}
	return &Result{Config: cfg, Filepath: path}, nil
}

func isDirError(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
