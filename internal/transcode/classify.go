package transcode

import (
	"path"
	"path/filepath"
	"strings"

	"asset-transcoder/internal/assettypes"
)

// Pass-through reasons, used as metric labels.
const (
	passMethod    = "method"
	passExtension = "extension"
	passNoIndex   = "index_missing"
)

// target is a classified request: the file to serve and its kind.
type target struct {
	fullpath string
	kind     assettypes.Kind
}

// resolvePath joins dir and the URL path. The URL path is cleaned as a
// rooted path first so ".." segments cannot climb above dir.
func resolvePath(dir, urlPath string) string {
	cleaned := path.Clean("/" + urlPath)
	full, err := filepath.Abs(dir + filepath.FromSlash(cleaned))
	if err != nil {
		return filepath.Clean(dir + filepath.FromSlash(cleaned))
	}
	return full
}

// extension returns the file extension of p without the leading dot.
func extension(p string) string {
	return strings.TrimPrefix(filepath.Ext(p), ".")
}

// isGet reports whether method is GET, ignoring case.
func isGet(method string) bool {
	return strings.EqualFold(method, "GET")
}

// classify determines what to serve for urlPath. It returns an empty reason
// on success, or the pass-through reason when the request is not handled.
func (t *Transcoder) classify(opts *ResolvedOptions, urlPath string) (target, string) {
	fullpath := resolvePath(t.dir, urlPath)

	kind := assettypes.Classify(extension(fullpath), opts.Extensions())
	if kind != assettypes.KindNone {
		return target{fullpath: fullpath, kind: kind}, ""
	}

	if !opts.IndexEnabled() {
		return target{}, passExtension
	}

	candidate := opts.Index
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(fullpath, candidate)
	}
	if _, err := t.config.FS.Stat(candidate); err != nil {
		return target{}, passNoIndex
	}
	return target{fullpath: candidate, kind: assettypes.KindHTML}, ""
}
