package assettypes

// Kind represents the category of a transcodable asset.
type Kind string

const (
	// KindCSS represents a stylesheet.
	KindCSS Kind = "css"
	// KindJS represents a script.
	KindJS Kind = "js"
	// KindHTML represents a markup document.
	KindHTML Kind = "html"
	// KindNone represents a request this service does not transcode.
	KindNone Kind = "none"
)

// Kinds lists every transcodable kind in classification order.
// A request extension is tested against each kind's extensions in this order
// and the first match wins.
var Kinds = []Kind{KindCSS, KindJS, KindHTML}

// Option keys consumed by the dispatcher rather than by a transformer.
const (
	KeyFileExtensions = "fileExtensions"
	KeyPlugins        = "plugins"
	KeyIndex          = "index"
)

// DefaultIndex is the index file used when no index option is given.
const DefaultIndex = "index.html"

// descriptor holds the static per-kind facts.
type descriptor struct {
	extensions    []string
	contentType   string
	discoveryName string
	pathKey       string
	outputField   string
	stripKeys     []string
}

var descriptors = map[Kind]descriptor{
	KindCSS: {
		extensions:    []string{"css", "pcss"},
		contentType:   "text/css; charset=UTF-8",
		discoveryName: "stylesheet",
		pathKey:       "from",
		outputField:   "css",
		stripKeys:     []string{KeyFileExtensions, KeyPlugins},
	},
	KindJS: {
		extensions:    []string{"js", "mjs"},
		contentType:   "application/javascript; charset=UTF-8",
		discoveryName: "script",
		pathKey:       "filename",
		outputField:   "code",
		stripKeys:     []string{KeyFileExtensions, KeyPlugins},
	},
	KindHTML: {
		extensions:    []string{"html", "phtml"},
		contentType:   "text/html; charset=UTF-8",
		discoveryName: "markup",
		pathKey:       "from",
		outputField:   "html",
		stripKeys:     []string{KeyFileExtensions, KeyPlugins, KeyIndex},
	},
}

// DefaultExtensions returns a fresh copy of the default file extensions
// (without the leading dot) for the kind. Returns nil for unknown kinds.
func DefaultExtensions(k Kind) []string {
	d, ok := descriptors[k]
	if !ok {
		return nil
	}
	return append([]string(nil), d.extensions...)
}

// ContentType returns the Content-Type header value served for the kind.
// Returns "application/octet-stream" if the kind is not recognized.
func ContentType(k Kind) string {
	if d, ok := descriptors[k]; ok {
		return d.contentType
	}
	return "application/octet-stream"
}

// DiscoveryName returns the config file name searched for the kind's own
// transformer configuration (e.g. ".stylesheetrc").
func DiscoveryName(k Kind) string {
	return descriptors[k].discoveryName
}

// PathKey returns the process option key that carries the source file path.
func PathKey(k Kind) string {
	return descriptors[k].pathKey
}

// OutputField returns the name of the transformer result field holding the
// output text for the kind.
func OutputField(k Kind) string {
	return descriptors[k].outputField
}

// StripKeys returns the option keys removed before options reach a transformer.
func StripKeys(k Kind) []string {
	return append([]string(nil), descriptors[k].stripKeys...)
}

// IsValid returns true if k is one of the transcodable kinds.
func IsValid(k Kind) bool {
	_, ok := descriptors[k]
	return ok
}

// Classify returns the first kind whose extension list contains ext.
// The lists are supplied by the caller so configured extensions take effect.
// Returns KindNone if no list matches.
func Classify(ext string, extensions map[Kind][]string) Kind {
	for _, k := range Kinds {
		for _, e := range extensions[k] {
			if e == ext {
				return k
			}
		}
	}
	return KindNone
}
