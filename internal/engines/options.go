package engines

import "fmt"

// Options is a transformer options object. Values come from config files,
// explicit caller options, or both, so they are loosely typed.
type Options map[string]any

// Clone returns a shallow copy.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Without returns a shallow copy with keys removed.
func (o Options) Without(keys ...string) Options {
	out := o.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// String returns the value at key formatted as a string. The second result
// is false when the key is absent or nil.
func (o Options) String(key string) (string, bool) {
	v, ok := o[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Bool reports whether the value at key is truthy: true, a non-empty string
// other than "false", or a non-zero number.
func (o Options) Bool(key string) bool {
	return Truthy(o[key])
}

// Truthy reports whether v counts as enabled in a loosely typed options object.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "false"
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
