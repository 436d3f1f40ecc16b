package dotenv

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/signalforge/dotenv/envmap"
	"github.com/signalforge/dotenv/expand"
	"github.com/signalforge/dotenv/parser"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// postProcess expands entries in file order against a view seeded from the
// environment snapshot, then opportunistically decodes JSON containers.
// Each expansion updates the view, so later entries compose over earlier
// ones without any fixed-point iteration.
func postProcess(entries []parser.Entry, opts *Options) *envmap.Map[any] {
	view := opts.Environment.Snapshot()
	lookup := expand.Map(view)

	result := envmap.New[any]()
	for _, e := range entries {
		expanded := expand.Expand(e.Value, lookup)
		view[e.Key] = expanded

		var final any = expanded
		if opts.Arrays {
			if v, ok := decodeContainer(expanded, opts.DecodeJSON); ok {
				final = v
			}
		}
		result.Set(e.Key, final)
	}
	return result
}

// decodeContainer attempts to decode s as a JSON array or object. Values
// that do not look like containers, or fail to decode, are left alone;
// decoding here is best-effort and never raises.
func decodeContainer(s string, decode func([]byte) (any, error)) (any, bool) {
	t := strings.TrimLeft(s, " \t\r\n")
	if t == "" || (t[0] != '[' && t[0] != '{') {
		return nil, false
	}
	v, err := decode([]byte(s))
	if err != nil {
		return nil, false
	}
	switch v.(type) {
	case []any, map[string]any:
		return v, true
	}
	return nil, false
}

func decodeJSON(data []byte) (any, error) {
	var v any
	err := json.Unmarshal(data, &v)
	return v, err
}

// publish writes the result to the configured environment surfaces. Keys
// that are not valid identifiers are skipped. When Override is off, a key
// present on any observed surface is left untouched but still counts as
// handled.
func publish(result *envmap.Map[any], opts *Options) {
	if !opts.Export && !opts.ExportServer {
		return
	}
	env := opts.Environment

	result.Range(func(key string, value any) bool {
		if !keyPattern.MatchString(key) {
			return true
		}
		if !opts.Override && keyExists(env, key, opts.ExportServer) {
			return true
		}
		if opts.Export {
			_ = env.Set(key, stringifyValue(value))
		}
		if opts.ExportServer {
			env.SetScratch(key, value)
		}
		return true
	})
}

func keyExists(env Environment, key string, scratch bool) bool {
	if _, ok := env.Lookup(key); ok {
		return true
	}
	if scratch {
		if _, ok := env.ScratchLookup(key); ok {
			return true
		}
	}
	return false
}

// stringifyValue renders a final value for the string-only process surface.
// Structured values are re-serialized as JSON with slashes and Unicode
// left unescaped.
func stringifyValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
