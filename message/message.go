// Package message defines the dynamically-typed map values exchanged with the
// simulator and the coercion helpers the rest of the client relies on.
//
// The simulator's peer implementation is loose about encodings: text may
// arrive as msgpack str or as a raw byte string, and numeric ids may arrive
// as unsigned, signed, or floating point. The helpers here normalize all of
// that immediately after decoding so the ambiguity never leaks into
// comparisons elsewhere.
package message

import "unicode/utf8"

// Reserved wire keys. Every request carries KeyType and KeyID; responses echo
// the id and may carry one of the error keys or a result.
const (
	KeyType       = "type"
	KeyID         = "_id"
	KeyResult     = "result"
	KeyError      = "bngError"
	KeyValueError = "bngValueError"
)

// StrDict is a decoded simulator message: string keys, dynamically typed
// values.
type StrDict map[string]any

// Field is one ordered key/value pair of an outgoing request. Requests are
// built from slices of Field rather than maps so the encoded key order is
// deterministic.
type Field struct {
	Key   string
	Value any
}

// AsString extracts text from a decoded value. Byte strings are accepted and
// treated as UTF-8 text; invalid UTF-8 is rejected.
func AsString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		if utf8.Valid(s) {
			return string(s), true
		}
	}
	return "", false
}

// AsUint64 extracts an unsigned integer from a decoded value. The simulator
// sends ids as unsigned, signed, or floating point depending on the code
// path, so all three families are accepted and coerced.
func AsUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case int64:
		return uint64(n), true
	case int:
		return uint64(n), true
	case int8:
		return uint64(n), true
	case int16:
		return uint64(n), true
	case int32:
		return uint64(n), true
	case float64:
		return uint64(n), true
	case float32:
		return uint64(n), true
	}
	return 0, false
}

// AsBool extracts a boolean from a decoded value.
func AsBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// AsFloat64 extracts a float from a decoded value, accepting integer
// encodings as well.
func AsFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	if u, ok := AsUint64(v); ok {
		return float64(u), true
	}
	return 0, false
}

// AsStrDict converts a decoded map into a StrDict. Maps whose keys are not
// convertible to text are rejected.
func AsStrDict(v any) (StrDict, bool) {
	switch m := v.(type) {
	case StrDict:
		return m, true
	case map[string]any:
		return StrDict(m), true
	case map[any]any:
		out := make(StrDict, len(m))
		for k, val := range m {
			key, ok := AsString(k)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	}
	return nil, false
}

// String extracts a text field, normalizing byte-string encodings.
func (d StrDict) String(key string) (string, bool) {
	return AsString(d[key])
}

// Uint64 extracts an unsigned integer field with numeric coercion.
func (d StrDict) Uint64(key string) (uint64, bool) {
	v, ok := d[key]
	if !ok {
		return 0, false
	}
	return AsUint64(v)
}
