package canonicaljson

import (
	"encoding/json"

	"github.com/gowebpki/jcs"
)

// This package canonicalizes JSON per RFC 8785 (JCS), delegating to
// github.com/gowebpki/jcs for the transform.
//
// Rationale:
// - Data descriptors benefit from deterministic JSON bytes (diffs, hashing,
//   golden tests, structural equality).
// - We want canonicalization to be stable across languages and
//   implementations, so we target a published standard (RFC 8785) rather
//   than an ad-hoc "stable key order" scheme.
//
// Future:
// Go has an experimental `encoding/json/v2` + `jsontext` stack (enabled with
// GOEXPERIMENT=jsonv2) that includes deterministic options and related JSON
// tooling. Once a stable stdlib JCS-capable implementation is available
// without experimental flags, this package is intended to be a small,
// swappable façade so we can switch implementations without changing output
// bytes.
//
// References:
// - RFC 8785: JSON Canonicalization Scheme (JCS): https://www.rfc-editor.org/rfc/rfc8785
// - Go `encoding/json/v2` (experimental): https://pkg.go.dev/encoding/json/v2

// Marshal returns a deterministic JSON encoding of the input according to
// RFC 8785 (JCS).
//
// json.RawMessage and []byte inputs are treated as already-encoded JSON and
// only canonicalized. Everything else is marshaled with encoding/json first.
//
// Notes:
// - Objects are sorted by member names using UTF-16 code unit lexicographic order.
// - Arrays preserve order.
// - Numbers are serialized using ECMAScript-compatible number serialization
//   (as required by RFC 8785).
// - Output is compact (no extra whitespace).
func Marshal(v any) ([]byte, error) {
	var b []byte

	switch x := v.(type) {
	case json.RawMessage:
		b = x
	case []byte:
		b = x
	default:
		var err error
		b, err = json.Marshal(v)
		if err != nil {
			return nil, err
		}
	}

	return jcs.Transform(b)
}

// String is Marshal returning a string.
func String(v any) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Equal reports whether a and b have identical canonical encodings. It
// returns false when either value cannot be canonicalized.
func Equal(a, b any) bool {
	ba, err := Marshal(a)
	if err != nil {
		return false
	}
	bb, err := Marshal(b)
	if err != nil {
		return false
	}
	return string(ba) == string(bb)
}
