package datainfo

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/secop-community/datainfo-go/canonicaljson"
)

// DataInfo is an exported data descriptor: a JSON-ready mapping with a
// "type" key naming the kind and further keys for its properties. It is an
// alias, not a defined type, so nested descriptors produced by plain JSON
// decoding satisfy it without conversion.
type DataInfo = map[string]any

// Props carries named properties for a type constructor, using the same
// keys as the wire descriptor ("min", "max", "unit", ...). A nil Props is
// valid and means no properties.
type Props map[string]any

// DataType is a validated, transportable data type.
//
// A DataType is built by a New* constructor or by Get and is then sealed:
// its properties can no longer change. Copy returns an open clone that
// accepts SetProperty and SetMainUnit calls until CheckProperties seals it
// again. All other methods work on sealed and open types alike.
type DataType interface {
	// Coerce converts a value of a tolerated representation into the
	// type's canonical one, without enforcing bounds.
	Coerce(value any) (any, error)

	// Validate coerces the value and enforces the type's bounds. Values
	// within resolution of a numeric limit are clamped onto it.
	Validate(value any) (any, error)

	// ExportValue converts a validated value to its transport form.
	ExportValue(value any) (any, error)

	// ImportValue converts a transport value back to the canonical form.
	ImportValue(wire any) (any, error)

	// FormatValue renders the value for humans. An explicit unit overrides
	// the type's own; pass an empty string to suppress the unit.
	FormatValue(value any, unit ...string) string

	// FromString parses a textual representation of a value.
	FromString(text string) (any, error)

	// ExportDatatype returns the type's data descriptor. Properties that
	// hold their default are omitted, mandatory ones are always present.
	ExportDatatype() DataInfo

	// Copy returns an independent, open clone of the type.
	Copy() DataType

	// Compatible reports whether every value this type accepts is also
	// accepted by other, i.e. whether this type can stand in for other.
	// A nil return means compatible.
	Compatible(other DataType) error

	// SetProperty sets one named property on an open type.
	SetProperty(key string, value any) error

	// CheckProperties verifies the property set is consistent and seals
	// the type. It is idempotent.
	CheckProperties() error

	// SetMainUnit substitutes the unit placeholder "$" in this type and
	// its members. It is only valid on open types.
	SetMainUnit(unit string) error
}

// Equal reports whether two types have identical canonical descriptors.
func Equal(a, b DataType) bool {
	return canonicaljson.Equal(a.ExportDatatype(), b.ExportDatatype())
}

// lazyNumbers switches numeric coercion into a mode that additionally
// accepts numeric strings, for ingesting configuration written by hand.
// The flag is captured at construction time, so flipping it does not
// change already built types.
var lazyNumbers atomic.Bool

// SetLazyNumberValidation enables or disables acceptance of numeric
// strings by numeric types built afterwards.
func SetLazyNumberValidation(on bool) { lazyNumbers.Store(on) }

// LazyNumberValidation reports the current setting.
func LazyNumberValidation() bool { return lazyNumbers.Load() }

// mainUnitToken is the placeholder replaced by SetMainUnit.
const mainUnitToken = "$"

// sealable implements the open/sealed life cycle shared by all types.
type sealable struct {
	done bool
}

func (s *sealable) sealed() bool { return s.done }

func (s *sealable) seal() { s.done = true }

// assertOpen guards property mutation.
func (s *sealable) assertOpen() error {
	if s.done {
		return programmingf("type is sealed, use Copy to get a mutable clone")
	}
	return nil
}

// applyProps applies props in sorted key order, so construction does not
// depend on map iteration order. Errors are reported as programming
// errors: handing a bad property to a constructor is a caller bug.
func applyProps(dt DataType, props Props) error {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := dt.SetProperty(k, props[k]); err != nil {
			return asProgramming(err)
		}
	}
	return nil
}

// sealNew finishes a constructor: apply props, then check and seal.
// Configuration errors from CheckProperties pass through unchanged.
func sealNew(dt DataType, props Props) error {
	if err := applyProps(dt, props); err != nil {
		return err
	}
	return dt.CheckProperties()
}

// fromJSONText parses text as a JSON literal and coerces the result.
// Compound kinds use it for FromString, so "[1, 2]" or {"a": 1} round
// trip through the same decoding as the wire format.
func fromJSONText(dt DataType, text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, wrongTypef("%s is not a valid literal: %v", shortRepr(text), err)
	}
	return dt.Coerce(v)
}

// pickUnit resolves the FormatValue unit override against the configured
// unit.
func pickUnit(configured string, override []string) string {
	if len(override) > 0 {
		return override[0]
	}
	return configured
}

// withUnit appends a non-empty unit to a formatted value.
func withUnit(s, unit string) string {
	if unit == "" {
		return s
	}
	return s + " " + unit
}

func clamp(lo, v, hi float64) float64 {
	return math.Min(math.Max(lo, v), hi)
}

// floatOf converts tolerated numeric representations to float64. With lazy
// set, numeric strings are accepted too.
func floatOf(v any, lazy bool) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, wrongTypef("can not convert %s to a float", shortRepr(v))
		}
		return f, nil
	case string:
		if lazy {
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err == nil {
				return f, nil
			}
		}
		return 0, wrongTypef("can not convert %s to a float", shortRepr(v))
	}
	return 0, wrongTypef("can not convert %s to a float", shortRepr(v))
}

// intOf converts tolerated integer representations to int64. Floats are
// accepted only when whole. With lazy set, integral numeric strings are
// accepted too.
func intOf(v any, lazy bool) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, rangef("%v exceeds the integer range", x)
		}
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case float32:
		return wholeInt(float64(x))
	case float64:
		return wholeInt(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		if f, err := x.Float64(); err == nil {
			return wholeInt(f)
		}
		return 0, wrongTypef("can not convert %s to an int", shortRepr(v))
	case string:
		if lazy {
			if i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
				return i, nil
			}
		}
		return 0, wrongTypef("can not convert %s to an int", shortRepr(v))
	}
	return 0, wrongTypef("can not convert %s to an int", shortRepr(v))
}

func wholeInt(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, wrongTypef("%v should be an int", f)
	}
	if math.Abs(f) > float64(math.MaxInt64) {
		return 0, rangef("%v exceeds the integer range", f)
	}
	return int64(f), nil
}
