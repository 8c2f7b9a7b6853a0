package datainfo

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/secop-community/datainfo-go/canonicaljson"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these sentinels, so callers can classify failures with errors.Is without
// parsing messages.
var (
	// ErrProgramming reports misuse of the API itself: malformed member
	// definitions, unknown property names, or mutation of a sealed type.
	ErrProgramming = errors.New("programming error")

	// ErrConfig reports an inconsistent property set detected when a type
	// is sealed, such as min greater than max.
	ErrConfig = errors.New("inconsistent configuration")

	// ErrWrongType reports a value whose shape does not fit the type, or a
	// malformed data descriptor.
	ErrWrongType = errors.New("wrong type")

	// ErrRange reports a well-shaped value outside the type's bounds.
	ErrRange = errors.New("out of range")

	// ErrIncompatible reports that one type cannot stand in for another.
	ErrIncompatible = errors.New("incompatible datatypes")
)

// IsProgramming reports whether err wraps ErrProgramming.
func IsProgramming(err error) bool { return errors.Is(err, ErrProgramming) }

// IsConfig reports whether err wraps ErrConfig.
func IsConfig(err error) bool { return errors.Is(err, ErrConfig) }

// IsWrongType reports whether err wraps ErrWrongType.
func IsWrongType(err error) bool { return errors.Is(err, ErrWrongType) }

// IsRange reports whether err wraps ErrRange.
func IsRange(err error) bool { return errors.Is(err, ErrRange) }

// IsIncompatible reports whether err wraps ErrIncompatible.
func IsIncompatible(err error) bool { return errors.Is(err, ErrIncompatible) }

func programmingf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProgramming, fmt.Sprintf(format, args...))
}

func configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

func wrongTypef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrWrongType, fmt.Sprintf(format, args...))
}

func rangef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRange, fmt.Sprintf(format, args...))
}

// asProgramming converts err into an ErrProgramming unless it already is
// one. Constructors use it so that a bad property value handed to New*
// surfaces as a programming error, while the original text survives.
func asProgramming(err error) error {
	if err == nil || errors.Is(err, ErrProgramming) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrProgramming, err)
}

// CompatibilityError reports that the type described by Self cannot stand
// in for the one described by Other. Both descriptors are carried so the
// failure can be rendered or logged without access to the types.
type CompatibilityError struct {
	Self   DataInfo
	Other  DataInfo
	Reason error // optional detail, e.g. the bound check that failed
}

func (e *CompatibilityError) Error() string {
	self, _ := canonicaljson.String(e.Self)
	other, _ := canonicaljson.String(e.Other)
	msg := fmt.Sprintf("%v: %s can not stand in for %s", ErrIncompatible, self, other)
	if e.Reason != nil {
		msg += ": " + e.Reason.Error()
	}
	return msg
}

// Is lets errors.Is(err, ErrIncompatible) match.
func (e *CompatibilityError) Is(target error) bool { return target == ErrIncompatible }

func (e *CompatibilityError) Unwrap() error { return e.Reason }

// incompatible builds a CompatibilityError for self versus other.
func incompatible(self, other DataType, reason error) error {
	return &CompatibilityError{
		Self:   self.ExportDatatype(),
		Other:  other.ExportDatatype(),
		Reason: reason,
	}
}

// shortRepr renders a value for error messages, quoted when textual and
// truncated so one oversized value cannot blow up a log line.
func shortRepr(v any) string {
	var r string
	switch x := v.(type) {
	case string:
		r = strconv.Quote(x)
	case []byte:
		r = strconv.Quote(string(x))
	default:
		r = fmt.Sprintf("%v", v)
	}
	if len(r) > 40 {
		r = r[:40] + "..."
	}
	return r
}
