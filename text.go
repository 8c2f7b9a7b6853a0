package datainfo

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// unlimited marks an absent character or byte limit.
const unlimited = int64(math.MaxInt64)

// StringType represents a single-line text value, counted in characters
// (code points). Control characters are rejected; by default the value
// must be ASCII, with isUTF8 the full range is allowed.
type StringType struct {
	sealable
	minChars, maxChars int64
	isUTF8             bool
}

// NewString returns a string type. Recognized properties are "minchars",
// "maxchars" and "isUTF8". When only minchars is given, maxchars defaults
// to the same value, fixing the length exactly.
func NewString(props Props) (*StringType, error) {
	dt := &StringType{maxChars: unlimited}
	if props != nil {
		if _, ok := props["maxchars"]; !ok {
			if _, ok := props["minchars"]; ok {
				p := make(Props, len(props)+1)
				for k, v := range props {
					p[k] = v
				}
				p["maxchars"] = props["minchars"]
				props = p
			}
		}
	}
	if err := sealNew(dt, props); err != nil {
		return nil, err
	}
	return dt, nil
}

// MinChars returns the minimum length in characters.
func (dt *StringType) MinChars() int64 { return dt.minChars }

// MaxChars returns the maximum length in characters, or the largest int64
// when unlimited.
func (dt *StringType) MaxChars() int64 { return dt.maxChars }

// IsUTF8 reports whether the full UTF-8 range is allowed.
func (dt *StringType) IsUTF8() bool { return dt.isUTF8 }

func (dt *StringType) Coerce(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, wrongTypef("%s has the wrong type for a string value", shortRepr(value))
	}
	return s, nil
}

func (dt *StringType) Validate(value any) (any, error) {
	v, err := dt.Coerce(value)
	if err != nil {
		return nil, err
	}
	s := v.(string)
	n := int64(utf8.RuneCountInString(s))
	if n < dt.minChars || n > dt.maxChars {
		return nil, rangef("%s must be between %d and %d characters long", shortRepr(s), dt.minChars, dt.maxChars)
	}
	for _, r := range s {
		switch {
		case r < 0x20 || r == 0x7F:
			return nil, rangef("%s contains a control character", shortRepr(s))
		case r > 0x7F && !dt.isUTF8:
			return nil, rangef("%s is not ascii", shortRepr(s))
		}
	}
	return s, nil
}

func (dt *StringType) ExportValue(value any) (any, error) { return dt.Coerce(value) }

func (dt *StringType) ImportValue(wire any) (any, error) { return dt.Coerce(wire) }

func (dt *StringType) FormatValue(value any, unit ...string) string {
	s, ok := value.(string)
	if !ok {
		return shortRepr(value)
	}
	return strconv.Quote(s)
}

func (dt *StringType) FromString(text string) (any, error) { return dt.Coerce(text) }

func (dt *StringType) ExportDatatype() DataInfo {
	info := DataInfo{"type": "string"}
	if dt.minChars > 0 {
		info["minchars"] = dt.minChars
	}
	if dt.maxChars != unlimited {
		info["maxchars"] = dt.maxChars
	}
	if dt.isUTF8 {
		info["isUTF8"] = true
	}
	return info
}

func (dt *StringType) Copy() DataType {
	c := *dt
	c.done = false
	return &c
}

func (dt *StringType) Compatible(other DataType) error {
	return stringCompatible(dt, dt, other, false)
}

func (dt *StringType) SetProperty(key string, value any) error {
	if err := dt.assertOpen(); err != nil {
		return err
	}
	switch key {
	case "minchars", "maxchars":
		i, err := intOf(value, false)
		if err != nil {
			return err
		}
		if i < 0 {
			return rangef("%s must not be negative", key)
		}
		if key == "minchars" {
			dt.minChars = i
		} else {
			dt.maxChars = i
		}
	case "isUTF8":
		b, ok := value.(bool)
		if !ok {
			return wrongTypef("isUTF8 must be a bool, got %s", shortRepr(value))
		}
		dt.isUTF8 = b
	default:
		return programmingf("string has no property %q", key)
	}
	return nil
}

func (dt *StringType) CheckProperties() error {
	if dt.minChars > dt.maxChars {
		return configf("minchars (%d) must not be greater than maxchars (%d)", dt.minChars, dt.maxChars)
	}
	dt.seal()
	return nil
}

func (dt *StringType) SetMainUnit(unit string) error { return nil }

// TextType represents free text of arbitrary content, only NUL is
// rejected. The length may be limited in characters.
type TextType struct {
	StringType
}

// NewText returns a text type limited to maxChars characters, or
// unlimited when maxChars is not positive.
func NewText(maxChars int64) *TextType {
	dt := &TextType{StringType{maxChars: unlimited}}
	if maxChars > 0 {
		dt.maxChars = maxChars
	}
	dt.seal()
	return dt
}

func (dt *TextType) Validate(value any) (any, error) {
	v, err := dt.Coerce(value)
	if err != nil {
		return nil, err
	}
	s := v.(string)
	n := int64(utf8.RuneCountInString(s))
	if n < dt.minChars || n > dt.maxChars {
		return nil, rangef("%s must be between %d and %d characters long", shortRepr(s), dt.minChars, dt.maxChars)
	}
	for _, r := range s {
		if r == 0 {
			return nil, rangef("%s contains a NUL character", shortRepr(s))
		}
	}
	return s, nil
}

func (dt *TextType) Copy() DataType {
	c := *dt
	c.done = false
	return &c
}

func (dt *TextType) Compatible(other DataType) error {
	return stringCompatible(dt, &dt.StringType, other, true)
}

// stringCompatible implements the containment rules shared by string and
// text kinds. A text type can not stand in for a plain string type, since
// text tolerates line breaks the string kind rejects.
func stringCompatible(self DataType, s *StringType, other DataType, selfIsText bool) error {
	var o *StringType
	otherIsText := false
	switch x := other.(type) {
	case *StringType:
		o = x
	case *TextType:
		o = &x.StringType
		otherIsText = true
	default:
		return incompatible(self, other, nil)
	}
	if selfIsText && !otherIsText {
		return incompatible(self, other, fmt.Errorf("text tolerates content a string rejects"))
	}
	if s.minChars < o.minChars || s.maxChars > o.maxChars {
		return incompatible(self, other, fmt.Errorf("length bounds are not contained"))
	}
	if s.isUTF8 && !o.isUTF8 {
		return incompatible(self, other, fmt.Errorf("UTF-8 strictness can not be loosened"))
	}
	return nil
}

// defaultMaxBytes is the byte string limit used when none is configured.
const defaultMaxBytes = 255

// BLOBType represents a byte string. Canonical values are []byte;
// transport values are base64 strings.
type BLOBType struct {
	sealable
	minBytes, maxBytes int64
}

// NewBLOB returns a byte string type. Recognized properties are
// "minbytes" and "maxbytes". When only minbytes is given, maxbytes
// defaults to the same value; without either, maxbytes defaults to 255.
func NewBLOB(props Props) (*BLOBType, error) {
	dt := &BLOBType{maxBytes: defaultMaxBytes}
	if props != nil {
		if _, ok := props["maxbytes"]; !ok {
			if _, ok := props["minbytes"]; ok {
				p := make(Props, len(props)+1)
				for k, v := range props {
					p[k] = v
				}
				p["maxbytes"] = props["minbytes"]
				props = p
			}
		}
	}
	if err := sealNew(dt, props); err != nil {
		return nil, err
	}
	return dt, nil
}

// MinBytes returns the minimum length in bytes.
func (dt *BLOBType) MinBytes() int64 { return dt.minBytes }

// MaxBytes returns the maximum length in bytes.
func (dt *BLOBType) MaxBytes() int64 { return dt.maxBytes }

func (dt *BLOBType) Coerce(value any) (any, error) {
	b, ok := value.([]byte)
	if !ok {
		return nil, wrongTypef("%s has the wrong type for a byte string value", shortRepr(value))
	}
	return b, nil
}

func (dt *BLOBType) Validate(value any) (any, error) {
	v, err := dt.Coerce(value)
	if err != nil {
		return nil, err
	}
	b := v.([]byte)
	if n := int64(len(b)); n < dt.minBytes || n > dt.maxBytes {
		return nil, rangef("%s must be between %d and %d bytes long", shortRepr(b), dt.minBytes, dt.maxBytes)
	}
	return b, nil
}

func (dt *BLOBType) ExportValue(value any) (any, error) {
	v, err := dt.Coerce(value)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.EncodeToString(v.([]byte)), nil
}

func (dt *BLOBType) ImportValue(wire any) (any, error) {
	s, ok := wire.(string)
	if !ok {
		return nil, wrongTypef("%s has the wrong type for a base64 string", shortRepr(wire))
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, wrongTypef("%s is not valid base64: %v", shortRepr(s), err)
	}
	return b, nil
}

func (dt *BLOBType) FormatValue(value any, unit ...string) string {
	b, ok := value.([]byte)
	if !ok {
		return shortRepr(value)
	}
	return strconv.Quote(string(b))
}

func (dt *BLOBType) FromString(text string) (any, error) {
	return dt.Coerce([]byte(text))
}

func (dt *BLOBType) ExportDatatype() DataInfo {
	info := DataInfo{"type": "blob", "maxbytes": dt.maxBytes}
	if dt.minBytes > 0 {
		info["minbytes"] = dt.minBytes
	}
	return info
}

func (dt *BLOBType) Copy() DataType {
	c := *dt
	c.done = false
	return &c
}

func (dt *BLOBType) Compatible(other DataType) error {
	o, ok := other.(*BLOBType)
	if !ok {
		return incompatible(dt, other, nil)
	}
	if dt.minBytes < o.minBytes || dt.maxBytes > o.maxBytes {
		return incompatible(dt, other, fmt.Errorf("length bounds are not contained"))
	}
	return nil
}

func (dt *BLOBType) SetProperty(key string, value any) error {
	if err := dt.assertOpen(); err != nil {
		return err
	}
	switch key {
	case "minbytes", "maxbytes":
		i, err := intOf(value, false)
		if err != nil {
			return err
		}
		if i < 0 {
			return rangef("%s must not be negative", key)
		}
		if key == "minbytes" {
			dt.minBytes = i
		} else {
			dt.maxBytes = i
		}
	default:
		return programmingf("blob has no property %q", key)
	}
	return nil
}

func (dt *BLOBType) CheckProperties() error {
	if dt.minBytes > dt.maxBytes {
		return configf("minbytes (%d) must not be greater than maxbytes (%d)", dt.minBytes, dt.maxBytes)
	}
	dt.seal()
	return nil
}

func (dt *BLOBType) SetMainUnit(unit string) error { return nil }
