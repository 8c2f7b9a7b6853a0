package datainfo

import (
	"fmt"
	"strings"
)

// defaultMaxLen is the array length limit used when none is configured.
const defaultMaxLen = 100

// ArrayOf represents a sequence of values of one member type. Canonical
// values are []any.
type ArrayOf struct {
	sealable
	member         DataType
	minLen, maxLen int64
}

// NewArrayOf returns an array type over the given member. Recognized
// properties are "minlen" and "maxlen"; unknown keys are forwarded to the
// member. When only minlen is given, maxlen defaults to the same value;
// without either, maxlen defaults to 100.
func NewArrayOf(member DataType, props Props) (*ArrayOf, error) {
	if member == nil {
		return nil, programmingf("array needs a member datatype")
	}
	dt := &ArrayOf{member: member, maxLen: defaultMaxLen}
	if props != nil {
		if _, ok := props["maxlen"]; !ok {
			if _, ok := props["minlen"]; ok {
				p := make(Props, len(props)+1)
				for k, v := range props {
					p[k] = v
				}
				p["maxlen"] = props["minlen"]
				props = p
			}
		}
	}
	if err := sealNew(dt, props); err != nil {
		return nil, err
	}
	return dt, nil
}

// Member returns the element type.
func (dt *ArrayOf) Member() DataType { return dt.member }

// MinLen returns the minimum number of elements.
func (dt *ArrayOf) MinLen() int64 { return dt.minLen }

// MaxLen returns the maximum number of elements.
func (dt *ArrayOf) MaxLen() int64 { return dt.maxLen }

func (dt *ArrayOf) elements(value any) ([]any, error) {
	v, ok := value.([]any)
	if !ok {
		return nil, wrongTypef("%s has the wrong type for an array value", shortRepr(value))
	}
	return v, nil
}

func (dt *ArrayOf) checkLen(v []any) error {
	if n := int64(len(v)); n < dt.minLen || n > dt.maxLen {
		return rangef("array must have between %d and %d elements, got %d", dt.minLen, dt.maxLen, len(v))
	}
	return nil
}

func (dt *ArrayOf) Coerce(value any) (any, error) {
	v, err := dt.elements(value)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(v))
	for i, elem := range v {
		if out[i], err = dt.member.Coerce(elem); err != nil {
			return nil, fmt.Errorf("array element %d is invalid: %w", i, err)
		}
	}
	return out, nil
}

func (dt *ArrayOf) Validate(value any) (any, error) {
	v, err := dt.elements(value)
	if err != nil {
		return nil, err
	}
	if err := dt.checkLen(v); err != nil {
		return nil, err
	}
	out := make([]any, len(v))
	for i, elem := range v {
		if out[i], err = dt.member.Validate(elem); err != nil {
			return nil, fmt.Errorf("array element %d is invalid: %w", i, err)
		}
	}
	return out, nil
}

func (dt *ArrayOf) ExportValue(value any) (any, error) {
	v, err := dt.elements(value)
	if err != nil {
		return nil, err
	}
	if err := dt.checkLen(v); err != nil {
		return nil, err
	}
	out := make([]any, len(v))
	for i, elem := range v {
		if out[i], err = dt.member.ExportValue(elem); err != nil {
			return nil, fmt.Errorf("array element %d is invalid: %w", i, err)
		}
	}
	return out, nil
}

func (dt *ArrayOf) ImportValue(wire any) (any, error) {
	v, err := dt.elements(wire)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(v))
	for i, elem := range v {
		if out[i], err = dt.member.ImportValue(elem); err != nil {
			return nil, fmt.Errorf("array element %d is invalid: %w", i, err)
		}
	}
	return out, nil
}

func (dt *ArrayOf) FormatValue(value any, unit ...string) string {
	v, err := dt.elements(value)
	if err != nil {
		return shortRepr(value)
	}
	parts := make([]string, len(v))
	for i, elem := range v {
		// the unit is factored out and appended once to the whole array
		parts[i] = dt.member.FormatValue(elem, "")
	}
	return withUnit("["+strings.Join(parts, ", ")+"]", pickUnit(unitOf(dt.member), unit))
}

func (dt *ArrayOf) FromString(text string) (any, error) { return fromJSONText(dt, text) }

func (dt *ArrayOf) ExportDatatype() DataInfo {
	return DataInfo{
		"type":    "array",
		"minlen":  dt.minLen,
		"maxlen":  dt.maxLen,
		"members": dt.member.ExportDatatype(),
	}
}

func (dt *ArrayOf) Copy() DataType {
	return &ArrayOf{member: dt.member.Copy(), minLen: dt.minLen, maxLen: dt.maxLen}
}

func (dt *ArrayOf) Compatible(other DataType) error {
	o, ok := other.(*ArrayOf)
	if !ok {
		return incompatible(dt, other, nil)
	}
	if dt.minLen < o.minLen || dt.maxLen > o.maxLen {
		return incompatible(dt, other, fmt.Errorf("length bounds are not contained"))
	}
	if err := dt.member.Compatible(o.member); err != nil {
		return incompatible(dt, other, err)
	}
	return nil
}

func (dt *ArrayOf) SetProperty(key string, value any) error {
	if err := dt.assertOpen(); err != nil {
		return err
	}
	switch key {
	case "minlen", "maxlen":
		i, err := intOf(value, false)
		if err != nil {
			return err
		}
		if i < 0 {
			return rangef("%s must not be negative", key)
		}
		if key == "minlen" {
			dt.minLen = i
		} else {
			dt.maxLen = i
		}
	default:
		// unknown keys configure the member type
		return dt.member.SetProperty(key, value)
	}
	return nil
}

func (dt *ArrayOf) CheckProperties() error {
	if dt.minLen > dt.maxLen {
		return configf("minlen (%d) must not be greater than maxlen (%d)", dt.minLen, dt.maxLen)
	}
	if err := dt.member.CheckProperties(); err != nil {
		return err
	}
	dt.seal()
	return nil
}

func (dt *ArrayOf) SetMainUnit(unit string) error {
	return dt.member.SetMainUnit(unit)
}

// unitOf returns the unit a value of dt would be labeled with, descending
// into arrays.
func unitOf(dt DataType) string {
	switch x := dt.(type) {
	case *FloatRange:
		return x.unit
	case *ScaledInteger:
		return x.unit
	case *ArrayOf:
		return unitOf(x.member)
	}
	return ""
}

// TupleOf represents a fixed-length sequence with one type per position.
// Canonical values are []any of matching length.
type TupleOf struct {
	sealable
	members []DataType
}

// NewTupleOf returns a tuple type over the given member types.
func NewTupleOf(members ...DataType) (*TupleOf, error) {
	if len(members) == 0 {
		return nil, programmingf("tuple needs at least one member")
	}
	for i, m := range members {
		if m == nil {
			return nil, programmingf("tuple member %d is nil", i)
		}
	}
	dt := &TupleOf{members: members}
	dt.seal()
	return dt, nil
}

// Members returns the member types by position.
func (dt *TupleOf) Members() []DataType { return dt.members }

func (dt *TupleOf) elements(value any) ([]any, error) {
	v, ok := value.([]any)
	if !ok {
		return nil, wrongTypef("%s has the wrong type for a tuple value", shortRepr(value))
	}
	if len(v) != len(dt.members) {
		return nil, wrongTypef("tuple needs %d elements, got %d", len(dt.members), len(v))
	}
	return v, nil
}

func (dt *TupleOf) Coerce(value any) (any, error) {
	v, err := dt.elements(value)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(v))
	for i, elem := range v {
		if out[i], err = dt.members[i].Coerce(elem); err != nil {
			return nil, fmt.Errorf("tuple element %d is invalid: %w", i, err)
		}
	}
	return out, nil
}

func (dt *TupleOf) Validate(value any) (any, error) {
	v, err := dt.elements(value)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(v))
	for i, elem := range v {
		if out[i], err = dt.members[i].Validate(elem); err != nil {
			return nil, fmt.Errorf("tuple element %d is invalid: %w", i, err)
		}
	}
	return out, nil
}

func (dt *TupleOf) ExportValue(value any) (any, error) {
	v, err := dt.elements(value)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(v))
	for i, elem := range v {
		if out[i], err = dt.members[i].ExportValue(elem); err != nil {
			return nil, fmt.Errorf("tuple element %d is invalid: %w", i, err)
		}
	}
	return out, nil
}

func (dt *TupleOf) ImportValue(wire any) (any, error) {
	v, err := dt.elements(wire)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(v))
	for i, elem := range v {
		if out[i], err = dt.members[i].ImportValue(elem); err != nil {
			return nil, fmt.Errorf("tuple element %d is invalid: %w", i, err)
		}
	}
	return out, nil
}

func (dt *TupleOf) FormatValue(value any, unit ...string) string {
	v, err := dt.elements(value)
	if err != nil {
		return shortRepr(value)
	}
	parts := make([]string, len(v))
	for i, elem := range v {
		parts[i] = dt.members[i].FormatValue(elem)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (dt *TupleOf) FromString(text string) (any, error) { return fromJSONText(dt, text) }

func (dt *TupleOf) ExportDatatype() DataInfo {
	members := make([]any, len(dt.members))
	for i, m := range dt.members {
		members[i] = m.ExportDatatype()
	}
	return DataInfo{"type": "tuple", "members": members}
}

func (dt *TupleOf) Copy() DataType {
	members := make([]DataType, len(dt.members))
	for i, m := range dt.members {
		members[i] = m.Copy()
	}
	return &TupleOf{members: members}
}

func (dt *TupleOf) Compatible(other DataType) error {
	o, ok := asTuple(other)
	if !ok || len(o.members) != len(dt.members) {
		return incompatible(dt, other, nil)
	}
	for i, m := range dt.members {
		if err := m.Compatible(o.members[i]); err != nil {
			return incompatible(dt, other, err)
		}
	}
	return nil
}

func (dt *TupleOf) SetProperty(key string, value any) error {
	if err := dt.assertOpen(); err != nil {
		return err
	}
	return programmingf("tuple has no property %q", key)
}

func (dt *TupleOf) CheckProperties() error {
	for _, m := range dt.members {
		if err := m.CheckProperties(); err != nil {
			return err
		}
	}
	dt.seal()
	return nil
}

func (dt *TupleOf) SetMainUnit(unit string) error {
	for _, m := range dt.members {
		if err := m.SetMainUnit(unit); err != nil {
			return err
		}
	}
	return nil
}

// asTuple unwraps tuple-kind types for compatibility dispatch.
func asTuple(dt DataType) (*TupleOf, bool) {
	switch x := dt.(type) {
	case *TupleOf:
		return x, true
	case *LimitsType:
		return &x.TupleOf, true
	}
	return nil, false
}

// StructOf represents a record with named members, some of which may be
// optional. Canonical values are map[string]any; a nil member value counts
// as absent.
type StructOf struct {
	sealable
	members  map[string]DataType
	optional map[string]bool
}

// NewStructOf returns a struct type over the given named members. Every
// name in optional must be a member name; all other members are mandatory.
func NewStructOf(members map[string]DataType, optional ...string) (*StructOf, error) {
	if len(members) == 0 {
		return nil, programmingf("struct needs at least one member")
	}
	for name, m := range members {
		if m == nil {
			return nil, programmingf("struct member %q is nil", name)
		}
	}
	opt := make(map[string]bool, len(optional))
	for _, name := range optional {
		if _, ok := members[name]; !ok {
			return nil, programmingf("optional member %q is not a member", name)
		}
		opt[name] = true
	}
	copied := make(map[string]DataType, len(members))
	for name, m := range members {
		copied[name] = m
	}
	dt := &StructOf{members: copied, optional: opt}
	dt.seal()
	return dt, nil
}

// Members returns the member types by name.
func (dt *StructOf) Members() map[string]DataType { return dt.members }

// Optional returns the optional member names, sorted.
func (dt *StructOf) Optional() []string { return sortedKeys(dt.optional) }

func (dt *StructOf) record(value any, needMandatory bool) (map[string]any, error) {
	v, ok := value.(map[string]any)
	if !ok {
		return nil, wrongTypef("%s has the wrong type for a struct value", shortRepr(value))
	}
	for name := range v {
		if _, ok := dt.members[name]; !ok {
			return nil, wrongTypef("struct has no member %q", name)
		}
	}
	if needMandatory {
		for _, name := range sortedKeys(dt.members) {
			if dt.optional[name] {
				continue
			}
			if x, ok := v[name]; !ok || x == nil {
				return nil, wrongTypef("missing struct member %q", name)
			}
		}
	}
	return v, nil
}

func (dt *StructOf) convert(v map[string]any, f func(DataType, any) (any, error)) (map[string]any, error) {
	out := make(map[string]any, len(v))
	for name, elem := range v {
		if elem == nil {
			continue
		}
		c, err := f(dt.members[name], elem)
		if err != nil {
			return nil, fmt.Errorf("struct member %q is invalid: %w", name, err)
		}
		out[name] = c
	}
	return out, nil
}

func (dt *StructOf) Coerce(value any) (any, error) {
	v, err := dt.record(value, false)
	if err != nil {
		return nil, err
	}
	return dt.convert(v, DataType.Coerce)
}

func (dt *StructOf) Validate(value any) (any, error) {
	v, err := dt.record(value, true)
	if err != nil {
		return nil, err
	}
	return dt.convert(v, DataType.Validate)
}

func (dt *StructOf) ExportValue(value any) (any, error) {
	v, err := dt.record(value, true)
	if err != nil {
		return nil, err
	}
	return dt.convert(v, DataType.ExportValue)
}

func (dt *StructOf) ImportValue(wire any) (any, error) {
	v, err := dt.record(wire, false)
	if err != nil {
		return nil, err
	}
	return dt.convert(v, DataType.ImportValue)
}

func (dt *StructOf) FormatValue(value any, unit ...string) string {
	v, ok := value.(map[string]any)
	if !ok {
		return shortRepr(value)
	}
	parts := make([]string, 0, len(v))
	for _, name := range sortedKeys(v) {
		if m, ok := dt.members[name]; ok {
			parts = append(parts, name+"="+m.FormatValue(v[name]))
		} else {
			parts = append(parts, name+"="+shortRepr(v[name]))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (dt *StructOf) FromString(text string) (any, error) { return fromJSONText(dt, text) }

func (dt *StructOf) ExportDatatype() DataInfo {
	members := make(map[string]any, len(dt.members))
	for name, m := range dt.members {
		members[name] = m.ExportDatatype()
	}
	info := DataInfo{"type": "struct", "members": members}
	if len(dt.optional) > 0 {
		optional := make([]any, 0, len(dt.optional))
		for _, name := range sortedKeys(dt.optional) {
			optional = append(optional, name)
		}
		info["optional"] = optional
	}
	return info
}

func (dt *StructOf) Copy() DataType {
	members := make(map[string]DataType, len(dt.members))
	for name, m := range dt.members {
		members[name] = m.Copy()
	}
	optional := make(map[string]bool, len(dt.optional))
	for name := range dt.optional {
		optional[name] = true
	}
	return &StructOf{members: members, optional: optional}
}

func (dt *StructOf) Compatible(other DataType) error {
	o, ok := other.(*StructOf)
	if !ok {
		return incompatible(dt, other, nil)
	}
	// every member here must be accepted there, and every mandatory
	// member there must be guaranteed here
	mandatory := make(map[string]bool)
	for name := range o.members {
		if !o.optional[name] {
			mandatory[name] = true
		}
	}
	for name, m := range dt.members {
		om, ok := o.members[name]
		if !ok {
			return incompatible(dt, other, fmt.Errorf("no member %q", name))
		}
		if err := m.Compatible(om); err != nil {
			return incompatible(dt, other, err)
		}
		delete(mandatory, name)
	}
	if len(mandatory) > 0 {
		return incompatible(dt, other, fmt.Errorf("mandatory members %v are not guaranteed", sortedKeys(mandatory)))
	}
	return nil
}

func (dt *StructOf) SetProperty(key string, value any) error {
	if err := dt.assertOpen(); err != nil {
		return err
	}
	return programmingf("struct has no property %q", key)
}

func (dt *StructOf) CheckProperties() error {
	for _, name := range sortedKeys(dt.members) {
		if err := dt.members[name].CheckProperties(); err != nil {
			return err
		}
	}
	dt.seal()
	return nil
}

func (dt *StructOf) SetMainUnit(unit string) error {
	for _, name := range sortedKeys(dt.members) {
		if err := dt.members[name].SetMainUnit(unit); err != nil {
			return err
		}
	}
	return nil
}

// LimitsType represents a (lower, upper) pair of one numeric member type,
// validating that the lower limit does not exceed the upper.
type LimitsType struct {
	TupleOf
}

// NewLimitsType returns a limits type over the given numeric member.
func NewLimitsType(member DataType) (*LimitsType, error) {
	switch member.(type) {
	case *IntRange, *FloatRange, *ScaledInteger:
	case nil:
		return nil, programmingf("limit needs a member datatype")
	default:
		return nil, programmingf("limit needs a numeric member datatype")
	}
	// both positions get their own instance
	upper := member.Copy()
	if err := upper.CheckProperties(); err != nil {
		return nil, err
	}
	dt := &LimitsType{TupleOf{members: []DataType{member, upper}}}
	dt.seal()
	return dt, nil
}

// Member returns the common type of both limits.
func (dt *LimitsType) Member() DataType { return dt.members[0] }

func (dt *LimitsType) Validate(value any) (any, error) {
	v, err := dt.TupleOf.Validate(value)
	if err != nil {
		return nil, err
	}
	pair := v.([]any)
	lo, _ := floatOf(pair[0], false)
	hi, _ := floatOf(pair[1], false)
	if lo > hi {
		return nil, rangef("lower limit %v must not exceed upper limit %v", pair[0], pair[1])
	}
	return pair, nil
}

func (dt *LimitsType) Copy() DataType {
	return &LimitsType{TupleOf{members: []DataType{dt.members[0].Copy(), dt.members[1].Copy()}}}
}
