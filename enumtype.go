package datainfo

import (
	"fmt"
	"sort"

	"github.com/secop-community/datainfo-go/enum"
)

// EnumType represents one member of a named enumeration. Canonical values
// are *enum.Member; names and integer values are coerced.
type EnumType struct {
	sealable
	members *enum.Enum
}

// NewEnumType builds an enumeration type from member definitions, applied
// in order.
func NewEnumType(name string, defs ...enum.Def) (*EnumType, error) {
	e, err := enum.New(name, defs...)
	if err != nil {
		return nil, asProgramming(err)
	}
	return NewEnumTypeOf(e)
}

// NewEnumTypeOf wraps an existing enumeration.
func NewEnumTypeOf(e *enum.Enum) (*EnumType, error) {
	if e == nil {
		return nil, programmingf("enum type needs an enumeration")
	}
	if e.Len() == 0 {
		return nil, programmingf("enum %q has no members", e.Name())
	}
	dt := &EnumType{members: e}
	dt.seal()
	return dt, nil
}

// Enum returns the underlying enumeration.
func (dt *EnumType) Enum() *enum.Enum { return dt.members }

func (dt *EnumType) Coerce(value any) (any, error) {
	if m, ok := dt.members.Lookup(value); ok {
		return m, nil
	}
	switch value.(type) {
	case string, *enum.Member:
		return nil, rangef("%s is not a member of enum %q", shortRepr(value), dt.members.Name())
	}
	if _, err := intOf(value, false); err == nil {
		return nil, rangef("%s is not a member of enum %q", shortRepr(value), dt.members.Name())
	}
	return nil, wrongTypef("%s can not name an enum member", shortRepr(value))
}

func (dt *EnumType) Validate(value any) (any, error) { return dt.Coerce(value) }

func (dt *EnumType) ExportValue(value any) (any, error) {
	v, err := dt.Coerce(value)
	if err != nil {
		return nil, err
	}
	return v.(*enum.Member).Value(), nil
}

func (dt *EnumType) ImportValue(wire any) (any, error) { return dt.Coerce(wire) }

func (dt *EnumType) FormatValue(value any, unit ...string) string {
	v, err := dt.Coerce(value)
	if err != nil {
		return shortRepr(value)
	}
	return v.(*enum.Member).String()
}

func (dt *EnumType) FromString(text string) (any, error) { return dt.Coerce(text) }

func (dt *EnumType) ExportDatatype() DataInfo {
	members := make(map[string]any, dt.members.Len())
	for _, m := range dt.members.Members() {
		members[m.Name()] = m.Value()
	}
	return DataInfo{"type": "enum", "members": members}
}

func (dt *EnumType) Copy() DataType {
	e, _ := dt.members.Extend() // a plain rebuild can not fail
	return &EnumType{members: e}
}

func (dt *EnumType) Compatible(other DataType) error {
	o, ok := asEnum(other)
	if !ok {
		return incompatible(dt, other, nil)
	}
	for _, m := range dt.members.Members() {
		if _, ok := o.members.ByValue(m.Value()); !ok {
			return incompatible(dt, other, fmt.Errorf("no member with value %d", m.Value()))
		}
	}
	return nil
}

func (dt *EnumType) SetProperty(key string, value any) error {
	if err := dt.assertOpen(); err != nil {
		return err
	}
	return programmingf("enum has no property %q", key)
}

func (dt *EnumType) CheckProperties() error {
	dt.seal()
	return nil
}

func (dt *EnumType) SetMainUnit(unit string) error { return nil }

// asEnum unwraps enum-kind types for compatibility dispatch.
func asEnum(dt DataType) (*EnumType, bool) {
	switch x := dt.(type) {
	case *EnumType:
		return x, true
	case *StatusType:
		return &x.EnumType, true
	}
	return nil, false
}

// Standard status category codes. Codes within one century share the
// meaning of the century's base code; finer codes refine it.
const (
	StatusDisabled      = 0
	StatusIdle          = 100
	StatusStandby       = 130
	StatusPrepared      = 150
	StatusWarn          = 200
	StatusWarnStandby   = 230
	StatusWarnPrepared  = 250
	StatusUnstable      = 270
	StatusBusy          = 300
	StatusDisabling     = 310
	StatusInitializing  = 320
	StatusPreparing     = 340
	StatusStarting      = 360
	StatusRamping       = 370
	StatusStabilizing   = 380
	StatusFinalizing    = 390
	StatusError         = 400
	StatusUnknown       = 401
	StatusErrorStandby  = 430
	StatusErrorPrepared = 450
)

var statusCodes = map[string]int64{
	"DISABLED":       StatusDisabled,
	"IDLE":           StatusIdle,
	"STANDBY":        StatusStandby,
	"PREPARED":       StatusPrepared,
	"WARN":           StatusWarn,
	"WARN_STANDBY":   StatusWarnStandby,
	"WARN_PREPARED":  StatusWarnPrepared,
	"UNSTABLE":       StatusUnstable,
	"BUSY":           StatusBusy,
	"DISABLING":      StatusDisabling,
	"INITIALIZING":   StatusInitializing,
	"PREPARING":      StatusPreparing,
	"STARTING":       StatusStarting,
	"RAMPING":        StatusRamping,
	"STABILIZING":    StatusStabilizing,
	"FINALIZING":     StatusFinalizing,
	"ERROR":          StatusError,
	"UNKNOWN":        StatusUnknown,
	"ERROR_STANDBY":  StatusErrorStandby,
	"ERROR_PREPARED": StatusErrorPrepared,
}

// StandardStatusCode returns the code for a standard status name.
func StandardStatusCode(name string) (int64, bool) {
	code, ok := statusCodes[name]
	return code, ok
}

// StatusType is an enumeration of device states following the standard
// status code table. Standard names get their well-known codes; custom
// members need explicit values unless they reuse a standard name.
type StatusType struct {
	EnumType
}

// NewStatusType builds a status enumeration. base may be nil or an
// enumeration to extend; standard lists standard code names; custom adds
// further members. A custom member reusing a standard name must carry the
// standard value or none.
func NewStatusType(base *enum.Enum, standard []string, custom ...enum.Def) (*StatusType, error) {
	defs := make([]enum.Def, 0, len(standard)+len(custom))
	for _, name := range standard {
		code, ok := statusCodes[name]
		if !ok {
			return nil, programmingf("%q is not a standard status code name", name)
		}
		defs = append(defs, enum.Val(name, code))
	}
	for _, d := range custom {
		if code, ok := statusCodes[d.Name]; ok {
			if d.Value == nil {
				d.Value = code
			} else if i, err := intOf(d.Value, false); err != nil || i != code {
				return nil, programmingf("status code %q is reserved for value %d", d.Name, code)
			}
		} else if d.Value == nil {
			return nil, programmingf("custom status code %q needs an explicit value", d.Name)
		}
		defs = append(defs, d)
	}
	var (
		e   *enum.Enum
		err error
	)
	if base != nil {
		e, err = base.Extend(defs...)
	} else {
		e, err = enum.New("Status", defs...)
	}
	if err != nil {
		return nil, asProgramming(err)
	}
	if e.Len() == 0 {
		return nil, programmingf("status type has no members")
	}
	st := &StatusType{EnumType{members: e}}
	st.seal()
	return st, nil
}

// Code returns the member with the given name.
func (dt *StatusType) Code(name string) (*enum.Member, error) {
	m, ok := dt.members.ByName(name)
	if !ok {
		return nil, rangef("%q is not a member of enum %q", name, dt.members.Name())
	}
	return m, nil
}

// Names returns all member names sorted by code.
func (dt *StatusType) Names() []string {
	members := dt.members.Members()
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Name()
	}
	return out
}

func (dt *StatusType) Copy() DataType {
	e, _ := dt.members.Extend()
	return &StatusType{EnumType{members: e}}
}

// sortedKeys returns the keys of m in sorted order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
