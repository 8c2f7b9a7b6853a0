// Package enum implements named integer enumerations with stable,
// order-independent member identity.
//
// An Enum is an immutable set of (name, value) pairs. Members are created
// through New or Extend and looked up by name, by value, or by another
// member. Values are int64; every name and every value is unique within
// one Enum.
//
// Member definitions may carry an explicit value, no value at all, or the
// name of a previously defined member. Without a value the member gets the
// largest value in the set so far plus one (one for an empty set). With an
// anchor name the member gets the smallest free value greater than the
// anchor's value, which keeps related codes adjacent when a set is
// extended.
package enum

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Def describes one member to add to an Enum.
//
// Value may be nil (auto assignment), an integer (explicit value), or a
// string naming an already defined member (insert after that member).
// Whole-number floats are accepted as integers since descriptor decoding
// commonly yields float64.
type Def struct {
	Name  string
	Value any
}

// Auto returns a Def whose value is assigned automatically.
func Auto(name string) Def { return Def{Name: name} }

// Val returns a Def with an explicit value.
func Val(name string, value int64) Def { return Def{Name: name, Value: value} }

// After returns a Def placed at the smallest free value above the member
// named anchor.
func After(name, anchor string) Def { return Def{Name: name, Value: anchor} }

// Member is one named value of an Enum. Members are comparable across
// enums by value.
type Member struct {
	enum  *Enum
	name  string
	value int64
}

// Name returns the member's name.
func (m *Member) Name() string { return m.name }

// Value returns the member's integer value.
func (m *Member) Value() int64 { return m.value }

// Enum returns the enumeration the member belongs to.
func (m *Member) Enum() *Enum { return m.enum }

func (m *Member) String() string {
	return fmt.Sprintf("%s<%d>", m.name, m.value)
}

// Equal reports whether v denotes this member. Members and integers
// compare by value. A string compares by name, and only when that name is
// a member of the same enum; unknown names are never equal, so a typo
// cannot silently compare false against the intended member without also
// comparing false against all others.
func (m *Member) Equal(v any) bool {
	switch x := v.(type) {
	case *Member:
		return x != nil && x.value == m.value
	case string:
		if _, ok := m.enum.byName[x]; !ok {
			return false
		}
		return x == m.name
	default:
		if i, ok := intValue(v); ok {
			return i == m.value
		}
		return false
	}
}

// Compare orders members by value.
func (m *Member) Compare(other *Member) int {
	switch {
	case m.value < other.value:
		return -1
	case m.value > other.value:
		return 1
	}
	return 0
}

// MarshalJSON encodes the member as its integer value.
func (m *Member) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.value)
}

// Enum is an immutable named set of members.
type Enum struct {
	name    string
	byName  map[string]*Member
	byValue map[int64]*Member
}

// New builds an Enum from the given definitions, applied in order. It
// fails on empty names, non-integer values, unknown anchors, and
// conflicting redefinitions. Defining the same (name, value) pair twice
// is a no-op.
func New(name string, defs ...Def) (*Enum, error) {
	e := &Enum{
		name:    name,
		byName:  make(map[string]*Member, len(defs)),
		byValue: make(map[int64]*Member, len(defs)),
	}
	for _, d := range defs {
		if err := e.add(d); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Extend returns a new Enum carrying all members of e plus the given
// definitions. e itself is not changed.
func (e *Enum) Extend(defs ...Def) (*Enum, error) {
	out := &Enum{
		name:    e.name,
		byName:  make(map[string]*Member, len(e.byName)+len(defs)),
		byValue: make(map[int64]*Member, len(e.byValue)+len(defs)),
	}
	for _, m := range e.Members() {
		if err := out.add(Def{Name: m.name, Value: m.value}); err != nil {
			return nil, err
		}
	}
	for _, d := range defs {
		if err := out.add(d); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (e *Enum) add(d Def) error {
	if d.Name == "" {
		return fmt.Errorf("enum %q: member name must not be empty", e.name)
	}
	var value int64
	switch x := d.Value.(type) {
	case nil:
		value = e.maxValue() + 1
	case string:
		anchor, ok := e.byName[x]
		if !ok {
			return fmt.Errorf("enum %q: anchor %q for member %q is not defined", e.name, x, d.Name)
		}
		value = anchor.value + 1
		for {
			if _, taken := e.byValue[value]; !taken {
				break
			}
			value++
		}
	default:
		i, ok := intValue(d.Value)
		if !ok {
			return fmt.Errorf("enum %q: value for member %q must be an integer or the name of an existing member, got %v", e.name, d.Name, d.Value)
		}
		value = i
	}
	if prev, ok := e.byName[d.Name]; ok {
		if prev.value == value {
			return nil
		}
		return fmt.Errorf("enum %q: name %q already defined with value %d", e.name, d.Name, prev.value)
	}
	if prev, ok := e.byValue[value]; ok {
		return fmt.Errorf("enum %q: value %d already defined as %q", e.name, value, prev.name)
	}
	m := &Member{enum: e, name: d.Name, value: value}
	e.byName[d.Name] = m
	e.byValue[value] = m
	return nil
}

func (e *Enum) maxValue() int64 {
	if len(e.byValue) == 0 {
		return 0 // the first automatic value of an empty set is 1
	}
	max := int64(math.MinInt64)
	for v := range e.byValue {
		if v > max {
			max = v
		}
	}
	return max
}

// Name returns the enumeration's name.
func (e *Enum) Name() string { return e.name }

// Len returns the number of members.
func (e *Enum) Len() int { return len(e.byName) }

// ByName returns the member with the given name.
func (e *Enum) ByName(name string) (*Member, bool) {
	m, ok := e.byName[name]
	return m, ok
}

// ByValue returns the member with the given value.
func (e *Enum) ByValue(value int64) (*Member, bool) {
	m, ok := e.byValue[value]
	return m, ok
}

// Lookup resolves v to a member of e. Accepted are members (matched by
// value, also across enums), integers including whole-number floats and
// booleans, and names.
func (e *Enum) Lookup(v any) (*Member, bool) {
	switch x := v.(type) {
	case *Member:
		if x == nil {
			return nil, false
		}
		return e.ByValue(x.value)
	case string:
		return e.ByName(x)
	default:
		if i, ok := intValue(v); ok {
			return e.ByValue(i)
		}
		return nil, false
	}
}

// Members returns all members sorted by value.
func (e *Enum) Members() []*Member {
	out := make([]*Member, 0, len(e.byValue))
	for _, m := range e.byValue {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].value < out[j].value })
	return out
}

func (e *Enum) String() string {
	s := e.name + "("
	for i, m := range e.Members() {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s=%d", m.name, m.value)
	}
	return s + ")"
}

func intValue(v any) (int64, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float32:
		return intValue(float64(x))
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.Abs(x) > float64(math.MaxInt64) {
			return 0, false
		}
		return int64(x), true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, true
		}
		if f, err := x.Float64(); err == nil {
			return intValue(f)
		}
		return 0, false
	}
	return 0, false
}
