package datainfo

import (
	"fmt"

	"github.com/secop-community/datainfo-go/canonicaljson"
	"github.com/secop-community/datainfo-go/enum"
)

// Get builds a DataType from a data descriptor. A DataType input is
// passed through unchanged and nil yields nil, so module code can hand
// either form around. Descriptor keys that are not recognized for the
// kind are ignored, as required for forward compatibility. Any malformed
// descriptor yields an ErrWrongType.
func Get(v any) (DataType, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case DataType:
		return x, nil
	case map[string]any:
		dt, err := build(x)
		if err != nil {
			desc, cerr := canonicaljson.String(x)
			if cerr != nil {
				desc = fmt.Sprintf("%v", x)
			}
			return nil, wrongTypef("invalid data descriptor %s: %v", desc, err)
		}
		return dt, nil
	}
	return nil, wrongTypef("a data descriptor must be a mapping, got %s", shortRepr(v))
}

func build(m map[string]any) (DataType, error) {
	tag, ok := m["type"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or malformed %q key", "type")
	}
	builder, ok := builders[tag]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", tag)
	}
	return builder(m)
}

var builders map[string]func(m map[string]any) (DataType, error)

// assigned in init to avoid an initialization cycle through the compound
// builders, which call Get for their members
func init() {
	builders = map[string]func(m map[string]any) (DataType, error){
		"bool":    buildBool,
		"int":     buildInt,
		"double":  buildDouble,
		"scaled":  buildScaled,
		"enum":    buildEnum,
		"string":  buildString,
		"blob":    buildBlob,
		"array":   buildArray,
		"tuple":   buildTuple,
		"struct":  buildStruct,
		"command": buildCommand,
		"limit":   buildLimit,
	}
}

func buildBool(m map[string]any) (DataType, error) {
	return NewBool(), nil
}

func buildInt(m map[string]any) (DataType, error) {
	min, hasMin, err := propInt(m, "min")
	if err != nil {
		return nil, err
	}
	max, hasMax, err := propInt(m, "max")
	if err != nil {
		return nil, err
	}
	if hasMin != hasMax {
		return nil, fmt.Errorf("min and max must be given together")
	}
	if !hasMin {
		return NewIntRange(nil)
	}
	if min > max {
		return nil, fmt.Errorf("min (%d) is greater than max (%d)", min, max)
	}
	return NewIntRange(Props{"min": min, "max": max})
}

func buildDouble(m map[string]any) (DataType, error) {
	props := Props{}
	if err := copyFloatProp(m, props, "min"); err != nil {
		return nil, err
	}
	if err := copyFloatProp(m, props, "max"); err != nil {
		return nil, err
	}
	if err := copyNumberProps(m, props); err != nil {
		return nil, err
	}
	return NewFloatRange(props)
}

func buildScaled(m map[string]any) (DataType, error) {
	scale, ok, err := propFloat(m, "scale")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("missing %q", "scale")
	}
	if scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %v", scale)
	}
	min, ok, err := propInt(m, "min")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("missing %q", "min")
	}
	max, ok, err := propInt(m, "max")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("missing %q", "max")
	}
	if min > max {
		return nil, fmt.Errorf("min (%d) is greater than max (%d)", min, max)
	}
	// min and max are transported as integer multiples of the scale
	props := Props{"min": float64(min) * scale, "max": float64(max) * scale}
	if err := copyNumberProps(m, props); err != nil {
		return nil, err
	}
	return NewScaledInteger(scale, props)
}

// copyNumberProps carries the properties shared by double and scaled.
func copyNumberProps(m map[string]any, props Props) error {
	if err := copyStringProp(m, props, "unit"); err != nil {
		return err
	}
	if err := copyStringProp(m, props, "fmtstr"); err != nil {
		return err
	}
	if err := copyFloatProp(m, props, "absolute_resolution"); err != nil {
		return err
	}
	return copyFloatProp(m, props, "relative_resolution")
}

func buildEnum(m map[string]any) (DataType, error) {
	members, ok := m["members"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("missing or malformed %q mapping", "members")
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("enum needs at least one member")
	}
	defs := make([]enum.Def, 0, len(members))
	for _, name := range sortedKeys(members) {
		value, err := intOf(members[name], false)
		if err != nil {
			return nil, fmt.Errorf("member %q: %v", name, err)
		}
		defs = append(defs, enum.Val(name, value))
	}
	return NewEnumType("", defs...)
}

func buildString(m map[string]any) (DataType, error) {
	props := Props{}
	if err := copyIntProp(m, props, "minchars"); err != nil {
		return nil, err
	}
	if err := copyIntProp(m, props, "maxchars"); err != nil {
		return nil, err
	}
	if v, ok := m["isUTF8"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("isUTF8 must be a bool, got %s", shortRepr(v))
		}
		props["isUTF8"] = b
	}
	return NewString(props)
}

func buildBlob(m map[string]any) (DataType, error) {
	max, ok, err := propInt(m, "maxbytes")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("missing %q", "maxbytes")
	}
	props := Props{"maxbytes": max}
	if err := copyIntProp(m, props, "minbytes"); err != nil {
		return nil, err
	}
	return NewBLOB(props)
}

func buildArray(m map[string]any) (DataType, error) {
	members, ok := m["members"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("missing or malformed %q descriptor", "members")
	}
	member, err := Get(members)
	if err != nil {
		return nil, err
	}
	max, ok, err := propInt(m, "maxlen")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("missing %q", "maxlen")
	}
	props := Props{"maxlen": max}
	if err := copyIntProp(m, props, "minlen"); err != nil {
		return nil, err
	}
	return NewArrayOf(member, props)
}

func buildTuple(m map[string]any) (DataType, error) {
	members, ok := m["members"].([]any)
	if !ok {
		return nil, fmt.Errorf("missing or malformed %q list", "members")
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("tuple needs at least one member")
	}
	types := make([]DataType, len(members))
	for i, sub := range members {
		sm, ok := sub.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("member %d is not a descriptor", i)
		}
		var err error
		if types[i], err = Get(sm); err != nil {
			return nil, err
		}
	}
	return NewTupleOf(types...)
}

func buildStruct(m map[string]any) (DataType, error) {
	members, ok := m["members"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("missing or malformed %q mapping", "members")
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("struct needs at least one member")
	}
	types := make(map[string]DataType, len(members))
	for _, name := range sortedKeys(members) {
		sm, ok := members[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("member %q is not a descriptor", name)
		}
		dt, err := Get(sm)
		if err != nil {
			return nil, err
		}
		types[name] = dt
	}
	var optional []string
	if v, ok := m["optional"]; ok {
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("optional must be a list of member names")
		}
		for _, elem := range list {
			name, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("optional must be a list of member names")
			}
			optional = append(optional, name)
		}
	}
	return NewStructOf(types, optional...)
}

func buildCommand(m map[string]any) (DataType, error) {
	argument, err := subDescriptor(m, "argument")
	if err != nil {
		return nil, err
	}
	result, err := subDescriptor(m, "result")
	if err != nil {
		return nil, err
	}
	return NewCommandType(argument, result), nil
}

func buildLimit(m map[string]any) (DataType, error) {
	members, ok := m["members"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("missing or malformed %q descriptor", "members")
	}
	member, err := Get(members)
	if err != nil {
		return nil, err
	}
	return NewLimitsType(member)
}

func subDescriptor(m map[string]any, key string) (DataType, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	sm, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%q is not a descriptor", key)
	}
	return Get(sm)
}

func propInt(m map[string]any, key string) (int64, bool, error) {
	v, ok := m[key]
	if !ok {
		return 0, false, nil
	}
	i, err := intOf(v, false)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %v", key, err)
	}
	return i, true, nil
}

func propFloat(m map[string]any, key string) (float64, bool, error) {
	v, ok := m[key]
	if !ok {
		return 0, false, nil
	}
	f, err := floatOf(v, false)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %v", key, err)
	}
	return f, true, nil
}

func copyIntProp(m map[string]any, props Props, key string) error {
	i, ok, err := propInt(m, key)
	if err != nil {
		return err
	}
	if ok {
		props[key] = i
	}
	return nil
}

func copyFloatProp(m map[string]any, props Props, key string) error {
	f, ok, err := propFloat(m, key)
	if err != nil {
		return err
	}
	if ok {
		props[key] = f
	}
	return nil
}

func copyStringProp(m map[string]any, props Props, key string) error {
	v, ok := m[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%s must be a string, got %s", key, shortRepr(v))
	}
	props[key] = s
	return nil
}
