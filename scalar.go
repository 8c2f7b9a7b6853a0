package datainfo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Default integer bounds, chosen so every value survives a float64 round
// trip exactly.
const (
	DefaultMinInt = -16777216
	DefaultMaxInt = 16777216
)

const defaultRelativeResolution = 1.2e-7

// BoolType represents a boolean. Canonical values are Go bools; common
// textual and numeric spellings are coerced.
type BoolType struct {
	sealable
}

// NewBool returns a sealed boolean type. It has no properties.
func NewBool() *BoolType {
	dt := &BoolType{}
	dt.seal()
	return dt
}

func (dt *BoolType) Coerce(value any) (any, error) {
	switch x := value.(type) {
	case bool:
		return x, nil
	case string:
		switch x {
		case "0", "False", "false", "no", "off":
			return false, nil
		case "1", "True", "true", "yes", "on":
			return true, nil
		}
	default:
		if i, err := intOf(value, false); err == nil {
			switch i {
			case 0:
				return false, nil
			case 1:
				return true, nil
			}
		}
	}
	return nil, wrongTypef("%s is not a boolean value", shortRepr(value))
}

func (dt *BoolType) Validate(value any) (any, error) { return dt.Coerce(value) }

func (dt *BoolType) ExportValue(value any) (any, error) { return dt.Coerce(value) }

func (dt *BoolType) ImportValue(wire any) (any, error) { return dt.Coerce(wire) }

func (dt *BoolType) FormatValue(value any, unit ...string) string {
	v, err := dt.Coerce(value)
	if err != nil {
		return shortRepr(value)
	}
	return strconv.FormatBool(v.(bool))
}

func (dt *BoolType) FromString(text string) (any, error) { return dt.Coerce(text) }

func (dt *BoolType) ExportDatatype() DataInfo { return DataInfo{"type": "bool"} }

func (dt *BoolType) Copy() DataType { return &BoolType{} }

func (dt *BoolType) Compatible(other DataType) error {
	switch o := other.(type) {
	case *BoolType:
		return nil
	case *IntRange:
		if _, err := o.Validate(0); err != nil {
			return incompatible(dt, other, err)
		}
		if _, err := o.Validate(1); err != nil {
			return incompatible(dt, other, err)
		}
		return nil
	}
	return incompatible(dt, other, nil)
}

func (dt *BoolType) SetProperty(key string, value any) error {
	if err := dt.assertOpen(); err != nil {
		return err
	}
	return programmingf("bool has no property %q", key)
}

func (dt *BoolType) CheckProperties() error {
	dt.seal()
	return nil
}

func (dt *BoolType) SetMainUnit(unit string) error { return nil }

// IntRange represents an integer within inclusive bounds. Canonical values
// are int64.
type IntRange struct {
	sealable
	min, max int64
	lazy     bool
}

// NewIntRange returns an integer type. Recognized properties are "min" and
// "max"; both default to the float-safe limits.
func NewIntRange(props Props) (*IntRange, error) {
	dt := &IntRange{min: DefaultMinInt, max: DefaultMaxInt, lazy: LazyNumberValidation()}
	if err := sealNew(dt, props); err != nil {
		return nil, err
	}
	return dt, nil
}

// Min returns the lower bound.
func (dt *IntRange) Min() int64 { return dt.min }

// Max returns the upper bound.
func (dt *IntRange) Max() int64 { return dt.max }

func (dt *IntRange) Coerce(value any) (any, error) {
	return intOf(value, dt.lazy)
}

func (dt *IntRange) Validate(value any) (any, error) {
	i, err := intOf(value, dt.lazy)
	if err != nil {
		return nil, err
	}
	if i < dt.min || i > dt.max {
		return nil, rangef("%d must be between %d and %d", i, dt.min, dt.max)
	}
	return i, nil
}

func (dt *IntRange) ExportValue(value any) (any, error) { return dt.Coerce(value) }

func (dt *IntRange) ImportValue(wire any) (any, error) { return dt.Coerce(wire) }

func (dt *IntRange) FormatValue(value any, unit ...string) string {
	i, err := intOf(value, dt.lazy)
	if err != nil {
		return shortRepr(value)
	}
	return strconv.FormatInt(i, 10)
}

func (dt *IntRange) FromString(text string) (any, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return nil, wrongTypef("%s is not an integer", shortRepr(text))
	}
	return dt.Coerce(i)
}

func (dt *IntRange) ExportDatatype() DataInfo {
	// min and max are mandatory on the wire even at their defaults.
	return DataInfo{"type": "int", "min": dt.min, "max": dt.max}
}

func (dt *IntRange) Copy() DataType {
	return &IntRange{min: dt.min, max: dt.max, lazy: dt.lazy}
}

func (dt *IntRange) Compatible(other DataType) error {
	switch o := other.(type) {
	case *IntRange, *FloatRange, *ScaledInteger:
		if _, err := o.Validate(dt.min); err != nil {
			return incompatible(dt, other, err)
		}
		if _, err := o.Validate(dt.max); err != nil {
			return incompatible(dt, other, err)
		}
		return nil
	case *BoolType:
		if dt.min == 0 && dt.max == 1 {
			return nil
		}
		return incompatible(dt, other, fmt.Errorf("range [%d, %d] is not [0, 1]", dt.min, dt.max))
	}
	if o, ok := asEnum(other); ok {
		// counting the members inside the range avoids walking the range
		// itself and the overflow of max-min+1 on extreme bounds
		covered := 0
		for _, m := range o.members.Members() {
			if v := m.Value(); v >= dt.min && v <= dt.max {
				covered++
			}
		}
		if span := uint64(dt.max) - uint64(dt.min) + 1; uint64(covered) != span {
			return incompatible(dt, other, fmt.Errorf("not every value between %d and %d is a member", dt.min, dt.max))
		}
		return nil
	}
	return incompatible(dt, other, nil)
}

func (dt *IntRange) SetProperty(key string, value any) error {
	if err := dt.assertOpen(); err != nil {
		return err
	}
	i, err := intOf(value, false)
	if err != nil {
		return err
	}
	switch key {
	case "min":
		dt.min = i
	case "max":
		dt.max = i
	default:
		return programmingf("int has no property %q", key)
	}
	return nil
}

func (dt *IntRange) CheckProperties() error {
	if dt.min > dt.max {
		return configf("min (%d) must not be greater than max (%d)", dt.min, dt.max)
	}
	dt.seal()
	return nil
}

func (dt *IntRange) SetMainUnit(unit string) error { return nil }

// FloatRange represents a float64 within inclusive bounds. Values within
// resolution of a bound validate and are clamped onto it.
type FloatRange struct {
	sealable
	min, max       float64
	unit           string
	fmtStr         string
	absRes, relRes float64
	lazy           bool
}

// NewFloatRange returns a floating point type. Recognized properties are
// "min", "max", "unit", "fmtstr", "absolute_resolution" and
// "relative_resolution".
func NewFloatRange(props Props) (*FloatRange, error) {
	dt := &FloatRange{
		min:    -math.MaxFloat64,
		max:    math.MaxFloat64,
		fmtStr: "%g",
		relRes: defaultRelativeResolution,
		lazy:   LazyNumberValidation(),
	}
	if err := sealNew(dt, props); err != nil {
		return nil, err
	}
	return dt, nil
}

// Min returns the lower bound.
func (dt *FloatRange) Min() float64 { return dt.min }

// Max returns the upper bound.
func (dt *FloatRange) Max() float64 { return dt.max }

// Unit returns the configured unit.
func (dt *FloatRange) Unit() string { return dt.unit }

func (dt *FloatRange) Coerce(value any) (any, error) {
	f, err := floatOf(value, dt.lazy)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) {
		return nil, wrongTypef("NaN is not a valid float value")
	}
	// infinities collapse onto the largest finite float
	return clamp(-math.MaxFloat64, f, math.MaxFloat64), nil
}

func (dt *FloatRange) Validate(value any) (any, error) {
	v, err := dt.Coerce(value)
	if err != nil {
		return nil, err
	}
	f := v.(float64)
	prec := math.Max(math.Abs(f*dt.relRes), dt.absRes)
	if f >= dt.min-prec && f <= dt.max+prec {
		return clamp(dt.min, f, dt.max), nil
	}
	return nil, rangef("%v must be between %v and %v", f, dt.min, dt.max)
}

func (dt *FloatRange) ExportValue(value any) (any, error) { return dt.Coerce(value) }

func (dt *FloatRange) ImportValue(wire any) (any, error) { return dt.Coerce(wire) }

func (dt *FloatRange) FormatValue(value any, unit ...string) string {
	f, err := floatOf(value, dt.lazy)
	if err != nil {
		return shortRepr(value)
	}
	return withUnit(fmt.Sprintf(dt.fmtStr, f), pickUnit(dt.unit, unit))
}

func (dt *FloatRange) FromString(text string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil, wrongTypef("%s is not a float", shortRepr(text))
	}
	return dt.Coerce(f)
}

func (dt *FloatRange) ExportDatatype() DataInfo {
	info := DataInfo{"type": "double"}
	if dt.min != -math.MaxFloat64 {
		info["min"] = dt.min
	}
	if dt.max != math.MaxFloat64 {
		info["max"] = dt.max
	}
	if dt.unit != "" {
		info["unit"] = dt.unit
	}
	if dt.fmtStr != "%g" {
		info["fmtstr"] = dt.fmtStr
	}
	if dt.absRes != 0 {
		info["absolute_resolution"] = dt.absRes
	}
	if dt.relRes != defaultRelativeResolution {
		info["relative_resolution"] = dt.relRes
	}
	return info
}

func (dt *FloatRange) Copy() DataType {
	c := *dt
	c.done = false
	return &c
}

func (dt *FloatRange) Compatible(other DataType) error {
	switch o := other.(type) {
	case *FloatRange, *ScaledInteger:
		if _, err := o.Validate(dt.min); err != nil {
			return incompatible(dt, other, err)
		}
		if _, err := o.Validate(dt.max); err != nil {
			return incompatible(dt, other, err)
		}
		return nil
	}
	return incompatible(dt, other, nil)
}

func (dt *FloatRange) SetProperty(key string, value any) error {
	if err := dt.assertOpen(); err != nil {
		return err
	}
	switch key {
	case "min", "max":
		f, err := floatOf(value, false)
		if err != nil {
			return err
		}
		if key == "min" {
			dt.min = f
		} else {
			dt.max = f
		}
	case "unit":
		s, ok := value.(string)
		if !ok {
			return wrongTypef("unit must be a string, got %s", shortRepr(value))
		}
		dt.unit = s
	case "fmtstr":
		s, ok := value.(string)
		if !ok {
			return wrongTypef("fmtstr must be a string, got %s", shortRepr(value))
		}
		dt.fmtStr = s
	case "absolute_resolution":
		f, err := floatOf(value, false)
		if err != nil {
			return err
		}
		if f < 0 {
			return rangef("absolute_resolution must not be negative")
		}
		dt.absRes = f
	case "relative_resolution":
		f, err := floatOf(value, false)
		if err != nil {
			return err
		}
		if f < 0 {
			return rangef("relative_resolution must not be negative")
		}
		dt.relRes = f
	default:
		return programmingf("double has no property %q", key)
	}
	return nil
}

func (dt *FloatRange) CheckProperties() error {
	if dt.min > dt.max {
		return configf("min (%v) must not be greater than max (%v)", dt.min, dt.max)
	}
	if !strings.Contains(dt.fmtStr, "%") {
		return configf("invalid fmtstr %q", dt.fmtStr)
	}
	dt.seal()
	return nil
}

func (dt *FloatRange) SetMainUnit(unit string) error {
	if !strings.Contains(dt.unit, mainUnitToken) {
		return nil
	}
	if err := dt.assertOpen(); err != nil {
		return err
	}
	dt.unit = strings.ReplaceAll(dt.unit, mainUnitToken, unit)
	return nil
}

// ScaledInteger represents a float quantized to integer multiples of a
// fixed scale. Canonical values are float64; transport values are the
// integer multiples.
type ScaledInteger struct {
	sealable
	scale          float64
	min, max       float64
	unit           string
	fmtStr         string
	absRes, relRes float64
	lazy           bool
}

// NewScaledInteger returns a scaled integer type with the given positive
// scale. Recognized properties are "min", "max", "unit", "fmtstr",
// "absolute_resolution" and "relative_resolution"; min and max are given
// on the scaled (float) axis. absolute_resolution follows the scale unless
// set explicitly.
func NewScaledInteger(scale float64, props Props) (*ScaledInteger, error) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return nil, programmingf("scale must be a positive number, got %v", scale)
	}
	dt := &ScaledInteger{
		scale:  scale,
		min:    DefaultMinInt * scale,
		max:    DefaultMaxInt * scale,
		fmtStr: "%g",
		absRes: scale,
		relRes: defaultRelativeResolution,
		lazy:   LazyNumberValidation(),
	}
	if err := sealNew(dt, props); err != nil {
		return nil, err
	}
	return dt, nil
}

// Scale returns the quantization step.
func (dt *ScaledInteger) Scale() float64 { return dt.scale }

// Min returns the lower bound on the scaled axis.
func (dt *ScaledInteger) Min() float64 { return dt.min }

// Max returns the upper bound on the scaled axis.
func (dt *ScaledInteger) Max() float64 { return dt.max }

// Unit returns the configured unit.
func (dt *ScaledInteger) Unit() string { return dt.unit }

// AbsoluteResolution returns the current absolute resolution.
func (dt *ScaledInteger) AbsoluteResolution() float64 { return dt.absRes }

// quantize snaps f onto the nearest multiple of the scale, rounding half
// to even like the transport integers do.
func (dt *ScaledInteger) quantize(f float64) float64 {
	return math.RoundToEven(f/dt.scale) * dt.scale
}

func (dt *ScaledInteger) Coerce(value any) (any, error) {
	f, err := floatOf(value, dt.lazy)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, wrongTypef("%v is not a finite number", f)
	}
	return dt.quantize(f), nil
}

func (dt *ScaledInteger) Validate(value any) (any, error) {
	f, err := floatOf(value, dt.lazy)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, wrongTypef("%v is not a finite number", f)
	}
	// the raw value may overshoot a bound by strictly less than one scale
	// step; the result is then clamped onto the quantized bound
	if f > dt.min-dt.scale && f < dt.max+dt.scale {
		return clamp(dt.quantize(dt.min), dt.quantize(f), dt.quantize(dt.max)), nil
	}
	return nil, rangef("%v must be between %v and %v", f, dt.min, dt.max)
}

func (dt *ScaledInteger) ExportValue(value any) (any, error) {
	f, err := floatOf(value, dt.lazy)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, wrongTypef("%v is not a finite number", f)
	}
	return int64(math.RoundToEven(f / dt.scale)), nil
}

func (dt *ScaledInteger) ImportValue(wire any) (any, error) {
	i, err := intOf(wire, false)
	if err != nil {
		return nil, err
	}
	return float64(i) * dt.scale, nil
}

func (dt *ScaledInteger) FormatValue(value any, unit ...string) string {
	v, err := dt.Coerce(value)
	if err != nil {
		return shortRepr(value)
	}
	return withUnit(fmt.Sprintf(dt.fmtStr, v.(float64)), pickUnit(dt.unit, unit))
}

func (dt *ScaledInteger) FromString(text string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil, wrongTypef("%s is not a float", shortRepr(text))
	}
	return dt.Coerce(f)
}

func (dt *ScaledInteger) ExportDatatype() DataInfo {
	info := DataInfo{
		"type":  "scaled",
		"scale": dt.scale,
		"min":   int64(math.RoundToEven(dt.min / dt.scale)),
		"max":   int64(math.RoundToEven(dt.max / dt.scale)),
	}
	if dt.unit != "" {
		info["unit"] = dt.unit
	}
	if dt.fmtStr != "%g" {
		info["fmtstr"] = dt.fmtStr
	}
	if dt.absRes != dt.scale {
		// zero explicitly disables the admission band and is exported
		info["absolute_resolution"] = dt.absRes
	}
	if dt.relRes != defaultRelativeResolution {
		info["relative_resolution"] = dt.relRes
	}
	return info
}

func (dt *ScaledInteger) Copy() DataType {
	c := *dt
	c.done = false
	return &c
}

func (dt *ScaledInteger) Compatible(other DataType) error {
	switch o := other.(type) {
	case *FloatRange, *ScaledInteger:
		if _, err := o.Validate(dt.min); err != nil {
			return incompatible(dt, other, err)
		}
		if _, err := o.Validate(dt.max); err != nil {
			return incompatible(dt, other, err)
		}
		return nil
	}
	return incompatible(dt, other, nil)
}

func (dt *ScaledInteger) SetProperty(key string, value any) error {
	if err := dt.assertOpen(); err != nil {
		return err
	}
	switch key {
	case "scale":
		f, err := floatOf(value, false)
		if err != nil {
			return err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
			return rangef("scale must be a positive number, got %v", f)
		}
		if dt.absRes == dt.scale {
			dt.absRes = f
		}
		dt.scale = f
	case "min", "max":
		f, err := floatOf(value, false)
		if err != nil {
			return err
		}
		if key == "min" {
			dt.min = f
		} else {
			dt.max = f
		}
	case "unit":
		s, ok := value.(string)
		if !ok {
			return wrongTypef("unit must be a string, got %s", shortRepr(value))
		}
		dt.unit = s
	case "fmtstr":
		s, ok := value.(string)
		if !ok {
			return wrongTypef("fmtstr must be a string, got %s", shortRepr(value))
		}
		dt.fmtStr = s
	case "absolute_resolution":
		f, err := floatOf(value, false)
		if err != nil {
			return err
		}
		if f < 0 {
			return rangef("absolute_resolution must not be negative")
		}
		dt.absRes = f
	case "relative_resolution":
		f, err := floatOf(value, false)
		if err != nil {
			return err
		}
		if f < 0 {
			return rangef("relative_resolution must not be negative")
		}
		dt.relRes = f
	default:
		return programmingf("scaled has no property %q", key)
	}
	return nil
}

func (dt *ScaledInteger) CheckProperties() error {
	if dt.min > dt.max {
		return configf("min (%v) must not be greater than max (%v)", dt.min, dt.max)
	}
	if !strings.Contains(dt.fmtStr, "%") {
		return configf("invalid fmtstr %q", dt.fmtStr)
	}
	dt.seal()
	return nil
}

func (dt *ScaledInteger) SetMainUnit(unit string) error {
	if !strings.Contains(dt.unit, mainUnitToken) {
		return nil
	}
	if err := dt.assertOpen(); err != nil {
		return err
	}
	dt.unit = strings.ReplaceAll(dt.unit, mainUnitToken, unit)
	return nil
}
