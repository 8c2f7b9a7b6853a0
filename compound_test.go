package datainfo

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayOf(t *testing.T) {
	dt := mustArray(t, mustIntRange(t, Props{"min": -10, "max": 10}), Props{"minlen": 1, "maxlen": 3})
	requireDescriptor(t, dt,
		`{"maxlen":3,"members":{"max":10,"min":-10,"type":"int"},"minlen":1,"type":"array"}`)

	got, err := dt.Validate([]any{1, 2.0, 3})
	require.NoError(t, err)
	if diff := deep.Equal(got, []any{int64(1), int64(2), int64(3)}); diff != nil {
		t.Error(diff)
	}

	_, err = dt.Validate([]any{})
	assert.True(t, IsRange(err), "err = %v", err)
	_, err = dt.Validate([]any{1, 2, 3, 4})
	assert.True(t, IsRange(err), "err = %v", err)
	_, err = dt.Validate("not a list")
	assert.True(t, IsWrongType(err))

	// element errors keep their kind
	_, err = dt.Validate([]any{99})
	assert.True(t, IsRange(err), "err = %v", err)
	_, err = dt.Validate([]any{"x"})
	assert.True(t, IsWrongType(err), "err = %v", err)

	wire, err := dt.ExportValue([]any{1, 2})
	require.NoError(t, err)
	if diff := deep.Equal(wire, []any{int64(1), int64(2)}); diff != nil {
		t.Error(diff)
	}
}

func TestArrayOfDefaults(t *testing.T) {
	dt := mustArray(t, NewBool(), nil)
	requireDescriptor(t, dt, `{"maxlen":100,"members":{"type":"bool"},"minlen":0,"type":"array"}`)

	// minlen alone fixes the length
	exact := mustArray(t, NewBool(), Props{"minlen": 2})
	requireDescriptor(t, exact, `{"maxlen":2,"members":{"type":"bool"},"minlen":2,"type":"array"}`)

	_, err := NewArrayOf(nil, nil)
	assert.True(t, IsProgramming(err))
	_, err = NewArrayOf(NewBool(), Props{"minlen": 3, "maxlen": 1})
	assert.True(t, IsConfig(err))
}

func TestArrayOfFormat(t *testing.T) {
	dt := mustArray(t, mustFloatRange(t, Props{"unit": "Z"}), nil)
	// the member unit is factored out of the elements
	assert.Equal(t, "[1, 2, 3] Z", dt.FormatValue([]any{1, 2, 3}))
	assert.Equal(t, "[1, 2, 3]", dt.FormatValue([]any{1, 2, 3}, ""))

	nested := mustArray(t, dt, nil)
	assert.Equal(t, "[[1, 2], [3]] Z", nested.FormatValue([]any{[]any{1, 2}, []any{3}}))
}

func TestArrayOfMemberProps(t *testing.T) {
	// unknown property keys configure the member
	c := mustArray(t, mustFloatRange(t, nil), nil).Copy().(*ArrayOf)
	require.NoError(t, c.SetProperty("unit", "A"))
	require.NoError(t, c.CheckProperties())
	assert.Equal(t, "A", c.Member().(*FloatRange).Unit())
}

func TestTupleOf(t *testing.T) {
	dt := mustTuple(t, mustIntRange(t, Props{"min": -10, "max": 10}), NewBool())
	requireDescriptor(t, dt,
		`{"members":[{"max":10,"min":-10,"type":"int"},{"type":"bool"}],"type":"tuple"}`)

	got, err := dt.Validate([]any{3, "on"})
	require.NoError(t, err)
	if diff := deep.Equal(got, []any{int64(3), true}); diff != nil {
		t.Error(diff)
	}

	// arity mismatch is a type error, not a range error
	_, err = dt.Validate([]any{3})
	assert.True(t, IsWrongType(err), "err = %v", err)
	_, err = dt.Validate([]any{3, true, 0})
	assert.True(t, IsWrongType(err), "err = %v", err)
	_, err = dt.Validate([]any{99, true})
	assert.True(t, IsRange(err), "err = %v", err)

	assert.Equal(t, "(3, false)", dt.FormatValue([]any{3, false}))

	_, err = NewTupleOf()
	assert.True(t, IsProgramming(err))
}

func TestStructOf(t *testing.T) {
	dt := mustStruct(t, map[string]DataType{
		"an_int":   mustIntRange(t, Props{"min": 0, "max": 999}),
		"a_string": mustString(t, nil),
	}, "a_string")
	requireDescriptor(t, dt,
		`{"members":{"a_string":{"type":"string"},"an_int":{"max":999,"min":0,"type":"int"}},"optional":["a_string"],"type":"struct"}`)

	got, err := dt.Validate(map[string]any{"an_int": 2, "a_string": "Z"})
	require.NoError(t, err)
	if diff := deep.Equal(got, map[string]any{"an_int": int64(2), "a_string": "Z"}); diff != nil {
		t.Error(diff)
	}

	// optional members may be absent or nil
	got, err = dt.Validate(map[string]any{"an_int": 2})
	require.NoError(t, err)
	if diff := deep.Equal(got, map[string]any{"an_int": int64(2)}); diff != nil {
		t.Error(diff)
	}
	_, err = dt.Validate(map[string]any{"an_int": 2, "a_string": nil})
	require.NoError(t, err)

	// mandatory members may not
	_, err = dt.Validate(map[string]any{"a_string": "Z"})
	assert.True(t, IsWrongType(err), "err = %v", err)

	_, err = dt.Validate(map[string]any{"an_int": 2, "extra": 1})
	assert.True(t, IsWrongType(err), "err = %v", err)
	_, err = dt.Validate([]any{2})
	assert.True(t, IsWrongType(err))
	_, err = dt.Validate(map[string]any{"an_int": 1000})
	assert.True(t, IsRange(err), "err = %v", err)

	assert.Equal(t, `{a_string="Z", an_int=2}`,
		dt.FormatValue(map[string]any{"an_int": 2, "a_string": "Z"}))
}

func TestStructOfErrors(t *testing.T) {
	_, err := NewStructOf(nil)
	assert.True(t, IsProgramming(err))
	_, err = NewStructOf(map[string]DataType{"a": NewBool()}, "b")
	assert.True(t, IsProgramming(err))
}

func TestLimitsType(t *testing.T) {
	dt, err := NewLimitsType(mustFloatRange(t, Props{"min": 0.0, "max": 100.0}))
	require.NoError(t, err)
	// limit pairs travel as plain two-element tuples
	requireDescriptor(t, dt,
		`{"members":[{"max":100,"min":0,"type":"double"},{"max":100,"min":0,"type":"double"}],"type":"tuple"}`)

	got, err := dt.Validate([]any{20, 30.5})
	require.NoError(t, err)
	if diff := deep.Equal(got, []any{20.0, 30.5}); diff != nil {
		t.Error(diff)
	}
	_, err = dt.Validate([]any{20, 20})
	assert.NoError(t, err)

	_, err = dt.Validate([]any{30, 20})
	assert.True(t, IsRange(err), "err = %v", err)
	_, err = dt.Validate([]any{-1, 20})
	assert.True(t, IsRange(err), "err = %v", err)

	_, err = NewLimitsType(mustString(t, nil))
	assert.True(t, IsProgramming(err))

	// the two positions are independent instances of the same type
	assert.NotSame(t, dt.Members()[0], dt.Members()[1])
	assert.True(t, Equal(dt.Members()[0], dt.Members()[1]))
}

func TestCommandType(t *testing.T) {
	dt := NewCommandType(mustFloatRange(t, nil), mustString(t, nil))
	requireDescriptor(t, dt,
		`{"argument":{"type":"double"},"result":{"type":"string"},"type":"command"}`)

	_, err := dt.Validate(1)
	assert.True(t, IsProgramming(err))
	_, err = dt.ExportValue(1)
	assert.True(t, IsProgramming(err))

	bare := NewCommandType(nil, nil)
	requireDescriptor(t, bare, `{"type":"command"}`)

	c := dt.Copy()
	require.NoError(t, c.CheckProperties())
	assert.True(t, Equal(dt, c))
}

func TestCompoundMainUnit(t *testing.T) {
	dt := mustTuple(t,
		mustFloatRange(t, Props{"unit": "$"}),
		mustArray(t, mustScaled(t, 0.1, Props{"unit": "$/min"}), nil),
	)

	c := dt.Copy().(*TupleOf)
	require.NoError(t, c.SetMainUnit("deg"))
	require.NoError(t, c.CheckProperties())
	assert.Equal(t, "deg", c.Members()[0].(*FloatRange).Unit())
	inner := c.Members()[1].(*ArrayOf).Member().(*ScaledInteger)
	assert.Equal(t, "deg/min", inner.Unit())
}

func TestCompoundCopyIndependence(t *testing.T) {
	member := mustFloatRange(t, Props{"max": 10.0})
	dt := mustArray(t, member, nil)

	c := dt.Copy().(*ArrayOf)
	require.NoError(t, c.Member().SetProperty("max", 20.0))
	require.NoError(t, c.CheckProperties())

	assert.Equal(t, 10.0, member.Max())
	assert.False(t, Equal(dt, c))
}
