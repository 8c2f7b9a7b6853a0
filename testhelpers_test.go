package datainfo

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/secop-community/datainfo-go/canonicaljson"
	"github.com/secop-community/datainfo-go/enum"
)

// enumDefs turns a name to value map into definitions, ordered by value
// for reproducibility.
func enumDefs(members map[string]int64) []enum.Def {
	defs := make([]enum.Def, 0, len(members))
	for name, value := range members {
		defs = append(defs, enum.Val(name, value))
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Value.(int64) < defs[j].Value.(int64)
	})
	return defs
}

// canon renders a value canonically so descriptor expectations can be
// written as single strings.
func canon(t *testing.T, v any) string {
	t.Helper()
	s, err := canonicaljson.String(v)
	require.NoError(t, err)
	return s
}

func requireDescriptor(t *testing.T, dt DataType, want string) {
	t.Helper()
	require.Equal(t, want, canon(t, dt.ExportDatatype()))
}

func mustFloatRange(t *testing.T, props Props) *FloatRange {
	t.Helper()
	dt, err := NewFloatRange(props)
	require.NoError(t, err)
	return dt
}

func mustIntRange(t *testing.T, props Props) *IntRange {
	t.Helper()
	dt, err := NewIntRange(props)
	require.NoError(t, err)
	return dt
}

func mustScaled(t *testing.T, scale float64, props Props) *ScaledInteger {
	t.Helper()
	dt, err := NewScaledInteger(scale, props)
	require.NoError(t, err)
	return dt
}

func mustString(t *testing.T, props Props) *StringType {
	t.Helper()
	dt, err := NewString(props)
	require.NoError(t, err)
	return dt
}

func mustBLOB(t *testing.T, props Props) *BLOBType {
	t.Helper()
	dt, err := NewBLOB(props)
	require.NoError(t, err)
	return dt
}

func mustEnum(t *testing.T, name string, members map[string]int64) *EnumType {
	t.Helper()
	dt, err := NewEnumType(name, enumDefs(members)...)
	require.NoError(t, err)
	return dt
}

func mustArray(t *testing.T, member DataType, props Props) *ArrayOf {
	t.Helper()
	dt, err := NewArrayOf(member, props)
	require.NoError(t, err)
	return dt
}

func mustTuple(t *testing.T, members ...DataType) *TupleOf {
	t.Helper()
	dt, err := NewTupleOf(members...)
	require.NoError(t, err)
	return dt
}

func mustStruct(t *testing.T, members map[string]DataType, optional ...string) *StructOf {
	t.Helper()
	dt, err := NewStructOf(members, optional...)
	require.NoError(t, err)
	return dt
}
