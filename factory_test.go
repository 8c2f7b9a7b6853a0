package datainfo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode turns a JSON descriptor literal into the mapping Get consumes,
// the same way wire data arrives.
func decode(t *testing.T, text string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var m map[string]any
	require.NoError(t, dec.Decode(&m))
	return m
}

func TestGetRoundTrip(t *testing.T) {
	// every descriptor is canonical: building it and exporting again
	// must reproduce it exactly
	descriptors := []string{
		`{"type":"bool"}`,
		`{"max":3,"min":-3,"type":"int"}`,
		`{"type":"double"}`,
		`{"max":1.25,"min":-1.25,"type":"double","unit":"mA"}`,
		`{"absolute_resolution":0.001,"fmtstr":"%.3f","max":10,"type":"double"}`,
		`{"max":333,"min":133,"scale":0.003,"type":"scaled"}`,
		`{"max":100,"min":0,"scale":0.1,"type":"scaled","unit":"K"}`,
		`{"members":{"BUSY":300,"IDLE":100},"type":"enum"}`,
		`{"type":"string"}`,
		`{"isUTF8":true,"maxchars":80,"minchars":1,"type":"string"}`,
		`{"maxbytes":255,"type":"blob"}`,
		`{"maxbytes":10,"minbytes":3,"type":"blob"}`,
		`{"maxlen":10,"members":{"max":9,"min":0,"type":"int"},"minlen":1,"type":"array"}`,
		`{"members":[{"max":2,"min":0,"type":"int"},{"type":"bool"}],"type":"tuple"}`,
		`{"members":{"x":{"type":"double"},"y":{"type":"bool"}},"type":"struct"}`,
		`{"members":{"x":{"type":"double"},"y":{"type":"bool"}},"optional":["y"],"type":"struct"}`,
		`{"argument":{"type":"bool"},"result":{"type":"bool"},"type":"command"}`,
		`{"type":"command"}`,
	}
	for _, desc := range descriptors {
		t.Run(desc, func(t *testing.T) {
			dt, err := Get(decode(t, desc))
			require.NoError(t, err)
			assert.Equal(t, desc, canon(t, dt.ExportDatatype()))
		})
	}
}

func TestGetPassThrough(t *testing.T) {
	dt := NewBool()
	got, err := Get(dt)
	require.NoError(t, err)
	assert.Same(t, DataType(dt), got)

	got, err = Get(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetIgnoresUnknownKeys(t *testing.T) {
	dt, err := Get(decode(t, `{"type":"bool","future_hint":42}`))
	require.NoError(t, err)
	requireDescriptor(t, dt, `{"type":"bool"}`)
}

func TestGetScaledLimits(t *testing.T) {
	// scaled min and max travel as integer multiples of the scale
	dt, err := Get(decode(t, `{"max":333,"min":133,"scale":0.003,"type":"scaled"}`))
	require.NoError(t, err)

	sc := dt.(*ScaledInteger)
	assert.InDelta(t, 0.399, sc.Min(), 1e-9)
	assert.InDelta(t, 0.999, sc.Max(), 1e-9)
}

func TestGetLimit(t *testing.T) {
	dt, err := Get(decode(t, `{"members":{"max":100,"min":0,"type":"double"},"type":"limit"}`))
	require.NoError(t, err)

	_, ok := dt.(*LimitsType)
	require.True(t, ok)
	_, err = dt.Validate([]any{30, 20})
	assert.True(t, IsRange(err))
}

func TestGetErrors(t *testing.T) {
	bad := []string{
		`{"min":0,"max":10}`,                                  // no type
		`{"type":"undefined"}`,                                // unknown type
		`{"type":7.5}`,                                        // malformed tag
		`{"type":"int","min":0}`,                              // max missing
		`{"type":"int","max":0}`,                              // min missing
		`{"type":"int","min":10,"max":0}`,                     // min > max
		`{"type":"int","min":0.3,"max":10}`,                   // fractional bound
		`{"type":"double","min":10,"max":0}`,                  // min > max
		`{"type":"scaled","min":0,"max":10}`,                  // scale missing
		`{"type":"scaled","scale":0,"min":0,"max":10}`,        // bad scale
		`{"type":"scaled","scale":0.1,"min":10,"max":0}`,      // min > max
		`{"type":"enum"}`,                                     // members missing
		`{"type":"enum","members":{}}`,                        // no members
		`{"type":"enum","members":{"a":0.5}}`,                 // fractional value
		`{"type":"string","minchars":10,"maxchars":1}`,        // min > max
		`{"type":"blob"}`,                                     // maxbytes missing
		`{"type":"blob","minbytes":10,"maxbytes":1}`,          // min > max
		`{"type":"array","members":{"type":"bool"}}`,          // maxlen missing
		`{"type":"array","maxlen":10}`,                        // members missing
		`{"type":"tuple","members":[]}`,                       // no members
		`{"type":"tuple","members":[{"type":"does_not_exist"}]}`,
		`{"type":"struct","members":{}}`,                      // no members
		`{"type":"struct","members":{"a":{"type":"bool"}},"optional":["b"]}`,
		`{"type":"limit","members":{"type":"string"}}`,        // not numeric
	}
	for _, desc := range bad {
		t.Run(desc, func(t *testing.T) {
			_, err := Get(decode(t, desc))
			assert.True(t, IsWrongType(err), "err = %v", err)
		})
	}

	_, err := Get(42)
	assert.True(t, IsWrongType(err))
	_, err = Get("bool")
	assert.True(t, IsWrongType(err))
}

func TestGetValueRoundTrip(t *testing.T) {
	dt, err := Get(decode(t, `{"maxlen":5,"members":{"members":{"BUSY":300,"IDLE":100},"type":"enum"},"minlen":0,"type":"array"}`))
	require.NoError(t, err)

	v, err := dt.ImportValue([]any{decodeNumber(t, "100"), decodeNumber(t, "300")})
	require.NoError(t, err)
	wire, err := dt.ExportValue(v)
	require.NoError(t, err)
	if diff := deep.Equal(wire, []any{int64(100), int64(300)}); diff != nil {
		t.Error(diff)
	}
}

func decodeNumber(t *testing.T, s string) json.Number {
	t.Helper()
	return json.Number(s)
}
