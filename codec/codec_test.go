package codec

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Key   string    `json:"key"`
	Value []float64 `json:"value"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAgree(t *testing.T) {
	v := entry{Key: "A", Value: []float64{1, 2.5, 3}}

	std := MustMarshal(JSON{}, v)
	fast := MustMarshal(GoJSON{}, v)
	assert.Equal(t, `{"key":"A","value":[1,2.5,3]}`, string(std))
	assert.Equal(t, std, fast)

	var got entry
	require.NoError(t, GoJSON{}.Unmarshal(fast, &got))
	assert.Equal(t, v, got)
}

func TestCodecsKeepNamesVerbatim(t *testing.T) {
	v := entry{Key: "a<b&c"}
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		assert.Equal(t, `{"key":"a<b&c","value":null}`, string(MustMarshal(c, v)), c.Name())
	}
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewLineEncoder(&buf, nil)

	require.NoError(t, enc.Encode(entry{Key: "A", Value: []float64{1}}))
	require.NoError(t, enc.Encode(entry{Key: "B"}))

	assert.Equal(t, "{\"key\":\"A\",\"value\":[1]}\n{\"key\":\"B\",\"value\":null}\n", buf.String())
}

func TestLineEncoderErrors(t *testing.T) {
	var buf bytes.Buffer
	err := NewLineEncoder(&buf, JSON{}).Encode(math.NaN())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "codec json")
	assert.Zero(t, buf.Len())

	boom := errors.New("disk full")
	err = NewLineEncoder(failingWriter{boom}, GoJSON{}).Encode(1)
	assert.ErrorIs(t, err, boom)
}

func TestMustMarshalPanics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(nil, make(chan int)) })
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }
