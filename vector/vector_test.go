package vector

import (
	"math"
	"testing"

	"github.com/hupe1980/vecseq/writable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	sparse, err := NewSparse(6, []int{4, 0, 2}, []float64{2.5, 1, 0}, false)
	require.NoError(t, err)

	tests := []struct {
		name string
		v    *Vector
		want string
	}{
		{"dense", NewDense([]float64{1, 2, 3}), "{1.0,2.0,3.0}"},
		{"empty", NewDense([]float64{}), "{}"},
		{"fractions", NewDense([]float64{-0.5, 1.25}), "{-0.5,1.25}"},
		{"sparse", sparse, "{0:1.0,4:2.5}"},
		{"named", NewNamed("A", []float64{1}), "{1.0}"},
		{"nil", nil, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.v))
		})
	}
}

func TestFormatDouble(t *testing.T) {
	tests := []struct {
		f    float64
		want string
	}{
		{1, "1.0"},
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{0.1, "0.1"},
		{0.001, "0.001"},
		{0.0001, "1.0E-4"},
		{0.00025, "2.5E-4"},
		{1234567, "1234567.0"},
		{1e7, "1.0E7"},
		{1.5e10, "1.5E10"},
		{-3.75, "-3.75"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{float64(float32(0.1)), "0.10000000149011612"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDouble(tt.f), "%v", tt.f)
	}
}

func TestNewSparseValidation(t *testing.T) {
	_, err := NewSparse(3, []int{3}, []float64{1}, false)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = NewSparse(3, []int{2, 1}, []float64{1, 1}, true)
	assert.ErrorIs(t, err, ErrUnsortedIndices)

	_, err = NewSparse(3, []int{1}, []float64{1, 2}, false)
	assert.Error(t, err)

	v, err := NewSparse(3, nil, nil, true)
	require.NoError(t, err)
	assert.False(t, v.IsDense())
	assert.Equal(t, []float64{0, 0, 0}, v.ToDense())
}

func TestAccessors(t *testing.T) {
	v, err := NewSparse(5, []int{1, 3}, []float64{2, 4}, true)
	require.NoError(t, err)

	assert.Equal(t, 2.0, v.Get(1))
	assert.Equal(t, 0.0, v.Get(2))
	assert.Equal(t, 2, v.NonZero())
	assert.Equal(t, []float64{0, 2, 0, 4, 0}, v.ToDense())
	assert.True(t, v.Equal(NewDense([]float64{0, 2, 0, 4, 0})))
	assert.False(t, v.Equal(NewNamed("x", []float64{0, 2, 0, 4, 0})))

	d := NewDense([]float64{1, 2})
	n := d.WithName("")
	assert.False(t, d.IsNamed())
	assert.True(t, n.IsNamed())
}

func TestWritableRoundTrip(t *testing.T) {
	seqSparse, err := NewSparse(1000, []int{3, 17, 999}, []float64{1.5, -2, 8}, true)
	require.NoError(t, err)
	randSparse, err := NewSparse(10, []int{7, 2}, []float64{3, 4}, false)
	require.NoError(t, err)

	tests := []struct {
		name string
		v    *Vector
	}{
		{"dense", NewDense([]float64{1, 2, 3})},
		{"named dense", NewNamed("A", []float64{1, 2, 3})},
		{"named empty", NewDense([]float64{}).WithName("")},
		{"sequential sparse", seqSparse},
		{"random sparse", randSparse},
		{"named sparse", seqSparse.WithName("ünïcode")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := writable.Marshal(NewWritable(tt.v))
			require.NoError(t, err)

			var got Writable
			require.NoError(t, writable.Unmarshal(data, &got))
			assert.True(t, tt.v.Equal(got.Vector), "got %v", got.Vector)
			assert.Equal(t, tt.v.IsNamed(), got.Vector.IsNamed())
			assert.Equal(t, tt.v.IsDense(), got.Vector.IsDense())
			assert.Equal(t, tt.v.Sequential, got.Vector.Sequential)
			assert.False(t, got.LaxPrecision)
		})
	}
}

func TestWritableLayout(t *testing.T) {
	data, err := writable.Marshal(NewWritable(NewNamed("A", []float64{1, 2})))
	require.NoError(t, err)

	want := []byte{
		flagDense | flagSequential | flagNamed,
		2,
		0x3F, 0xF0, 0, 0, 0, 0, 0, 0,
		0x40, 0x00, 0, 0, 0, 0, 0, 0,
		0, 1, 'A',
	}
	assert.Equal(t, want, data)

	seq, err := NewSparse(300, []int{2, 290}, []float64{1, 1}, true)
	require.NoError(t, err)
	e := writable.NewEncoder(nil)
	require.NoError(t, Encode(e, seq, true))
	want = []byte{
		flagSequential | flagLaxPrecision,
		0xAC, 0x02, // 300
		2,
		2, 0x3F, 0x80, 0, 0,
		0xA0, 0x02, 0x3F, 0x80, 0, 0, // delta 288
	}
	assert.Equal(t, want, e.Bytes())
}

func TestLaxPrecision(t *testing.T) {
	w := &Writable{Vector: NewDense([]float64{0.1}), LaxPrecision: true}
	data, err := writable.Marshal(w)
	require.NoError(t, err)
	assert.Len(t, data, 1+1+4)

	var got Writable
	require.NoError(t, writable.Unmarshal(data, &got))
	assert.True(t, got.LaxPrecision)
	assert.Equal(t, float64(float32(0.1)), got.Vector.Values[0])
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"unknown flags", []byte{0x10, 0}},
		{"truncated dense", []byte{flagDense, 2, 0x3F, 0xF0}},
		{"huge dense", []byte{flagDense, 0xFF, 0xFF, 0xFF, 0x07}},
		{"nnz exceeds size", []byte{0, 1, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{"index out of range", []byte{0, 2, 1, 5, 0x3F, 0xF0, 0, 0, 0, 0, 0, 0}},
		{"truncated name", []byte{flagDense | flagNamed, 0, 0, 3, 'a'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(writable.NewDecoder(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestEncodeNil(t *testing.T) {
	_, err := writable.Marshal(&Writable{})
	assert.Error(t, err)
}
