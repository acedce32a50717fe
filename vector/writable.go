package vector

import (
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/vecseq/writable"
)

// WritableClass is the Java class name of the vector envelope.
const WritableClass = "org.apache.mahout.math.VectorWritable"

// Envelope flags, combined in the first byte of an encoded vector.
const (
	flagDense        byte = 0x01
	flagSequential   byte = 0x02
	flagNamed        byte = 0x04
	flagLaxPrecision byte = 0x08
	flagMask              = flagDense | flagSequential | flagNamed | flagLaxPrecision
)

func init() {
	writable.Register(WritableClass, func() writable.Writable { return new(Writable) })
}

// Writable wraps a Vector in the VectorWritable envelope.
type Writable struct {
	Vector *Vector `json:"vector"`

	// LaxPrecision stores elements as floats instead of doubles.
	LaxPrecision bool `json:"-"`
}

// NewWritable wraps v with full double precision.
func NewWritable(v *Vector) *Writable {
	return &Writable{Vector: v}
}

func (w *Writable) String() string    { return Format(w.Vector) }
func (w *Writable) JavaClass() string { return WritableClass }

// MarshalWritable implements writable.Writable.
func (w *Writable) MarshalWritable(e *writable.Encoder) error {
	if w.Vector == nil {
		return fmt.Errorf("vector: cannot encode nil vector")
	}
	return Encode(e, w.Vector, w.LaxPrecision)
}

// UnmarshalWritable implements writable.Writable.
func (w *Writable) UnmarshalWritable(d *writable.Decoder) error {
	v, lax, err := Decode(d)
	if err != nil {
		return err
	}
	w.Vector = v
	w.LaxPrecision = lax
	return nil
}

// Encode appends v in the VectorWritable layout:
// flags byte, unsigned varint size, elements, then the name for named vectors.
func Encode(e *writable.Encoder, v *Vector, lax bool) error {
	var flags byte
	if v.IsDense() {
		flags |= flagDense
	}
	if v.Sequential {
		flags |= flagSequential
	}
	if v.IsNamed() {
		flags |= flagNamed
	}
	if lax {
		flags |= flagLaxPrecision
	}

	e.PutByte(flags)
	e.PutUvarint(uint64(v.Size)) //nolint:gosec

	putValue := func(x float64) {
		if lax {
			e.PutFloat32(float32(x))
		} else {
			e.PutFloat64(x)
		}
	}

	if v.IsDense() {
		if len(v.Values) != v.Size {
			return fmt.Errorf("vector: dense size %d but %d values", v.Size, len(v.Values))
		}
		for _, x := range v.Values {
			putValue(x)
		}
	} else {
		e.PutUvarint(uint64(v.NonZero())) //nolint:gosec
		last := 0
		for j, idx := range v.Indices {
			x := v.Values[j]
			if x == 0 {
				continue
			}
			if v.Sequential {
				e.PutUvarint(uint64(idx - last)) //nolint:gosec
				last = idx
			} else {
				e.PutUvarint(uint64(idx)) //nolint:gosec
			}
			putValue(x)
		}
	}

	if v.IsNamed() {
		if err := e.PutUTF(v.Name); err != nil {
			return fmt.Errorf("vector: name: %w", err)
		}
	}
	return nil
}

// Decode reads a vector in the VectorWritable layout. It also reports whether
// the elements were stored with lax precision.
func Decode(d *writable.Decoder) (*Vector, bool, error) {
	flags, err := d.ReadByte()
	if err != nil {
		return nil, false, err
	}
	if flags&^flagMask != 0 {
		return nil, false, fmt.Errorf("vector: unknown flags 0x%02x", flags)
	}
	dense := flags&flagDense != 0
	sequential := flags&flagSequential != 0
	named := flags&flagNamed != 0
	lax := flags&flagLaxPrecision != 0

	size, err := readCount(d)
	if err != nil {
		return nil, false, err
	}

	width := 8
	if lax {
		width = 4
	}

	value := func() (float64, error) {
		if lax {
			f, err := d.Float32()
			return float64(f), err
		}
		return d.Float64()
	}

	var v *Vector
	if dense {
		if size > d.Remaining()/width {
			return nil, false, io.ErrUnexpectedEOF
		}
		values := make([]float64, size)
		for i := range values {
			if values[i], err = value(); err != nil {
				return nil, false, err
			}
		}
		v = NewDense(values)
		v.Sequential = sequential
	} else {
		nnz, err := readCount(d)
		if err != nil {
			return nil, false, err
		}
		if nnz > size {
			return nil, false, fmt.Errorf("vector: %d non-zero elements exceed size %d", nnz, size)
		}
		if nnz > d.Remaining()/(width+1) {
			return nil, false, io.ErrUnexpectedEOF
		}
		indices := make([]int, nnz)
		values := make([]float64, nnz)
		last := 0
		for i := 0; i < nnz; i++ {
			idx, err := readCount(d)
			if err != nil {
				return nil, false, err
			}
			if sequential {
				idx += last
				last = idx
			}
			indices[i] = idx
			if values[i], err = value(); err != nil {
				return nil, false, err
			}
		}
		if v, err = NewSparse(size, indices, values, sequential); err != nil {
			return nil, false, err
		}
	}

	if named {
		name, err := d.UTF()
		if err != nil {
			return nil, false, err
		}
		v = v.WithName(name)
	}
	return v, lax, nil
}

func readCount(d *writable.Decoder) (int, error) {
	n, err := d.Uvarint()
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 {
		return 0, writable.ErrVarintOverflow
	}
	return int(n), nil
}
