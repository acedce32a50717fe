package vector

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrIndexOutOfRange is returned for sparse indices outside [0, size).
	ErrIndexOutOfRange = errors.New("vector: index out of range")

	// ErrUnsortedIndices is returned when a sequential sparse vector has
	// indices that are not strictly increasing.
	ErrUnsortedIndices = errors.New("vector: sequential indices must be strictly increasing")
)

// Vector is a fixed-size vector of doubles, either dense or sparse, with an
// optional name.
//
// Dense vectors keep every element in Values and leave Indices nil. Sparse
// vectors keep only the non-zero elements as parallel Indices/Values slices.
type Vector struct {
	Size       int       `json:"size"`
	Values     []float64 `json:"values"`
	Indices    []int     `json:"indices,omitempty"`
	Sequential bool      `json:"sequential,omitempty"`
	Name       string    `json:"name,omitempty"`
	named      bool
}

// NewDense returns a dense vector that takes ownership of values.
func NewDense(values []float64) *Vector {
	return &Vector{
		Size:       len(values),
		Values:     values,
		Sequential: true,
	}
}

// NewSparse returns a sparse vector of the given size.
// Sequential sparse vectors require strictly increasing indices.
func NewSparse(size int, indices []int, values []float64, sequential bool) (*Vector, error) {
	if len(indices) != len(values) {
		return nil, fmt.Errorf("vector: %d indices but %d values", len(indices), len(values))
	}
	for i, idx := range indices {
		if idx < 0 || idx >= size {
			return nil, fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, idx, size)
		}
		if sequential && i > 0 && idx <= indices[i-1] {
			return nil, ErrUnsortedIndices
		}
	}
	if indices == nil {
		indices = []int{}
	}
	return &Vector{
		Size:       size,
		Values:     values,
		Indices:    indices,
		Sequential: sequential,
	}, nil
}

// NewNamed returns a named dense vector.
func NewNamed(name string, values []float64) *Vector {
	return NewDense(values).WithName(name)
}

// WithName returns a shallow copy of v carrying name.
func (v *Vector) WithName(name string) *Vector {
	c := *v
	c.Name = name
	c.named = true
	return &c
}

// IsNamed reports whether the vector carries a name, even an empty one.
func (v *Vector) IsNamed() bool { return v.named || v.Name != "" }

// IsDense reports whether every element is stored.
func (v *Vector) IsDense() bool { return v.Indices == nil }

// Get returns the element at index i.
func (v *Vector) Get(i int) float64 {
	if v.IsDense() {
		return v.Values[i]
	}
	for j, idx := range v.Indices {
		if idx == i {
			return v.Values[j]
		}
	}
	return 0
}

// ToDense returns all elements in index order.
func (v *Vector) ToDense() []float64 {
	if v.IsDense() {
		return slices.Clone(v.Values)
	}
	out := make([]float64, v.Size)
	for j, idx := range v.Indices {
		out[idx] = v.Values[j]
	}
	return out
}

// NonZero returns the number of non-zero elements.
func (v *Vector) NonZero() int {
	n := 0
	for _, x := range v.Values {
		if x != 0 {
			n++
		}
	}
	return n
}

// Equal reports whether both vectors have the same size, name and elements,
// regardless of their storage layout.
func (v *Vector) Equal(o *Vector) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.Size != o.Size || v.Name != o.Name {
		return false
	}
	return slices.Equal(v.ToDense(), o.ToDense())
}

// String returns the itemized text form: every element for dense vectors
// ("{1.0,2.0,3.0}") and index:value pairs for sparse ones ("{0:1.0,4:2.5}").
func (v *Vector) String() string {
	return Format(v)
}
