package writable

import (
	"fmt"
	"sort"
	"sync"
)

// Writable is a value with a stable binary encoding that is identified in
// container headers by its Java class name.
type Writable interface {
	fmt.Stringer

	// JavaClass returns the fully qualified class name stored in headers.
	JavaClass() string

	// MarshalWritable appends the binary form of the value to e.
	MarshalWritable(e *Encoder) error

	// UnmarshalWritable replaces the value with the one decoded from d.
	UnmarshalWritable(d *Decoder) error
}

// Factory creates an empty Writable ready for UnmarshalWritable.
type Factory func() Writable

// UnknownClassError is returned when no factory is registered for a class.
type UnknownClassError struct {
	Class string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("writable: no factory registered for class %q", e.Class)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a writable class available to New.
// It panics if the class is registered twice or factory is nil.
func Register(class string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("writable: Register factory is nil")
	}
	if _, dup := registry[class]; dup {
		panic("writable: Register called twice for class " + class)
	}
	registry[class] = factory
}

// New returns an empty value of the named class.
func New(class string) (Writable, error) {
	registryMu.RLock()
	factory, ok := registry[class]
	registryMu.RUnlock()

	if !ok {
		return nil, &UnknownClassError{Class: class}
	}
	return factory(), nil
}

// Registered returns the sorted list of registered class names.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	classes := make([]string, 0, len(registry))
	for class := range registry {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// Marshal returns the binary form of w.
func Marshal(w Writable) ([]byte, error) {
	e := NewEncoder(nil)
	if err := w.MarshalWritable(e); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Unmarshal decodes data into w. All of data must be consumed.
func Unmarshal(data []byte, w Writable) error {
	d := NewDecoder(data)
	if err := w.UnmarshalWritable(d); err != nil {
		return fmt.Errorf("decode %s: %w", w.JavaClass(), err)
	}
	if d.Remaining() != 0 {
		return fmt.Errorf("decode %s: %w (%d bytes)", w.JavaClass(), ErrTrailingBytes, d.Remaining())
	}
	return nil
}
