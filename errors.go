package vecseq

import (
	"errors"
	"fmt"
)

var (
	// ErrMemoryLimit is returned when buffered records exceed the memory limit.
	ErrMemoryLimit = errors.New("vecseq: memory limit exceeded")

	// ErrUnsupportedScheme is returned for locations with an unknown scheme.
	ErrUnsupportedScheme = errors.New("vecseq: unsupported location scheme")

	// ErrInvalidLocation is returned for malformed locations.
	ErrInvalidLocation = errors.New("vecseq: invalid location")

	// ErrUnknownMeasure is returned for an unknown distance measure name.
	ErrUnknownMeasure = errors.New("vecseq: unknown distance measure")

	// ErrUnknownFormat is returned for an unknown dump format.
	ErrUnknownFormat = errors.New("vecseq: unknown output format")
)

// TypeMismatchError indicates that a container declares a different key or
// value class than expected.
type TypeMismatchError struct {
	// Field is "key" or "value".
	Field    string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("vecseq: %s class mismatch: expected %s, container declares %s", e.Field, e.Expected, e.Actual)
}

// VerificationError reports that a container read back differs from the
// records written to it.
type VerificationError struct {
	// Index is the 0-based position of the first differing entry, or -1.
	Index int
	Key   string
	// Missing is the number of records never read back.
	Missing uint64
	Reason  string
}

func (e *VerificationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("vecseq: verification failed: %s", e.Reason)
	}
	return fmt.Sprintf("vecseq: verification failed at entry %d (%q): %s", e.Index, e.Key, e.Reason)
}
