package seqfile

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSequenceFile is returned when the input does not start with the SEQ magic.
	ErrNotSequenceFile = errors.New("seqfile: not a sequence file")

	// ErrCorruptSync is returned when a sync escape is not followed by the header's sync marker.
	ErrCorruptSync = errors.New("seqfile: sync marker mismatch")

	// ErrCorruptRecord is returned for impossible record or block lengths.
	ErrCorruptRecord = errors.New("seqfile: corrupt record")

	// ErrClosed is returned when a closed writer is used.
	ErrClosed = errors.New("seqfile: writer is closed")
)

// UnsupportedVersionError is returned for header versions other than 6.
type UnsupportedVersionError struct {
	Version byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("seqfile: unsupported version %d", e.Version)
}

// UnknownCodecError is returned when the header names a codec this package
// cannot decode.
type UnknownCodecError struct {
	Class string
}

func (e *UnknownCodecError) Error() string {
	return fmt.Sprintf("seqfile: unknown compression codec %q", e.Class)
}

// ClassMismatchError is returned when an appended key or value does not match
// the class declared in the header.
type ClassMismatchError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *ClassMismatchError) Error() string {
	return fmt.Sprintf("seqfile: wrong %s class: expected %s, got %s", e.Field, e.Expected, e.Actual)
}
