// Package codec encodes dump records as JSON.
//
// Dump writes one JSON object per container entry through a LineEncoder.
// seqdump resolves its -codec flag with ByName.
package codec

import (
	"fmt"
	"io"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}

// LineEncoder writes newline-delimited JSON.
type LineEncoder struct {
	w   io.Writer
	c   Codec
	buf []byte
}

// NewLineEncoder returns an encoder writing to w with c, or Default when c is nil.
func NewLineEncoder(w io.Writer, c Codec) *LineEncoder {
	if c == nil {
		c = Default
	}
	return &LineEncoder{w: w, c: c}
}

// Encode writes v followed by a newline in a single Write call.
func (e *LineEncoder) Encode(v any) error {
	b, err := e.c.Marshal(v)
	if err != nil {
		return fmt.Errorf("codec %s: %w", e.c.Name(), err)
	}
	e.buf = append(append(e.buf[:0], b...), '\n')
	_, err = e.w.Write(e.buf)
	return err
}
