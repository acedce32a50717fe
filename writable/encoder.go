package writable

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"
)

// maxUTFLen is the largest encoded length writeUTF can express (u16 prefix).
const maxUTFLen = 65535

// Encoder appends values in the big-endian DataOutput layout used by Hadoop
// writables. Writes never fail; only string length limits produce errors.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder that appends to buf.
func NewEncoder(buf []byte) *Encoder {
	return &Encoder{buf: buf[:0]}
}

// Bytes returns the encoded bytes. The slice aliases the internal buffer.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of encoded bytes.
func (e *Encoder) Len() int { return len(e.buf) }

// Reset discards the encoded bytes but keeps the capacity.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// PutByte appends a single byte.
func (e *Encoder) PutByte(b byte) { e.buf = append(e.buf, b) }

// PutBytes appends raw bytes.
func (e *Encoder) PutBytes(p []byte) { e.buf = append(e.buf, p...) }

// PutBool appends a boolean as one byte.
func (e *Encoder) PutBool(v bool) {
	if v {
		e.PutByte(1)
		return
	}
	e.PutByte(0)
}

// PutInt32 appends a big-endian int32.
func (e *Encoder) PutInt32(v int32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(v)) //nolint:gosec
}

// PutInt64 appends a big-endian int64.
func (e *Encoder) PutInt64(v int64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, uint64(v)) //nolint:gosec
}

// PutFloat32 appends an IEEE 754 single in big-endian order.
func (e *Encoder) PutFloat32(v float32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, math.Float32bits(v))
}

// PutFloat64 appends an IEEE 754 double in big-endian order.
func (e *Encoder) PutFloat64(v float64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, math.Float64bits(v))
}

// PutVInt appends a Hadoop zero-compressed variable length int.
func (e *Encoder) PutVInt(v int32) { e.PutVLong(int64(v)) }

// PutVLong appends a Hadoop zero-compressed variable length long.
//
// Values in [-112, 127] take one byte. Larger values are prefixed by a byte
// that encodes both the sign and the number of big-endian bytes that follow.
func (e *Encoder) PutVLong(v int64) {
	if v >= -112 && v <= 127 {
		e.PutByte(byte(int8(v)))
		return
	}

	prefix := -112
	if v < 0 {
		v ^= -1
		prefix = -120
	}
	for tmp := v; tmp != 0; tmp >>= 8 {
		prefix--
	}
	e.PutByte(byte(int8(prefix))) //nolint:gosec

	var n int
	if prefix < -120 {
		n = -(prefix + 120)
	} else {
		n = -(prefix + 112)
	}
	for idx := n; idx != 0; idx-- {
		e.PutByte(byte(v >> uint((idx-1)*8))) //nolint:gosec
	}
}

// PutUvarint appends an unsigned LEB128 varint (7 bits per byte, high bit set
// on all but the last byte).
func (e *Encoder) PutUvarint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf, v)
}

// PutText appends a string as a VInt byte length followed by its UTF-8 bytes.
func (e *Encoder) PutText(s string) {
	e.PutVInt(int32(len(s))) //nolint:gosec
	e.buf = append(e.buf, s...)
}

// PutUTF appends a string in Java modified UTF-8 with an unsigned 16-bit
// length prefix.
func (e *Encoder) PutUTF(s string) error {
	units := utf16.Encode([]rune(s))

	n := 0
	for _, c := range units {
		switch {
		case c >= 0x0001 && c <= 0x007F:
			n++
		case c <= 0x07FF:
			n += 2
		default:
			n += 3
		}
	}
	if n > maxUTFLen {
		return fmt.Errorf("encoded string too long: %d bytes", n)
	}

	e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(n)) //nolint:gosec
	for _, c := range units {
		switch {
		case c >= 0x0001 && c <= 0x007F:
			e.buf = append(e.buf, byte(c))
		case c <= 0x07FF:
			e.buf = append(e.buf, byte(0xC0|(c>>6)&0x1F), byte(0x80|c&0x3F))
		default:
			e.buf = append(e.buf, byte(0xE0|(c>>12)&0x0F), byte(0x80|(c>>6)&0x3F), byte(0x80|c&0x3F))
		}
	}
	return nil
}
