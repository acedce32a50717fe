package writable

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf16"
)

var (
	// ErrTrailingBytes is returned when a value did not consume its whole payload.
	ErrTrailingBytes = errors.New("writable: trailing bytes after value")

	// ErrVarintOverflow is returned when a variable length integer is malformed.
	ErrVarintOverflow = errors.New("writable: varint overflows")

	// ErrMalformedUTF is returned for invalid modified UTF-8 input.
	ErrMalformedUTF = errors.New("writable: malformed modified UTF-8")
)

// Decoder reads values in the big-endian DataInput layout from a byte slice.
// Short input yields io.ErrUnexpectedEOF.
type Decoder struct {
	data []byte
	off  int
}

// NewDecoder returns a Decoder positioned at the start of data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.data) - d.off }

func (d *Decoder) next(n int) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, io.ErrUnexpectedEOF
	}
	p := d.data[d.off : d.off+n]
	d.off += n
	return p, nil
}

// ReadByte implements io.ByteReader.
func (d *Decoder) ReadByte() (byte, error) {
	p, err := d.next(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// Bytes returns the next n bytes. The slice aliases the input.
func (d *Decoder) Bytes(n int) ([]byte, error) { return d.next(n) }

// Bool reads a one-byte boolean.
func (d *Decoder) Bool() (bool, error) {
	b, err := d.ReadByte()
	return b != 0, err
}

// Int32 reads a big-endian int32.
func (d *Decoder) Int32() (int32, error) {
	p, err := d.next(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(p)), nil //nolint:gosec
}

// Int64 reads a big-endian int64.
func (d *Decoder) Int64() (int64, error) {
	p, err := d.next(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(p)), nil //nolint:gosec
}

// Float32 reads a big-endian IEEE 754 single.
func (d *Decoder) Float32() (float32, error) {
	p, err := d.next(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(p)), nil
}

// Float64 reads a big-endian IEEE 754 double.
func (d *Decoder) Float64() (float64, error) {
	p, err := d.next(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(p)), nil
}

// VInt reads a Hadoop zero-compressed int.
func (d *Decoder) VInt() (int32, error) { return ReadVInt(d) }

// VLong reads a Hadoop zero-compressed long.
func (d *Decoder) VLong() (int64, error) { return ReadVLong(d) }

// Uvarint reads an unsigned LEB128 varint.
func (d *Decoder) Uvarint() (uint64, error) {
	v, n := binary.Uvarint(d.data[d.off:])
	switch {
	case n == 0:
		return 0, io.ErrUnexpectedEOF
	case n < 0:
		return 0, ErrVarintOverflow
	}
	d.off += n
	return v, nil
}

// Text reads a VInt length-prefixed UTF-8 string.
func (d *Decoder) Text() (string, error) {
	n, err := d.VInt()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("writable: negative text length %d", n)
	}
	p, err := d.next(int(n))
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// UTF reads a Java modified UTF-8 string with a u16 length prefix.
func (d *Decoder) UTF() (string, error) {
	p, err := d.next(2)
	if err != nil {
		return "", err
	}
	raw, err := d.next(int(binary.BigEndian.Uint16(p)))
	if err != nil {
		return "", err
	}

	units := make([]uint16, 0, len(raw))
	for i := 0; i < len(raw); {
		c := raw[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(raw) || raw[i+1]&0xC0 != 0x80 {
				return "", ErrMalformedUTF
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(raw[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(raw) || raw[i+1]&0xC0 != 0x80 || raw[i+2]&0xC0 != 0x80 {
				return "", ErrMalformedUTF
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(raw[i+1]&0x3F)<<6|uint16(raw[i+2]&0x3F))
			i += 3
		default:
			return "", ErrMalformedUTF
		}
	}
	return string(utf16.Decode(units)), nil
}

// ReadVLong reads a Hadoop zero-compressed long from r.
func ReadVLong(r io.ByteReader) (int64, error) {
	first, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	prefix := int8(first) //nolint:gosec
	if prefix >= -112 {
		return int64(prefix), nil
	}

	negative := prefix < -120
	var size int
	if negative {
		size = -119 - int(prefix)
	} else {
		size = -111 - int(prefix)
	}

	var v int64
	for i := 0; i < size-1; i++ {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		v = v<<8 | int64(b)
	}
	if negative {
		return v ^ -1, nil
	}
	return v, nil
}

// ReadVInt reads a Hadoop zero-compressed int from r.
func ReadVInt(r io.ByteReader) (int32, error) {
	v, err := ReadVLong(r)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, ErrVarintOverflow
	}
	return int32(v), nil
}
