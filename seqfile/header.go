package seqfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/hupe1980/vecseq/writable"
)

var magic = [3]byte{'S', 'E', 'Q'}

const (
	// Version is the only header version this package reads and writes.
	Version byte = 6

	// SyncSize is the length of the sync marker.
	SyncSize = 16

	// DefaultSyncInterval is the minimum distance in bytes between two sync
	// escapes in record-oriented files.
	DefaultSyncInterval = 100 * (4 + SyncSize)

	syncEscape int32 = -1

	// maxHeaderString bounds class names and metadata strings.
	maxHeaderString = 1 << 20
)

// CompressionType selects how entries are compressed.
type CompressionType int

const (
	// CompressionNone stores keys and values uncompressed.
	CompressionNone CompressionType = iota
	// CompressionRecord compresses each value independently.
	CompressionRecord
	// CompressionBlock compresses batches of keys and values together.
	CompressionBlock
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionRecord:
		return "record"
	case CompressionBlock:
		return "block"
	default:
		return fmt.Sprintf("CompressionType(%d)", int(c))
	}
}

// ParseCompressionType parses "none", "record" or "block".
func ParseCompressionType(s string) (CompressionType, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "record":
		return CompressionRecord, nil
	case "block":
		return CompressionBlock, nil
	default:
		return 0, fmt.Errorf("seqfile: unknown compression type %q", s)
	}
}

// Header describes a SequenceFile.
type Header struct {
	Version     byte
	KeyClass    string
	ValueClass  string
	Compression CompressionType
	// Codec is the codec class name; empty when uncompressed.
	Codec    string
	Metadata map[string]string
	Sync     [SyncSize]byte
}

// marshal encodes the header. Metadata is written in sorted key order.
func (h *Header) marshal() []byte {
	e := writable.NewEncoder(nil)
	e.PutBytes(magic[:])
	e.PutByte(h.Version)
	e.PutText(h.KeyClass)
	e.PutText(h.ValueClass)
	e.PutBool(h.Compression != CompressionNone)
	e.PutBool(h.Compression == CompressionBlock)
	if h.Compression != CompressionNone {
		e.PutText(h.Codec)
	}

	keys := make([]string, 0, len(h.Metadata))
	for k := range h.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.PutInt32(int32(len(keys))) //nolint:gosec
	for _, k := range keys {
		e.PutText(k)
		e.PutText(h.Metadata[k])
	}

	e.PutBytes(h.Sync[:])
	return e.Bytes()
}

func readHeader(r *bufio.Reader) (Header, error) {
	var h Header

	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return h, ErrNotSequenceFile
		}
		return h, err
	}
	if [3]byte(m[:3]) != magic {
		return h, ErrNotSequenceFile
	}
	h.Version = m[3]
	if h.Version != Version {
		return h, &UnsupportedVersionError{Version: h.Version}
	}

	var err error
	if h.KeyClass, err = readHeaderString(r); err != nil {
		return h, fmt.Errorf("seqfile: key class: %w", err)
	}
	if h.ValueClass, err = readHeaderString(r); err != nil {
		return h, fmt.Errorf("seqfile: value class: %w", err)
	}

	compressed, err := readBool(r)
	if err != nil {
		return h, err
	}
	block, err := readBool(r)
	if err != nil {
		return h, err
	}
	switch {
	case block && compressed:
		h.Compression = CompressionBlock
	case compressed:
		h.Compression = CompressionRecord
	}
	if compressed {
		if h.Codec, err = readHeaderString(r); err != nil {
			return h, fmt.Errorf("seqfile: codec: %w", err)
		}
	}

	n, err := readInt32(r)
	if err != nil {
		return h, unexpected(err)
	}
	if n < 0 {
		return h, fmt.Errorf("%w: negative metadata count %d", ErrCorruptRecord, n)
	}
	h.Metadata = make(map[string]string, min(int(n), 64))
	for i := int32(0); i < n; i++ {
		k, err := readHeaderString(r)
		if err != nil {
			return h, fmt.Errorf("seqfile: metadata: %w", err)
		}
		v, err := readHeaderString(r)
		if err != nil {
			return h, fmt.Errorf("seqfile: metadata: %w", err)
		}
		h.Metadata[k] = v
	}

	if _, err := io.ReadFull(r, h.Sync[:]); err != nil {
		return h, unexpected(err)
	}
	return h, nil
}

func readHeaderString(r *bufio.Reader) (string, error) {
	n, err := writable.ReadVInt(r)
	if err != nil {
		return "", unexpected(err)
	}
	if n < 0 || n > maxHeaderString {
		return "", fmt.Errorf("%w: string length %d", ErrCorruptRecord, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", unexpected(err)
	}
	return string(buf), nil
}

func readBool(r *bufio.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, unexpected(err)
	}
	return b != 0, nil
}

// readInt32 returns io.EOF only when no byte could be read.
func readInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil //nolint:gosec
}

// unexpected turns a premature io.EOF into io.ErrUnexpectedEOF.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
