package seqfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/hupe1980/vecseq/writable"
)

// maxRecordSize bounds a single record or block buffer.
const maxRecordSize = 1 << 30

// Reader iterates the entries of a SequenceFile in stored order.
// It is not safe for concurrent use.
type Reader struct {
	br    *bufio.Reader
	hdr   Header
	codec Codec

	// block state
	remaining int
	keyLens   *writable.Decoder
	keys      *writable.Decoder
	valLens   *writable.Decoder
	vals      *writable.Decoder
}

// NewReader reads and validates the header from r.
func NewReader(r io.Reader) (*Reader, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	hdr, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	sr := &Reader{br: br, hdr: hdr}
	if hdr.Compression != CompressionNone {
		codec, ok := CodecByClass(hdr.Codec)
		if !ok {
			return nil, &UnknownCodecError{Class: hdr.Codec}
		}
		sr.codec = codec
	}
	return sr, nil
}

// Header returns the parsed header.
func (r *Reader) Header() Header { return r.hdr }

// Next decodes the next entry using the classes declared in the header.
// It returns io.EOF when no entries remain.
func (r *Reader) Next() (writable.Writable, writable.Writable, error) {
	rawKey, rawValue, err := r.NextRaw()
	if err != nil {
		return nil, nil, err
	}

	key, err := writable.New(r.hdr.KeyClass)
	if err != nil {
		return nil, nil, err
	}
	if err := writable.Unmarshal(rawKey, key); err != nil {
		return nil, nil, err
	}

	value, err := writable.New(r.hdr.ValueClass)
	if err != nil {
		return nil, nil, err
	}
	if err := writable.Unmarshal(rawValue, value); err != nil {
		return nil, nil, err
	}
	return key, value, nil
}

// NextRaw returns the serialized key and the decompressed serialized value of
// the next entry. It returns io.EOF when no entries remain.
func (r *Reader) NextRaw() ([]byte, []byte, error) {
	if r.hdr.Compression == CompressionBlock {
		return r.nextInBlock()
	}

	length, err := readInt32(r.br)
	if err != nil {
		return nil, nil, err
	}
	if length == syncEscape {
		if err := r.checkSync(); err != nil {
			return nil, nil, err
		}
		if length, err = readInt32(r.br); err != nil {
			return nil, nil, err
		}
	}
	if length < 0 || length > maxRecordSize {
		return nil, nil, fmt.Errorf("%w: record length %d", ErrCorruptRecord, length)
	}

	keyLen, err := readInt32(r.br)
	if err != nil {
		return nil, nil, unexpected(err)
	}
	if keyLen < 0 || keyLen > length {
		return nil, nil, fmt.Errorf("%w: key length %d of record length %d", ErrCorruptRecord, keyLen, length)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r.br, buf); err != nil {
		return nil, nil, unexpected(err)
	}
	key, value := buf[:keyLen], buf[keyLen:]

	if r.hdr.Compression == CompressionRecord {
		if value, err = r.codec.Decompress(value); err != nil {
			return nil, nil, fmt.Errorf("seqfile: decompress value: %w", err)
		}
	}
	return key, value, nil
}

func (r *Reader) checkSync() error {
	var sync [SyncSize]byte
	if _, err := io.ReadFull(r.br, sync[:]); err != nil {
		return unexpected(err)
	}
	if !bytes.Equal(sync[:], r.hdr.Sync[:]) {
		return ErrCorruptSync
	}
	return nil
}

func (r *Reader) nextInBlock() ([]byte, []byte, error) {
	if r.remaining == 0 {
		if err := r.readBlock(); err != nil {
			return nil, nil, err
		}
	}

	keyLen, err := r.keyLens.VInt()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: key length: %w", ErrCorruptRecord, err)
	}
	key, err := r.keys.Bytes(int(keyLen))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: key: %w", ErrCorruptRecord, err)
	}
	valLen, err := r.valLens.VInt()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: value length: %w", ErrCorruptRecord, err)
	}
	value, err := r.vals.Bytes(int(valLen))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: value: %w", ErrCorruptRecord, err)
	}

	r.remaining--
	return key, value, nil
}

func (r *Reader) readBlock() error {
	escape, err := readInt32(r.br)
	if err != nil {
		return err
	}
	if escape != syncEscape {
		return fmt.Errorf("%w: missing sync before block", ErrCorruptRecord)
	}
	if err := r.checkSync(); err != nil {
		return err
	}

	n, err := writable.ReadVInt(r.br)
	if err != nil {
		return unexpected(err)
	}
	if n <= 0 {
		return fmt.Errorf("%w: block with %d entries", ErrCorruptRecord, n)
	}

	buffers := make([]*writable.Decoder, 4)
	for i := range buffers {
		size, err := writable.ReadVInt(r.br)
		if err != nil {
			return unexpected(err)
		}
		if size < 0 || size > maxRecordSize {
			return fmt.Errorf("%w: block buffer length %d", ErrCorruptRecord, size)
		}
		compressed := make([]byte, size)
		if _, err := io.ReadFull(r.br, compressed); err != nil {
			return unexpected(err)
		}
		raw, err := r.codec.Decompress(compressed)
		if err != nil {
			return fmt.Errorf("seqfile: decompress block: %w", err)
		}
		buffers[i] = writable.NewDecoder(raw)
	}

	r.keyLens, r.keys, r.valLens, r.vals = buffers[0], buffers[1], buffers[2], buffers[3]
	r.remaining = int(n)
	return nil
}
