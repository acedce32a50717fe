package seqfile

import (
	"bufio"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/hupe1980/vecseq/writable"
)

// DefaultBlockSize is the buffered key+value size that triggers a block flush.
const DefaultBlockSize = 1_000_000

// Options configures a Writer.
type Options struct {
	// Compression selects record or block compression. Default: none.
	Compression CompressionType

	// Codec is the codec class used when Compression is not none.
	// Default: DefaultCodecClass (zlib).
	Codec string

	// Metadata is stored in the header.
	Metadata map[string]string

	// SyncMarker fixes the sync marker. When nil a random marker is used.
	SyncMarker *[SyncSize]byte

	// SyncInterval is the minimum number of bytes between sync escapes.
	// Default: DefaultSyncInterval.
	SyncInterval int64

	// BlockSize is the block flush threshold in bytes. Default: DefaultBlockSize.
	BlockSize int
}

// WithCompression sets the compression type and codec class.
func WithCompression(c CompressionType, codecClass string) func(*Options) {
	return func(o *Options) {
		o.Compression = c
		o.Codec = codecClass
	}
}

// WithMetadata stores key/value pairs in the header.
func WithMetadata(md map[string]string) func(*Options) {
	return func(o *Options) {
		o.Metadata = md
	}
}

// WithSyncMarker fixes the sync marker, making output reproducible.
func WithSyncMarker(sync [SyncSize]byte) func(*Options) {
	return func(o *Options) {
		o.SyncMarker = &sync
	}
}

// Writer appends entries to a SequenceFile. It is not safe for concurrent use.
type Writer struct {
	bw    *bufio.Writer
	pos   int64
	opts  Options
	hdr   Header
	codec Codec

	lastSync int64
	entries  int64
	closed   bool

	key *writable.Encoder
	val *writable.Encoder

	// block buffers
	keyLens *writable.Encoder
	keys    *writable.Encoder
	valLens *writable.Encoder
	vals    *writable.Encoder
	pending int
}

// NewWriter writes a header for the given key and value classes to w and
// returns a Writer for appending entries. The caller owns w; Close flushes but
// does not close it.
func NewWriter(w io.Writer, keyClass, valueClass string, optFns ...func(*Options)) (*Writer, error) {
	opts := Options{
		SyncInterval: DefaultSyncInterval,
		BlockSize:    DefaultBlockSize,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SyncInterval <= 0 {
		opts.SyncInterval = DefaultSyncInterval
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}

	sw := &Writer{
		bw:   bufio.NewWriter(w),
		opts: opts,
		key:  writable.NewEncoder(nil),
		val:  writable.NewEncoder(nil),
		hdr: Header{
			Version:     Version,
			KeyClass:    keyClass,
			ValueClass:  valueClass,
			Compression: opts.Compression,
			Metadata:    opts.Metadata,
		},
	}

	switch opts.Compression {
	case CompressionNone:
	case CompressionRecord, CompressionBlock:
		if opts.Codec == "" {
			opts.Codec = DefaultCodecClass
		}
		codec, ok := CodecByClass(opts.Codec)
		if !ok {
			return nil, &UnknownCodecError{Class: opts.Codec}
		}
		sw.codec = codec
		sw.hdr.Codec = opts.Codec
	default:
		return nil, fmt.Errorf("seqfile: invalid compression type %v", opts.Compression)
	}

	if opts.SyncMarker != nil {
		sw.hdr.Sync = *opts.SyncMarker
	} else {
		sw.hdr.Sync = uuid.New()
	}

	if opts.Compression == CompressionBlock {
		sw.keyLens = writable.NewEncoder(nil)
		sw.keys = writable.NewEncoder(nil)
		sw.valLens = writable.NewEncoder(nil)
		sw.vals = writable.NewEncoder(nil)
	}

	if err := sw.write(sw.hdr.marshal()); err != nil {
		return nil, fmt.Errorf("seqfile: write header: %w", err)
	}
	return sw, nil
}

// Header returns the header written by the writer.
func (w *Writer) Header() Header { return w.hdr }

// Entries returns the number of appended entries.
func (w *Writer) Entries() int64 { return w.entries }

// Append writes one entry. The key and value classes must match the header.
func (w *Writer) Append(key, value writable.Writable) error {
	if w.closed {
		return ErrClosed
	}
	if c := key.JavaClass(); c != w.hdr.KeyClass {
		return &ClassMismatchError{Field: "key", Expected: w.hdr.KeyClass, Actual: c}
	}
	if c := value.JavaClass(); c != w.hdr.ValueClass {
		return &ClassMismatchError{Field: "value", Expected: w.hdr.ValueClass, Actual: c}
	}

	w.key.Reset()
	if err := key.MarshalWritable(w.key); err != nil {
		return fmt.Errorf("seqfile: encode key: %w", err)
	}
	w.val.Reset()
	if err := value.MarshalWritable(w.val); err != nil {
		return fmt.Errorf("seqfile: encode value: %w", err)
	}

	if err := w.appendRaw(w.key.Bytes(), w.val.Bytes()); err != nil {
		return err
	}
	w.entries++
	return nil
}

func (w *Writer) appendRaw(key, value []byte) error {
	if w.opts.Compression == CompressionBlock {
		w.keyLens.PutVInt(int32(len(key))) //nolint:gosec
		w.keys.PutBytes(key)
		w.valLens.PutVInt(int32(len(value))) //nolint:gosec
		w.vals.PutBytes(value)
		w.pending++
		if w.keys.Len()+w.vals.Len() >= w.opts.BlockSize {
			return w.flushBlock()
		}
		return nil
	}

	if w.pos >= w.lastSync+w.opts.SyncInterval {
		if err := w.sync(); err != nil {
			return err
		}
	}

	if w.opts.Compression == CompressionRecord {
		compressed, err := w.codec.Compress(value)
		if err != nil {
			return fmt.Errorf("seqfile: compress value: %w", err)
		}
		value = compressed
	}

	e := writable.NewEncoder(make([]byte, 0, 8))
	e.PutInt32(int32(len(key) + len(value))) //nolint:gosec
	e.PutInt32(int32(len(key)))              //nolint:gosec
	if err := w.write(e.Bytes()); err != nil {
		return err
	}
	if err := w.write(key); err != nil {
		return err
	}
	return w.write(value)
}

// Sync writes a sync escape at the current position unless one was just written.
func (w *Writer) Sync() error {
	if w.closed {
		return ErrClosed
	}
	if w.opts.Compression == CompressionBlock {
		return w.flushBlock()
	}
	return w.sync()
}

func (w *Writer) sync() error {
	if w.lastSync == w.pos {
		return nil
	}
	e := writable.NewEncoder(make([]byte, 0, 4+SyncSize))
	e.PutInt32(syncEscape)
	e.PutBytes(w.hdr.Sync[:])
	if err := w.write(e.Bytes()); err != nil {
		return err
	}
	w.lastSync = w.pos
	return nil
}

func (w *Writer) flushBlock() error {
	if w.pending == 0 {
		return nil
	}
	if err := w.sync(); err != nil {
		return err
	}

	e := writable.NewEncoder(nil)
	e.PutVInt(int32(w.pending)) //nolint:gosec
	for _, buf := range []*writable.Encoder{w.keyLens, w.keys, w.valLens, w.vals} {
		compressed, err := w.codec.Compress(buf.Bytes())
		if err != nil {
			return fmt.Errorf("seqfile: compress block: %w", err)
		}
		e.PutVInt(int32(len(compressed))) //nolint:gosec
		e.PutBytes(compressed)
		buf.Reset()
	}
	w.pending = 0
	return w.write(e.Bytes())
}

func (w *Writer) write(p []byte) error {
	n, err := w.bw.Write(p)
	w.pos += int64(n)
	return err
}

// Close flushes buffered entries. It does not close the underlying writer.
// Calling Close more than once is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.opts.Compression == CompressionBlock {
		if err := w.flushBlock(); err != nil {
			return err
		}
	}
	return w.bw.Flush()
}
