package seqfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec class names as written in SequenceFile headers.
const (
	DefaultCodecClass   = "org.apache.hadoop.io.compress.DefaultCodec"
	GzipCodecClass      = "org.apache.hadoop.io.compress.GzipCodec"
	ZStandardCodecClass = "org.apache.hadoop.io.compress.ZStandardCodec"
	Lz4CodecClass       = "org.apache.hadoop.io.compress.Lz4Codec"
	SnappyCodecClass    = "org.apache.hadoop.io.compress.SnappyCodec"
)

// blockStreamChunkSize is the raw chunk size of the lz4/snappy block streams.
const blockStreamChunkSize = 256 * 1024

// Codec compresses whole buffers. Each call produces an independent stream,
// matching how SequenceFiles compress single values and block buffers.
type Codec interface {
	// Class returns the codec class name stored in the header.
	Class() string
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
}

var codecs = map[string]Codec{
	DefaultCodecClass:   zlibCodec{},
	GzipCodecClass:      gzipCodec{},
	ZStandardCodecClass: zstdCodec{},
	Lz4CodecClass:       lz4Codec{},
	SnappyCodecClass:    snappyCodec{},
}

// CodecByClass returns the codec registered for a class name.
func CodecByClass(class string) (Codec, bool) {
	c, ok := codecs[class]
	return c, ok
}

// CodecClasses returns the supported codec class names in sorted order.
func CodecClasses() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type zlibCodec struct{}

func (zlibCodec) Class() string { return DefaultCodecClass }

func (zlibCodec) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (zlibCodec) Decompress(src []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

type gzipCodec struct{}

func (gzipCodec) Class() string { return GzipCodecClass }

func (gzipCodec) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(src); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gzipCodec) Decompress(src []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	return io.ReadAll(gr)
}

// ZSTD encoder/decoder pools
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

type zstdCodec struct{}

func (zstdCodec) Class() string { return ZStandardCodecClass }

func (zstdCodec) Compress(src []byte) ([]byte, error) {
	enc, err := getZstdEncoder()
	if err != nil {
		return nil, err
	}
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(src, nil), nil
}

func (zstdCodec) Decompress(src []byte) ([]byte, error) {
	dec, err := getZstdDecoder()
	if err != nil {
		return nil, err
	}
	defer zstdDecoderPool.Put(dec)
	return dec.DecodeAll(src, nil)
}

// lz4Codec and snappyCodec use the Hadoop block stream framing:
// [u32 raw length] followed by [u32 compressed length][block] chunks until the
// raw length is covered, repeated for each input chunk.
type lz4Codec struct{}

func (lz4Codec) Class() string { return Lz4CodecClass }

func (lz4Codec) Compress(src []byte) ([]byte, error) {
	return compressBlockStream(src, func(chunk []byte) ([]byte, error) {
		dst := make([]byte, lz4.CompressBlockBound(len(chunk)))
		n, err := lz4.CompressBlock(chunk, dst, nil)
		if err != nil {
			return nil, err
		}
		if n == 0 && len(chunk) > 0 {
			return nil, fmt.Errorf("seqfile: lz4 could not compress %d bytes", len(chunk))
		}
		return dst[:n], nil
	})
}

func (lz4Codec) Decompress(src []byte) ([]byte, error) {
	return decompressBlockStream(src, func(block []byte, limit int) ([]byte, error) {
		// An lz4 block expands by at most a factor of 255.
		dst := make([]byte, min(limit, len(block)*255+16))
		n, err := lz4.UncompressBlock(block, dst)
		if err != nil {
			return nil, err
		}
		return dst[:n], nil
	})
}

type snappyCodec struct{}

func (snappyCodec) Class() string { return SnappyCodecClass }

func (snappyCodec) Compress(src []byte) ([]byte, error) {
	return compressBlockStream(src, func(chunk []byte) ([]byte, error) {
		return snappy.Encode(nil, chunk), nil
	})
}

func (snappyCodec) Decompress(src []byte) ([]byte, error) {
	return decompressBlockStream(src, func(block []byte, limit int) ([]byte, error) {
		n, err := snappy.DecodedLen(block)
		if err != nil {
			return nil, err
		}
		if n > limit {
			return nil, fmt.Errorf("%w: snappy block of %d bytes exceeds %d", ErrCorruptRecord, n, limit)
		}
		return snappy.Decode(nil, block)
	})
}

func compressBlockStream(src []byte, compress func([]byte) ([]byte, error)) ([]byte, error) {
	out := make([]byte, 0, len(src)/2+16)
	if len(src) == 0 {
		return binary.BigEndian.AppendUint32(out, 0), nil
	}
	for off := 0; off < len(src); off += blockStreamChunkSize {
		chunk := src[off:min(off+blockStreamChunkSize, len(src))]
		block, err := compress(chunk)
		if err != nil {
			return nil, err
		}
		out = binary.BigEndian.AppendUint32(out, uint32(len(chunk))) //nolint:gosec
		out = binary.BigEndian.AppendUint32(out, uint32(len(block))) //nolint:gosec
		out = append(out, block...)
	}
	return out, nil
}

func decompressBlockStream(src []byte, decompress func(block []byte, limit int) ([]byte, error)) ([]byte, error) {
	var out []byte
	for len(src) > 0 {
		if len(src) < 4 {
			return nil, fmt.Errorf("%w: truncated block stream", ErrCorruptRecord)
		}
		rawLen := int(binary.BigEndian.Uint32(src))
		src = src[4:]

		for got := 0; got < rawLen; {
			if len(src) < 4 {
				return nil, fmt.Errorf("%w: truncated block stream", ErrCorruptRecord)
			}
			blockLen := int(binary.BigEndian.Uint32(src))
			src = src[4:]
			if blockLen > len(src) {
				return nil, fmt.Errorf("%w: block of %d bytes exceeds stream", ErrCorruptRecord, blockLen)
			}
			chunk, err := decompress(src[:blockLen], rawLen-got)
			if err != nil {
				return nil, err
			}
			if len(chunk) == 0 {
				return nil, fmt.Errorf("%w: empty block", ErrCorruptRecord)
			}
			out = append(out, chunk...)
			got += len(chunk)
			src = src[blockLen:]
		}
	}
	return out, nil
}
