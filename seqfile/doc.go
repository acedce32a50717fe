// Package seqfile reads and writes Hadoop SequenceFiles (format version 6).
//
// A SequenceFile is a flat sequence of binary key/value entries preceded by a
// header that names the key and value classes:
//
//	+-----+---+-----------+-------------+----------+-------+---------+----------+------+
//	| SEQ | 6 | key class | value class | compress | block | [codec] | metadata | sync |
//	+-----+---+-----------+-------------+----------+-------+---------+----------+------+
//
// Records follow as [int32 record length][int32 key length][key][value]. Every
// SyncInterval bytes the writer inserts an escape (int32 -1) followed by the
// 16-byte sync marker from the header so that readers can detect corruption.
//
// # Compression
//
//   - CompressionNone: keys and values are stored as is.
//   - CompressionRecord: each value is compressed on its own; keys are not.
//   - CompressionBlock: entries are buffered and written as blocks of four
//     compressed buffers (key lengths, keys, value lengths, values).
//
// Supported codecs are DefaultCodec (zlib), GzipCodec, ZStandardCodec,
// Lz4Codec and SnappyCodec.
//
// # Usage
//
//	w, err := seqfile.NewWriter(out, writable.TextClass, vector.WritableClass)
//	if err != nil { ... }
//	_ = w.Append(writable.NewText("A"), vector.NewWritable(v))
//	_ = w.Close()
//
//	r, err := seqfile.NewReader(in)
//	for {
//	    key, value, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
package seqfile
