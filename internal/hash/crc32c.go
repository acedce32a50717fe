// Package hash computes CRC32-Castagnoli checksums, the algorithm S3 accepts
// for upload integrity checks.
//
//	sum := hash.CRC32C(data)
//
//	h := hash.NewCRC32C()
//	_, _ = h.Write(chunk)
//	sum = h.Sum32()
package hash

import (
	"encoding/base64"
	"encoding/binary"
	"hash"

	"github.com/klauspost/crc32"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a streaming CRC32-Castagnoli hash.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// Base64 encodes a checksum as base64 of its big-endian bytes, the form used
// by S3 checksum headers.
func Base64(sum uint32) string {
	return base64.StdEncoding.EncodeToString(binary.BigEndian.AppendUint32(nil, sum))
}
