package s3

import (
	"bytes"
	"context"
	"errors"
	"hash"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	vhash "github.com/hupe1980/vecseq/internal/hash"
)

// ErrAborted is returned by writes to an aborted upload.
var ErrAborted = errors.New("s3: upload aborted")

// UploadConfig configures the S3 uploader.
type UploadConfig struct {
	// PartSize is the multipart part size. Objects smaller than one part are
	// sent with a single PutObject.
	// Default: 8MB
	PartSize int64

	// Concurrency is the number of concurrent part uploads.
	// Default: 5
	Concurrency int

	// EnableChecksum sends CRC32C checksums with every upload.
	// Default: true
	EnableChecksum bool

	// LeavePartsOnError keeps uploaded parts when a multipart upload fails.
	// Default: false
	LeavePartsOnError bool
}

// DefaultUploadConfig returns the default upload settings.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:       8 * 1024 * 1024,
		Concurrency:    5,
		EnableChecksum: true,
	}
}

func newUploader(client Client, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		if cfg.PartSize > 0 {
			u.PartSize = cfg.PartSize
		}
		if cfg.Concurrency > 0 {
			u.Concurrency = cfg.Concurrency
		}
		u.LeavePartsOnError = cfg.LeavePartsOnError
	})
}

// writableBlob buffers the object in memory and uploads it on Close. The
// CRC32C checksum is computed while writing.
type writableBlob struct {
	ctx   context.Context
	store *Store
	key   string

	buf     bytes.Buffer
	crc     hash.Hash32
	closed  bool
	aborted bool
	err     error
}

func newWritableBlob(ctx context.Context, s *Store, key string) *writableBlob {
	return &writableBlob{
		ctx:   ctx,
		store: s,
		key:   key,
		crc:   vhash.NewCRC32C(),
	}
}

func (b *writableBlob) Write(p []byte) (int, error) {
	switch {
	case b.aborted:
		return 0, ErrAborted
	case b.closed:
		return 0, io.ErrClosedPipe
	}
	_, _ = b.crc.Write(p)
	return b.buf.Write(p)
}

// Sync is a no-op; the object is committed by Close.
func (b *writableBlob) Sync() error {
	return nil
}

// Close uploads the buffered object. Repeated calls return the first result.
func (b *writableBlob) Close() error {
	if b.closed || b.aborted {
		return b.err
	}
	b.closed = true

	cfg := b.store.upload
	if int64(b.buf.Len()) < cfg.PartSize || cfg.PartSize <= 0 {
		b.err = b.put(cfg.EnableChecksum)
	} else {
		b.err = b.multipart(cfg.EnableChecksum)
	}
	b.buf = bytes.Buffer{}
	return b.err
}

// Abort drops the buffered data. Nothing has been sent before Close.
func (b *writableBlob) Abort() error {
	b.aborted = true
	b.buf = bytes.Buffer{}
	return nil
}

func (b *writableBlob) put(checksum bool) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(b.store.bucket),
		Key:           aws.String(b.key),
		Body:          bytes.NewReader(b.buf.Bytes()),
		ContentLength: aws.Int64(int64(b.buf.Len())),
	}
	if checksum {
		input.ChecksumCRC32C = aws.String(vhash.Base64(b.crc.Sum32()))
	}
	_, err := b.store.client.PutObject(b.ctx, input)
	return err
}

func (b *writableBlob) multipart(checksum bool) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.store.bucket),
		Key:    aws.String(b.key),
		Body:   bytes.NewReader(b.buf.Bytes()),
	}
	if checksum {
		input.ChecksumAlgorithm = types.ChecksumAlgorithmCrc32c
	}
	_, err := b.store.uploader.Upload(b.ctx, input)
	return err
}
