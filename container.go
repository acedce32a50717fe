package vecseq

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/vecseq/blobstore"
	"github.com/hupe1980/vecseq/internal/resource"
	"github.com/hupe1980/vecseq/seqfile"
)

// containerReader is an open SequenceFile together with the handles it reads from.
type containerReader struct {
	*seqfile.Reader
	body io.Closer
	blob blobstore.Blob
}

func (c *containerReader) Close() error {
	return errors.Join(c.body.Close(), c.blob.Close())
}

// openContainer opens the container at path and parses its header.
func openContainer(ctx context.Context, o *options, rc *resource.Controller, path string) (*containerReader, error) {
	store, name, err := o.resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("vecseq: open %s: %w", path, err)
	}
	body, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		_ = blob.Close()
		return nil, fmt.Errorf("vecseq: read %s: %w", path, err)
	}

	r, err := seqfile.NewReader(resource.NewRateLimitedReader(ctx, body, rc))
	if err != nil {
		_ = body.Close()
		_ = blob.Close()
		return nil, fmt.Errorf("vecseq: %s: %w", path, err)
	}
	return &containerReader{Reader: r, body: body, blob: blob}, nil
}

// checkClasses compares the declared classes with the expected ones. An empty
// expectation accepts any class.
func checkClasses(hdr seqfile.Header, keyClass, valueClass string) error {
	if keyClass != "" && hdr.KeyClass != keyClass {
		return &TypeMismatchError{Field: "key", Expected: keyClass, Actual: hdr.KeyClass}
	}
	if valueClass != "" && hdr.ValueClass != valueClass {
		return &TypeMismatchError{Field: "value", Expected: valueClass, Actual: hdr.ValueClass}
	}
	return nil
}

// containerWriter is a SequenceFile being written to a blob.
type containerWriter struct {
	*seqfile.Writer
	blob blobstore.WritableBlob
}

// Close flushes the container and publishes the blob, even when the flush
// fails.
func (c *containerWriter) Close() error {
	return errors.Join(c.Writer.Close(), c.blob.Close())
}

// Abort discards the blob.
func (c *containerWriter) Abort() error {
	return c.blob.Abort()
}

func createContainer(ctx context.Context, o *options, rc *resource.Controller, path, keyClass, valueClass string, optFns ...func(*seqfile.Options)) (*containerWriter, error) {
	store, name, err := o.resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	blob, err := store.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("vecseq: create %s: %w", path, err)
	}

	w, err := seqfile.NewWriter(resource.NewRateLimitedWriter(ctx, blob, rc), keyClass, valueClass, optFns...)
	if err != nil {
		_ = blob.Abort()
		return nil, fmt.Errorf("vecseq: %s: %w", path, err)
	}
	return &containerWriter{Writer: w, blob: blob}, nil
}
