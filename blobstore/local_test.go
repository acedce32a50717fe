package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/vecseq/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)

	ctx := context.Background()

	// 1. Create a blob in a nested directory
	blobName := "SKM_Iterations/centroids"
	data := []byte("hello world, this is a test blob for vecseq")

	w, err := store.Create(ctx, blobName)
	require.NoError(t, err)

	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "close is idempotent")

	_, err = os.Stat(filepath.Join(tmpDir, "SKM_Iterations", "centroids"))
	require.NoError(t, err)

	// 2. Open and ReadAt
	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err = blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	// 3. ReadRange
	rangeReader, err := blob.ReadRange(ctx, 13, 4)
	require.NoError(t, err)
	defer rangeReader.Close()

	rangeContent, err := io.ReadAll(rangeReader)
	require.NoError(t, err)
	require.Equal(t, "this", string(rangeContent))

	// 4. List
	require.NoError(t, store.Put(ctx, "cluster_raw", []byte("x")))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"SKM_Iterations/centroids", "cluster_raw"}, names)

	names, err = store.List(ctx, "SKM")
	require.NoError(t, err)
	require.Equal(t, []string{"SKM_Iterations/centroids"}, names)

	// 5. Delete
	require.NoError(t, store.Delete(ctx, "cluster_raw"))
	require.NoError(t, store.Delete(ctx, "cluster_raw"), "deleting a missing blob is not an error")

	_, err = store.Open(ctx, "cluster_raw")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalBlobStore_ReadRange_Boundaries(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	data := []byte("0123456789")
	require.NoError(t, store.Put(ctx, "boundary.bin", data))

	blob, err := store.Open(ctx, "boundary.bin")
	require.NoError(t, err)
	defer blob.Close()

	// Full range
	r, err := blob.ReadRange(ctx, 0, 10)
	require.NoError(t, err)
	content, _ := io.ReadAll(r)
	r.Close()
	require.True(t, bytes.Equal(data, content))

	// Past end: only 2 of 5 bytes available
	r, err = blob.ReadRange(ctx, 8, 5)
	require.NoError(t, err)
	content, err = io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "89", string(content))
	r.Close()

	// Offset past EOF
	_, err = blob.ReadRange(ctx, 20, 5)
	require.ErrorIs(t, err, io.EOF)

	// Short ReadAt
	buf := make([]byte, 4)
	n, err := blob.ReadAt(ctx, buf, 8)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLocalBlobStore_NewReader(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a", []byte("SEQ\x06")))
	require.NoError(t, store.Put(ctx, "empty", nil))

	for name, want := range map[string]string{"a": "SEQ\x06", "empty": ""} {
		blob, err := store.Open(ctx, name)
		require.NoError(t, err)

		r, err := NewReader(ctx, blob)
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
		require.NoError(t, r.Close())
		require.NoError(t, blob.Close())
	}
}

func TestLocalBlobStore_CreateOverwrites(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "out", []byte("a much longer first version")))

	w, err := store.Create(ctx, "out")
	require.NoError(t, err)
	_, err = w.Write([]byte("short"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	blob, err := store.Open(ctx, "out")
	require.NoError(t, err)
	defer blob.Close()
	assert.Equal(t, int64(5), blob.Size())
}

func TestLocalBlobStore_Abort(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)
	ctx := context.Background()

	w, err := store.Create(ctx, "partial")
	require.NoError(t, err)
	_, err = w.Write([]byte("half"))
	require.NoError(t, err)
	require.NoError(t, w.Abort())
	require.NoError(t, w.Close())

	_, err = os.Stat(filepath.Join(dir, "partial"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = w.Write([]byte("more"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestLocalBlobStore_FaultyFileSystem(t *testing.T) {
	dir := t.TempDir()
	fsys := fs.NewFaultyFS(nil)
	fsys.Inject("broken-out", fs.Fault{FailAfterBytes: 4})
	store := NewLocalStore(dir, WithFileSystem(fsys))
	ctx := context.Background()

	w, err := store.Create(ctx, "broken-out")
	require.NoError(t, err)
	_, err = w.Write([]byte("0123456789"))
	require.ErrorIs(t, err, fs.ErrInjected)
	require.NoError(t, w.Close())

	got, err := os.ReadFile(filepath.Join(dir, "broken-out"))
	require.NoError(t, err)
	assert.Equal(t, "0123", string(got), "write is truncated at the limit")

	fsys.Inject("broken-put", fs.Fault{FailOnOpen: true})
	assert.ErrorIs(t, store.Put(ctx, "broken-put", []byte("x")), fs.ErrInjected)
}

func TestLocalBlobStore_Canceled(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Create(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Open(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalBlobStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
