package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, Default.MkdirAll(dir, 0o755))

	path := filepath.Join(dir, "blob")
	f, err := Default.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	require.NoError(t, f.Close())

	entries, err := Default.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	renamed := path + ".old"
	require.NoError(t, Default.Rename(path, renamed))
	require.NoError(t, Default.Remove(renamed))

	_, err = Default.Stat(renamed)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFSTruncatesAtLimit(t *testing.T) {
	ffs := NewFaultyFS(nil)
	ffs.Inject("centroids", Fault{FailAfterBytes: 7})

	path := filepath.Join(t.TempDir(), "centroids")
	f, err := ffs.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)

	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = f.Write([]byte("world"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 2, n)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hellowo", string(data))
	assert.Equal(t, int64(7), ffs.Written())
}

func TestFaultyFSRules(t *testing.T) {
	custom := errors.New("disk full")
	ffs := NewFaultyFS(LocalFS{})
	ffs.Inject("sync", Fault{FailAfterBytes: -1, FailOnSync: true})
	ffs.Inject("close", Fault{FailAfterBytes: -1, FailOnClose: true, Err: custom})
	ffs.Inject("open", Fault{FailOnOpen: true})

	dir := t.TempDir()

	f, err := ffs.OpenFile(filepath.Join(dir, "sync"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), ErrInjected)
	require.NoError(t, f.Close())

	f, err = ffs.OpenFile(filepath.Join(dir, "close"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	assert.ErrorIs(t, f.Close(), custom)

	_, err = ffs.OpenFile(filepath.Join(dir, "open"), os.O_CREATE|os.O_WRONLY, 0o644)
	assert.ErrorIs(t, err, ErrInjected)

	// Unmatched files are untouched.
	f, err = ffs.OpenFile(filepath.Join(dir, "plain"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write(make([]byte, 1024))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())
}

func TestFaultyFSLastRuleWins(t *testing.T) {
	ffs := NewFaultyFS(nil)
	ffs.Inject("data", Fault{FailOnOpen: true})
	ffs.Inject("data/out", Fault{FailAfterBytes: -1})

	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, ffs.MkdirAll(dir, 0o755))

	f, err := ffs.OpenFile(filepath.Join(dir, "out"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = ffs.OpenFile(filepath.Join(dir, "other"), os.O_CREATE|os.O_WRONLY, 0o644)
	assert.Error(t, err)
}
