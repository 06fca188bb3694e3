package fileutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	require.NoError(t, os.WriteFile(src, []byte("hello world"), 0o644))
	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
}

func TestCopyFileModeOverwritesPermissions(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "script.sh")
	dst := filepath.Join(dir, "installed.sh")

	require.NoError(t, os.WriteFile(src, []byte("#!/bin/bash\necho v2\n"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old version that is longer"), 0o600))

	require.NoError(t, CopyFileMode(src, dst, 0o755))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/bash\necho v2\n", string(got))
}

func TestCopyFileExclusiveRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, CopyFileExclusive(src, dst))

	require.NoError(t, os.WriteFile(src, []byte("newer"), 0o644))
	err := CopyFileExclusive(src, dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrExist)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestSameFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))

	assert.True(t, SameFile(a, filepath.Join(dir, ".", "a.txt")))
	assert.False(t, SameFile(a, filepath.Join(dir, "b.txt")))
}

func TestCopyDirPreservesModesAndReplaces(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Helper.app")
	dst := filepath.Join(dir, "installed", "Helper.app")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "Contents", "MacOS"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Contents", "Info.plist"), []byte("<plist/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Contents", "MacOS", "helper"), []byte("bin"), 0o755))

	require.NoError(t, os.MkdirAll(filepath.Join(dst, "stale"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "stale", "old.txt"), []byte("old"), 0o644))

	require.NoError(t, CopyDir(src, dst))

	assert.NoDirExists(t, filepath.Join(dst, "stale"))

	info, err := os.Stat(filepath.Join(dst, "Contents", "MacOS", "helper"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(dst, "Contents", "Info.plist"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestCopyDirRejectsFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(src, nil, 0o644))

	assert.Error(t, CopyDir(src, filepath.Join(dir, "out")))
}

func TestTouchAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".flag")

	assert.False(t, Exists(path))
	require.NoError(t, Touch(path))
	assert.True(t, Exists(path))

	require.NoError(t, RemoveIfExists(path))
	require.NoError(t, RemoveIfExists(path))
	assert.False(t, Exists(path))
}
