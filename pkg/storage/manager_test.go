package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "reviewimg/pkg/errors"
	"reviewimg/pkg/logger"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("stream cut") }

func TestEnsureDir(t *testing.T) {
	log := logger.NewTestLogger()
	dir := filepath.Join(t.TempDir(), "a", "b", "reviews")

	created, err := EnsureDir(dir, log)
	require.NoError(t, err)
	assert.True(t, created)
	assert.DirExists(t, dir)
	assert.True(t, log.HasMessage("Created output directory"))

	created, err = EnsureDir(dir, log)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, log.GetMessages(), 1, "second call must not log")
}

func TestEnsureDirOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := EnsureDir(path, nil)
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeFilesystem))
	assert.True(t, errs.IsFatal(err))
}

func TestEnsureDirBlockedParent(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0644))

	_, err := EnsureDir(filepath.Join(parent, "child"), nil)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeFilesystem, errs.TypeOf(err))
}

func TestManagerSaveImage(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "out")

	manager, err := NewManager(tempDir, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "a.jpg"), manager.Path("a.jpg"))
	assert.Equal(t, 0, manager.SavedCount())

	data := []byte("jpeg bytes")
	n, err := manager.SaveImage(bytes.NewReader(data), "iap_640x640.1.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)

	content, err := os.ReadFile(filepath.Join(tempDir, "iap_640x640.1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, data, content)
	assert.NoFileExists(t, filepath.Join(tempDir, "iap_640x640.1.jpg.tmp"))

	assert.Equal(t, 1, manager.SavedCount())
	assert.Equal(t, int64(len(data)), manager.SavedBytes())
}

func TestManagerOverwrites(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "img.jpg"), []byte("old contents"), 0644))

	manager, err := NewManager(tempDir, nil)
	require.NoError(t, err)

	_, err = manager.SaveImage(bytes.NewReader([]byte("new")), "img.jpg")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(tempDir, "img.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestManagerFailedWriteLeavesNoFile(t *testing.T) {
	tempDir := t.TempDir()
	manager, err := NewManager(tempDir, nil)
	require.NoError(t, err)

	_, err = manager.SaveImage(failingReader{}, "broken.jpg")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeWrite, errs.TypeOf(err))
	assert.False(t, errs.IsFatal(err))

	assert.NoFileExists(t, filepath.Join(tempDir, "broken.jpg"))
	assert.NoFileExists(t, filepath.Join(tempDir, "broken.jpg.tmp"))
	assert.Equal(t, 0, manager.SavedCount())
}

func TestManagerRejectsEmptyFilename(t *testing.T) {
	manager, err := NewManager(t.TempDir(), nil)
	require.NoError(t, err)

	for _, name := range []string{"", ".", ".."} {
		_, err := manager.SaveImage(bytes.NewReader([]byte("x")), name)
		assert.True(t, errs.IsType(err, errs.ErrorTypeWrite), "filename %q", name)
	}
}
