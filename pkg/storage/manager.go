package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	errs "reviewimg/pkg/errors"
	"reviewimg/pkg/logger"
)

// Manager writes downloaded images into one output directory
type Manager struct {
	outputDir  string
	savedCount int
	savedBytes int64
	mu         sync.RWMutex
}

// EnsureDir creates path and any missing parents. It reports whether the
// directory had to be created and logs only in that case.
func EnsureDir(path string, log logger.Logger) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return false, errs.New(errs.ErrorTypeFilesystem, fmt.Sprintf("%s exists and is not a directory", path))
		}
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, errs.Wrap(errs.ErrorTypeFilesystem, err, fmt.Sprintf("failed to inspect %s", path))
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return false, errs.Wrap(errs.ErrorTypeFilesystem, err, fmt.Sprintf("failed to create directory %s", path))
	}
	if log != nil {
		log.WithField("dir", path).Info("Created output directory")
	}
	return true, nil
}

// NewManager ensures outputDir exists and returns a manager writing into it
func NewManager(outputDir string, log logger.Logger) (*Manager, error) {
	if _, err := EnsureDir(outputDir, log); err != nil {
		return nil, err
	}

	return &Manager{outputDir: outputDir}, nil
}

// Path returns the destination path for filename
func (m *Manager) Path(filename string) string {
	return filepath.Join(m.outputDir, filename)
}

// SaveImage copies r into filename, replacing any existing file. Data is
// written to a temporary sibling first and renamed into place, so the final
// name never holds a partial image.
func (m *Manager) SaveImage(r io.Reader, filename string) (int64, error) {
	if filename == "" || filename == "." || filename == ".." {
		return 0, errs.New(errs.ErrorTypeWrite, fmt.Sprintf("invalid filename %q", filename))
	}

	target := m.Path(filename)
	tempFile := target + ".tmp"

	out, err := os.Create(tempFile)
	if err != nil {
		return 0, errs.Wrap(errs.ErrorTypeWrite, err, "failed to create temporary file")
	}

	n, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return 0, errs.Wrap(errs.ErrorTypeWrite, err, "failed to write image data")
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return 0, errs.Wrap(errs.ErrorTypeWrite, closeErr, "failed to close file")
	}

	if err := os.Rename(tempFile, target); err != nil {
		os.Remove(tempFile)
		return 0, errs.Wrap(errs.ErrorTypeWrite, err, "failed to rename temporary file")
	}

	m.mu.Lock()
	m.savedCount++
	m.savedBytes += n
	m.mu.Unlock()

	return n, nil
}

// SavedCount returns the number of successful writes by this manager
func (m *Manager) SavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.savedCount
}

// SavedBytes returns the total size of the files written by this manager
func (m *Manager) SavedBytes() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.savedBytes
}
