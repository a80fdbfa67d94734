// Package fileio provides the storage back-ends cassettes are read from and written to.
package fileio

import (
	"os"

	"github.com/pkg/errors"
)

// OSFile provides a storage based on Go's standard "os" package for filesystem support.
type OSFile struct{}

// NewOSFile returns the local filesystem store.
func NewOSFile() *OSFile {
	return &OSFile{}
}

// MkdirAll creates path and any missing parent.
func (*OSFile) MkdirAll(path string, perm os.FileMode) error {
	return errors.WithStack(os.MkdirAll(path, perm))
}

// ReadFile reads the named file.
func (*OSFile) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	return data, errors.WithStack(err)
}

// WriteFile writes data to the named file, creating it if necessary.
func (*OSFile) WriteFile(name string, data []byte, perm os.FileMode) error {
	return errors.WithStack(os.WriteFile(name, data, perm))
}

// IsNotExist reports whether err signals a missing file.
func (*OSFile) IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
