package fio

import (
	"path/filepath"

	"github.com/gofrs/flock"
)

const flockName = "flock"

// NewFlock returns a cross-process file lock rooted at dirPath, used by the
// engine to guard against two processes opening the same data directory.
func NewFlock(dirPath string) *flock.Flock {
	return flock.New(filepath.Join(dirPath, flockName))
}
