// Package storage provides the filesystem abstraction behind the local store
// and ledger exports.
//
// Two drivers are available:
//   - "local": local filesystem rooted at a directory (always booted)
//   - "s3": S3-compatible object storage (booted when S3_BUCKET is set)
//
//	storage.Connect()
//	disk, err := storage.Use("s3")
package storage

import (
	"errors"
	"io"
)

// ErrNotFound is returned by Get when path does not exist on the disk.
var ErrNotFound = errors.New("storage: file not found")

// Disk is the driver interface every backend implements.
type Disk interface {
	// Put writes content to path, replacing any previous content wholesale.
	Put(path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error

	// Get returns the full content of the file at path, or ErrNotFound.
	Get(path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(path string) error

	// Files lists file paths directly inside directory.
	Files(directory string) ([]string, error)

	// URL returns the public URL for path.
	URL(path string) string
}
