// Package storage provides the file-system side of snapshot transfer: the
// import drop folder and export destinations.
package storage

import "time"

// FileMeta describes one snapshot file.
type FileMeta struct {
	Name     string
	Checksum string
	Size     int64
	ModTime  time.Time
}

// Provider is the interface for snapshot file operations. Paths are
// relative to the provider root.
type Provider interface {
	// List returns the snapshot files directly under the root, oldest first.
	List() ([]FileMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
	// Root returns the absolute root directory.
	Root() string
}
