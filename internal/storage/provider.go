// Package storage defines the read-only content file-system abstraction.
package storage

import "io/fs"

// Provider is the interface for reading the content tree.
type Provider interface {
	// ReadDir lists dir (relative to the content root). Like os.ReadDir it
	// may return the entries read so far together with an error.
	ReadDir(dir string) ([]fs.DirEntry, error)
	// Stat follows symlinks and describes the file at path.
	Stat(path string) (fs.FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Root returns the absolute content root.
	Root() string
}
