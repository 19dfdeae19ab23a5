// Package fs provides the filesystem abstraction used by the korrupt CLI.
//
// The main types are:
//   - [FS]: interface for the operations the CLI performs
//   - [Real]: production implementation using [os] and atomic writes
//   - [Chaos]: testing implementation that injects random failures
//
// Example usage:
//
//	fsys := fs.NewReal()
//	data, err := fsys.ReadFile("firmware.bin")
//	if err != nil {
//	    return err
//	}
//
//	err = fsys.WriteFileAtomic("/tmp/korrupt/firmware.bin", data, 0o644)
package fs

import "os"

// FS defines the filesystem operations needed to read inputs and write
// corrupted outputs.
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to path via temp file + rename, so readers
	// never observe a partially written output. The file ends up with perm.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	// No error if the directory already exists.
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	// Returns [os.ErrNotExist] if the file doesn't exist.
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)
}
