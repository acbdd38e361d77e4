package types

import "io/fs"

// FS defines the filesystem operations envsync needs. The synchronizer only
// ever touches the disk through this interface.
type FS interface {
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)

	Symlink(oldname, newname string) error
	Remove(name string) error
	RemoveAll(path string) error

	// Canonicalize resolves path to its absolute, symlink-free form.
	// It fails when any component of the path does not exist.
	Canonicalize(path string) (string, error)
}
