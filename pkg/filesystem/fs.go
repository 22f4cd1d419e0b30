package filesystem

import (
	"io/fs"
)

// FS is the filesystem surface used by the installer steps
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Chmod(name string, mode fs.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// CreateExclusive creates name holding data with exactly perm. It fails
	// with an error matching fs.ErrExist when name is already present and
	// never leaves a partially written name behind.
	CreateExclusive(name string, data []byte, perm fs.FileMode) error

	// WriteFileAtomic replaces name with data through a temporary sibling
	// and a rename.
	WriteFileAtomic(name string, data []byte, perm fs.FileMode) error
}

// Exists reports whether name is present. Errors other than not-exist are
// returned so callers can tell "absent" from "unreadable".
func Exists(fsys FS, name string) (bool, error) {
	_, err := fsys.Lstat(name)
	if err == nil {
		return true, nil
	}
	if isNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsExecutable reports whether info describes a regular file with any
// execute bit set
func IsExecutable(info fs.FileInfo) bool {
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}
