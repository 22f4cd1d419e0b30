package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// CopyError identifies the path at which a copy stopped
type CopyError struct {
	Path string
	Err  error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %s: %v", e.Path, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// CopyFile copies source to destination keeping the source permission bits.
// The destination is replaced atomically when it already exists.
func CopyFile(fsys FS, source, destination string) error {
	info, err := fsys.Stat(source)
	if err != nil {
		return &CopyError{Path: source, Err: err}
	}
	if info.IsDir() {
		return &CopyError{Path: source, Err: fmt.Errorf("is a directory")}
	}

	content, err := fsys.ReadFile(source)
	if err != nil {
		return &CopyError{Path: source, Err: err}
	}

	if err := fsys.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		return &CopyError{Path: filepath.Dir(destination), Err: err}
	}

	if err := fsys.WriteFileAtomic(destination, content, info.Mode().Perm()); err != nil {
		return &CopyError{Path: destination, Err: err}
	}
	return nil
}

// CopyTree copies source, a file or a directory, to destination. Directories
// are copied recursively with their relative structure. The first failure
// stops the walk; whatever was copied before it stays in place.
func CopyTree(fsys FS, source, destination string) error {
	info, err := fsys.Stat(source)
	if err != nil {
		return &CopyError{Path: source, Err: err}
	}
	if !info.IsDir() {
		return CopyFile(fsys, source, destination)
	}

	if err := fsys.MkdirAll(destination, dirPerm(info)); err != nil {
		return &CopyError{Path: destination, Err: err}
	}

	entries, err := fsys.ReadDir(source)
	if err != nil {
		return &CopyError{Path: source, Err: err}
	}
	for _, entry := range entries {
		name := entry.Name()
		if err := CopyTree(fsys, filepath.Join(source, name), filepath.Join(destination, name)); err != nil {
			return err
		}
	}
	return nil
}

func dirPerm(info fs.FileInfo) fs.FileMode {
	perm := info.Mode().Perm()
	if perm == 0 {
		return 0755
	}
	// Keep the tree traversable by its owner
	return perm | 0700
}
