// Package filesystem provides filesystem implementations for barista.
//
// This package contains the FS interface used by every installer step,
// the standard OS filesystem and an in-memory filesystem for tests. It also
// carries the two write primitives the installer relies on: CreateExclusive,
// which never replaces an existing file, and WriteFileAtomic, which replaces
// a file without exposing a partially written one.
package filesystem
