// Package bootstrap creates the generated artifacts of a configuration root.
//
// Two artifacts are managed: the executable entry-point script the service
// supervisor runs, and the default state document. Each is created with
// fixed content only when absent and is never rewritten afterwards; a user
// who wants the default back deletes the file. Creation goes through
// filesystem.FS.CreateExclusive, so the existence check and the write are
// one atomic step and a crash never leaves a truncated file behind.
package bootstrap
