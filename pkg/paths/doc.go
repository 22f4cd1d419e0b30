// Package paths provides centralized path handling for barista.
//
// Every installer step works against an explicit ConfigRoot. The root is
// resolved once at the process entry point (from a flag, the configuration
// file, or the user's home plus the app name) and threaded through as a
// Paths value, so tests can point the whole installer at a temporary
// directory.
package paths
