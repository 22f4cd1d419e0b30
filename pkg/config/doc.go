// Package config handles configuration management for barista.
// It loads layered configuration from embedded TOML defaults, an optional
// user file and BARISTA_* environment variables, and can generate a
// commented starter file.
package config
