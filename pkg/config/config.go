package config

import (
	"time"
)

// Config is the resolved installer configuration
type Config struct {
	App    AppConfig    `koanf:"app" toml:"app"`
	Paths  PathsConfig  `koanf:"paths" toml:"paths"`
	Build  BuildConfig  `koanf:"build" toml:"build"`
	Hook   HookConfig   `koanf:"hook" toml:"hook"`
	Output OutputConfig `koanf:"output" toml:"output"`
}

// AppConfig names the managed status bar
type AppConfig struct {
	Name string `koanf:"name" toml:"name" comment:"Status bar whose configuration root is managed (~/.config/<name>)"`
}

// PathsConfig holds install locations
type PathsConfig struct {
	ConfigRoot   string `koanf:"config_root" toml:"config_root" comment:"Explicit configuration root; empty derives it from app.name"`
	SystemBinDir string `koanf:"system_bin_dir" toml:"system_bin_dir" comment:"Where executables are installed system-wide"`
	DocDir       string `koanf:"doc_dir" toml:"doc_dir" comment:"Where documentation is installed"`
}

// BuildConfig describes the external build
type BuildConfig struct {
	SourceDir string        `koanf:"source_dir" toml:"source_dir" comment:"Source checkout holding the distribution"`
	OutputDir string        `koanf:"output_dir" toml:"output_dir" comment:"Directory the build leaves executables in, relative to source_dir"`
	Commands  [][]string    `koanf:"commands" toml:"commands" comment:"Build steps, run in order inside source_dir. {cpus} expands to the CPU count."`
	Timeout   time.Duration `koanf:"timeout" toml:"timeout"`
}

// HookConfig controls the post-update hook
type HookConfig struct {
	Enabled bool          `koanf:"enabled" toml:"enabled" comment:"Run helpers/post_update.sh after bootstrap"`
	Timeout time.Duration `koanf:"timeout" toml:"timeout" comment:"Upper bound for the hook; exceeding it is reported as a warning"`
}

// OutputConfig selects the report format
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" comment:"auto, term, text, json or yaml"`
}
