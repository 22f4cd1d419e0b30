package config

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/scawful/barista/pkg/errors"
)

// GenerateConfigContent generates a starter configuration file with every
// value commented out
func GenerateConfigContent() string {
	return commentOutConfigValues(DefaultsContent())
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines as-is
		if trimmed == "" {
			result = append(result, line)
			continue
		}

		// Keep lines that are already comments
		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [app], [hook]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") && !strings.Contains(trimmed, "=") && !strings.HasPrefix(trimmed, "[\"") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}

// effectiveView mirrors Config with durations as strings so the TOML output
// round-trips through Load
type effectiveView struct {
	App   AppConfig   `toml:"app"`
	Paths PathsConfig `toml:"paths"`
	Build struct {
		SourceDir string     `toml:"source_dir"`
		OutputDir string     `toml:"output_dir"`
		Commands  [][]string `toml:"commands"`
		Timeout   string     `toml:"timeout"`
	} `toml:"build"`
	Hook struct {
		Enabled bool   `toml:"enabled"`
		Timeout string `toml:"timeout"`
	} `toml:"hook"`
	Output OutputConfig `toml:"output"`
}

// Effective renders cfg as TOML
func Effective(cfg *Config) ([]byte, error) {
	var view effectiveView
	view.App = cfg.App
	view.Paths = cfg.Paths
	view.Build.SourceDir = cfg.Build.SourceDir
	view.Build.OutputDir = cfg.Build.OutputDir
	view.Build.Commands = cfg.Build.Commands
	view.Build.Timeout = cfg.Build.Timeout.String()
	view.Hook.Enabled = cfg.Hook.Enabled
	view.Hook.Timeout = cfg.Hook.Timeout.String()
	view.Output = cfg.Output

	out, err := toml.Marshal(view)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}
