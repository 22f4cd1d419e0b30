package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()

	assert.Contains(t, content, "[app]")
	assert.Contains(t, content, "[hook]")
	assert.Contains(t, content, `# name = "sketchybar"`)
	assert.Contains(t, content, `# timeout = "5m"`)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		assert.True(t, strings.HasPrefix(trimmed, "["), "uncommented value line: %q", line)
	}
}

func TestGenerateConfigContent_LoadsAsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barista.toml")
	require.NoError(t, os.WriteFile(path, []byte(GenerateConfigContent()), 0644))

	cfg, err := Load(LoadOptions{ConfigFile: path, SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEffective_RoundTrips(t *testing.T) {
	cfg := Default()
	cfg.App.Name = "barbar"

	out, err := Effective(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "barbar")
	assert.Contains(t, string(out), "5m0s")

	path := filepath.Join(t.TempDir(), "barista.toml")
	require.NoError(t, os.WriteFile(path, out, 0644))

	loaded, err := Load(LoadOptions{ConfigFile: path, SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
