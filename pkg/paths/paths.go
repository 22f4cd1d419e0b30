package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/scawful/barista/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigRoot overrides the derived configuration root
	EnvConfigRoot = "BARISTA_CONFIG_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Layout of a configuration root. These names are shared with the status
// bar runtime and are not user-configurable.
const (
	// DefaultApp is the status bar whose configuration root is managed
	DefaultApp = "sketchybar"

	// ConfigDirName is the directory under home holding per-app roots
	ConfigDirName = ".config"

	// MarkerFile signals that the root has been populated
	MarkerFile = "main.lua"

	// EntryPointFile is the generated script the service supervisor runs
	EntryPointFile = "sketchybarrc"

	// StateFile is the generated default state document
	StateFile = "state.json"

	// BinDirName mirrors the installed executables
	BinDirName = "bin"

	// HelpersDirName holds helper shell scripts
	HelpersDirName = "helpers"

	// HookScriptName is the optional post-update hook inside HelpersDirName
	HookScriptName = "post_update.sh"

	// LaunchAgentsDirName holds launchd agent definitions
	LaunchAgentsDirName = "launch_agents"
)

// Paths provides the locations inside a configuration root
type Paths interface {
	ConfigRoot() string
	MarkerPath() string
	EntryPointPath() string
	StatePath() string
	HookPath() string
	BinDir() string
	HelpersDir() string
	LaunchAgentsDir() string
	// HomeRelative returns ConfigRoot relative to the home directory, or
	// ok=false when the root lives outside it
	HomeRelative() (rel string, ok bool)
	// Display shortens a path under the home directory to ~/...
	Display(path string) string
}

type paths struct {
	configRoot string
	home       string
}

// New creates a Paths rooted at configRoot. A leading ~ is expanded and the
// result is made absolute.
func New(configRoot string) (Paths, error) {
	if strings.TrimSpace(configRoot) == "" {
		return nil, errors.New(errors.ErrInvalidInput, "config root must not be empty")
	}

	home := homeDir()
	abs, err := filepath.Abs(expandHome(configRoot, home))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for config root %s", configRoot)
	}

	return &paths{configRoot: abs, home: home}, nil
}

// ForApp derives the configuration root $HOME/.config/<app>. The
// BARISTA_CONFIG_ROOT environment variable takes precedence when set.
func ForApp(app string) (Paths, error) {
	if root := os.Getenv(EnvConfigRoot); root != "" {
		return New(root)
	}
	if app == "" {
		app = DefaultApp
	}

	home := homeDir()
	if home == "" {
		return nil, errors.New(errors.ErrNotFound, "cannot determine home directory")
	}
	return New(filepath.Join(home, ConfigDirName, app))
}

func (p *paths) ConfigRoot() string {
	return p.configRoot
}

func (p *paths) MarkerPath() string {
	return filepath.Join(p.configRoot, MarkerFile)
}

func (p *paths) EntryPointPath() string {
	return filepath.Join(p.configRoot, EntryPointFile)
}

func (p *paths) StatePath() string {
	return filepath.Join(p.configRoot, StateFile)
}

func (p *paths) HookPath() string {
	return filepath.Join(p.HelpersDir(), HookScriptName)
}

func (p *paths) BinDir() string {
	return filepath.Join(p.configRoot, BinDirName)
}

func (p *paths) HelpersDir() string {
	return filepath.Join(p.configRoot, HelpersDirName)
}

func (p *paths) LaunchAgentsDir() string {
	return filepath.Join(p.configRoot, LaunchAgentsDirName)
}

func (p *paths) HomeRelative() (string, bool) {
	if p.home == "" {
		return "", false
	}
	rel, err := filepath.Rel(p.home, p.configRoot)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (p *paths) Display(path string) string {
	if p.home == "" {
		return path
	}
	if path == p.home {
		return "~"
	}
	if strings.HasPrefix(path, p.home+string(filepath.Separator)) {
		return "~" + path[len(p.home):]
	}
	return path
}

// homeDir prefers $HOME so tests can redirect it with t.Setenv; xdg.Home
// covers platforms where HOME is unset
func homeDir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	return xdg.Home
}

// expandHome expands ~ to the home directory
func expandHome(path, home string) string {
	if path == "" || path[0] != '~' || home == "" {
		return path
	}
	if len(path) == 1 {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	// ~something (not the user's home)
	return path
}
