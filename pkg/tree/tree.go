package tree

import (
	stderrors "errors"
	"path/filepath"
	"sort"

	"github.com/scawful/barista/pkg/errors"
	"github.com/scawful/barista/pkg/filesystem"
	"github.com/scawful/barista/pkg/logging"
	"github.com/scawful/barista/pkg/paths"
)

// LuaEntryGlob matches the top-level Lua entry files of a distribution
const LuaEntryGlob = "*.lua"

// ManagedDirs are the directories copied verbatim on first install
var ManagedDirs = []string{
	"modules",
	"profiles",
	"themes",
	"plugins",
	"data",
	"launch_agents",
	"helpers",
}

// Result describes what Install did
type Result struct {
	// Skipped is true when the marker was already present
	Skipped bool `json:"skipped" yaml:"skipped"`
	// Copied lists the top-level entries copied, relative to the root
	Copied []string `json:"copied,omitempty" yaml:"copied,omitempty"`
	// Missing lists managed entries absent from the distribution
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Install copies the managed asset set from distRoot into the configuration
// root unless its marker file already exists. The first copy failure aborts
// the remaining copies; entries copied before it stay in place.
func Install(fsys filesystem.FS, distRoot string, p paths.Paths) (*Result, error) {
	logger := logging.GetLogger("tree")
	done := logging.LogOperationStart(logger, "tree.install")
	defer done()

	configRoot := p.ConfigRoot()

	initialized, err := filesystem.Exists(fsys, p.MarkerPath())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to check marker %s", p.MarkerPath()).
			WithDetail("path", p.MarkerPath())
	}
	if initialized {
		logger.Info().
			Str("marker", p.MarkerPath()).
			Msg("Configuration root already initialized, preserving it")
		return &Result{Skipped: true}, nil
	}

	if err := fsys.MkdirAll(configRoot, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create config root %s", configRoot).
			WithDetail("path", configRoot)
	}

	entries, missing, err := managedEntries(fsys, distRoot)
	if err != nil {
		return nil, err
	}

	result := &Result{Missing: missing}
	for _, name := range missing {
		logger.Warn().Str("entry", name).Str("dist", distRoot).Msg("Managed asset missing from distribution")
	}

	for _, name := range entries {
		src := filepath.Join(distRoot, name)
		dst := filepath.Join(configRoot, name)

		logger.Debug().Str("source", src).Str("destination", dst).Msg("Copying managed asset")
		if err := filesystem.CopyTree(fsys, src, dst); err != nil {
			failed := src
			var copyErr *filesystem.CopyError
			if stderrors.As(err, &copyErr) {
				failed = copyErr.Path
			}
			return result, errors.Wrapf(err, errors.ErrTreeCopy, "failed to copy %s", name).
				WithDetail("path", failed).
				WithDetail("copied", append([]string(nil), result.Copied...))
		}
		result.Copied = append(result.Copied, name)
	}

	logger.Info().
		Int("copied", len(result.Copied)).
		Str("configRoot", configRoot).
		Msg("Installed configuration tree")
	return result, nil
}

// managedEntries lists the entries of distRoot that belong to the managed
// asset set, Lua entry files first, and the managed directories it lacks
func managedEntries(fsys filesystem.FS, distRoot string) ([]string, []string, error) {
	dirEntries, err := fsys.ReadDir(distRoot)
	if err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read distribution %s", distRoot).
			WithDetail("path", distRoot)
	}

	var luaFiles []string
	present := make(map[string]bool, len(dirEntries))
	for _, entry := range dirEntries {
		present[entry.Name()] = true
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(LuaEntryGlob, entry.Name()); ok {
			luaFiles = append(luaFiles, entry.Name())
		}
	}
	sort.Strings(luaFiles)

	entries := luaFiles
	var missing []string
	for _, dir := range ManagedDirs {
		if present[dir] {
			entries = append(entries, dir)
		} else {
			missing = append(missing, dir)
		}
	}
	return entries, missing, nil
}
