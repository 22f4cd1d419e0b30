// Package binaries places built executables and helper scripts.
//
// Executables from the build output go to two independent destinations:
// the system-wide bin directory and the bin directory inside the
// configuration root. Helper scripts are synced into the root's helpers
// directory on every run so they track the installed binary version even
// when the rest of the user's configuration is preserved.
package binaries

import (
	"path/filepath"
	"sort"

	"github.com/scawful/barista/pkg/errors"
	"github.com/scawful/barista/pkg/filesystem"
	"github.com/scawful/barista/pkg/logging"
	"github.com/scawful/barista/pkg/paths"
)

// HelperScriptGlob selects the helper scripts synced on every run
const HelperScriptGlob = "*.sh"

// Options locates the inputs and outputs of Place
type Options struct {
	// BuildOutputDir holds the built executables
	BuildOutputDir string
	// SystemBinDir is the system-wide bin directory
	SystemBinDir string
	// DistHelpersDir holds helper scripts from the distribution; empty skips the sync
	DistHelpersDir string
}

// Placement records the files written to one destination
type Placement struct {
	Dir   string   `json:"dir" yaml:"dir"`
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`
}

// Result describes what Place did
type Result struct {
	Executables []string  `json:"executables" yaml:"executables"`
	System      Placement `json:"system" yaml:"system"`
	Mirror      Placement `json:"mirror" yaml:"mirror"`
	Helpers     Placement `json:"helpers" yaml:"helpers"`
}

// Place installs every executable in BuildOutputDir into SystemBinDir and
// into the configuration root's bin directory, then syncs helper scripts.
// Every copy is attempted; failures are collected and returned joined, so a
// read-only system directory does not stop the mirror from being updated.
func Place(fsys filesystem.FS, opts Options, p paths.Paths) (*Result, error) {
	logger := logging.GetLogger("binaries")
	done := logging.LogOperationStart(logger, "binaries.place")
	defer done()

	result := &Result{
		System:  Placement{Dir: opts.SystemBinDir},
		Mirror:  Placement{Dir: p.BinDir()},
		Helpers: Placement{Dir: p.HelpersDir()},
	}

	executables, err := listFiles(fsys, opts.BuildOutputDir, "", true)
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrFileAccess, "failed to read build output %s", opts.BuildOutputDir).
			WithDetail("path", opts.BuildOutputDir)
	}
	result.Executables = executables
	if len(executables) == 0 {
		logger.Warn().Str("dir", opts.BuildOutputDir).Msg("Build output contains no executables")
	}

	var errs []error
	for _, dest := range []*Placement{&result.System, &result.Mirror} {
		errs = append(errs, install(fsys, opts.BuildOutputDir, executables, dest)...)
	}

	if opts.DistHelpersDir != "" {
		scripts, err := listFiles(fsys, opts.DistHelpersDir, HelperScriptGlob, false)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, errors.ErrFileAccess, "failed to read helpers %s", opts.DistHelpersDir).
				WithDetail("path", opts.DistHelpersDir))
		} else {
			errs = append(errs, install(fsys, opts.DistHelpersDir, scripts, &result.Helpers)...)
		}
	}

	logger.Info().
		Int("executables", len(executables)).
		Int("system", len(result.System.Files)).
		Int("mirror", len(result.Mirror.Files)).
		Int("helpers", len(result.Helpers.Files)).
		Msg("Placed binaries")

	return result, errors.Join(errs...)
}

// install copies names from srcDir into dest.Dir, recording each success
func install(fsys filesystem.FS, srcDir string, names []string, dest *Placement) []error {
	logger := logging.GetLogger("binaries")
	if len(names) == 0 {
		return nil
	}

	if err := fsys.MkdirAll(dest.Dir, 0755); err != nil {
		return []error{errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dest.Dir).
			WithDetail("path", dest.Dir)}
	}

	var errs []error
	for _, name := range names {
		src := filepath.Join(srcDir, name)
		dst := filepath.Join(dest.Dir, name)
		if err := filesystem.CopyFile(fsys, src, dst); err != nil {
			logger.Error().Err(err).Str("destination", dst).Msg("Failed to install file")
			errs = append(errs, errors.Wrapf(err, errors.ErrFileWrite, "failed to install %s", dst).
				WithDetail("path", dst))
			continue
		}
		dest.Files = append(dest.Files, name)
	}
	return errs
}

// listFiles returns the sorted names of regular files in dir matching glob
// (empty matches everything), optionally only executables
func listFiles(fsys filesystem.FS, dir, glob string, executableOnly bool) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if glob != "" {
			if ok, _ := filepath.Match(glob, entry.Name()); !ok {
				continue
			}
		}
		info, err := fsys.Stat(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if executableOnly && !filesystem.IsExecutable(info) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
