// Package installer runs the full install flow and applies the error
// policy: build failures and first-time tree failures abort, binary,
// documentation and bootstrap failures are collected, hook failures are
// warnings.
package installer

import (
	"context"
	stderrors "errors"
	"io"
	"path/filepath"
	"time"

	"github.com/scawful/barista/pkg/binaries"
	"github.com/scawful/barista/pkg/bootstrap"
	"github.com/scawful/barista/pkg/builder"
	"github.com/scawful/barista/pkg/errors"
	"github.com/scawful/barista/pkg/filesystem"
	"github.com/scawful/barista/pkg/hooks"
	"github.com/scawful/barista/pkg/logging"
	"github.com/scawful/barista/pkg/paths"
	"github.com/scawful/barista/pkg/tree"
)

// DocsDirName is the documentation directory inside the distribution
const DocsDirName = "docs"

// Options configures an install run
type Options struct {
	FS    filesystem.FS
	Paths paths.Paths

	// SourceDir is the project checkout the build runs in
	SourceDir string
	// DistRoot holds the distributed configuration tree; defaults to SourceDir
	DistRoot string
	// Build configures the build commands and output directory
	Build builder.Options
	// BuildOutputDir overrides the directory binaries are placed from
	BuildOutputDir string
	SkipBuild      bool

	SystemBinDir string
	// DocDir receives the distribution's docs directory on every run.
	// Empty skips the documentation step.
	DocDir string

	SkipHook    bool
	HookTimeout time.Duration
	// HookOutput, when set, streams the hook's output
	HookOutput io.Writer

	DryRun bool
}

// Report collects the outcome of every step that ran
type Report struct {
	DryRun    bool              `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Build     *builder.Result   `json:"build,omitempty" yaml:"build,omitempty"`
	Tree      *tree.Result      `json:"tree,omitempty" yaml:"tree,omitempty"`
	Binaries  *binaries.Result  `json:"binaries,omitempty" yaml:"binaries,omitempty"`
	Docs      *DocsResult       `json:"docs,omitempty" yaml:"docs,omitempty"`
	Bootstrap *bootstrap.Report `json:"bootstrap,omitempty" yaml:"bootstrap,omitempty"`
	Hook      *hooks.Result     `json:"hook,omitempty" yaml:"hook,omitempty"`
	// Warnings are non-fatal problems, such as a failing hook
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// DocsResult describes the documentation copy
type DocsResult struct {
	Source string `json:"source" yaml:"source"`
	Dir    string `json:"dir" yaml:"dir"`
}

// FatalError marks a failure that aborts the install
type FatalError struct {
	Step string
	Err  error
}

func (e *FatalError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err aborted the install. Errors that are not
// fatal were collected after every step had run.
func IsFatal(err error) bool {
	var fatal *FatalError
	return stderrors.As(err, &fatal)
}

func (r *Report) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Run executes build, tree install, binary placement, documentation,
// bootstrap and hook in that order. A BuildFailure or a first-time tree error
// is returned immediately. Binary placement, documentation and bootstrap
// errors are joined and returned after the remaining steps have run. The hook
// never fails the install.
func Run(ctx context.Context, opts Options) (*Report, error) {
	logger := logging.GetLogger("installer")
	done := logging.LogOperationStart(logger, "install")
	defer done()

	if err := validate(opts); err != nil {
		return nil, &FatalError{Step: "options", Err: err}
	}
	distRoot := opts.DistRoot
	if distRoot == "" {
		distRoot = opts.SourceDir
	}

	report := &Report{DryRun: opts.DryRun}

	build := opts.Build
	build.DryRun = opts.DryRun
	b := builder.New(opts.FS, build)
	outputDir := opts.BuildOutputDir
	if outputDir == "" {
		outputDir = b.OutputDir(opts.SourceDir)
	}

	if opts.SkipBuild {
		logger.Info().Str("dir", outputDir).Msg("Skipping build, using existing output")
	} else {
		result, err := b.Build(ctx, opts.SourceDir)
		if err != nil {
			return report, &FatalError{Step: "build", Err: err}
		}
		report.Build = result
	}

	treeResult, err := tree.Install(opts.FS, distRoot, opts.Paths)
	report.Tree = treeResult
	if err != nil {
		return report, &FatalError{Step: "tree", Err: err}
	}

	var errs []error

	if opts.DryRun && !exists(opts.FS, outputDir) {
		report.warn("dry run: build output " + outputDir + " does not exist yet, binary placement not simulated")
	} else {
		helpers := filepath.Join(distRoot, paths.HelpersDirName)
		if !exists(opts.FS, helpers) {
			helpers = ""
		}
		placed, err := binaries.Place(opts.FS, binaries.Options{
			BuildOutputDir: outputDir,
			SystemBinDir:   opts.SystemBinDir,
			DistHelpersDir: helpers,
		}, opts.Paths)
		report.Binaries = placed
		if err != nil {
			logger.Error().Err(err).Msg("Binary placement failed")
			errs = append(errs, err)
		}
	}

	docs, err := installDocs(opts.FS, distRoot, opts.DocDir)
	report.Docs = docs
	if err != nil {
		logger.Error().Err(err).Msg("Documentation install failed")
		errs = append(errs, err)
	}

	post, err := PostInstall(ctx, opts)
	report.Bootstrap = post.Bootstrap
	report.Hook = post.Hook
	report.Warnings = append(report.Warnings, post.Warnings...)
	if err != nil {
		errs = append(errs, err)
	}

	return report, errors.Join(errs...)
}

// PostInstall runs the steps that follow package installation: the
// bootstrap state machine, then the hook. Bootstrap errors are returned;
// hook problems only add warnings.
func PostInstall(ctx context.Context, opts Options) (*Report, error) {
	logger := logging.GetLogger("installer")
	report := &Report{DryRun: opts.DryRun}

	if opts.FS == nil || opts.Paths == nil {
		return report, errors.New(errors.ErrInvalidInput, "filesystem and paths are required")
	}

	boot, bootErr := bootstrap.Run(opts.FS, opts.Paths)
	report.Bootstrap = boot
	if bootErr != nil {
		logger.Error().Err(bootErr).Msg("Bootstrap incomplete")
	}

	if opts.SkipHook {
		logger.Info().Msg("Skipping post-update hook")
		return report, bootErr
	}

	runner := hooks.NewRunner(opts.FS, opts.HookTimeout, opts.DryRun)
	runner.Stdout = opts.HookOutput
	runner.Stderr = opts.HookOutput
	result, err := runner.RunIfPresent(ctx, opts.Paths)
	report.Hook = result
	if err != nil {
		report.warn(err.Error())
	}

	return report, bootErr
}

// installDocs refreshes docDir from <distRoot>/docs. A distribution without
// docs, or an empty docDir, is skipped.
func installDocs(fsys filesystem.FS, distRoot, docDir string) (*DocsResult, error) {
	logger := logging.GetLogger("installer")
	source := filepath.Join(distRoot, DocsDirName)
	if docDir == "" || !exists(fsys, source) {
		logger.Debug().Str("source", source).Str("dir", docDir).Msg("No documentation to install")
		return nil, nil
	}

	if err := filesystem.CopyTree(fsys, source, docDir); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to install documentation to %s", docDir).
			WithDetail("path", docDir)
	}
	logger.Info().Str("source", source).Str("dir", docDir).Msg("Installed documentation")
	return &DocsResult{Source: source, Dir: docDir}, nil
}

func validate(opts Options) error {
	switch {
	case opts.FS == nil:
		return errors.New(errors.ErrInvalidInput, "filesystem is required")
	case opts.Paths == nil:
		return errors.New(errors.ErrInvalidInput, "paths are required")
	case opts.SourceDir == "" && opts.DistRoot == "":
		return errors.New(errors.ErrInvalidInput, "source directory is required")
	case opts.SystemBinDir == "":
		return errors.New(errors.ErrInvalidInput, "system bin directory is required")
	}
	return nil
}

func exists(fsys filesystem.FS, path string) bool {
	ok, err := filesystem.Exists(fsys, path)
	return err == nil && ok
}
