// Package builder drives the external build system that produces the
// native executables.
package builder

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/scawful/barista/pkg/errors"
	"github.com/scawful/barista/pkg/filesystem"
	"github.com/scawful/barista/pkg/logging"
)

// CPUsPlaceholder in a build argument is replaced with the CPU count
const CPUsPlaceholder = "{cpus}"

// Options configures a Builder
type Options struct {
	// Commands run in order inside the source directory
	Commands [][]string
	// OutputDir is where executables appear, relative to the source directory
	OutputDir string
	// Timeout bounds the whole build; zero means no limit
	Timeout time.Duration
	DryRun  bool
	// Output, when set, receives the build tool's output as it runs
	Output io.Writer
}

// Result describes a finished build
type Result struct {
	OutputDir   string   `json:"output_dir" yaml:"output_dir"`
	Executables []string `json:"executables" yaml:"executables"`
}

// Builder runs the configured build commands
type Builder struct {
	logger zerolog.Logger
	fsys   filesystem.FS
	opts   Options
}

// New creates a builder
func New(fsys filesystem.FS, opts Options) *Builder {
	return &Builder{
		logger: logging.GetLogger("builder"),
		fsys:   fsys,
		opts:   opts,
	}
}

// OutputDir returns the absolute output directory for srcDir
func (b *Builder) OutputDir(srcDir string) string {
	if filepath.IsAbs(b.opts.OutputDir) {
		return b.opts.OutputDir
	}
	return filepath.Join(srcDir, b.opts.OutputDir)
}

// Build runs every command in srcDir and lists the executables found in
// the output directory. Any failing command aborts the build with ErrBuild
// carrying the tool's stderr.
func (b *Builder) Build(ctx context.Context, srcDir string) (*Result, error) {
	done := logging.LogOperationStart(b.logger, "build")
	defer done()

	if len(b.opts.Commands) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no build commands configured")
	}
	info, err := b.fsys.Stat(srcDir)
	if err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrBuild, "source directory does not exist: %s", srcDir).
			WithDetail("path", srcDir)
	}

	if b.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.opts.Timeout)
		defer cancel()
	}

	for i, step := range b.opts.Commands {
		args := Expand(step)
		if err := b.run(ctx, srcDir, i, args); err != nil {
			return nil, err
		}
	}

	if b.opts.DryRun {
		return &Result{OutputDir: b.OutputDir(srcDir)}, nil
	}
	return b.Collect(srcDir)
}

// Collect lists the executables in the output directory of an earlier build
func (b *Builder) Collect(srcDir string) (*Result, error) {
	outputDir := b.OutputDir(srcDir)
	executables, err := Executables(b.fsys, outputDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBuild, "failed to read build output %s", outputDir).
			WithDetail("path", outputDir)
	}
	if len(executables) == 0 {
		return nil, errors.Newf(errors.ErrBuild, "build produced no executables in %s", outputDir).
			WithDetail("path", outputDir)
	}
	b.logger.Info().
		Str("dir", outputDir).
		Strs("executables", executables).
		Msg("Build output collected")
	return &Result{OutputDir: outputDir, Executables: executables}, nil
}

func (b *Builder) run(ctx context.Context, dir string, step int, args []string) error {
	b.logger.Info().
		Int("step", step+1).
		Str("command", args[0]).
		Strs("args", args[1:]).
		Str("workingDir", dir).
		Msg("Executing build step")

	if b.opts.DryRun {
		b.logger.Info().Msg("Dry run mode - build step would be executed")
		return nil
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if b.opts.Output != nil {
		cmd.Stdout = io.MultiWriter(&stdout, b.opts.Output)
		cmd.Stderr = io.MultiWriter(&stderr, b.opts.Output)
	}

	err := cmd.Run()
	if stdout.Len() > 0 {
		b.logger.Debug().Str("output", stdout.String()).Msg("Build stdout")
	}
	if err == nil {
		return nil
	}

	command := strings.Join(args, " ")
	b.logger.Error().
		Err(err).
		Str("command", command).
		Str("stderr", stderr.String()).
		Msg("Build step failed")

	if ctx.Err() == context.DeadlineExceeded {
		return errors.Newf(errors.ErrBuild, "build timed out after %s: %s", b.opts.Timeout, command).
			WithDetail("command", command).
			WithDetail("stderr", stderr.String())
	}
	return errors.Wrapf(err, errors.ErrBuild, "build step failed: %s", command).
		WithDetail("command", command).
		WithDetail("stderr", strings.TrimSpace(stderr.String()))
}

// Expand substitutes placeholders in a build command
func Expand(args []string) []string {
	cpus := strconv.Itoa(runtime.NumCPU())
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = strings.ReplaceAll(arg, CPUsPlaceholder, cpus)
	}
	return out
}

// Executables returns the sorted names of executable regular files in dir
func Executables(fsys filesystem.FS, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		info, err := fsys.Stat(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if info.Mode().IsRegular() && filesystem.IsExecutable(info) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
