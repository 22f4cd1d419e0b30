// Package hooks runs the optional post-update hook shipped in the
// configuration root.
package hooks

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"github.com/scawful/barista/pkg/errors"
	"github.com/scawful/barista/pkg/filesystem"
	"github.com/scawful/barista/pkg/logging"
	"github.com/scawful/barista/pkg/paths"
)

// DefaultTimeout bounds a hook run when no timeout is configured
const DefaultTimeout = 5 * time.Minute

// Shell runs hooks that exist but lack the executable bit
const Shell = "/bin/sh"

// Result is the structured outcome of a hook run
type Result struct {
	Path     string        `json:"path" yaml:"path"`
	Ran      bool          `json:"ran" yaml:"ran"`
	ExitCode int           `json:"exit_code" yaml:"exit_code"`
	Stdout   string        `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	TimedOut bool          `json:"timed_out,omitempty" yaml:"timed_out,omitempty"`
	DryRun   bool          `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Succeeded reports whether the hook ran and exited zero
func (r *Result) Succeeded() bool {
	return r.Ran && !r.TimedOut && r.ExitCode == 0
}

// Runner executes the hook script
type Runner struct {
	logger  zerolog.Logger
	fsys    filesystem.FS
	timeout time.Duration
	dryRun  bool

	// Stdout and Stderr, when set, receive the hook's output as it runs
	// in addition to it being captured in the Result.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates a runner. A non-positive timeout selects DefaultTimeout.
func NewRunner(fsys filesystem.FS, timeout time.Duration, dryRun bool) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{
		logger:  logging.GetLogger("hooks"),
		fsys:    fsys,
		timeout: timeout,
		dryRun:  dryRun,
	}
}

// RunIfPresent runs helpers/post_update.sh from the configuration root when
// it exists. An absent hook returns Ran=false and no error. A non-zero exit
// returns ErrHookExecute and a timeout returns ErrHookTimeout; in both cases
// the Result is populated so callers can report it as a warning.
func (r *Runner) RunIfPresent(ctx context.Context, p paths.Paths) (*Result, error) {
	hookPath := p.HookPath()
	result := &Result{Path: hookPath}

	info, err := r.fsys.Stat(hookPath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			r.logger.Debug().Str("path", hookPath).Msg("No post-update hook")
			return result, nil
		}
		return result, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat hook %s", hookPath).
			WithDetail("path", hookPath)
	}
	if info.IsDir() {
		return result, errors.Newf(errors.ErrInvalidInput, "hook %s is a directory", hookPath).
			WithDetail("path", hookPath)
	}

	command, args := hookPath, []string(nil)
	if !filesystem.IsExecutable(info) {
		command, args = Shell, []string{hookPath}
	}

	r.logger.Info().
		Str("command", command).
		Strs("args", args).
		Dur("timeout", r.timeout).
		Msg("Running post-update hook")

	if r.dryRun {
		r.logger.Info().Msg("Dry run mode - hook would be executed")
		result.DryRun = true
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Env = os.Environ()
	// Children that keep the output pipes open must not hold Wait past the timeout.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, r.Stdout)
	cmd.Stderr = tee(&stderr, r.Stderr)

	start := time.Now()
	err = cmd.Run()
	result.Ran = true
	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	result.ExitCode = -1
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if stdout.Len() > 0 {
		r.logger.Debug().Str("output", result.Stdout).Msg("Hook stdout")
	}
	if stderr.Len() > 0 {
		r.logger.Debug().Str("output", result.Stderr).Msg("Hook stderr")
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		r.logger.Warn().
			Str("path", hookPath).
			Dur("timeout", r.timeout).
			Msg("Post-update hook timed out")
		return result, errors.Newf(errors.ErrHookTimeout, "hook %s timed out after %s", hookPath, r.timeout).
			WithDetail("path", hookPath).
			WithDetail("timeout", r.timeout.String())
	}

	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("path", hookPath).
			Int("exit_code", result.ExitCode).
			Str("stderr", result.Stderr).
			Msg("Post-update hook failed")
		return result, errors.Wrapf(err, errors.ErrHookExecute, "hook %s failed", hookPath).
			WithDetail("path", hookPath).
			WithDetail("exit_code", result.ExitCode)
	}

	r.logger.Info().
		Str("path", hookPath).
		Dur("duration", result.Duration).
		Msg("Post-update hook finished")
	return result, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
