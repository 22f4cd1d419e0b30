//go:build !windows

package hooks_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/scawful/barista/pkg/errors"
	"github.com/scawful/barista/pkg/filesystem"
	"github.com/scawful/barista/pkg/hooks"
	"github.com/scawful/barista/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, script string, mode os.FileMode) paths.Paths {
	t.Helper()
	p, err := paths.New(t.TempDir())
	require.NoError(t, err)
	if script != "" {
		require.NoError(t, os.MkdirAll(p.HelpersDir(), 0755))
		require.NoError(t, os.WriteFile(p.HookPath(), []byte(script), mode))
		require.NoError(t, os.Chmod(p.HookPath(), mode))
	}
	return p
}

func TestRunIfPresent_Absent(t *testing.T) {
	p := setup(t, "", 0)
	runner := hooks.NewRunner(filesystem.NewOS(), time.Minute, false)

	result, err := runner.RunIfPresent(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, result.Ran)
	assert.Equal(t, p.HookPath(), result.Path)
}

func TestRunIfPresent_Success(t *testing.T) {
	p := setup(t, "#!/bin/sh\necho migrated\necho note >&2\n", 0755)
	runner := hooks.NewRunner(filesystem.NewOS(), time.Minute, false)
	var live bytes.Buffer
	runner.Stdout = &live

	result, err := runner.RunIfPresent(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, result.Ran)
	assert.True(t, result.Succeeded())
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "migrated\n", result.Stdout)
	assert.Equal(t, "note\n", result.Stderr)
	assert.Equal(t, "migrated\n", live.String())
}

func TestRunIfPresent_InheritsEnvironment(t *testing.T) {
	t.Setenv("BARISTA_HOOK_TEST", "from-parent")
	p := setup(t, "#!/bin/sh\nprintf %s \"$BARISTA_HOOK_TEST\"\n", 0755)
	runner := hooks.NewRunner(filesystem.NewOS(), time.Minute, false)

	result, err := runner.RunIfPresent(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "from-parent", result.Stdout)
}

func TestRunIfPresent_NonZeroExit(t *testing.T) {
	p := setup(t, "#!/bin/sh\necho broken >&2\nexit 3\n", 0755)
	runner := hooks.NewRunner(filesystem.NewOS(), time.Minute, false)

	result, err := runner.RunIfPresent(context.Background(), p)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHookExecute))
	assert.True(t, result.Ran)
	assert.False(t, result.Succeeded())
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "broken\n", result.Stderr)
	assert.Equal(t, 3, errors.GetErrorDetails(err)["exit_code"])
}

func TestRunIfPresent_Timeout(t *testing.T) {
	p := setup(t, "#!/bin/sh\nexec sleep 30\n", 0755)
	runner := hooks.NewRunner(filesystem.NewOS(), 200*time.Millisecond, false)

	start := time.Now()
	result, err := runner.RunIfPresent(context.Background(), p)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHookTimeout))
	assert.True(t, result.TimedOut)
	assert.False(t, result.Succeeded())
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunIfPresent_NotExecutableRunsThroughShell(t *testing.T) {
	p := setup(t, "echo via-shell\n", 0644)
	runner := hooks.NewRunner(filesystem.NewOS(), time.Minute, false)

	result, err := runner.RunIfPresent(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "via-shell\n", result.Stdout)
}

func TestRunIfPresent_DryRun(t *testing.T) {
	p := setup(t, "#!/bin/sh\ntouch \"$0.ran\"\n", 0755)
	runner := hooks.NewRunner(filesystem.NewOS(), time.Minute, true)

	result, err := runner.RunIfPresent(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, result.Ran)
	assert.True(t, result.DryRun)
	assert.NoFileExists(t, p.HookPath()+".ran")
}

func TestRunIfPresent_Directory(t *testing.T) {
	p := setup(t, "", 0)
	require.NoError(t, os.MkdirAll(filepath.Join(p.HookPath()), 0755))
	runner := hooks.NewRunner(filesystem.NewOS(), time.Minute, false)

	_, err := runner.RunIfPresent(context.Background(), p)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestNewRunner_DefaultTimeout(t *testing.T) {
	p := setup(t, "#!/bin/sh\nexit 0\n", 0755)
	runner := hooks.NewRunner(filesystem.NewOS(), 0, false)

	result, err := runner.RunIfPresent(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
}
