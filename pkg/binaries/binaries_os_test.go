//go:build !windows

package binaries_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scawful/barista/pkg/binaries"
	"github.com/scawful/barista/pkg/errors"
	"github.com/scawful/barista/pkg/filesystem"
	"github.com/scawful/barista/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlace_SystemFailureDoesNotBlockMirror(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	tmp := t.TempDir()
	out := filepath.Join(tmp, "build", "bin")
	require.NoError(t, os.MkdirAll(out, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "icon_manager"), []byte("bin"), 0755))

	readOnly := filepath.Join(tmp, "system-bin")
	require.NoError(t, os.MkdirAll(readOnly, 0555))
	t.Cleanup(func() { _ = os.Chmod(readOnly, 0755) })

	p, err := paths.New(filepath.Join(tmp, "config"))
	require.NoError(t, err)

	result, err := binaries.Place(filesystem.NewOS(), binaries.Options{
		BuildOutputDir: out,
		SystemBinDir:   readOnly,
	}, p)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite))

	assert.Empty(t, result.System.Files)
	assert.Equal(t, []string{"icon_manager"}, result.Mirror.Files)
	_, err = os.Stat(filepath.Join(p.BinDir(), "icon_manager"))
	assert.NoError(t, err)
}
