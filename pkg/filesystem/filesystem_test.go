package filesystem_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/scawful/barista/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// implementations runs each subtest against the OS and in-memory filesystems
func implementations(t *testing.T) map[string]func(t *testing.T) (filesystem.FS, string) {
	t.Helper()
	return map[string]func(t *testing.T) (filesystem.FS, string){
		"os": func(t *testing.T) (filesystem.FS, string) {
			return filesystem.NewOS(), t.TempDir()
		},
		"memory": func(t *testing.T) (filesystem.FS, string) {
			return filesystem.NewMemory(), "/root"
		},
	}
}

func TestCreateExclusive(t *testing.T) {
	for name, setup := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			fsys, root := setup(t)
			require.NoError(t, fsys.MkdirAll(root, 0755))
			target := filepath.Join(root, "sketchybarrc")

			require.NoError(t, fsys.CreateExclusive(target, []byte("first"), 0755))

			info, err := fsys.Stat(target)
			require.NoError(t, err)
			assert.Equal(t, fs.FileMode(0755), info.Mode().Perm())

			err = fsys.CreateExclusive(target, []byte("second"), 0644)
			require.Error(t, err)
			assert.ErrorIs(t, err, fs.ErrExist)

			content, err := fsys.ReadFile(target)
			require.NoError(t, err)
			assert.Equal(t, "first", string(content))

			info, err = fsys.Stat(target)
			require.NoError(t, err)
			assert.Equal(t, fs.FileMode(0755), info.Mode().Perm())
		})
	}
}

func TestCreateExclusive_LeavesNoTemporaryFiles(t *testing.T) {
	fsys := filesystem.NewOS()
	root := t.TempDir()

	require.NoError(t, fsys.CreateExclusive(filepath.Join(root, "state.json"), []byte("{}"), 0644))
	_ = fsys.CreateExclusive(filepath.Join(root, "state.json"), []byte("{}"), 0644)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestWriteFileAtomic_Replaces(t *testing.T) {
	for name, setup := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			fsys, root := setup(t)
			require.NoError(t, fsys.MkdirAll(root, 0755))
			target := filepath.Join(root, "icon_manager")

			require.NoError(t, fsys.WriteFile(target, []byte("v1"), 0644))
			require.NoError(t, fsys.WriteFileAtomic(target, []byte("v2"), 0755))

			content, err := fsys.ReadFile(target)
			require.NoError(t, err)
			assert.Equal(t, "v2", string(content))

			info, err := fsys.Stat(target)
			require.NoError(t, err)
			assert.True(t, filesystem.IsExecutable(info))
		})
	}
}

func TestCopyTree(t *testing.T) {
	for name, setup := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			fsys, root := setup(t)
			src := filepath.Join(root, "dist", "modules")
			require.NoError(t, fsys.MkdirAll(filepath.Join(src, "widgets"), 0755))
			require.NoError(t, fsys.WriteFile(filepath.Join(src, "init.lua"), []byte("return {}"), 0644))
			require.NoError(t, fsys.WriteFile(filepath.Join(src, "widgets", "clock.lua"), []byte("clock"), 0644))
			require.NoError(t, fsys.WriteFile(filepath.Join(src, "widgets", "run.sh"), []byte("#!/bin/sh"), 0755))

			dst := filepath.Join(root, "config", "modules")
			require.NoError(t, filesystem.CopyTree(fsys, src, dst))

			content, err := fsys.ReadFile(filepath.Join(dst, "widgets", "clock.lua"))
			require.NoError(t, err)
			assert.Equal(t, "clock", string(content))

			info, err := fsys.Stat(filepath.Join(dst, "widgets", "run.sh"))
			require.NoError(t, err)
			assert.True(t, filesystem.IsExecutable(info))
		})
	}
}

func TestCopyTree_MissingSourceNamesPath(t *testing.T) {
	fsys := filesystem.NewMemory()

	err := filesystem.CopyTree(fsys, "/dist/missing", "/config/missing")
	require.Error(t, err)

	var copyErr *filesystem.CopyError
	require.ErrorAs(t, err, &copyErr)
	assert.Equal(t, "/dist/missing", copyErr.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestExists(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.WriteFile("/config/main.lua", []byte("--"), 0644))

	ok, err := filesystem.Exists(fsys, "/config/main.lua")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = filesystem.Exists(fsys, "/config/other.lua")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOverlay_KeepsWritesInMemory(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(existing, []byte(`{"profile":"work"}`), 0644))

	fsys := filesystem.NewOverlay()

	err := fsys.CreateExclusive(existing, []byte("{}"), 0644)
	assert.ErrorIs(t, err, fs.ErrExist)

	created := filepath.Join(dir, "sketchybarrc")
	require.NoError(t, fsys.CreateExclusive(created, []byte("#!/usr/bin/env lua\n"), 0755))
	content, err := fsys.ReadFile(created)
	require.NoError(t, err)
	assert.Equal(t, "#!/usr/bin/env lua\n", string(content))

	require.NoError(t, fsys.MkdirAll(filepath.Join(dir, "bin"), 0755))
	require.NoError(t, fsys.WriteFileAtomic(filepath.Join(dir, "bin", "icon_manager"), []byte("bin"), 0755))

	assert.NoFileExists(t, created)
	assert.NoDirExists(t, filepath.Join(dir, "bin"))
	onDisk, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, `{"profile":"work"}`, string(onDisk))
}
