package doctor_test

import (
	"path/filepath"
	"testing"

	"github.com/scawful/barista/pkg/doctor"
	"github.com/scawful/barista/pkg/errors"
	"github.com/scawful/barista/pkg/filesystem"
	"github.com/scawful/barista/pkg/paths"
	"github.com/scawful/barista/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>dev.barista.control</string>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`

func healthy(t *testing.T) (filesystem.FS, paths.Paths) {
	t.Helper()
	fsys := filesystem.NewMemory()
	p, err := paths.New("/home/user/.config/sketchybar")
	require.NoError(t, err)

	require.NoError(t, fsys.MkdirAll("/usr/local/bin", 0755))
	require.NoError(t, fsys.WriteFile("/usr/local/bin/config_menu_v2", []byte("bin"), 0755))
	require.NoError(t, fsys.WriteFile("/usr/local/bin/icon_manager", []byte("bin"), 0755))
	require.NoError(t, fsys.MkdirAll(p.LaunchAgentsDir(), 0755))
	require.NoError(t, fsys.WriteFile(p.MarkerPath(), []byte("-- main"), 0644))
	require.NoError(t, fsys.WriteFile(p.EntryPointPath(), []byte("#!/usr/bin/env lua"), 0755))
	require.NoError(t, fsys.WriteFile(p.StatePath(), []byte(`{"profile":"work"}`), 0644))
	require.NoError(t, fsys.WriteFile(filepath.Join(p.LaunchAgentsDir(), "control.plist"), []byte(validPlist), 0644))
	return fsys, p
}

func statusOf(t *testing.T, r *doctor.Report, name string) style.Status {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c.Status
		}
	}
	t.Fatalf("no check named %s", name)
	return ""
}

func TestRun_Healthy(t *testing.T) {
	fsys, p := healthy(t)

	report := doctor.Run(fsys, p, "/usr/local/bin")
	assert.False(t, report.Failed())
	require.Len(t, report.Checks, 6)
	for _, c := range report.Checks {
		assert.Equal(t, style.StatusOK, c.Status, c.Name)
	}
	assert.Equal(t, "dev.barista.control", report.Checks[5].Detail)
	assert.Len(t, report.Lines(), 6)
}

func TestRun_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fsys filesystem.FS, p paths.Paths)
		check  string
		want   style.Status
	}{
		{
			name:   "missing binary",
			mutate: func(fsys filesystem.FS, _ paths.Paths) { _ = fsys.Remove("/usr/local/bin/icon_manager") },
			check:  "icon_manager",
			want:   style.StatusFailed,
		},
		{
			name:   "uninitialized root",
			mutate: func(fsys filesystem.FS, p paths.Paths) { _ = fsys.Remove(p.MarkerPath()) },
			check:  paths.MarkerFile,
			want:   style.StatusFailed,
		},
		{
			name:   "entry point not executable",
			mutate: func(fsys filesystem.FS, p paths.Paths) { _ = fsys.Chmod(p.EntryPointPath(), 0644) },
			check:  paths.EntryPointFile,
			want:   style.StatusWarning,
		},
		{
			name: "malformed state",
			mutate: func(fsys filesystem.FS, p paths.Paths) {
				_ = fsys.WriteFile(p.StatePath(), []byte(`{"profile":`), 0644)
			},
			check: paths.StateFile,
			want:  style.StatusFailed,
		},
		{
			name: "plist without label",
			mutate: func(fsys filesystem.FS, p paths.Paths) {
				_ = fsys.WriteFile(filepath.Join(p.LaunchAgentsDir(), "control.plist"),
					[]byte(`<plist><dict><key>Program</key><string>/bin/true</string></dict></plist>`), 0644)
			},
			check: "control.plist",
			want:  style.StatusWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys, p := healthy(t)
			tt.mutate(fsys, p)

			report := doctor.Run(fsys, p, "/usr/local/bin")
			assert.Equal(t, tt.want, statusOf(t, report, tt.check))
			assert.Equal(t, tt.want == style.StatusFailed, report.Failed())
		})
	}
}

func TestPlistLabel(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.WriteFile("/a.plist", []byte(validPlist), 0644))
	require.NoError(t, fsys.WriteFile("/b.plist", []byte("<plist><dict><key>Label</key><string>x</string></dict></plist"), 0644))
	require.NoError(t, fsys.WriteFile("/d.plist", []byte("<plist></plist>"), 0644))
	require.NoError(t, fsys.WriteFile("/c.plist", []byte("<plist><dict><key>Label</key><true/></dict></plist>"), 0644))

	label, err := doctor.PlistLabel(fsys, "/a.plist")
	require.NoError(t, err)
	assert.Equal(t, "dev.barista.control", label)

	for _, path := range []string{"/b.plist", "/c.plist", "/d.plist"} {
		t.Run(path, func(t *testing.T) {
			_, err := doctor.PlistLabel(fsys, path)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
			assert.Equal(t, path, errors.GetErrorDetails(err)["path"])
		})
	}

	_, err = doctor.PlistLabel(fsys, "/missing.plist")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
}
