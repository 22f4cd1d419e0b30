// Package doctor runs read-only health checks against an installation.
package doctor

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/scawful/barista/pkg/errors"
	"github.com/scawful/barista/pkg/filesystem"
	"github.com/scawful/barista/pkg/logging"
	"github.com/scawful/barista/pkg/paths"
	"github.com/scawful/barista/pkg/style"
)

// RequiredBinaries must be present in the system bin directory
var RequiredBinaries = []string{"config_menu_v2", "icon_manager"}

// Check is the result of one health check
type Check struct {
	Name   string       `json:"name" yaml:"name"`
	Status style.Status `json:"status" yaml:"status"`
	Detail string       `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Report is the ordered list of checks
type Report struct {
	Checks []Check `json:"checks" yaml:"checks"`
}

// Failed reports whether any check failed
func (r *Report) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == style.StatusFailed {
			return true
		}
	}
	return false
}

// Lines converts the report for status rendering
func (r *Report) Lines() []style.StatusLine {
	lines := make([]style.StatusLine, 0, len(r.Checks))
	for _, c := range r.Checks {
		lines = append(lines, style.StatusLine{Label: c.Name, Status: c.Status, Detail: c.Detail})
	}
	return lines
}

// Run inspects the installation without modifying anything
func Run(fsys filesystem.FS, p paths.Paths, systemBinDir string) *Report {
	logger := logging.GetLogger("doctor")
	report := &Report{}
	add := func(c Check) {
		logger.Debug().Str("check", c.Name).Str("status", string(c.Status)).Str("detail", c.Detail).Msg("Check")
		report.Checks = append(report.Checks, c)
	}

	for _, name := range RequiredBinaries {
		add(checkBinary(fsys, filepath.Join(systemBinDir, name)))
	}
	add(checkMarker(fsys, p))
	add(checkEntryPoint(fsys, p))
	add(checkState(fsys, p))
	for _, c := range checkLaunchAgents(fsys, p) {
		add(c)
	}
	return report
}

func checkBinary(fsys filesystem.FS, path string) Check {
	c := Check{Name: filepath.Base(path)}
	info, err := fsys.Stat(path)
	switch {
	case err != nil:
		c.Status, c.Detail = style.StatusFailed, fmt.Sprintf("missing: %s", path)
	case !filesystem.IsExecutable(info):
		c.Status, c.Detail = style.StatusFailed, fmt.Sprintf("not executable: %s", path)
	default:
		c.Status, c.Detail = style.StatusOK, path
	}
	return c
}

func checkMarker(fsys filesystem.FS, p paths.Paths) Check {
	c := Check{Name: paths.MarkerFile}
	ok, err := filesystem.Exists(fsys, p.MarkerPath())
	switch {
	case err != nil:
		c.Status, c.Detail = style.StatusFailed, err.Error()
	case !ok:
		c.Status, c.Detail = style.StatusFailed, "configuration root is not initialized"
	default:
		c.Status, c.Detail = style.StatusOK, p.Display(p.MarkerPath())
	}
	return c
}

func checkEntryPoint(fsys filesystem.FS, p paths.Paths) Check {
	c := Check{Name: paths.EntryPointFile}
	info, err := fsys.Stat(p.EntryPointPath())
	switch {
	case err != nil:
		c.Status, c.Detail = style.StatusFailed, "missing; run barista bootstrap"
	case !filesystem.IsExecutable(info):
		c.Status, c.Detail = style.StatusWarning, fmt.Sprintf("not executable (%s)", info.Mode().Perm())
	default:
		c.Status, c.Detail = style.StatusOK, p.Display(p.EntryPointPath())
	}
	return c
}

func checkState(fsys filesystem.FS, p paths.Paths) Check {
	c := Check{Name: paths.StateFile}
	data, err := fsys.ReadFile(p.StatePath())
	switch {
	case err != nil:
		c.Status, c.Detail = style.StatusFailed, "missing; run barista bootstrap"
	case !json.Valid(data):
		c.Status, c.Detail = style.StatusFailed, "not valid JSON"
	default:
		c.Status, c.Detail = style.StatusOK, p.Display(p.StatePath())
	}
	return c
}

func checkLaunchAgents(fsys filesystem.FS, p paths.Paths) []Check {
	entries, err := fsys.ReadDir(p.LaunchAgentsDir())
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".plist") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	checks := make([]Check, 0, len(names))
	for _, name := range names {
		c := Check{Name: name}
		label, err := PlistLabel(fsys, filepath.Join(p.LaunchAgentsDir(), name))
		if err != nil {
			c.Status, c.Detail = style.StatusWarning, err.Error()
		} else {
			c.Status, c.Detail = style.StatusOK, label
		}
		checks = append(checks, c)
	}
	return checks
}

// PlistLabel returns the Label declared by a launchd property list
func PlistLabel(fsys filesystem.FS, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileAccess, "cannot read plist").WithDetail("path", path)
	}
	invalid := func(msg string) error {
		return errors.New(errors.ErrInvalidInput, msg).WithDetail("path", path)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "invalid plist").WithDetail("path", path)
	}
	root := doc.SelectElement("plist")
	if root == nil {
		return "", invalid("invalid plist: no plist element")
	}
	dict := root.SelectElement("dict")
	if dict == nil {
		return "", invalid("invalid plist: no top-level dict")
	}

	children := dict.ChildElements()
	for i := 0; i+1 < len(children); i++ {
		key := children[i]
		if key.Tag != "key" || strings.TrimSpace(key.Text()) != "Label" {
			continue
		}
		value := children[i+1]
		label := strings.TrimSpace(value.Text())
		if value.Tag != "string" || label == "" {
			return "", invalid("label is not a non-empty string")
		}
		return label, nil
	}
	return "", invalid("no Label key")
}
