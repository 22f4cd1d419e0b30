package bootstrap

import (
	"bytes"
	_ "embed"
	stderrors "errors"
	"io/fs"
	"strconv"
	"text/template"

	"github.com/scawful/barista/pkg/errors"
	"github.com/scawful/barista/pkg/filesystem"
	"github.com/scawful/barista/pkg/logging"
	"github.com/scawful/barista/pkg/paths"
)

// EntryPointMode is owner rwx, group and other r-x
const EntryPointMode fs.FileMode = 0755

// StateDocumentMode is owner rw, group and other r
const StateDocumentMode fs.FileMode = 0644

//go:embed templates/sketchybarrc.tmpl
var entryPointTemplate string

//go:embed templates/state.json
var defaultState []byte

var entryPoint = template.Must(template.New("sketchybarrc").Parse(entryPointTemplate))

// Outcome is what a sub-step did to its target
type Outcome string

const (
	// Created means the target was absent and has been written
	Created Outcome = "created"
	// Preserved means the target existed and was left untouched
	Preserved Outcome = "preserved"
	// Failed means the target could not be created
	Failed Outcome = "failed"
)

// Step is the outcome of one sub-step
type Step struct {
	Path    string  `json:"path" yaml:"path"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	Error   string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report records, per sub-step, whether it created or preserved its target
type Report struct {
	EntryPoint    Step `json:"entry_point" yaml:"entry_point"`
	StateDocument Step `json:"state_document" yaml:"state_document"`
}

// Steps returns the sub-steps in execution order
func (r *Report) Steps() []Step {
	return []Step{r.EntryPoint, r.StateDocument}
}

// DefaultStateDocument returns the payload written to a fresh state.json
func DefaultStateDocument() []byte {
	return append([]byte(nil), defaultState...)
}

// RenderEntryPoint returns the entry-point script for the root at p. A root
// under the home directory is resolved through $HOME at runtime so the
// script keeps working if the home directory moves.
func RenderEntryPoint(p paths.Paths) ([]byte, error) {
	data := struct {
		HomeRelative string
		ConfigRoot   string
	}{
		ConfigRoot: luaString(p.ConfigRoot()),
	}
	if rel, ok := p.HomeRelative(); ok {
		data.HomeRelative = luaString(rel)
	}

	var buf bytes.Buffer
	if err := entryPoint.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render entry point")
	}
	return buf.Bytes(), nil
}

// Run ensures both generated artifacts exist. The sub-steps are
// independent: both are attempted and their errors are joined.
func Run(fsys filesystem.FS, p paths.Paths) (*Report, error) {
	logger := logging.GetLogger("bootstrap")
	done := logging.LogOperationStart(logger, "bootstrap")
	defer done()

	if err := fsys.MkdirAll(p.ConfigRoot(), 0755); err != nil {
		err = errors.Wrapf(err, errors.ErrDirCreate, "failed to create config root %s", p.ConfigRoot()).
			WithDetail("path", p.ConfigRoot())
		report := &Report{
			EntryPoint:    Step{Path: p.EntryPointPath(), Outcome: Failed, Error: err.Error()},
			StateDocument: Step{Path: p.StatePath(), Outcome: Failed, Error: err.Error()},
		}
		return report, err
	}

	report := &Report{}
	var errs []error

	var err error
	report.EntryPoint, err = EnsureEntryPoint(fsys, p)
	errs = append(errs, err)

	report.StateDocument, err = EnsureStateDocument(fsys, p)
	errs = append(errs, err)

	return report, errors.Join(errs...)
}

// EnsureEntryPoint creates the entry-point script with mode 0755 if absent
func EnsureEntryPoint(fsys filesystem.FS, p paths.Paths) (Step, error) {
	content, err := RenderEntryPoint(p)
	if err != nil {
		return Step{Path: p.EntryPointPath(), Outcome: Failed, Error: err.Error()}, err
	}
	return ensure(fsys, p.EntryPointPath(), content, EntryPointMode)
}

// EnsureStateDocument creates the default state document if absent
func EnsureStateDocument(fsys filesystem.FS, p paths.Paths) (Step, error) {
	return ensure(fsys, p.StatePath(), defaultState, StateDocumentMode)
}

func ensure(fsys filesystem.FS, path string, content []byte, mode fs.FileMode) (Step, error) {
	logger := logging.GetLogger("bootstrap")

	err := fsys.CreateExclusive(path, content, mode)
	switch {
	case err == nil:
		logger.Info().Str("path", path).Str("mode", mode.String()).Msg("Created default file")
		return Step{Path: path, Outcome: Created}, nil
	case stderrors.Is(err, fs.ErrExist):
		logger.Info().Str("path", path).Msg("File exists, preserving it")
		return Step{Path: path, Outcome: Preserved}, nil
	default:
		code := errors.ErrFileCreate
		if stderrors.Is(err, fs.ErrPermission) {
			code = errors.ErrPermission
		}
		wrapped := errors.Wrapf(err, code, "failed to create %s", path).WithDetail("path", path)
		logger.Error().Err(err).Str("path", path).Msg("Failed to create default file")
		return Step{Path: path, Outcome: Failed, Error: wrapped.Error()}, wrapped
	}
}

// luaString escapes s for a double-quoted Lua string literal
func luaString(s string) string {
	quoted := strconv.Quote(s)
	return quoted[1 : len(quoted)-1]
}
