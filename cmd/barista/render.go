package barista

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/scawful/barista/pkg/binaries"
	"github.com/scawful/barista/pkg/bootstrap"
	"github.com/scawful/barista/pkg/builder"
	"github.com/scawful/barista/pkg/hooks"
	"github.com/scawful/barista/pkg/installer"
	"github.com/scawful/barista/pkg/paths"
	"github.com/scawful/barista/pkg/style"
	"github.com/scawful/barista/pkg/tree"
)

type section struct {
	title string
	lines []style.StatusLine
}

// renderInstall writes the human-readable form of an install or bootstrap
// report, one section per step that ran
func renderInstall(rt *session, report *installer.Report) error {
	pr := rt.printer
	p := rt.paths

	var sections []section
	add := func(title string, lines []style.StatusLine) {
		if len(lines) > 0 {
			sections = append(sections, section{title, lines})
		}
	}

	add(MsgTitleBuild, buildLines(p, report.Build))
	add(MsgTitleTree, treeLines(report.Tree))
	add(MsgTitleBinaries, binaryLines(p, report.Binaries))
	add(MsgTitleDocs, docsLines(p, report.Docs))
	add(MsgTitleBootstrap, bootstrapLines(p, report.Bootstrap))
	add(MsgTitleHook, hookLines(report.Hook))

	var all []style.StatusLine
	for _, s := range sections {
		if err := pr.Status(s.title, s.lines); err != nil {
			return err
		}
		all = append(all, s.lines...)
	}

	for _, w := range report.Warnings {
		if err := pr.Messagef(MsgWarningItem, w); err != nil {
			return err
		}
	}

	if report.Tree != nil || report.Binaries != nil {
		msg := MsgInstallDone
		if len(report.Warnings) > 0 || style.Aggregate(all) == style.StatusFailed {
			msg = MsgInstallIncomplete
		}
		if err := pr.Messagef(msg, p.Display(p.ConfigRoot())); err != nil {
			return err
		}
	}
	if report.DryRun {
		return pr.Message(MsgDryRunNotice)
	}
	return nil
}

func buildLines(p paths.Paths, r *builder.Result) []style.StatusLine {
	if r == nil {
		return nil
	}
	lines := make([]style.StatusLine, 0, len(r.Executables))
	for _, name := range r.Executables {
		lines = append(lines, style.StatusLine{
			Label:  name,
			Status: style.StatusOK,
			Detail: p.Display(filepath.Join(r.OutputDir, name)),
		})
	}
	return lines
}

func treeLines(r *tree.Result) []style.StatusLine {
	if r == nil {
		return nil
	}
	if r.Skipped {
		return []style.StatusLine{{Label: paths.MarkerFile, Status: style.StatusPreserved, Detail: MsgTreeSkipped}}
	}
	lines := []style.StatusLine{{
		Label:  "copied",
		Status: style.StatusCreated,
		Detail: fmt.Sprintf(MsgTreeCopied, len(r.Copied)),
	}}
	if len(r.Missing) > 0 {
		lines = append(lines, style.StatusLine{
			Label:  "missing",
			Status: style.StatusSkipped,
			Detail: fmt.Sprintf(MsgTreeMissing, strings.Join(r.Missing, ", ")),
		})
	}
	return lines
}

func binaryLines(p paths.Paths, r *binaries.Result) []style.StatusLine {
	if r == nil {
		return nil
	}
	placement := func(label string, pl binaries.Placement, want int) style.StatusLine {
		status := style.StatusOK
		if len(pl.Files) < want {
			status = style.StatusWarning
		}
		return style.StatusLine{
			Label:  label,
			Status: status,
			Detail: fmt.Sprintf(MsgBinariesPlaced, len(pl.Files), want, p.Display(pl.Dir)),
		}
	}
	return []style.StatusLine{
		placement("system", r.System, len(r.Executables)),
		placement("mirror", r.Mirror, len(r.Executables)),
		placement("helpers", r.Helpers, len(r.Helpers.Files)),
	}
}

func docsLines(p paths.Paths, r *installer.DocsResult) []style.StatusLine {
	if r == nil {
		return nil
	}
	return []style.StatusLine{{
		Label:  p.Display(r.Dir),
		Status: style.StatusOK,
		Detail: fmt.Sprintf(MsgDocsInstalled, p.Display(r.Source)),
	}}
}

func bootstrapLines(p paths.Paths, r *bootstrap.Report) []style.StatusLine {
	if r == nil {
		return nil
	}
	var lines []style.StatusLine
	for _, step := range r.Steps() {
		line := style.StatusLine{Label: filepath.Base(step.Path), Detail: p.Display(step.Path)}
		switch step.Outcome {
		case bootstrap.Created:
			line.Status = style.StatusCreated
		case bootstrap.Preserved:
			line.Status = style.StatusPreserved
		default:
			line.Status = style.StatusFailed
			line.Detail = step.Error
		}
		lines = append(lines, line)
	}
	return lines
}

func hookLines(r *hooks.Result) []style.StatusLine {
	if r == nil {
		return nil
	}
	line := style.StatusLine{Label: paths.HookScriptName}
	switch {
	case r.TimedOut:
		line.Status, line.Detail = style.StatusWarning, fmt.Sprintf(MsgHookTimedOut, r.Duration.Round(time.Millisecond))
	case r.Ran && r.ExitCode != 0:
		line.Status, line.Detail = style.StatusWarning, fmt.Sprintf(MsgHookFailed, r.ExitCode)
	case r.Ran:
		line.Status, line.Detail = style.StatusOK, fmt.Sprintf(MsgHookOK, r.Duration.Round(time.Millisecond))
	case r.DryRun:
		line.Status, line.Detail = style.StatusSkipped, MsgHookDryRun
	default:
		line.Status, line.Detail = style.StatusSkipped, MsgHookAbsent
	}
	return []style.StatusLine{line}
}
