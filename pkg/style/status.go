package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Status is the outcome shown next to a step or check
type Status string

const (
	StatusCreated   Status = "created"   // A missing artifact was written
	StatusPreserved Status = "preserved" // An existing artifact was left untouched
	StatusSkipped   Status = "skipped"   // The step had nothing to do
	StatusOK        Status = "ok"        // The step or check succeeded
	StatusWarning   Status = "warning"   // Non-fatal problem
	StatusFailed    Status = "failed"    // The step or check failed
)

// StatusStyle returns the appropriate pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusCreated, StatusOK:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case StatusPreserved:
		return pterm.NewStyle(pterm.FgCyan)
	case StatusWarning:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case StatusFailed:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// Indicator returns the glyph shown before a colored badge
func Indicator(status Status) string {
	switch status {
	case StatusCreated, StatusOK:
		return SuccessIndicator
	case StatusPreserved:
		return InfoIndicator
	case StatusWarning:
		return WarningIndicator
	case StatusFailed:
		return ErrorIndicator
	default:
		return PendingIndicator
	}
}

// StatusLine is one row of a report
type StatusLine struct {
	Label  string
	Status Status
	Detail string
}

// RenderStatusLine renders "  <status> : <label> : <detail>". With color
// on the badge is styled and prefixed by its indicator.
func RenderStatusLine(line StatusLine, color bool) string {
	badge := fmt.Sprintf("%-9s", line.Status)
	if color {
		badge = Indicator(line.Status) + " " + StatusStyle(line.Status).Sprint(badge)
	}
	label := fmt.Sprintf("%-14s", line.Label)
	if line.Detail == "" {
		return strings.TrimRight(fmt.Sprintf("  %s : %s", badge, label), " ")
	}
	return fmt.Sprintf("  %s : %s : %s", badge, label, line.Detail)
}

// Aggregate returns the worst status among lines
func Aggregate(lines []StatusLine) Status {
	worst := StatusSkipped
	rank := map[Status]int{
		StatusSkipped:   0,
		StatusPreserved: 1,
		StatusOK:        2,
		StatusCreated:   2,
		StatusWarning:   3,
		StatusFailed:    4,
	}
	for _, l := range lines {
		if rank[l.Status] > rank[worst] {
			worst = l.Status
		}
	}
	return worst
}
