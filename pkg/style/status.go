// Package style renders the user-facing status lines: one line per
// managed path during analysis and verification, plus the final run
// summary.
package style

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Status types for per-path lines
type Status string

const (
	StatusOK     Status = "OK"     // path converged
	StatusAction Status = "ACTION" // mutation planned or applied
	StatusError  Status = "ERROR"  // fatal or verification mismatch
	StatusInfo   Status = "INFO"   // informational (unconfigured optional path)
)

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		pterm.DisableColor()
	}
}

// StatusStyle returns the appropriate pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusOK:
		return pterm.NewStyle(pterm.FgGreen)
	case StatusAction:
		return pterm.NewStyle(pterm.FgYellow)
	case StatusError:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case StatusInfo:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// RenderPathLine renders one per-path status line
func RenderPathLine(status Status, name, detail string) string {
	label := StatusStyle(status).Sprint(fmt.Sprintf("%-7s", string(status)))
	line := fmt.Sprintf("%s %-16s", label, name)
	if detail != "" {
		line += " " + detail
	}
	return strings.TrimRight(line, " ")
}

// RenderSummary renders the final success or failure summary. The backup
// location is always named when one was created.
func RenderSummary(ok bool, mutations int, backupDir string) string {
	var b strings.Builder

	switch {
	case ok && mutations == 0:
		b.WriteString(StatusStyle(StatusOK).Sprint("All paths converged, nothing to do"))
	case ok:
		b.WriteString(StatusStyle(StatusOK).Sprintf("Reconciled %d path(s)", mutations))
	default:
		b.WriteString(StatusStyle(StatusError).Sprint("Reconciliation failed"))
	}

	if backupDir != "" {
		b.WriteString("\n")
		b.WriteString(pterm.NewStyle(pterm.FgGray).Sprintf("Backups: %s", backupDir))
	}

	return b.String()
}
