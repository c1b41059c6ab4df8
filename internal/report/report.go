// Package report renders the analyser's diagnostics to a terminal,
// colourizing by phase when the output writer is a real TTY, and prints a
// one-line human-readable run summary.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/tsguard/tsguard/internal/diagnostics"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
)

// ColorEnabled reports whether w should receive ANSI color codes: it must
// be a real terminal (or cygwin pty) and the user must not have set
// NO_COLOR, matching the teacher's own terminal-capability detection.
func ColorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func phaseColor(phase diagnostics.Phase) string {
	switch phase {
	case diagnostics.PhaseLexer:
		return colorYellow
	case diagnostics.PhaseParser:
		return colorCyan
	default:
		return colorRed
	}
}

// Diagnostics writes each diagnostic to w, one per line, colourized by
// phase when color is true.
func Diagnostics(w io.Writer, diags []*diagnostics.Diagnostic, color bool) {
	for _, d := range diags {
		if color {
			fmt.Fprintf(w, "%s%s%s\n", phaseColor(d.Phase), d.Error(), colorReset)
		} else {
			fmt.Fprintln(w, d.Error())
		}
	}
}

// Summary is the aggregate result of one analysis run, handed to
// SummaryLine for a one-line human-readable report.
type Summary struct {
	FilesAnalyzed int
	Warnings      int
	SourceBytes   int64
}

// SummaryLine renders s as a single human-readable line, e.g. "analyzed 12
// files, 3 warnings, 842 B source", using go-humanize for the byte count.
func SummaryLine(s Summary) string {
	plural := ""
	if s.FilesAnalyzed != 1 {
		plural = "s"
	}
	return fmt.Sprintf("analyzed %d file%s, %d warning%s, %s source",
		s.FilesAnalyzed, plural,
		s.Warnings, pluralSuffix(s.Warnings),
		humanize.Bytes(uint64(s.SourceBytes)))
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
