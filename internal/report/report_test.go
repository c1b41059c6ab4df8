package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tsguard/tsguard/internal/diagnostics"
	"github.com/tsguard/tsguard/internal/token"
)

func TestDiagnosticsPlainHasNoEscapeCodes(t *testing.T) {
	var buf bytes.Buffer
	d := diagnostics.New(diagnostics.ErrA103, token.Token{Line: 1, Column: 1}, "foo")
	Diagnostics(&buf, []*diagnostics.Diagnostic{d}, false)
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected no ANSI codes in plain output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "foo") {
		t.Errorf("expected rendered message to mention foo, got %q", buf.String())
	}
}

func TestDiagnosticsColorWrapsEscapeCodes(t *testing.T) {
	var buf bytes.Buffer
	d := diagnostics.New(diagnostics.ErrA103, token.Token{Line: 1, Column: 1}, "foo")
	Diagnostics(&buf, []*diagnostics.Diagnostic{d}, true)
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected ANSI codes in color output")
	}
}

func TestSummaryLineSingularsAndPlurals(t *testing.T) {
	one := SummaryLine(Summary{FilesAnalyzed: 1, Warnings: 1, SourceBytes: 10})
	if strings.Contains(one, "files") || strings.Contains(one, "warnings") {
		t.Errorf("expected singular forms, got %q", one)
	}
	many := SummaryLine(Summary{FilesAnalyzed: 2, Warnings: 0, SourceBytes: 2048})
	if !strings.Contains(many, "2 files") || !strings.Contains(many, "0 warnings") {
		t.Errorf("expected plural forms, got %q", many)
	}
}
