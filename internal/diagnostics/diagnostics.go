// Package diagnostics defines the structured diagnostic values emitted by
// every analysis phase, so the CLI, tests, and any future consumer observe
// the same shape instead of parsed strings.
package diagnostics

import (
	"fmt"

	"github.com/tsguard/tsguard/internal/token"
)

// Phase is the pipeline stage that produced a diagnostic.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseAnalyzer Phase = "analyzer"
)

// Code identifies the kind of diagnostic, independent of its rendered
// message, so tooling can filter/aggregate on it.
type Code string

const (
	// Lexer
	ErrL001 Code = "L001" // invalid character

	// Parser
	ErrP001 Code = "P001" // unexpected token
	ErrP002 Code = "P002" // expression expected

	// Analyzer — one per §7 error-handling case
	ErrA101 Code = "A101" // uninitialised variable read
	ErrA102 Code = "A102" // type mismatch in call/cast argument
	ErrA103 Code = "A103" // calling an undefined function
	ErrA104 Code = "A104" // unrecognised l-value, assignment skipped
	ErrA105 Code = "A105" // array access on a non-array type
	ErrA106 Code = "A106" // define() target is not a string literal
	ErrA107 Code = "A107" // return value used on a function with no return
	ErrA108 Code = "A108" // include/require_once target could not be read
)

var templates = map[Code]string{
	ErrL001: "invalid character: %q",
	ErrP001: "unexpected token: expected %s, got %s",
	ErrP002: "expression expected, got %s",
	ErrA101: "$%s may not have been initialised",
	ErrA102: "%sexpected %s, got %s",
	ErrA103: "calling undefined function %s",
	ErrA104: "unrecognised l-value, skipping assignment",
	ErrA105: "expected array(_), got %s",
	ErrA106: "first argument of define() is not a constant string, ignoring",
	ErrA107: "using the return value of %s, which never returns a value",
	ErrA108: "could not include %q: %s",
}

// Diagnostic is a single structured warning or error produced by the
// analyser. It is a value, never an exception: analysis always runs to
// completion (spec.md §7).
type Diagnostic struct {
	Code  Code
	Phase Phase
	Args  []interface{}
	Token token.Token
	File  string
}

func (d *Diagnostic) Error() string {
	tmpl, ok := templates[d.Code]
	msg := "unknown diagnostic"
	if ok {
		msg = fmt.Sprintf(tmpl, d.Args...)
	}
	prefix := ""
	if d.File != "" {
		prefix = d.File + ": "
	}
	if d.Token.Line > 0 {
		return fmt.Sprintf("%s%d:%d [%s] %s", prefix, d.Token.Line, d.Token.Column, d.Code, msg)
	}
	return fmt.Sprintf("%s[%s] %s", prefix, d.Code, msg)
}

// New builds a Diagnostic for the analyzer phase, the common case.
func New(code Code, tok token.Token, args ...interface{}) *Diagnostic {
	return &Diagnostic{Code: code, Phase: PhaseAnalyzer, Token: tok, Args: args}
}

// NewPhase builds a Diagnostic tagged with an explicit phase.
func NewPhase(phase Phase, code Code, tok token.Token, args ...interface{}) *Diagnostic {
	return &Diagnostic{Code: code, Phase: phase, Token: tok, Args: args}
}

// Sink receives diagnostics as they are produced. Implementations must not
// block the caller; the analyzer emits synchronously on its own goroutine.
type Sink interface {
	Emit(*Diagnostic)
}

// CollectingSink accumulates diagnostics in memory, used by tests and by
// the CLI before handing them to internal/report.
type CollectingSink struct {
	Diagnostics []*Diagnostic
}

func (s *CollectingSink) Emit(d *Diagnostic) {
	s.Diagnostics = append(s.Diagnostics, d)
}

// DiscardSink drops every diagnostic, for callers that need a Sink but no
// output. typesystem.NoWarn does not use it: NoWarn is a disabled Warn with
// no sink at all.
type DiscardSink struct{}

func (DiscardSink) Emit(*Diagnostic) {}
