package typesystem

import (
	"github.com/tsguard/tsguard/internal/diagnostics"
	"github.com/tsguard/tsguard/internal/token"
)

// Warn is the warning sink threaded through every lattice operation that
// can fail softly (match, array element inference, call application). It carries a source token, a context prefix built up by
// At, and an enable flag; a disabled Warn is safe to call from speculative
// paths where emitting noise would be wrong.
type Warn struct {
	sink    diagnostics.Sink
	tok     token.Token
	file    string
	prefix  string
	enabled bool
}

// NewWarn builds an enabled Warn that reports into sink at tok.
func NewWarn(sink diagnostics.Sink, file string, tok token.Token) Warn {
	return Warn{sink: sink, tok: tok, file: file, enabled: true}
}

// NoWarn is the disabled sentinel used on hot internal paths (e.g. the
// structural probe inside Match) where a failed attempt is not itself
// diagnostic-worthy.
var NoWarn = Warn{}

// Enabled reports whether this sink currently emits.
func (w Warn) Enabled() bool { return w.enabled }

// At returns a derived, forcibly-enabled sink with extra prepended to the
// context prefix (e.g. "parameter 2 of mysql_query: ").
func (w Warn) At(extra string) Warn {
	w.prefix = w.prefix + extra
	w.enabled = true
	return w
}

// On returns a derived, forcibly-enabled sink with the prefix unchanged.
func (w Warn) On() Warn {
	w.enabled = true
	return w
}

// WarnCode emits a specific diagnostic code with args, unless this sink is
// disabled.
func (w Warn) WarnCode(code diagnostics.Code, args ...interface{}) {
	if !w.enabled || w.sink == nil {
		return
	}
	d := diagnostics.New(code, w.tok, args...)
	d.File = w.file
	w.sink.Emit(d)
}

// WarnMismatch reports a failed Match: "expected <self>, got <other>",
// with whatever context At built up (ErrA102).
func (w Warn) WarnMismatch(self, other Type) {
	w.WarnCode(diagnostics.ErrA102, w.prefix, self.String(), other.String())
}

// WarnArrayMismatch reports ArrayElt applied to a non-array type (ErrA105).
func (w Warn) WarnArrayMismatch(other Type) {
	w.WarnCode(diagnostics.ErrA105, other.String())
}

// WarnUninitialised reports a read of a variable with no binding (ErrA101).
func (w Warn) WarnUninitialised(name string) {
	w.WarnCode(diagnostics.ErrA101, name)
}

// WarnUndefinedFunction reports a call to an unknown function (ErrA103).
func (w Warn) WarnUndefinedFunction(name string) {
	w.WarnCode(diagnostics.ErrA103, name)
}

// WarnBadLValue reports an assignment whose left side isn't a recognised
// l-value; the assignment itself is skipped (ErrA104).
func (w Warn) WarnBadLValue() {
	w.WarnCode(diagnostics.ErrA104)
}

// WarnBadDefineTarget reports define() called with a non-literal first
// argument (ErrA106).
func (w Warn) WarnBadDefineTarget() {
	w.WarnCode(diagnostics.ErrA106)
}

// WarnUnusedReturn reports the return value of a function with no Return
// output being used anyway (ErrA107).
func (w Warn) WarnUnusedReturn(name string) {
	w.WarnCode(diagnostics.ErrA107, name)
}

// WarnIncludeFailed reports a non-fatal I/O failure reading an
// include/require_once target (ErrA108).
func (w Warn) WarnIncludeFailed(path string, cause string) {
	w.WarnCode(diagnostics.ErrA108, path, cause)
}
