package typesystem

import (
	"github.com/tsguard/tsguard/internal/diagnostics"
	"github.com/tsguard/tsguard/internal/token"
)

type sinkFunc func()

func (s sinkFunc) Emit(*diagnostics.Diagnostic) { s() }

func dummyToken() token.Token {
	return token.Token{Type: token.Variable, Lexeme: "$x", Line: 1, Column: 1}
}
