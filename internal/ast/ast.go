// Package ast defines the expression/statement tree the analyzer consumes.
//
// Expressions are a uniform, untyped tree (Expr): a head token Kind plus an
// ordered list of children, mirroring a Lisp-style (head . args) form. This
// is the exact shape spec.md §6 requires of the external interface, so that
// any parser producing this shape can drive the analyzer. Statements are
// represented as small typed structs (one per keyword form in §4.6),
// following the teacher project's (funvibe/funxy) convention of one Go type
// per statement kind rather than folding statements into the same untyped
// tree as expressions.
package ast

import "github.com/tsguard/tsguard/internal/token"

// Expr is a single node in the expression tree.
type Expr struct {
	Kind     token.Type
	Tok      token.Token
	Str      string  // literal payload: variable/function/keyword/string value
	Num      float64 // literal payload: numeric value
	Children []*Expr
}

func (e *Expr) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Tok
}

// Stmt is implemented by every statement form.
type Stmt interface {
	stmtNode()
	GetToken() token.Token
}

// Block is an ordered sequence of statements sharing one scope.
type Block struct {
	Tok   token.Token
	Stmts []Stmt
}

func (b *Block) stmtNode()              {}
func (b *Block) GetToken() token.Token  { return b.Tok }

// ExprStmt is a bare expression evaluated for its side effects.
type ExprStmt struct {
	Tok token.Token
	X   *Expr
}

func (s *ExprStmt) stmtNode()             {}
func (s *ExprStmt) GetToken() token.Token { return s.Tok }

// IfStmt is `if (Cond) Then [else Else]`.
type IfStmt struct {
	Tok  token.Token
	Cond *Expr
	Then *Block
	Else *Block // nil if no else branch
}

func (s *IfStmt) stmtNode()             {}
func (s *IfStmt) GetToken() token.Token { return s.Tok }

// WhileStmt is `while (Cond) Body`.
type WhileStmt struct {
	Tok  token.Token
	Cond *Expr
	Body *Block
}

func (s *WhileStmt) stmtNode()             {}
func (s *WhileStmt) GetToken() token.Token { return s.Tok }

// ForStmt is `for (Init; Test; Step) Body`; each clause is a comma-separated
// expression sequence, evaluated for side effects only (§4.6).
type ForStmt struct {
	Tok  token.Token
	Init []*Expr
	Test []*Expr
	Step []*Expr
	Body *Block
}

func (s *ForStmt) stmtNode()             {}
func (s *ForStmt) GetToken() token.Token { return s.Tok }

// ForeachStmt is `foreach (Arr as [Key =>] Var) Body`. Key is nil when no
// key variable was given.
type ForeachStmt struct {
	Tok  token.Token
	Arr  *Expr
	Key  *Expr
	Var  *Expr
	Body *Block
}

func (s *ForeachStmt) stmtNode()             {}
func (s *ForeachStmt) GetToken() token.Token { return s.Tok }

// SwitchCase is one `case Value:` or `default:` arm of a switch.
type SwitchCase struct {
	Value     *Expr // nil for default
	IsDefault bool
	Body      *Block
}

// SwitchStmt is `switch (Subject) { case ...: ... default: ... }`.
type SwitchStmt struct {
	Tok     token.Token
	Subject *Expr
	Cases   []*SwitchCase
}

func (s *SwitchStmt) stmtNode()             {}
func (s *SwitchStmt) GetToken() token.Token { return s.Tok }

// GlobalStmt is `global $a, $b, ...`.
type GlobalStmt struct {
	Tok   token.Token
	Names []string
}

func (s *GlobalStmt) stmtNode()             {}
func (s *GlobalStmt) GetToken() token.Token { return s.Tok }

// ReturnStmt is `return [X];`. X is nil for a bare return.
type ReturnStmt struct {
	Tok token.Token
	X   *Expr
}

func (s *ReturnStmt) stmtNode()             {}
func (s *ReturnStmt) GetToken() token.Token { return s.Tok }

// EchoStmt is `echo X;`, the canonical output sink.
type EchoStmt struct {
	Tok token.Token
	X   *Expr
}

func (s *EchoStmt) stmtNode()             {}
func (s *EchoStmt) GetToken() token.Token { return s.Tok }

// ExitStmt is `exit[(X)];`. X is nil when no argument was given.
type ExitStmt struct {
	Tok token.Token
	X   *Expr
}

func (s *ExitStmt) stmtNode()             {}
func (s *ExitStmt) GetToken() token.Token { return s.Tok }

// IncludeStmt is `include X;` or `require_once X;`.
type IncludeStmt struct {
	Tok         token.Token
	RequireOnce bool
	X           *Expr
}

func (s *IncludeStmt) stmtNode()             {}
func (s *IncludeStmt) GetToken() token.Token { return s.Tok }

// FunctionStmt is a top-level `function name(params) body` declaration.
type FunctionStmt struct {
	Tok    token.Token
	Name   string
	Params []string
	Body   *Block
}

func (s *FunctionStmt) stmtNode()             {}
func (s *FunctionStmt) GetToken() token.Token { return s.Tok }

// Program is the root of a parsed source file.
type Program struct {
	File  string
	Stmts []Stmt
}
