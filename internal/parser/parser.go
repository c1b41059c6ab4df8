// Package parser builds internal/ast trees from a token stream using a
// Pratt (precedence-climbing) expression parser plus straightforward
// recursive-descent statement parsing, following the teacher project's
// parser idiom.
package parser

import (
	"github.com/tsguard/tsguard/internal/ast"
	"github.com/tsguard/tsguard/internal/diagnostics"
	"github.com/tsguard/tsguard/internal/lexer"
	"github.com/tsguard/tsguard/internal/token"
)

const (
	_ int = iota
	LOWEST
	TERNARY     // ?:
	LOGICAL     // && ||
	EQUALITY    // == === != !==
	COMPARISON  // < <= > >=
	BITWISE     // & |
	ADDITIVE    // + - .
	MULTIPLICATIVE
	PREFIX  // unary ! - &
	CALLIDX // f(...), a[...]
)

var precedences = map[token.Type]int{
	token.BooleanAnd:      LOGICAL,
	token.BooleanOr:       LOGICAL,
	token.Equals:          EQUALITY,
	token.EqualsExactly:   EQUALITY,
	token.NotEquals:       EQUALITY,
	token.NotEqualsExactly: EQUALITY,
	token.LessThan:        COMPARISON,
	token.LessOrEqual:     COMPARISON,
	token.GreaterThan:     COMPARISON,
	token.GreaterOrEqual:  COMPARISON,
	token.Ampersand:       BITWISE,
	token.Pipe:            BITWISE,
	token.Plus:            ADDITIVE,
	token.Minus:           ADDITIVE,
	token.Period:          ADDITIVE,
	token.Times:           MULTIPLICATIVE,
	token.Divide:          MULTIPLICATIVE,
	token.Modulo:          MULTIPLICATIVE,
	token.OpeningSquareBracket: CALLIDX,

	token.Assign:       TERNARY,
	token.PlusAssign:   TERNARY,
	token.MinusAssign:  TERNARY,
	token.TimesAssign:  TERNARY,
	token.DivideAssign: TERNARY,
	token.ModuloAssign: TERNARY,
	token.CatAssign:    TERNARY,
	token.Question:     TERNARY,
}

var assignOps = map[token.Type]bool{
	token.Assign: true, token.PlusAssign: true, token.MinusAssign: true,
	token.TimesAssign: true, token.DivideAssign: true, token.ModuloAssign: true,
	token.CatAssign: true,
}

// Parser consumes a token stream and produces an *ast.Program.
type Parser struct {
	l   *lexer.Lexer
	file string

	curToken  token.Token
	peekToken token.Token

	errors []*diagnostics.Diagnostic
}

// New builds a Parser reading from src, tagging diagnostics with file.
func New(src, file string) *Parser {
	p := &Parser{l: lexer.New(src), file: file}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every parse error collected during ParseProgram.
func (p *Parser) Errors() []*diagnostics.Diagnostic { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expect(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errorUnexpectedToken(t, p.peekToken.Type)
	return false
}

func (p *Parser) errorUnexpectedToken(want, got token.Type) {
	d := diagnostics.New(diagnostics.ErrP001, p.curToken, want, got)
	d.File = p.file
	p.errors = append(p.errors, d)
}

func (p *Parser) errorExpressionExpected(got token.Type) {
	d := diagnostics.New(diagnostics.ErrP002, p.curToken, got)
	d.File = p.file
	p.errors = append(p.errors, d)
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the whole token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{File: p.file}
	for !p.curIs(token.EOF) {
		if s := p.parseStatement(); s != nil {
			prog.Stmts = append(prog.Stmts, s)
		}
		p.nextToken()
	}
	return prog
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.OpeningCurly:
		return p.parseBlock()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwForeach:
		return p.parseForeach()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwGlobal:
		return p.parseGlobal()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwEcho:
		return p.parseEcho()
	case token.KwExit:
		return p.parseExit()
	case token.KwInclude:
		return p.parseInclude(false)
	case token.KwRequireOnce:
		return p.parseInclude(true)
	case token.KwFunction:
		return p.parseFunction()
	case token.Semicolon:
		return nil
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() *ast.Block {
	b := &ast.Block{Tok: p.curToken}
	p.nextToken() // consume '{'
	for !p.curIs(token.ClosingCurly) && !p.curIs(token.EOF) {
		if s := p.parseStatement(); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
		p.nextToken()
	}
	return b
}

// parseStatementOrBlock allows a single statement (no braces) as a
// control-flow body, wrapping it in a Block for uniform handling.
func (p *Parser) parseStatementOrBlock() *ast.Block {
	if p.curIs(token.OpeningCurly) {
		return p.parseBlock()
	}
	tok := p.curToken
	s := p.parseStatement()
	if s == nil {
		return &ast.Block{Tok: tok}
	}
	return &ast.Block{Tok: tok, Stmts: []ast.Stmt{s}}
}

func (p *Parser) parseParenCond() *ast.Expr {
	if !p.expect(token.OpeningBracket) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	p.expect(token.ClosingBracket)
	return cond
}

func (p *Parser) parseIf() ast.Stmt {
	tok := p.curToken
	cond := p.parseParenCond()
	p.nextToken()
	then := p.parseStatementOrBlock()

	var elseBlock *ast.Block
	if p.peekIs(token.KwElse) {
		p.nextToken() // else
		p.nextToken()
		elseBlock = p.parseStatementOrBlock()
	}
	return &ast.IfStmt{Tok: tok, Cond: cond, Then: then, Else: elseBlock}
}

func (p *Parser) parseWhile() ast.Stmt {
	tok := p.curToken
	cond := p.parseParenCond()
	p.nextToken()
	body := p.parseStatementOrBlock()
	return &ast.WhileStmt{Tok: tok, Cond: cond, Body: body}
}

func (p *Parser) parseExprSeq(terminator token.Type) []*ast.Expr {
	var exprs []*ast.Expr
	if p.peekIs(terminator) {
		p.nextToken()
		return exprs
	}
	p.nextToken()
	exprs = append(exprs, p.parseExpression(LOWEST))
	for p.peekIs(token.Comma) {
		p.nextToken()
		p.nextToken()
		exprs = append(exprs, p.parseExpression(LOWEST))
	}
	p.expect(terminator)
	return exprs
}

func (p *Parser) parseFor() ast.Stmt {
	tok := p.curToken
	if !p.expect(token.OpeningBracket) {
		return &ast.ForStmt{Tok: tok}
	}
	init := p.parseExprSeq(token.Semicolon)
	test := p.parseExprSeq(token.Semicolon)
	step := p.parseExprSeq(token.ClosingBracket)
	p.nextToken()
	body := p.parseStatementOrBlock()
	return &ast.ForStmt{Tok: tok, Init: init, Test: test, Step: step, Body: body}
}

func (p *Parser) parseForeach() ast.Stmt {
	tok := p.curToken
	if !p.expect(token.OpeningBracket) {
		return &ast.ForeachStmt{Tok: tok}
	}
	p.nextToken()
	arr := p.parseExpression(LOWEST)
	p.expect(token.KwAs)
	p.nextToken()
	first := p.parseExpression(LOWEST)

	var key, v *ast.Expr
	if p.peekIs(token.MapsTo) {
		p.nextToken()
		p.nextToken()
		key = first
		v = p.parseExpression(LOWEST)
	} else {
		v = first
	}
	p.expect(token.ClosingBracket)
	p.nextToken()
	body := p.parseStatementOrBlock()
	return &ast.ForeachStmt{Tok: tok, Arr: arr, Key: key, Var: v, Body: body}
}

func (p *Parser) parseSwitch() ast.Stmt {
	tok := p.curToken
	subject := p.parseParenCond()
	if !p.expect(token.OpeningCurly) {
		return &ast.SwitchStmt{Tok: tok, Subject: subject}
	}
	p.nextToken()

	st := &ast.SwitchStmt{Tok: tok, Subject: subject}
	for !p.curIs(token.ClosingCurly) && !p.curIs(token.EOF) {
		c := &ast.SwitchCase{}
		if p.curIs(token.KwCase) {
			p.nextToken()
			c.Value = p.parseExpression(LOWEST)
			p.expect(token.Colon)
		} else if p.curIs(token.KwDefault) {
			c.IsDefault = true
			p.expect(token.Colon)
		} else {
			p.nextToken()
			continue
		}
		body := &ast.Block{Tok: p.curToken}
		p.nextToken()
		for !p.curIs(token.KwCase) && !p.curIs(token.KwDefault) && !p.curIs(token.ClosingCurly) && !p.curIs(token.EOF) {
			if s := p.parseStatement(); s != nil {
				body.Stmts = append(body.Stmts, s)
			}
			p.nextToken()
		}
		c.Body = body
		st.Cases = append(st.Cases, c)
	}
	return st
}

func (p *Parser) parseGlobal() ast.Stmt {
	tok := p.curToken
	g := &ast.GlobalStmt{Tok: tok}
	for p.peekIs(token.Variable) {
		p.nextToken()
		g.Names = append(g.Names, p.curToken.Lexeme)
		if p.peekIs(token.Comma) {
			p.nextToken()
		}
	}
	p.expectSemicolon()
	return g
}

func (p *Parser) parseReturn() ast.Stmt {
	tok := p.curToken
	r := &ast.ReturnStmt{Tok: tok}
	if !p.peekIs(token.Semicolon) {
		p.nextToken()
		r.X = p.parseExpression(LOWEST)
	}
	p.expectSemicolon()
	return r
}

func (p *Parser) parseEcho() ast.Stmt {
	tok := p.curToken
	p.nextToken()
	x := p.parseExpression(LOWEST)
	p.expectSemicolon()
	return &ast.EchoStmt{Tok: tok, X: x}
}

func (p *Parser) parseExit() ast.Stmt {
	tok := p.curToken
	e := &ast.ExitStmt{Tok: tok}
	if p.peekIs(token.OpeningBracket) {
		p.nextToken()
		if !p.peekIs(token.ClosingBracket) {
			p.nextToken()
			e.X = p.parseExpression(LOWEST)
		}
		p.expect(token.ClosingBracket)
	}
	p.expectSemicolon()
	return e
}

func (p *Parser) parseInclude(requireOnce bool) ast.Stmt {
	tok := p.curToken
	p.nextToken()
	x := p.parseExpression(LOWEST)
	p.expectSemicolon()
	return &ast.IncludeStmt{Tok: tok, RequireOnce: requireOnce, X: x}
}

func (p *Parser) parseFunction() ast.Stmt {
	tok := p.curToken
	if !p.expect(token.FunctionName) {
		return &ast.FunctionStmt{Tok: tok}
	}
	name := p.curToken.Lexeme
	if !p.expect(token.OpeningBracket) {
		return &ast.FunctionStmt{Tok: tok, Name: name}
	}
	var params []string
	if !p.peekIs(token.ClosingBracket) {
		p.nextToken()
		params = append(params, p.curToken.Lexeme)
		for p.peekIs(token.Comma) {
			p.nextToken()
			p.nextToken()
			params = append(params, p.curToken.Lexeme)
		}
	}
	p.expect(token.ClosingBracket)
	p.nextToken()
	body := p.parseStatementOrBlock()
	return &ast.FunctionStmt{Tok: tok, Name: name, Params: params, Body: body}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	tok := p.curToken
	x := p.parseExpression(LOWEST)
	p.expectSemicolon()
	return &ast.ExprStmt{Tok: tok, X: x}
}

func (p *Parser) expectSemicolon() {
	if p.peekIs(token.Semicolon) {
		p.nextToken()
	}
}
