package parser

import (
	"github.com/tsguard/tsguard/internal/ast"
	"github.com/tsguard/tsguard/internal/token"
)

// parseExpression is a standard Pratt parser: a prefix parser builds the
// left operand, then infix parsers fold in operators of higher precedence
// than the caller's floor.
func (p *Parser) parseExpression(precedence int) *ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for !p.peekIs(token.Semicolon) && precedence < p.peekPrecedence() {
		if !p.hasInfix(p.peekToken.Type) {
			return left
		}
		p.nextToken()
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) hasInfix(t token.Type) bool {
	_, ok := precedences[t]
	return ok
}

func (p *Parser) parsePrefix() *ast.Expr {
	tok := p.curToken
	switch tok.Type {
	case token.String:
		return &ast.Expr{Kind: token.String, Tok: tok, Str: tok.Lexeme}
	case token.Number:
		return &ast.Expr{Kind: token.Number, Tok: tok, Num: tok.Literal.(float64)}
	case token.BuiltinConstant:
		return &ast.Expr{Kind: token.BuiltinConstant, Tok: tok, Str: tok.Lexeme}
	case token.Variable:
		return &ast.Expr{Kind: token.Variable, Tok: tok, Str: tok.Lexeme}
	case token.FunctionName:
		return p.parseCallOrConstant()
	case token.BooleanNot, token.Minus, token.Ampersand:
		return p.parseUnary()
	case token.OpeningBracket:
		return p.parseParenOrCast()
	default:
		p.errorExpressionExpected(tok.Type)
		return nil
	}
}

func (p *Parser) parseUnary() *ast.Expr {
	tok := p.curToken
	kind := tok.Type
	if kind == token.Minus {
		kind = token.UnaryMinus
	}
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	return &ast.Expr{Kind: kind, Tok: tok, Children: []*ast.Expr{operand}}
}

// parseParenOrCast handles both a parenthesised sub-expression and a cast
// `(string)expr`, matching the original's single-token-of-lookahead rule:
// if the token right after '(' is a recognised primitive type name
// immediately followed by ')', it's a cast.
func (p *Parser) parseParenOrCast() *ast.Expr {
	tok := p.curToken
	if p.peekToken.Type == token.FunctionName && token.BuiltinTypes[p.peekToken.Lexeme] {
		typeName := p.peekToken.Lexeme
		savedCur, savedPeek, savedLexer := p.curToken, p.peekToken, *p.l
		p.nextToken() // type name
		if p.peekIs(token.ClosingBracket) {
			p.nextToken() // ')'
			p.nextToken() // operand start
			inner := p.parseExpression(PREFIX)
			return &ast.Expr{Kind: token.Cast, Tok: tok, Str: typeName, Children: []*ast.Expr{inner}}
		}
		// Not actually a cast: rewind (tokens and lexer position) and fall
		// through to a parenthesised expression starting with a bare
		// function-name atom.
		p.curToken, p.peekToken, *p.l = savedCur, savedPeek, savedLexer
	}

	p.nextToken()
	inner := p.parseExpression(LOWEST)
	p.expect(token.ClosingBracket)
	return inner
}

func (p *Parser) parseCallOrConstant() *ast.Expr {
	tok := p.curToken
	name := tok.Lexeme
	if !p.peekIs(token.OpeningBracket) {
		// Bare identifier used without a call: treated as a zero-arg
		// function call, matching the original's fallback for names
		// that are neither declared constants nor invoked as f(...).
		return &ast.Expr{Kind: token.FunctionCall, Tok: tok, Str: name}
	}
	p.nextToken() // '('
	var args []*ast.Expr
	if !p.peekIs(token.ClosingBracket) {
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
		for p.peekIs(token.Comma) {
			p.nextToken()
			p.nextToken()
			args = append(args, p.parseExpression(LOWEST))
		}
	}
	p.expect(token.ClosingBracket)
	return &ast.Expr{Kind: token.FunctionCall, Tok: tok, Str: name, Children: args}
}

func (p *Parser) parseInfix(left *ast.Expr) *ast.Expr {
	switch p.curToken.Type {
	case token.OpeningSquareBracket:
		return p.parseArrayAccess(left)
	case token.Question:
		return p.parseTernary(left)
	default:
		return p.parseBinary(left)
	}
}

func (p *Parser) parseBinary(left *ast.Expr) *ast.Expr {
	tok := p.curToken
	prec := p.curPrecedence()
	if assignOps[tok.Type] {
		// Assignment is right-associative: $a = $b = 1 parses as
		// $a = ($b = 1).
		prec--
	}
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.Expr{Kind: tok.Type, Tok: tok, Children: []*ast.Expr{left, right}}
}

func (p *Parser) parseArrayAccess(left *ast.Expr) *ast.Expr {
	tok := p.curToken
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	p.expect(token.ClosingSquareBracket)
	return &ast.Expr{Kind: token.ArrayAccess, Tok: tok, Children: []*ast.Expr{left, idx}}
}

func (p *Parser) parseTernary(cond *ast.Expr) *ast.Expr {
	tok := p.curToken
	p.nextToken()
	thenExpr := p.parseExpression(LOWEST)
	p.expect(token.Colon)
	p.nextToken()
	elseExpr := p.parseExpression(TERNARY)
	return &ast.Expr{Kind: token.Question, Tok: tok, Children: []*ast.Expr{cond, thenExpr, elseExpr}}
}
