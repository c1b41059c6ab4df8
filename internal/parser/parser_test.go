package parser

import (
	"testing"

	"github.com/tsguard/tsguard/internal/ast"
	"github.com/tsguard/tsguard/internal/token"
)

func parseExpr(t *testing.T, src string) *ast.Expr {
	t.Helper()
	p := New(src+";", "test.php")
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Stmts))
	}
	es, ok := prog.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", prog.Stmts[0])
	}
	return es.X
}

func TestParseAssignmentAndConcat(t *testing.T) {
	e := parseExpr(t, `$b = $a . "!"`)
	if e.Kind != token.Assign {
		t.Fatalf("top kind = %s, want Assign", e.Kind)
	}
	rhs := e.Children[1]
	if rhs.Kind != token.Period {
		t.Fatalf("rhs kind = %s, want Period", rhs.Kind)
	}
}

func TestParseRightAssociativeAssign(t *testing.T) {
	e := parseExpr(t, `$a = $b = 1`)
	if e.Kind != token.Assign || e.Children[0].Str != "a" {
		t.Fatalf("outer assign malformed: %+v", e)
	}
	inner := e.Children[1]
	if inner.Kind != token.Assign || inner.Children[0].Str != "b" {
		t.Fatalf("inner assign malformed: %+v", inner)
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	// $a + $b * $c should be Plus(a, Times(b, c))
	e := parseExpr(t, `$a + $b * $c`)
	if e.Kind != token.Plus {
		t.Fatalf("top kind = %s, want Plus", e.Kind)
	}
	rhs := e.Children[1]
	if rhs.Kind != token.Times {
		t.Fatalf("rhs kind = %s, want Times (precedence climbing failed)", rhs.Kind)
	}
}

func TestParseArrayAccessAndCall(t *testing.T) {
	e := parseExpr(t, `mysql_real_escape_string($_GET["q"])`)
	if e.Kind != token.FunctionCall || e.Str != "mysql_real_escape_string" {
		t.Fatalf("top = %+v, want FunctionCall mysql_real_escape_string", e)
	}
	arg := e.Children[0]
	if arg.Kind != token.ArrayAccess {
		t.Fatalf("arg kind = %s, want ArrayAccess", arg.Kind)
	}
}

func TestParseTernary(t *testing.T) {
	e := parseExpr(t, `$a ? $b : $c`)
	if e.Kind != token.Question || len(e.Children) != 3 {
		t.Fatalf("ternary malformed: %+v", e)
	}
}

func TestParseCast(t *testing.T) {
	e := parseExpr(t, `(string)$a`)
	if e.Kind != token.Cast || e.Str != "string" {
		t.Fatalf("cast malformed: %+v", e)
	}
}

func TestParseIfElse(t *testing.T) {
	p := New(`if ($c) { $v = 1; } else { $v = "s"; }`, "test.php")
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	ifs, ok := prog.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", prog.Stmts[0])
	}
	if ifs.Else == nil || len(ifs.Then.Stmts) != 1 || len(ifs.Else.Stmts) != 1 {
		t.Fatalf("if/else malformed: %+v", ifs)
	}
}

func TestParseForeachWithKey(t *testing.T) {
	p := New(`foreach ($arr as $k => $v) { $s = $v; }`, "test.php")
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	fe, ok := prog.Stmts[0].(*ast.ForeachStmt)
	if !ok {
		t.Fatalf("expected ForeachStmt, got %T", prog.Stmts[0])
	}
	if fe.Key == nil || fe.Key.Str != "k" || fe.Var.Str != "v" {
		t.Fatalf("foreach malformed: %+v", fe)
	}
}

func TestParseFunctionDecl(t *testing.T) {
	p := New(`function f($a) { return $a . "x"; }`, "test.php")
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	fn, ok := prog.Stmts[0].(*ast.FunctionStmt)
	if !ok {
		t.Fatalf("expected FunctionStmt, got %T", prog.Stmts[0])
	}
	if fn.Name != "f" || len(fn.Params) != 1 || fn.Params[0] != "a" {
		t.Fatalf("function decl malformed: %+v", fn)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Stmts))
	}
	if _, ok := fn.Body.Stmts[0].(*ast.ReturnStmt); !ok {
		t.Fatalf("expected ReturnStmt, got %T", fn.Body.Stmts[0])
	}
}
