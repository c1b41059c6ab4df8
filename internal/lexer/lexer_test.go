package lexer

import (
	"testing"

	"github.com/tsguard/tsguard/internal/token"
)

func TestNextTokenCoversOperatorsAndLiterals(t *testing.T) {
	input := `$a = "hello"; $b = $a . "!"; if ($a == 1) { return $a; }`

	want := []token.Type{
		token.Variable, token.Assign, token.String, token.Semicolon,
		token.Variable, token.Assign, token.Variable, token.Period, token.String, token.Semicolon,
		token.KwIf, token.OpeningBracket, token.Variable, token.Equals, token.Number, token.ClosingBracket,
		token.OpeningCurly, token.KwReturn, token.Variable, token.Semicolon, token.ClosingCurly,
		token.EOF,
	}

	l := New(input)
	for i, wantType := range want {
		got := l.NextToken()
		if got.Type != wantType {
			t.Fatalf("token %d: got %s, want %s (lexeme %q)", i, got.Type, wantType, got.Lexeme)
		}
	}
}

func TestNextTokenCompoundAssignAndComparisons(t *testing.T) {
	input := `$x += 1; $y .= "z"; $x === $y; $x !== $y; $x <= $y; $x >= $y;`
	want := []token.Type{
		token.Variable, token.PlusAssign, token.Number, token.Semicolon,
		token.Variable, token.CatAssign, token.String, token.Semicolon,
		token.Variable, token.EqualsExactly, token.Variable, token.Semicolon,
		token.Variable, token.NotEqualsExactly, token.Variable, token.Semicolon,
		token.Variable, token.LessOrEqual, token.Variable, token.Semicolon,
		token.Variable, token.GreaterOrEqual, token.Variable, token.Semicolon,
		token.EOF,
	}
	l := New(input)
	for i, wantType := range want {
		got := l.NextToken()
		if got.Type != wantType {
			t.Fatalf("token %d: got %s, want %s (lexeme %q)", i, got.Type, wantType, got.Lexeme)
		}
	}
}

func TestReadStringHandlesEscapes(t *testing.T) {
	l := New(`"a\"b"`)
	tok := l.NextToken()
	if tok.Type != token.String {
		t.Fatalf("got %s, want STRING", tok.Type)
	}
	if tok.Lexeme != `a"b` {
		t.Errorf("lexeme = %q, want %q", tok.Lexeme, `a"b`)
	}
}

func TestSkipsCommentsAndWhitespace(t *testing.T) {
	input := "// a comment\n$a /* inline */ = 1;"
	l := New(input)
	want := []token.Type{token.Variable, token.Assign, token.Number, token.Semicolon, token.EOF}
	for i, wantType := range want {
		got := l.NextToken()
		if got.Type != wantType {
			t.Fatalf("token %d: got %s, want %s", i, got.Type, wantType)
		}
	}
}

func TestBuiltinFunctionNameClassification(t *testing.T) {
	l := New("mysql_query")
	tok := l.NextToken()
	if tok.Type != token.FunctionName {
		t.Errorf("got %s, want FUNCTION_NAME", tok.Type)
	}
}
