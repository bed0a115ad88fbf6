package lexer

import (
	"testing"

	"patitolang/internal/token"
)

// TestLexerTokenStream verifies that a short Patito program is scanned
// into exactly the expected token kind/literal sequence.
func TestLexerTokenStream(t *testing.T) {
	src := `program p;
vars x: integer;
begin
  x = 3 + 4 * 2;
  write("total is", x);
end`

	want := []struct {
		kind token.Kind
		lit  string
	}{
		{token.Program, "program"},
		{token.Identifier, "p"},
		{token.Semicolon, ";"},
		{token.Vars, "vars"},
		{token.Identifier, "x"},
		{token.Colon, ":"},
		{token.KwInteger, "integer"},
		{token.Semicolon, ";"},
		{token.Begin, "begin"},
		{token.Identifier, "x"},
		{token.Assign, "="},
		{token.Integer, "3"},
		{token.Plus, "+"},
		{token.Integer, "4"},
		{token.Star, "*"},
		{token.Integer, "2"},
		{token.Semicolon, ";"},
		{token.Write, "write"},
		{token.LParen, "("},
		{token.String, "total is"},
		{token.Comma, ","},
		{token.Identifier, "x"},
		{token.RParen, ")"},
		{token.Semicolon, ";"},
		{token.End, "end"},
		{token.EOF, ""},
	}

	l := New(src)
	for i, w := range want {
		got := l.Next()
		if got.Kind != w.kind || got.Lit != w.lit {
			t.Fatalf("token %d: got %s(%q), want %s(%q)", i, got.Kind, got.Lit, w.kind, w.lit)
		}
	}
}

// TestLexerTracksLineNumbers checks that newlines advance the line
// counter and reset the column.
func TestLexerTracksLineNumbers(t *testing.T) {
	l := New("a\nb")
	first := l.Next()
	if first.Line != 1 {
		t.Errorf("expected first token on line 1, got %d", first.Line)
	}
	second := l.Next()
	if second.Line != 2 {
		t.Errorf("expected second token on line 2, got %d", second.Line)
	}
	if second.Col != 1 {
		t.Errorf("expected second token at column 1 after the newline, got %d", second.Col)
	}
}

// TestLexerUnclosedStringEmitsError verifies a dangling string literal
// terminates the scan with an Error token rather than hanging.
func TestLexerUnclosedStringEmitsError(t *testing.T) {
	l := New(`write("oops)`)
	var last token.Token
	for {
		tok := l.Next()
		if tok.Kind == token.EOF {
			break
		}
		last = tok
		if tok.Kind == token.Error {
			break
		}
	}
	if last.Kind != token.Error {
		t.Fatalf("expected an Error token for the unclosed string, got %s", last.Kind)
	}
}
