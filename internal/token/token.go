// Package token defines the lexeme categories produced by internal/lexer
// and consumed by internal/parser. It is the "token type" half of the
// scanner -> semantic layer contract described in spec.md §6.
package token

import "fmt"

// Kind differentiates token categories.
type Kind int

const (
	EOF Kind = iota
	Error

	Identifier
	Integer
	Float
	String

	// Keywords.
	Program
	Begin
	End
	Vars
	KwInteger
	KwFloat
	Void
	If
	Else
	While
	Do
	Write
	Return

	// Operators and delimiters.
	Assign // =
	Eq     // ==
	Neq    // !=
	Gt     // >
	Lt     // <
	Gte    // >=
	Lte    // <=
	Plus
	Minus
	Star
	Slash
	LBrace
	RBrace
	LBracket
	RBracket
	LParen
	RParen
	Comma
	Colon
	Semicolon
)

var names = [...]string{
	EOF:        "EOF",
	Error:      "ERROR",
	Identifier: "IDENTIFIER",
	Integer:    "INTEGER",
	Float:      "FLOAT",
	String:     "STRING",
	Program:    "program",
	Begin:      "begin",
	End:        "end",
	Vars:       "vars",
	KwInteger:  "integer",
	KwFloat:    "float",
	Void:       "void",
	If:         "if",
	Else:       "else",
	While:      "while",
	Do:         "do",
	Write:      "write",
	Return:     "return",
	Assign:     "=",
	Eq:         "==",
	Neq:        "!=",
	Gt:         ">",
	Lt:         "<",
	Gte:        ">=",
	Lte:        "<=",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
	LParen:     "(",
	RParen:     ")",
	Comma:      ",",
	Colon:      ":",
	Semicolon:  ";",
}

// String returns a print friendly name for the token kind.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(names) || names[k] == "" {
		return fmt.Sprintf("KIND(%d)", int(k))
	}
	return names[k]
}

// Token is a single lexeme with its source position, as produced by the
// scanner described in spec.md §6.
type Token struct {
	Kind Kind
	Lit  string // Lexeme text; for Integer/Float/String this is the raw text.
	Line int
	Col  int
}

// String returns a print friendly representation of the token.
func (t Token) String() string {
	if len(t.Lit) > 0 {
		return fmt.Sprintf("%s(%q) @%d:%d", t.Kind, t.Lit, t.Line, t.Col)
	}
	return fmt.Sprintf("%s @%d:%d", t.Kind, t.Line, t.Col)
}
