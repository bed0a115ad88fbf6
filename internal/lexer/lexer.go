// This lexer is based on, and copied from, Rob Pike's talk on Go
// scanners (https://talks.golang.org/2011/lex.slide): state functions
// (stateFunc) driving a rune-at-a-time scan, emitting tokens on a
// channel that the parser drains concurrently.
package lexer

import (
	"fmt"
	"unicode/utf8"

	"patitolang/internal/token"
)

type stateFunc func(*Lexer) stateFunc

const eof = 0

// Lexer traverses a Patito source string and emits token.Token values.
type Lexer struct {
	input       string
	start       int
	pos         int
	width       int
	line        int
	startOnLine int
	state       stateFunc
	items       chan token.Token
}

// New creates a Lexer over src and starts its scanning goroutine.
func New(src string) *Lexer {
	l := &Lexer{
		input:       src,
		line:        1,
		startOnLine: 1,
		items:       make(chan token.Token, 2),
	}
	go l.run()
	return l
}

// Next returns the next token.Token from the input. Once the input is
// exhausted it returns an EOF token forever.
func (l *Lexer) Next() token.Token {
	t, ok := <-l.items
	if !ok {
		return token.Token{Kind: token.EOF, Line: l.line, Col: l.startOnLine}
	}
	return t
}

func (l *Lexer) run() {
	defer close(l.items)
	for state := lexGlobal; state != nil; {
		state = state(l)
	}
}

// emit sends a token of kind k back to the caller.
func (l *Lexer) emit(k token.Kind) {
	lit := l.input[l.start:l.pos]
	l.items <- token.Token{Kind: k, Lit: lit, Line: l.line, Col: l.startOnLine}
	l.startOnLine += len(lit)
	l.start = l.pos
}

// next returns the next rune in the input.
func (l *Lexer) next() (r rune) {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return r
}

// ignore skips the pending input before this point.
func (l *Lexer) ignore() {
	l.startOnLine += len(l.input[l.start:l.pos])
	l.start = l.pos
}

// backup steps back one rune. Must only be called once per call of next.
func (l *Lexer) backup() {
	if l.pos > l.start {
		l.pos -= l.width
	}
}

// peek returns, but does not consume, the next rune in the input.
func (l *Lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// errorf emits an Error token and terminates the scan.
func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	l.items <- token.Token{Kind: token.Error, Lit: fmt.Sprintf(format, args...), Line: l.line, Col: l.startOnLine}
	return nil
}
