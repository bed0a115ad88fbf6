package lexer

import "patitolang/internal/token"

type reservedItem struct {
	val string
	typ token.Kind
}

// rw holds every reserved Patito keyword, indexed by word length - 1.
// Indexing by length before scanning the (short) per-length slice is
// faster than a map lookup for a keyword set this small.
var rw = [...][]reservedItem{
	// One-gram.
	{},
	// Two-gram.
	{
		{val: "if", typ: token.If},
		{val: "do", typ: token.Do},
	},
	// Three-gram.
	{
		{val: "end", typ: token.End},
	},
	// Four-gram.
	{
		{val: "vars", typ: token.Vars},
		{val: "void", typ: token.Void},
		{val: "else", typ: token.Else},
	},
	// Five-gram.
	{
		{val: "begin", typ: token.Begin},
		{val: "while", typ: token.While},
		{val: "write", typ: token.Write},
		{val: "float", typ: token.KwFloat},
	},
	// Six-gram.
	{
		{val: "return", typ: token.Return},
	},
	// Seven-gram.
	{
		{val: "integer", typ: token.KwInteger},
		{val: "program", typ: token.Program},
	},
}

// isKeyword returns true if s is a reserved Patito keyword, along with
// its token.Kind.
func isKeyword(s string) (bool, token.Kind) {
	if len(s) == 0 || len(s) > len(rw) {
		return false, token.Identifier
	}
	for _, e1 := range rw[len(s)-1] {
		if e1.val == s {
			return true, e1.typ
		}
	}
	return false, token.Identifier
}
