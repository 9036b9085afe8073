package syntax

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a compile error.
type ErrorKind uint8

const (
	Lexical   ErrorKind = iota // unreadable or malformed input
	Syntactic                  // missing or unexpected token
	Semantic                   // undeclared, redeclared, type or arity violation
)

var errorKindNames = [...]string{
	Lexical:   "lexical error",
	Syntactic: "syntax error",
	Semantic:  "semantic error",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Error is a compile error attached to a source position.
// Compilation stops at the first Error; there is no recovery.
type Error struct {
	Kind ErrorKind
	Pos  Pos
	Src  *Line // offending source line; may be nil
	Len  int   // width of the offending token in bytes, at least 1
	Msg  string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Pretty renders the error with the offending source line and a caret
// underline, followed by the position:
//
//	error: undeclared function "mul"
//	  3 | int<> z = mul(2, 3);
//	    |           ^^^
//	prog.mc:3:11
func (e *Error) Pretty() string {
	var b strings.Builder
	fmt.Fprintf(&b, "error: %s\n", e.Msg)
	if e.Src != nil && e.Pos.IsValid() {
		width := e.Len
		if width < 1 {
			width = 1
		}
		col := int(e.Pos.Col()) - 1
		if col < 0 {
			col = 0
		}
		fmt.Fprintf(&b, "%3d | %s\n", e.Src.Num, e.Src.Text)
		fmt.Fprintf(&b, "    | %s%s\n", indentFor(e.Src.Text, col), strings.Repeat("^", width))
	}
	if e.Pos.IsValid() {
		fmt.Fprintf(&b, "%s\n", e.Pos)
	}
	return b.String()
}

// indentFor returns the padding that places a caret under byte offset col
// of text, keeping tabs so the caret lines up in a terminal.
func indentFor(text string, col int) string {
	if col > len(text) {
		col = len(text)
	}
	var b strings.Builder
	for _, c := range []byte(text[:col]) {
		if c == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
