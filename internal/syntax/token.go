// Package syntax implements lexical analysis, parsing and inline type
// checking for the minic language.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF Token = iota // end of file

	// Literals
	_Name    // identifier: x, add, printVarInt
	_Literal // numeric literal (used with LitKind)

	// Operators
	_Assign // =
	_Lss    // <
	_Gtr    // >

	// Arithmetic operators (additive)
	_Add // +
	_Sub // -

	// Arithmetic operators (multiplicative)
	_Mul // *
	_Div // /

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Semi   // ;

	// Keywords
	_Def
	_Else
	_Float
	_For
	_If
	_Int
	_Main
	_Return
	_Void

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF: "EOF",

	_Name:    "NAME",
	_Literal: "LITERAL",

	_Assign: "=",
	_Lss:    "<",
	_Gtr:    ">",

	_Add: "+",
	_Sub: "-",
	_Mul: "*",
	_Div: "/",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Semi:   ";",

	_Def:    "def",
	_Else:   "else",
	_Float:  "float",
	_For:    "for",
	_If:     "if",
	_Int:    "int",
	_Main:   "main",
	_Return: "return",
	_Void:   "void",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// Precedence returns the operator precedence for arithmetic operators.
// Returns 0 for non-operators.
// Precedence levels (higher = binds tighter):
//
//	1: + -
//	2: * /
func (t Token) Precedence() int {
	switch t {
	case _Add, _Sub:
		return 1
	case _Mul, _Div:
		return 2
	}
	return 0
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Def && t <= _Void
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t >= _Assign && t <= _Div
}

// IsArith reports whether t is one of the four arithmetic operators.
func (t Token) IsArith() bool {
	return t >= _Add && t <= _Div
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// Exported operator tokens for the code generator
const (
	Add Token = _Add // +
	Sub Token = _Sub // -
	Mul Token = _Mul // *
	Div Token = _Div // /
)

// LitKind represents the kind of a literal token.
type LitKind uint8

const (
	IntLit   LitKind = iota // 42
	FloatLit                // 3.5
)

// litKindNames maps literal kinds to their string representation.
var litKindNames = [...]string{
	IntLit:   "int",
	FloatLit: "float",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= FloatLit {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps keyword strings to their token type.
// if, else and for are reserved but have no statement form yet.
var keywords = map[string]Token{
	"def":    _Def,
	"else":   _Else,
	"float":  _Float,
	"for":    _For,
	"if":     _If,
	"int":    _Int,
	"main":   _Main,
	"return": _Return,
	"void":   _Void,
}

// LookupKeyword returns the token for the given word.
// If the word is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(word string) Token {
	if tok, ok := keywords[word]; ok {
		return tok
	}
	return _Name
}

// isWhitespace reports whether r separates tokens.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\f' || r == '\v'
}

// delimiters maps single-character operators and delimiters to their tokens.
var delimiters = map[rune]Token{
	'=': _Assign,
	'<': _Lss,
	'>': _Gtr,
	'+': _Add,
	'-': _Sub,
	'*': _Mul,
	'/': _Div,
	'(': _Lparen,
	')': _Rparen,
	'[': _Lbrack,
	']': _Rbrack,
	'{': _Lbrace,
	'}': _Rbrace,
	',': _Comma,
	';': _Semi,
}

// isDelimiter reports whether r is recognized as a token on its own.
func isDelimiter(r rune) bool {
	_, ok := delimiters[r]
	return ok
}
