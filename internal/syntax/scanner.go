package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Scanner performs lexical analysis on minic source code.
//
// Whitespace separates tokens. Single-character operators and delimiters
// are recognized eagerly; any other maximal run of characters is a word,
// classified in order as an int literal, a float literal, a keyword, or
// otherwise an identifier. Malformed numbers are therefore scanned as
// identifiers and rejected later when they fail to resolve.
type Scanner struct {
	source // embedded character reader

	// Current token info
	tok     Token   // token type
	lit     string  // token text
	kind    LitKind // literal kind (only valid when tok == _Literal)
	tokPos  Pos     // token start position
	tokLine *Line   // source line the token starts on

	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are ignored.
func NewScanner(filename string, src io.Reader, errh func(line, col uint32, msg string)) *Scanner {
	return &Scanner{source: *newSource(filename, src, errh)}
}

// Next advances to the next token.
func (s *Scanner) Next() {
	s.kind = 0

redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	s.tokPos = s.pos()
	s.tokLine = s.lineOf(s.line)

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case s.ch == '/' && s.peek() == '/':
		s.skipLineComment()
		goto redo

	case isDelimiter(s.ch):
		s.tok = delimiters[s.ch]
		s.lit = string(s.ch)
		s.nextch()

	default:
		s.scanWord()
	}
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's text.
func (s *Scanner) Literal() string {
	return s.lit
}

// LitKind returns the current literal's kind (only valid when Token() == _Literal).
func (s *Scanner) LitKind() LitKind {
	return s.kind
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// Line returns the source line the current token starts on.
func (s *Scanner) Line() *Line {
	return s.tokLine
}

// Lexeme returns the current token as a value.
func (s *Scanner) Lexeme() Lexeme {
	return Lexeme{Tok: s.tok, Lit: s.lit, Kind: s.kind, Pos: s.tokPos, Src: s.tokLine}
}

// skipLineComment skips a // comment up to, not including, the newline.
func (s *Scanner) skipLineComment() {
	for s.ch >= 0 && s.ch != '\n' {
		s.nextch()
	}
}

// scanWord scans a maximal run of non-separator characters and classifies it.
func (s *Scanner) scanWord() {
	s.litBuf.Reset()
	for s.ch >= 0 && !isWhitespace(s.ch) && !isDelimiter(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	s.lit = s.litBuf.String()
	s.tok, s.kind = classify(s.lit)
}

// classify determines the token type of a word.
func classify(word string) (Token, LitKind) {
	if !strings.Contains(word, ".") {
		if _, err := strconv.ParseInt(word, 10, 32); err == nil {
			return _Literal, IntLit
		}
	} else if _, err := strconv.ParseFloat(word, 32); err == nil {
		return _Literal, FloatLit
	}
	return LookupKeyword(word), 0
}

// Lexeme is a scanned token: its type, text, position, and the source
// line it came from.
type Lexeme struct {
	Tok  Token
	Lit  string
	Kind LitKind // only valid when Tok == _Literal
	Pos  Pos
	Src  *Line
}

// IsLiteral reports whether the lexeme is a numeric literal of kind k.
func (l Lexeme) IsLiteral(k LitKind) bool {
	return l.Tok == _Literal && l.Kind == k
}

func (l Lexeme) String() string {
	switch l.Tok {
	case _Name:
		return fmt.Sprintf("NAME(%s)", l.Lit)
	case _Literal:
		return fmt.Sprintf("%s(%s)", strings.ToUpper(l.Kind.String()), l.Lit)
	}
	return l.Tok.String()
}

// Tokenize scans the whole input and returns its tokens, ending with a
// single EOF token. The first lexical error stops scanning.
func Tokenize(filename string, src io.Reader) ([]Lexeme, error) {
	var first *Error
	errh := func(line, col uint32, msg string) {
		if first == nil {
			first = &Error{Kind: Lexical, Pos: NewPos(filename, line, col), Msg: msg, Len: 1}
		}
	}

	s := NewScanner(filename, src, errh)
	var toks []Lexeme
	for {
		s.Next()
		if first != nil {
			first.Src = s.lineOf(first.Pos.Line())
			return nil, first
		}
		toks = append(toks, s.Lexeme())
		if s.tok == _EOF {
			return toks, nil
		}
	}
}
