package syntax

import (
	"bytes"
	"io"
	"unicode/utf8"
)

// source is a character reader with position tracking.
// The whole input is read up front and split into lines so that every
// character can be attributed to the source line it came from.
type source struct {
	buf   []byte  // source buffer
	lines []*Line // one entry per source line

	filename string
	line     uint32 // current line number (1-based)
	col      uint32 // current column number (1-based, byte offset)

	ch   rune // current character, -1 for EOF
	offs int  // byte offset of the next character

	errh func(line, col uint32, msg string)
}

// newSource creates a new source from an io.Reader.
// The errh function is called for each error; if nil, errors are ignored.
func newSource(filename string, src io.Reader, errh func(line, col uint32, msg string)) *source {
	s := &source{
		filename: filename,
		line:     1,
		col:      0,  // incremented to 1 by the first nextch
		ch:       -1, // "before first char"
		errh:     errh,
	}

	var err error
	s.buf, err = io.ReadAll(src)
	if err != nil {
		s.error("error reading source file: " + err.Error())
		s.buf = nil
	}
	s.lines = splitLines(s.buf)

	s.nextch()
	return s
}

// splitLines records every line of buf. A trailing newline does not
// start a new line, but an empty buffer still has line 1.
func splitLines(buf []byte) []*Line {
	var lines []*Line
	for n := uint32(1); ; n++ {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			if len(buf) > 0 || len(lines) == 0 {
				lines = append(lines, &Line{Num: n, Text: string(bytes.TrimSuffix(buf, []byte("\r")))})
			}
			return lines
		}
		lines = append(lines, &Line{Num: n, Text: string(bytes.TrimSuffix(buf[:i], []byte("\r")))})
		buf = buf[i+1:]
	}
}

// nextch reads the next character and updates the position.
// (line, col) always refers to s.ch after nextch returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && width == 1 {
		s.error("invalid UTF-8 encoding")
	}

	s.ch = r
	s.offs += width
}

// peek returns the character following s.ch without consuming it.
func (s *source) peek() rune {
	if s.offs >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.buf[s.offs:])
	return r
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// lineOf returns the record of the given 1-based line.
func (s *source) lineOf(n uint32) *Line {
	if n >= 1 && int(n) <= len(s.lines) {
		return s.lines[n-1]
	}
	return &Line{Num: n}
}

// error reports a lexical error at the current position.
func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.line, s.col, msg)
	}
}
