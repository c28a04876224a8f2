package lexer

import (
	"github.com/ava12/rdx/source"
)

// Token is an immutable lexeme produced by a lexer.
// Start, Stop, and PrevStop are rune offsets in source text.
type Token struct {
	name            string
	text            string
	value           any
	source          *source.Source
	index           int
	start, stop     int
	prevStop        int
	line, col       int
	endLine, endCol int
}

// Sentinel token names.
const (
	StartOfInput = "-start-of-input-"
	EndOfInput   = "-end-of-input-"
)

// Name returns token definition name or sentinel name.
func (t *Token) Name() string {
	return t.name
}

// Text returns matched text, empty for sentinels.
func (t *Token) Text() string {
	return t.text
}

// Value returns the result of token value transform or token text if there is no transform.
func (t *Token) Value() any {
	return t.value
}

// Index returns ordinal number of the token in token stream, -1 for start of input.
func (t *Token) Index() int {
	return t.index
}

func (t *Token) Start() int {
	return t.start
}

func (t *Token) Stop() int {
	return t.stop
}

// PrevStop returns Stop of the previous token, i.e. the position where separators preceding this token begin.
func (t *Token) PrevStop() int {
	return t.prevStop
}

func (t *Token) Source() *source.Source {
	return t.source
}

func (t *Token) SourceName() string {
	if t.source == nil {
		return ""
	} else {
		return t.source.Name()
	}
}

func (t *Token) Line() int {
	return t.line
}

func (t *Token) Col() int {
	return t.col
}

func (t *Token) EndLine() int {
	return t.endLine
}

func (t *Token) EndCol() int {
	return t.endCol
}

// IsEoi reports whether t is end of input sentinel.
func (t *Token) IsEoi() bool {
	return t.name == EndOfInput
}

// String returns token name and text, used in diagnostics.
func (t *Token) String() string {
	if t.text == "" {
		return t.name
	}
	return t.name + " " + quote(t.text)
}

// NewToken creates a token spanning [start, stop) of s.
func NewToken(name, text string, value any, s *source.Source, index, start, stop, prevStop int) *Token {
	t := &Token{name: name, text: text, value: value, source: s, index: index, start: start, stop: stop, prevStop: prevStop}
	if s != nil {
		t.line, t.col = s.LineCol(start)
		t.endLine, t.endCol = s.LineCol(stop)
	} else {
		t.line, t.col, t.endLine, t.endCol = 1, 1, 1, 1
	}
	return t
}

// StartToken returns start of input sentinel for s.
func StartToken(s *source.Source) *Token {
	return NewToken(StartOfInput, "", nil, s, -1, 0, 0, 0)
}

// EoiToken returns end of input sentinel for s.
func EoiToken(s *source.Source, index, prevStop int) *Token {
	l := 0
	if s != nil {
		l = s.Len()
	}
	return NewToken(EndOfInput, "", nil, s, index, l, l, prevStop)
}
