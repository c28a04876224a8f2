// Package source defines source text used by lexers.
// All positions are rune offsets, lines and columns are 1-based.
package source

import "strings"

// Source is an immutable named text, safe for concurrent use.
type Source struct {
	name       string
	text       string
	runes      []rune
	lineStarts []int
}

// New creates new Source.
func New(name, text string) *Source {
	s := &Source{name: name, text: text, runes: []rune(text)}
	lineCnt := strings.Count(text, "\n") + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(s.runes) && j < lineCnt; i++ {
		if s.runes[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}

	return s
}

// Name returns source name, may be empty.
func (s *Source) Name() string {
	return s.name
}

// Text returns source text.
func (s *Source) Text() string {
	return s.text
}

// Runes returns source text as rune slice; must not be modified.
func (s *Source) Runes() []rune {
	return s.runes
}

// Len returns text length in runes.
func (s *Source) Len() int {
	return len(s.runes)
}

// Slice returns text between two rune offsets, offsets are clamped to text bounds.
func (s *Source) Slice(from, to int) string {
	from = s.clamp(from)
	to = s.clamp(to)
	if from >= to {
		return ""
	}

	return string(s.runes[from:to])
}

// Snippet returns up to size runes starting at pos.
func (s *Source) Snippet(pos, size int) string {
	return s.Slice(pos, pos+size)
}

func (s *Source) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(s.runes) {
		return len(s.runes)
	}
	return pos
}

// LineCol converts rune offset to line and column numbers.
func (s *Source) LineCol(pos int) (line, col int) {
	pos = s.clamp(pos)
	lineIndex := s.findLineIndex(pos)
	return lineIndex + 1, pos - s.lineStarts[lineIndex] + 1
}

// Pos converts line and column numbers to rune offset, clamped to text bounds.
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.runes)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1] + col - 1
	if res > l {
		return l
	} else {
		return res
	}
}

// NewPos returns Pos for rune offset.
func (s *Source) NewPos(pos int) Pos {
	pos = s.clamp(pos)
	line, col := s.LineCol(pos)
	return Pos{s, pos, line, col}
}

func (s *Source) findLineIndex(pos int) int {
	leftIndex := 0
	rightIndex := len(s.lineStarts) - 1
	for leftIndex < rightIndex {
		index := (leftIndex + rightIndex + 1) >> 1
		lineStart := s.lineStarts[index]
		if lineStart == pos {
			return index
		}

		if lineStart < pos {
			leftIndex = index
		} else {
			rightIndex = index - 1
		}
	}
	return leftIndex
}

// Pos is a position in source text.
type Pos struct {
	src            *Source
	pos, line, col int
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}

func (p Pos) Pos() int {
	return p.pos
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}
