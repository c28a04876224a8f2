package lexer

import (
	"github.com/ava12/rdx/source"
)

// streamLexer fetches tokens on demand and forgets them after backtracking.
type streamLexer struct {
	set      *Set
	matcher  matcher
	src      *source.Source
	last     *Token
	ahead    *Token
	furthest *Token
}

func newStreamLexer(set *Set, m matcher) *streamLexer {
	return &streamLexer{set: set, matcher: m}
}

func (l *streamLexer) Start(s *source.Source) error {
	l.src = s
	l.last = StartToken(s)
	l.ahead = nil
	l.furthest = l.last
	return nil
}

// scan fetches the token following prev, skipping separators.
func (l *streamLexer) scan(prev *Token) (*Token, error) {
	runes := l.src.Runes()
	pos := prev.stop
	for {
		if pos >= len(runes) {
			return EoiToken(l.src, prev.index+1, prev.stop), nil
		}

		i, size, e := l.matcher.match(runes, pos)
		if e != nil {
			return nil, timeoutError(l.src, pos, e)
		}
		if i < 0 {
			return nil, wrongCharError(l.src, pos)
		}

		d := l.set.defs[i]
		text := string(runes[pos : pos+size])
		var value any = text
		if d.Transform != nil {
			value, e = d.Transform(text)
			if e != nil {
				return nil, transformError(l.src, pos, d.Name, e)
			}
		}

		if d.Kind == TokenKind {
			return NewToken(d.Name, text, value, l.src, prev.index+1, pos, pos+size, prev.stop), nil
		}

		pos += size
	}
}

func (l *streamLexer) reach(t *Token) {
	if t.start > l.furthest.start || l.furthest.index < 0 {
		l.furthest = t
	}
}

func (l *streamLexer) Peek() (*Token, error) {
	if l.ahead == nil {
		t, e := l.scan(l.last)
		if e != nil {
			return nil, e
		}

		l.ahead = t
		l.reach(t)
	}
	return l.ahead, nil
}

func (l *streamLexer) Next() (*Token, error) {
	t, e := l.Peek()
	if e != nil {
		return nil, e
	}

	l.last = t
	l.ahead = nil
	return t, nil
}

func (l *streamLexer) Eat(name string) (*Token, error) {
	t, e := l.Peek()
	if e != nil {
		return nil, e
	}
	if t.name != name {
		return nil, ErrWrongToken
	}

	l.last = t
	l.ahead = nil
	return t, nil
}

func (l *streamLexer) Back(t *Token) {
	if t == nil {
		t = StartToken(l.src)
	}
	if t != l.last {
		l.last = t
		l.ahead = nil
	}
}

func (l *streamLexer) Current() *Token {
	return l.last
}

func (l *streamLexer) Furthest() *Token {
	return l.furthest
}

func (l *streamLexer) Eof() bool {
	t, e := l.Peek()
	return e == nil && t.IsEoi()
}
