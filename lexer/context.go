package lexer

import (
	"github.com/ava12/rdx/source"
)

// contextLexer does not tokenize ahead, parser asks for a specific token at current position.
// Separators are skipped right after each token (and at the start of input).
type contextLexer struct {
	set      *Set
	src      *source.Source
	start    *Token
	last     *Token
	pos      int
	furthest int
	err      error
}

func newContextLexer(set *Set) *contextLexer {
	return &contextLexer{set: set}
}

func (l *contextLexer) Start(s *source.Source) error {
	l.src = s
	l.start = StartToken(s)
	l.last = l.start
	l.err = nil
	var e error
	l.pos, e = l.skip(0)
	l.furthest = l.pos
	return e
}

func (l *contextLexer) skip(pos int) (int, error) {
	runes := l.src.Runes()
	for pos < len(runes) {
		best, size := -1, 0
		for _, i := range l.set.seps {
			n, e := l.set.matchAt(i, runes, pos)
			if e != nil {
				return pos, timeoutError(l.src, pos, e)
			}

			if n > size {
				best, size = i, n
			}
		}
		if best < 0 {
			break
		}

		d := l.set.defs[best]
		if d.Transform != nil {
			_, e := d.Transform(string(runes[pos : pos+size]))
			if e != nil {
				return pos, transformError(l.src, pos, d.Name, e)
			}
		}
		pos += size
	}
	return pos, nil
}

func (l *contextLexer) Eat(name string) (*Token, error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.pos > l.furthest {
		l.furthest = l.pos
	}

	runes := l.src.Runes()
	if name == EndOfInput {
		if l.pos < len(runes) {
			return nil, ErrWrongToken
		}

		if !l.last.IsEoi() {
			l.last = EoiToken(l.src, l.last.index+1, l.last.stop)
		}
		return l.last, nil
	}

	i, has := l.set.index[name]
	if !has || l.set.defs[i].Kind != TokenKind || l.pos >= len(runes) {
		return nil, ErrWrongToken
	}

	size, e := l.set.matchAt(i, runes, l.pos)
	if e != nil {
		return nil, timeoutError(l.src, l.pos, e)
	}
	if size == 0 {
		return nil, ErrWrongToken
	}

	text := string(runes[l.pos : l.pos+size])
	var value any = text
	if tr := l.set.defs[i].Transform; tr != nil {
		value, e = tr(text)
		if e != nil {
			return nil, transformError(l.src, l.pos, name, e)
		}
	}

	t := NewToken(name, text, value, l.src, l.last.index+1, l.pos, l.pos+size, l.last.stop)
	next, e := l.skip(t.stop)
	if e != nil {
		return nil, e
	}

	l.last = t
	l.pos = next
	return t, nil
}

func (l *contextLexer) Back(t *Token) {
	if t == nil {
		t = l.start
	}
	if t == l.last {
		return
	}

	l.last = t
	l.pos, l.err = l.skip(t.stop)
}

func (l *contextLexer) Current() *Token {
	return l.last
}

// Furthest returns a pseudo token with no name containing a few runes at the furthest position reached.
func (l *contextLexer) Furthest() *Token {
	if l.furthest >= l.src.Len() {
		return EoiToken(l.src, -1, l.furthest)
	}

	text := l.src.Snippet(l.furthest, snippetSize)
	return NewToken("", text, text, l.src, -1, l.furthest, l.furthest+len([]rune(text)), l.furthest)
}

func (l *contextLexer) Eof() bool {
	return l.err == nil && l.pos >= l.src.Len()
}
