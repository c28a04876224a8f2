package lexer

import (
	"github.com/ava12/rdx/source"
)

// cachedLexer tokenizes the whole input once and serves tokens by index.
// A lexical error is kept and returned only when parser reaches its position.
type cachedLexer struct {
	stream   *streamLexer
	start    *Token
	tokens   []*Token
	err      error
	pos      int
	furthest int
}

func newCachedLexer(stream *streamLexer) *cachedLexer {
	return &cachedLexer{stream: stream}
}

func (l *cachedLexer) Start(s *source.Source) error {
	l.stream.Start(s)
	l.start = l.stream.Current()
	l.tokens = l.tokens[:0]
	l.err = nil
	l.pos = -1
	l.furthest = -1

	prev := l.start
	for {
		t, e := l.stream.scan(prev)
		if e != nil {
			l.err = e
			break
		}

		l.tokens = append(l.tokens, t)
		if t.IsEoi() {
			break
		}
		prev = t
	}
	return nil
}

func (l *cachedLexer) Peek() (*Token, error) {
	i := l.pos + 1
	if i >= len(l.tokens) {
		if l.err != nil {
			return nil, l.err
		}
		i = len(l.tokens) - 1
	}

	if i > l.furthest {
		l.furthest = i
	}
	return l.tokens[i], nil
}

func (l *cachedLexer) Next() (*Token, error) {
	t, e := l.Peek()
	if e != nil {
		return nil, e
	}

	l.pos = t.index
	return t, nil
}

func (l *cachedLexer) Eat(name string) (*Token, error) {
	t, e := l.Peek()
	if e != nil {
		return nil, e
	}
	if t.name != name {
		return nil, ErrWrongToken
	}

	l.pos = t.index
	return t, nil
}

func (l *cachedLexer) Back(t *Token) {
	if t == nil {
		l.pos = -1
	} else {
		l.pos = t.index
	}
}

func (l *cachedLexer) Current() *Token {
	if l.pos < 0 {
		return l.start
	}
	return l.tokens[l.pos]
}

func (l *cachedLexer) Furthest() *Token {
	if l.furthest < 0 {
		return l.start
	}
	return l.tokens[l.furthest]
}

func (l *cachedLexer) Eof() bool {
	t, e := l.Peek()
	return e == nil && t.IsEoi()
}
