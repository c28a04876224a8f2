package lexer

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ava12/rdx"
	"github.com/ava12/rdx/source"
)

// ErrWrongToken is the backtracking signal: requested token cannot be fetched at current position.
// It is compared by identity and never wrapped.
var ErrWrongToken = errors.New("wrong token")

// Error codes used by lexer:
const (
	// WrongCharError indicates that lexer cannot fetch any token or separator at current position.
	// Error message contains the rune at current source position and some text following it.
	WrongCharError = rdx.LexicalErrors + iota

	// TimeoutError indicates that regular expression match exceeded configured timeout.
	TimeoutError

	// TransformError indicates that token value transform has failed.
	TransformError

	// DuplicateNameError indicates that token or separator name is defined more than once.
	DuplicateNameError

	// WrongRegexpError indicates malformed regular expression.
	WrongRegexpError

	// EmptyMatchError indicates regular expression matching empty string.
	EmptyMatchError

	// UnknownStrategyError indicates unknown lexer strategy name.
	UnknownStrategyError
)

const snippetSize = 10

func quote(text string) string {
	return strconv.Quote(text)
}

func wrongCharError(s *source.Source, pos int) *rdx.Error {
	r := s.Runes()[pos]
	msg := fmt.Sprintf("wrong char %q (u+%x) near %q", r, r, s.Snippet(pos, snippetSize))
	return rdx.FormatErrorPos(s.NewPos(pos), WrongCharError, msg)
}

func timeoutError(s *source.Source, pos int, e error) *rdx.Error {
	return rdx.FormatErrorPos(s.NewPos(pos), TimeoutError, "regexp match failed (%s)", e.Error())
}

func transformError(s *source.Source, pos int, name string, e error) *rdx.Error {
	return rdx.FormatErrorPos(s.NewPos(pos), TransformError, "cannot compute value of %s (%s)", name, e.Error())
}

func duplicateNameError(name string) *rdx.Error {
	return rdx.FormatError(DuplicateNameError, "token %q already defined", name)
}

func wrongRegexpError(name, re string, e error) *rdx.Error {
	return rdx.FormatError(WrongRegexpError, "incorrect regexp %q for %s (%s)", re, name, e.Error())
}

func emptyMatchError(name, re string) *rdx.Error {
	return rdx.FormatError(EmptyMatchError, "regexp %q for %s matches empty string", re, name)
}

func unknownStrategyError(name string) *rdx.Error {
	return rdx.FormatError(UnknownStrategyError, "unknown lexer strategy %q", name)
}
