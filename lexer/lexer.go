// Package lexer defines tokens and lexer strategies.
//
// All strategies share the same contract: Start on a source, Eat a token of requested name
// at current position, Back to a previously returned token. Backtracking is just restoring
// the last consumed token, no other state needs to be saved by the parser.
package lexer

import (
	"strings"

	"github.com/ava12/rdx/source"
)

// Lexer is the contract shared by all strategies.
// A Lexer is not safe for concurrent use, each parse needs its own instance.
type Lexer interface {
	// Start discards all state and prepares lexer for the source.
	Start(s *source.Source) error

	// Eat consumes a token of given name at current position.
	// Returns ErrWrongToken and makes no changes if there is a token of another name.
	// Returns *rdx.Error if no token can be fetched at all.
	// EndOfInput may be eaten any number of times at the end of input.
	Eat(name string) (*Token, error)

	// Back resets position to the point right after t, nil means start of input.
	Back(t *Token)

	// Current returns the last consumed token, start of input sentinel if nothing is consumed.
	Current() *Token

	// Furthest returns the furthest token any Eat attempt has reached,
	// used to report syntax errors.
	Furthest() *Token

	// Eof reports whether current position is at the end of input.
	Eof() bool
}

// Tokenizer is a Lexer that can split input into tokens without parser guidance.
type Tokenizer interface {
	Lexer

	// Next consumes and returns the next token, whatever its name is.
	// Returns end of input sentinel repeatedly at the end of input.
	Next() (*Token, error)

	// Peek returns the next token without consuming it.
	Peek() (*Token, error)
}

// Strategy selects lexer implementation.
type Strategy int

const (
	// Combined joins all patterns into a single alternation, the earliest declared alternative wins.
	Combined Strategy = iota
	// Longest tries every pattern and selects the longest match, ties go to the earliest declared one.
	Longest
	// CachedCombined tokenizes the whole input with Combined strategy on Start.
	CachedCombined
	// CachedLongest tokenizes the whole input with Longest strategy on Start.
	CachedLongest
	// ContextSensitive matches only the pattern requested by parser.
	ContextSensitive
)

var strategyNames = []string{"combined", "longest", "cached", "cached-longest", "context"}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return "unknown"
	}
	return strategyNames[s]
}

// ParseStrategy converts strategy name to Strategy, empty name means Combined.
// Underscores are treated as hyphens.
func ParseStrategy(name string) (Strategy, error) {
	if name == "" {
		return Combined, nil
	}

	name = strings.ReplaceAll(strings.ToLower(name), "_", "-")
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return Combined, unknownStrategyError(name)
}

// New creates a lexer of given strategy for the set.
func New(st Strategy, set *Set) Lexer {
	switch st {
	case Longest:
		return newStreamLexer(set, longestMatcher{set})
	case CachedCombined:
		return newCachedLexer(newStreamLexer(set, combinedMatcher{set}))
	case CachedLongest:
		return newCachedLexer(newStreamLexer(set, longestMatcher{set}))
	case ContextSensitive:
		return newContextLexer(set)
	default:
		return newStreamLexer(set, combinedMatcher{set})
	}
}
