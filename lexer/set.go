package lexer

import (
	"strconv"
	"time"

	"github.com/dlclark/regexp2"
)

// Kind tells tokens from separators.
type Kind int

const (
	// TokenKind definitions produce tokens returned to parser.
	TokenKind Kind = iota
	// SeparatorKind definitions are matched and discarded.
	SeparatorKind
)

// Transform computes token value from matched text.
type Transform = func(text string) (any, error)

// Definition describes a token or a separator.
type Definition struct {
	Name      string
	Re        string
	Kind      Kind
	Transform Transform
}

// Flags are regular expression flags applied to every definition.
type Flags int

const (
	IgnoreCase Flags = 1 << iota
	Multiline
	DotAll
	Verbose
	// Locale has no regexp2 counterpart, it is kept for grammar compatibility.
	Locale
	Unicode
)

// Config contains settings shared by all definitions of a Set.
type Config struct {
	Flags Flags

	// WordBoundary wraps bare word literals (e.g. "if") in \b anchors.
	WordBoundary bool

	// MatchTimeout limits a single regexp match, zero means no limit.
	MatchTimeout time.Duration
}

func (c Config) options() regexp2.RegexOptions {
	opts := regexp2.None
	if c.Flags&IgnoreCase != 0 {
		opts |= regexp2.IgnoreCase
	}
	if c.Flags&Multiline != 0 {
		opts |= regexp2.Multiline
	}
	if c.Flags&DotAll != 0 {
		opts |= regexp2.Singleline
	}
	if c.Flags&Verbose != 0 {
		opts |= regexp2.IgnorePatternWhitespace
	}
	if c.Flags&Unicode != 0 {
		opts |= regexp2.Unicode
	}
	return opts
}

var wordRe = regexp2.MustCompile(`^\w+$`, regexp2.None)

// Pattern returns re with word boundary anchors added if c requires them.
func (c Config) Pattern(re string) string {
	if c.WordBoundary {
		isWord, _ := wordRe.MatchString(re)
		if isWord {
			return `\b` + re + `\b`
		}
	}
	return re
}

func (c Config) compile(pattern string) (*regexp2.Regexp, error) {
	tail := ")"
	if c.Flags&Verbose != 0 {
		tail = "\n)"
	}
	re, e := regexp2.Compile(`\G(?:`+pattern+tail, c.options())
	if e != nil {
		return nil, e
	}

	if c.MatchTimeout > 0 {
		re.MatchTimeout = c.MatchTimeout
	}
	return re, nil
}

// CheckPattern reports whether re compiles and does not match empty string.
// Returned error is *rdx.Error with WrongRegexpError or EmptyMatchError code.
func CheckPattern(name, re string, c Config) error {
	_, e := compileDefinition(Definition{Name: name, Re: re}, c)
	if e != nil {
		return e
	}
	return nil
}

type compiledDef struct {
	Definition
	pattern string
	group   string
	re      *regexp2.Regexp
}

func compileDefinition(d Definition, c Config) (compiledDef, error) {
	cd := compiledDef{Definition: d, pattern: c.Pattern(d.Re)}
	re, e := c.compile(cd.pattern)
	if e != nil {
		return cd, wrongRegexpError(d.Name, d.Re, e)
	}

	m, _ := re.FindRunesMatchStartingAt([]rune{}, 0)
	if m != nil {
		return cd, emptyMatchError(d.Name, d.Re)
	}

	cd.re = re
	return cd, nil
}

// Set is a compiled immutable list of definitions, safe for concurrent use.
// Definition order is significant: earlier definitions win ties.
type Set struct {
	defs     []compiledDef
	index    map[string]int
	seps     []int
	config   Config
	combined *regexp2.Regexp
}

// NewSet compiles definitions.
// Returns *rdx.Error if a name is defined twice or a regexp is malformed or matches empty string.
func NewSet(defs []Definition, c Config) (*Set, error) {
	s := &Set{
		defs:   make([]compiledDef, 0, len(defs)),
		index:  make(map[string]int, len(defs)),
		config: c,
	}

	alts := make([]byte, 0)
	tail := ")"
	if c.Flags&Verbose != 0 {
		tail = "\n)"
	}

	for i, d := range defs {
		_, has := s.index[d.Name]
		if has || d.Name == StartOfInput || d.Name == EndOfInput {
			return nil, duplicateNameError(d.Name)
		}

		cd, e := compileDefinition(d, c)
		if e != nil {
			return nil, e
		}

		cd.group = "rdxtok" + strconv.Itoa(i)
		s.index[d.Name] = i
		s.defs = append(s.defs, cd)
		if d.Kind == SeparatorKind {
			s.seps = append(s.seps, i)
		}

		if i > 0 {
			alts = append(alts, '|')
		}
		alts = append(alts, "(?<"+cd.group+">"+cd.pattern+tail...)
	}

	var e error
	s.combined, e = c.compile(string(alts))
	if e != nil {
		return nil, wrongRegexpError("combined lexer", string(alts), e)
	}

	return s, nil
}

// Len returns the number of definitions.
func (s *Set) Len() int {
	return len(s.defs)
}

// Definition returns i-th definition.
func (s *Set) Definition(i int) Definition {
	return s.defs[i].Definition
}

// Index returns definition index by name.
func (s *Set) Index(name string) (int, bool) {
	i, has := s.index[name]
	return i, has
}

func (s *Set) Config() Config {
	return s.config
}

// matchAt returns the length of i-th definition match at pos, 0 if there is no match.
func (s *Set) matchAt(i int, runes []rune, pos int) (int, error) {
	m, e := s.defs[i].re.FindRunesMatchStartingAt(runes, pos)
	if e != nil || m == nil || m.Index != pos {
		return 0, e
	}
	return m.Length, nil
}

type matcher interface {
	// match returns the index and length of matched definition, -1 if none matched.
	match(runes []rune, pos int) (int, int, error)
}

type combinedMatcher struct {
	set *Set
}

func (cm combinedMatcher) match(runes []rune, pos int) (int, int, error) {
	m, e := cm.set.combined.FindRunesMatchStartingAt(runes, pos)
	if e != nil || m == nil || m.Index != pos || m.Length == 0 {
		return -1, 0, e
	}

	for i, d := range cm.set.defs {
		g := m.GroupByName(d.group)
		if g != nil && len(g.Captures) > 0 {
			return i, m.Length, nil
		}
	}
	return -1, 0, nil
}

type longestMatcher struct {
	set *Set
}

func (lm longestMatcher) match(runes []rune, pos int) (int, int, error) {
	best, size := -1, 0
	for i := range lm.set.defs {
		n, e := lm.set.matchAt(i, runes, pos)
		if e != nil {
			return -1, 0, e
		}

		if n > size {
			best, size = i, n
		}
	}
	return best, size, nil
}
