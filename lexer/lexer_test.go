package lexer

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/rdx/internal/test"
	"github.com/ava12/rdx/source"
)

var tokenizing = []Strategy{Combined, Longest, CachedCombined, CachedLongest}

func sampleDefs() []Definition {
	return []Definition{
		{Name: "space", Re: `\s+`, Kind: SeparatorKind},
		{Name: "comment", Re: `#[^\n]*`, Kind: SeparatorKind},
		{Name: "if", Re: `if`},
		{Name: "number", Re: `\d+`, Transform: func(text string) (any, error) {
			return strconv.Atoi(text)
		}},
		{Name: "name", Re: `[a-z_][a-z0-9_]*`},
		{Name: "string", Re: `'.*?'`},
		{Name: "op", Re: `[-+*/=<>]+`},
	}
}

func newSet(t *testing.T, defs []Definition, c Config) *Set {
	s, e := NewSet(defs, c)
	require.NoError(t, e)
	return s
}

func start(t *testing.T, st Strategy, set *Set, text string) Lexer {
	l := New(st, set)
	require.NoError(t, l.Start(source.New("src", text)))
	return l
}

type pair struct {
	name, text string
}

func tokenize(t *testing.T, st Strategy, set *Set, text string) []pair {
	l := start(t, st, set, text).(Tokenizer)
	var res []pair
	for {
		tok, e := l.Next()
		require.NoError(t, e, "strategy %s", st)
		if tok.IsEoi() {
			return res
		}
		res = append(res, pair{tok.Name(), tok.Text()})
	}
}

func TestEmpty(t *testing.T) {
	set := newSet(t, sampleDefs(), Config{WordBoundary: true})
	sources := []string{"", " ", "  ", " \t\r\n ", "# comment only"}
	for _, st := range tokenizing {
		for _, src := range sources {
			l := start(t, st, set, src).(Tokenizer)
			for i := 0; i < 3; i++ {
				tok, e := l.Next()
				require.NoError(t, e, "strategy %s, source %q", st, src)
				assert.Equal(t, EndOfInput, tok.Name(), "strategy %s, source %q", st, src)
				assert.Equal(t, len([]rune(src)), tok.Start())
			}
			assert.True(t, l.Eof())
		}
	}
}

func TestContextEndOfInput(t *testing.T) {
	set := newSet(t, sampleDefs(), Config{})
	l := start(t, ContextSensitive, set, " 12 ")
	_, e := l.Eat(EndOfInput)
	assert.Equal(t, ErrWrongToken, e)
	_, e = l.Eat("number")
	require.NoError(t, e)
	assert.True(t, l.Eof())
	for i := 0; i < 3; i++ {
		tok, e := l.Eat(EndOfInput)
		require.NoError(t, e)
		assert.True(t, tok.IsEoi())
	}
}

func TestTokenSamples(t *testing.T) {
	set := newSet(t, sampleDefs(), Config{WordBoundary: true})
	expected := []pair{
		{"if", "if"}, {"name", "iffy"}, {"op", "<="}, {"number", "123"},
		{"name", "foo"}, {"string", "'bar baz'"}, {"name", "if_"},
	}
	for _, st := range tokenizing {
		got := tokenize(t, st, set, "if iffy <= 123 # skipped\n foo 'bar baz' if_")
		assert.Equal(t, expected, got, "strategy %s", st)
	}
}

func TestTokenValue(t *testing.T) {
	set := newSet(t, sampleDefs(), Config{})
	for _, st := range append(tokenizing, ContextSensitive) {
		l := start(t, st, set, " 42 x")
		tok, e := l.Eat("number")
		require.NoError(t, e)
		assert.Equal(t, 42, tok.Value())
		tok, e = l.Eat("name")
		require.NoError(t, e)
		assert.Equal(t, "x", tok.Value())
	}
}

func TestCombinedVsLongest(t *testing.T) {
	defs := []Definition{
		{Name: "a", Re: "a"},
		{Name: "ab", Re: "ab"},
		{Name: "b", Re: "b"},
	}
	set := newSet(t, defs, Config{})
	assert.Equal(t, []pair{{"a", "a"}, {"b", "b"}}, tokenize(t, Combined, set, "ab"))
	assert.Equal(t, []pair{{"ab", "ab"}}, tokenize(t, Longest, set, "ab"))
	assert.Equal(t, []pair{{"ab", "ab"}}, tokenize(t, CachedLongest, set, "ab"))

	defs = []Definition{
		{Name: "first", Re: "[a-z]+"},
		{Name: "second", Re: "[a-z]+"},
	}
	set = newSet(t, defs, Config{})
	assert.Equal(t, []pair{{"first", "abc"}}, tokenize(t, Longest, set, "abc"))
}

func TestWordBoundary(t *testing.T) {
	defs := []Definition{
		{Name: "if", Re: "if"},
		{Name: "name", Re: `[a-z]+`},
	}
	set := newSet(t, defs, Config{WordBoundary: true})
	assert.Equal(t, []pair{{"name", "ifx"}}, tokenize(t, Combined, set, "ifx"))

	set = newSet(t, defs, Config{})
	assert.Equal(t, []pair{{"if", "if"}, {"name", "x"}}, tokenize(t, Combined, set, "ifx"))

	assert.Equal(t, `\bif\b`, Config{WordBoundary: true}.Pattern("if"))
	assert.Equal(t, `if+`, Config{WordBoundary: true}.Pattern("if+"))
}

func TestFlags(t *testing.T) {
	defs := []Definition{
		{Name: "kw", Re: "select"},
		{Name: "space", Re: `\s+`, Kind: SeparatorKind},
	}
	set := newSet(t, defs, Config{Flags: IgnoreCase})
	assert.Equal(t, []pair{{"kw", "SELECT"}, {"kw", "Select"}}, tokenize(t, Combined, set, "SELECT Select"))

	defs = []Definition{{Name: "num", Re: `\d+ # digits`}}
	set = newSet(t, defs, Config{Flags: Verbose})
	assert.Equal(t, []pair{{"num", "123"}}, tokenize(t, Combined, set, "123"))
	assert.Equal(t, []pair{{"num", "123"}}, tokenize(t, Longest, set, "123"))

	assert.Equal(t, Config{}.options(), Config{Flags: Locale}.options())
	assert.Equal(t, Config{Flags: IgnoreCase}.options(), Config{Flags: IgnoreCase | Locale}.options())
}

func TestStrategyEquivalence(t *testing.T) {
	set := newSet(t, sampleDefs(), Config{WordBoundary: true})
	inputs := []string{
		"a = b + 1",
		"if x <= 10 'then' # tail",
		"\n\n  foo_bar   'baz'\n123",
	}
	for _, input := range inputs {
		expected := tokenize(t, Combined, set, input)
		for _, st := range tokenizing[1:] {
			assert.Equal(t, expected, tokenize(t, st, set, input), "strategy %s, input %q", st, input)
		}

		cl := start(t, ContextSensitive, set, input)
		for _, p := range expected {
			tok, e := cl.Eat(p.name)
			require.NoError(t, e, "context lexer, input %q, token %v", input, p)
			assert.Equal(t, p.text, tok.Text())
		}
		assert.True(t, cl.Eof())
	}
}

func TestBack(t *testing.T) {
	set := newSet(t, sampleDefs(), Config{})
	for _, st := range append(tokenizing, ContextSensitive) {
		l := start(t, st, set, "foo = 12")
		assert.Equal(t, StartOfInput, l.Current().Name())

		foo, e := l.Eat("name")
		require.NoError(t, e)
		_, e = l.Eat("number")
		assert.Equal(t, ErrWrongToken, e, "strategy %s", st)
		_, e = l.Eat("op")
		require.NoError(t, e)
		num, e := l.Eat("number")
		require.NoError(t, e)
		assert.Equal(t, "12", num.Text())

		l.Back(foo)
		assert.Equal(t, foo, l.Current())
		op, e := l.Eat("op")
		require.NoError(t, e, "strategy %s", st)
		assert.Equal(t, "=", op.Text())

		l.Back(nil)
		tok, e := l.Eat("name")
		require.NoError(t, e)
		assert.Equal(t, 0, tok.Start())
		assert.Equal(t, 3, tok.Stop())
		assert.Equal(t, 0, tok.Index())
	}
}

func TestErrorPos(t *testing.T) {
	set := newSet(t, sampleDefs(), Config{})
	for _, st := range tokenizing {
		l := start(t, st, set, "foo\n  bar $baz").(Tokenizer)
		_, e := l.Next()
		require.NoError(t, e)
		_, e = l.Next()
		require.NoError(t, e)
		_, e = l.Next()
		test.ExpectErrorPos(t, WrongCharError, 2, 7, e)
		assert.Contains(t, e.Error(), `"$baz"`)
	}
}

func TestCachedDeferredError(t *testing.T) {
	set := newSet(t, sampleDefs(), Config{})
	l := New(CachedCombined, set)
	require.NoError(t, l.Start(source.New("", "foo ?")))
	_, e := l.Eat("name")
	require.NoError(t, e)
	_, e = l.Eat("name")
	test.ExpectErrorCode(t, WrongCharError, e)
}

func TestFurthest(t *testing.T) {
	set := newSet(t, sampleDefs(), Config{})
	for _, st := range append(tokenizing, ContextSensitive) {
		l := start(t, st, set, "a b c")
		_, e := l.Eat("name")
		require.NoError(t, e)
		_, e = l.Eat("name")
		require.NoError(t, e)
		_, e = l.Eat("number")
		assert.Equal(t, ErrWrongToken, e)
		l.Back(nil)

		f := l.Furthest()
		assert.Equal(t, 4, f.Start(), "strategy %s", st)
		assert.Equal(t, "c", f.Text()[:1], "strategy %s", st)
		assert.Equal(t, 1, f.Line())
		assert.Equal(t, 5, f.Col())
	}
}

func TestContextSensitive(t *testing.T) {
	defs := []Definition{
		{Name: "space", Re: `\s+`, Kind: SeparatorKind},
		{Name: "kw", Re: `let`},
		{Name: "name", Re: `[a-z]+`},
	}
	set := newSet(t, defs, Config{})
	l := start(t, ContextSensitive, set, "letter let")
	tok, e := l.Eat("name")
	require.NoError(t, e)
	assert.Equal(t, "letter", tok.Text())
	tok, e = l.Eat("kw")
	require.NoError(t, e)
	assert.Equal(t, "let", tok.Text())
	assert.Equal(t, 0, tok.PrevStop()-6)

	l.Back(nil)
	tok, e = l.Eat("kw")
	require.NoError(t, e)
	assert.Equal(t, "let", tok.Text())

	_, e = l.Eat("space")
	assert.Equal(t, ErrWrongToken, e)
	_, e = l.Eat("unknown")
	assert.Equal(t, ErrWrongToken, e)
}

func TestContextBackError(t *testing.T) {
	calls := 0
	defs := []Definition{
		{Name: "space", Re: `\s+`, Kind: SeparatorKind, Transform: func(text string) (any, error) {
			calls++
			if calls > 1 {
				return nil, errors.New("no more spaces")
			}
			return text, nil
		}},
		{Name: "name", Re: `[a-z]+`},
	}
	set := newSet(t, defs, Config{})
	l := start(t, ContextSensitive, set, " a")
	tok, e := l.Eat("name")
	require.NoError(t, e)
	assert.Equal(t, "a", tok.Text())

	l.Back(nil)
	assert.False(t, l.Eof())
	_, e = l.Eat("name")
	test.ExpectErrorCode(t, TransformError, e)
	_, e = l.Eat(EndOfInput)
	test.ExpectErrorCode(t, TransformError, e)
}

func TestSetErrors(t *testing.T) {
	_, e := NewSet([]Definition{{Name: "a", Re: "a"}, {Name: "a", Re: "b", Kind: SeparatorKind}}, Config{})
	test.ExpectErrorCode(t, DuplicateNameError, e)

	_, e = NewSet([]Definition{{Name: "a", Re: "(a"}}, Config{})
	test.ExpectErrorCode(t, WrongRegexpError, e)

	_, e = NewSet([]Definition{{Name: "a", Re: "a*"}}, Config{})
	test.ExpectErrorCode(t, EmptyMatchError, e)

	test.ExpectErrorCode(t, WrongRegexpError, CheckPattern("x", "[a-", Config{}))
	assert.NoError(t, CheckPattern("x", "[a-z]", Config{}))
}

func TestParseStrategy(t *testing.T) {
	samples := map[string]Strategy{
		"":               Combined,
		"combined":       Combined,
		"longest":        Longest,
		"cached":         CachedCombined,
		"cached_longest": CachedLongest,
		"Context":        ContextSensitive,
	}
	for name, expected := range samples {
		st, e := ParseStrategy(name)
		require.NoError(t, e)
		assert.Equal(t, expected, st)
	}

	_, e := ParseStrategy("lalr")
	test.ExpectErrorCode(t, UnknownStrategyError, e)
	assert.Equal(t, "cached-longest", CachedLongest.String())
}
