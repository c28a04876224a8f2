package parser

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/rdx"
	"github.com/ava12/rdx/grammar"
	"github.com/ava12/rdx/internal/test"
	"github.com/ava12/rdx/lexer"
	"github.com/ava12/rdx/source"
)

func sourceOf(text string) *source.Source {
	return source.New("", text)
}

var tokenizingStrategies = []lexer.Strategy{lexer.Combined, lexer.Longest, lexer.CachedCombined, lexer.CachedLongest}

var allStrategies = append(tokenizingStrategies, lexer.ContextSensitive)

func compile(t *testing.T, description string, opts ...Option) *Parser {
	t.Helper()
	p, e := Compile("test", description, opts...)
	require.NoError(t, e)
	return p
}

type valueSample struct {
	src      string
	expected any
}

func checkValues(t *testing.T, description string, samples []valueSample) {
	t.Helper()
	for _, st := range allStrategies {
		p := compile(t, description, WithLexer(st))
		for _, s := range samples {
			v, e := p.ParseDefault(s.src)
			require.NoError(t, e, "strategy %s, input %q", st, s.src)
			assert.Equal(t, s.expected, v, "strategy %s, input %q", st, s.src)
		}
	}
}

type errorSample struct {
	src       string
	code      int
	line, col int
}

func checkErrors(t *testing.T, description string, strategies []lexer.Strategy, samples []errorSample) {
	t.Helper()
	for _, st := range strategies {
		p := compile(t, description, WithLexer(st))
		for _, s := range samples {
			_, e := p.ParseDefault(s.src)
			if s.line == 0 {
				test.ExpectErrorCode(t, s.code, e)
			} else {
				test.ExpectErrorPos(t, s.code, s.line, s.col, e)
			}
		}
	}
}

const sumGrammar = `
separator WS: "\s+";
token NUM: "[0-9]+" toInt;
token PLUS: "\+";
START / {{s}} -> NUM/s (PLUS NUM/x {{s = s + x}})* ;
`

func TestSum(t *testing.T) {
	checkValues(t, sumGrammar, []valueSample{
		{"3 + 4 + 5", 12},
		{"7", 7},
		{"  1+2 ", 3},
	})
}

func TestOrderedChoice(t *testing.T) {
	description := `
START -> item ;
item -> "a" | "ab" ;
`
	checkValues(t, description, []valueSample{
		{"ab", "ab"},
		{"a", "a"},
	})

	noBoundary := "set word_boundary = false;\n" + description
	for _, st := range []lexer.Strategy{lexer.Longest, lexer.CachedLongest, lexer.ContextSensitive} {
		p := compile(t, noBoundary, WithLexer(st))
		for _, src := range []string{"ab", "a"} {
			v, e := p.ParseDefault(src)
			require.NoError(t, e, "strategy %s, input %q", st, src)
			assert.Equal(t, src, v, "strategy %s", st)
		}
	}

	for _, st := range []lexer.Strategy{lexer.Combined, lexer.CachedCombined} {
		p := compile(t, noBoundary, WithLexer(st))
		_, e := p.ParseDefault("ab")
		test.ExpectErrorPos(t, lexer.WrongCharError, 1, 2, e)
	}
}

func TestReentry(t *testing.T) {
	description := `
separator WS: "\s+";
token A: "a";
token B: "b";
START / {{i}} -> item/i B ;
item -> A {{"short"}} | A B {{"long"}} ;
`
	checkValues(t, description, []valueSample{
		{"a b", "short"},
		{"a b b", "long"},
	})
	checkErrors(t, description, allStrategies, []errorSample{
		{"a b b b", SyntaxError, 1, 7},
		{"a", SyntaxError, 1, 2},
	})
}

func TestRepeatGivesBack(t *testing.T) {
	description := `
separator WS: "\s+";
START / {{[len(xs), len(ys)]}} -> "x"*/xs "x" "y"{1,3}/ys "y" ;
`
	checkValues(t, description, []valueSample{
		{"x x x y y", []any{2, 1}},
		{"x y y y y", []any{0, 3}},
		{"x y y", []any{0, 1}},
	})
	checkErrors(t, description, allStrategies, []errorSample{
		{"x y", SyntaxError, 1, 4},
		{"y y", SyntaxError, 1, 1},
	})
}

func TestReentryVariables(t *testing.T) {
	description := `
separator WS: "\s+";
START / {{[a, b]}} -> ("x"/a "y" | "x" "y" "z"/b) ";" ;
`
	checkValues(t, description, []valueSample{
		{"x y ;", []any{"x", nil}},
		{"x y z ;", []any{nil, "z"}},
	})
}

func TestRepeatBounds(t *testing.T) {
	description := `
separator WS: "\s+";
START / {{len(xs)}} -> "x"{2,4}/xs "y" ;
`
	checkValues(t, description, []valueSample{
		{"x x x y", 3},
		{"x x y", 2},
		{"x x x x y", 4},
	})
	checkErrors(t, description, allStrategies, []errorSample{
		{"x y", SyntaxError, 1, 3},
		{"x x x x x y", SyntaxError, 1, 9},
	})
}

func TestRepeatValues(t *testing.T) {
	description := `
separator WS: "\s+";
token NAME: "[a-z]+";
START / {{[first, rest, opt]}} -> NAME/first ("," NAME)*/rest ";"?/opt ;
`
	checkValues(t, description, []valueSample{
		{"a, b, c;", []any{"a", []any{"b", "c"}, ";"}},
		{"a", []any{"a", []any{}, nil}},
	})
}

func accept(v any) (any, error) {
	return v, nil
}

const backtrackGrammar = `
separator WS: "\s+";
START -> long | short ;
long -> @m0 "x" "y" "z" @m1 {{"long " + extract(m0, m1)}} ;
short -> @m0 "x" "y" "w" @m1 {{"short " + extract(m0, m1)}} ;
`

func TestBacktracking(t *testing.T) {
	checkValues(t, backtrackGrammar, []valueSample{
		{"x y z", "long x y z"},
		{"x y w", "short x y w"},
		{" x  y w ", "short x  y w"},
	})

	p := compile(t, backtrackGrammar)
	pc, e := newParseContext(context.Background(), p, sourceOf("x y w"))
	require.NoError(t, e)
	_, e = pc.call(p.rules["START"], nil, accept)
	require.NoError(t, e)
	afterChoice := pc.lex.Current()

	pc, e = newParseContext(context.Background(), p, sourceOf("x y w"))
	require.NoError(t, e)
	_, e = pc.call(p.rules["short"], nil, accept)
	require.NoError(t, e)
	afterShort := pc.lex.Current()

	assert.Equal(t, afterShort.Stop(), afterChoice.Stop())
	assert.Equal(t, afterShort.Index(), afterChoice.Index())
	assert.Equal(t, "w", afterChoice.Text())
}

func TestSyntaxErrors(t *testing.T) {
	checkErrors(t, backtrackGrammar, allStrategies, []errorSample{
		{"x z w", SyntaxError, 1, 3},
		{"x y", SyntaxError, 1, 4},
		{"x y z z", SyntaxError, 1, 7},
		{"", SyntaxError, 1, 1},
	})

	p := compile(t, backtrackGrammar)
	_, e := p.ParseDefault("x y x")
	assert.Equal(t, `syntax error near "x" at line 1 col 5`, e.Error())
	_, e = p.ParseDefault("x y")
	assert.Equal(t, "unexpected end of input at line 1 col 4", e.Error())
}

func TestLexicalErrors(t *testing.T) {
	checkErrors(t, backtrackGrammar, tokenizingStrategies, []errorSample{
		{"x y ?", lexer.WrongCharError, 1, 5},
		{"x\n ! y w", lexer.WrongCharError, 2, 2},
	})
}

func TestCheck(t *testing.T) {
	description := `
separator WS: "\s+";
token NUM: "[0-9]+" toInt;
START -> NUM/n check {{n > 5}} {{"big"}} | NUM/n {{check(n > 2)}} {{"medium"}} | NUM {{"small"}} ;
`
	checkValues(t, description, []valueSample{
		{"7", "big"},
		{"3", "medium"},
		{"1", "small"},
	})
}

func TestRaise(t *testing.T) {
	description := `
separator WS: "\s+";
START -> ("x" error "boom") | "x" | "y" {{fail("bad " + "y")}} ;
`
	for _, st := range allStrategies {
		p := compile(t, description, WithLexer(st))
		_, e := p.ParseDefault("x")
		ee := test.ExpectErrorCode(t, RaisedError, e)
		assert.Equal(t, "boom", ee.Message)
		assert.Equal(t, rdx.SemanticErrors, ee.Class())

		_, e = p.ParseDefault("y")
		ee = test.ExpectErrorCode(t, RaisedError, e)
		assert.Equal(t, "bad y", ee.Message)
	}
}

func TestActionError(t *testing.T) {
	p := compile(t, `START -> "x" {{extract("a", "b")}} ;`)
	_, e := p.ParseDefault("x")
	test.ExpectErrorCode(t, ActionError, e)
}

const paramGrammar = `
separator WS: "\s+";
START -> greet<"Bob", 2> ;
greet<name: string, times: int = 1> / {{name + toString(times)}} -> "hi" ;
`

func TestParams(t *testing.T) {
	p := compile(t, paramGrammar)

	v, e := p.ParseDefault("hi")
	require.NoError(t, e)
	assert.Equal(t, "Bob2", v)

	v, e = p.Parse("greet", "hi", "Al")
	require.NoError(t, e)
	assert.Equal(t, "Al1", v)

	v, e = p.Parse("greet", "hi", "Al", "3")
	require.NoError(t, e)
	assert.Equal(t, "Al3", v)

	_, e = p.Parse("greet", "hi", "Al", 1, 2)
	test.ExpectErrorCode(t, ArgNumberError, e)

	_, e = p.Parse("greet", "hi", "Al", "many")
	test.ExpectErrorCode(t, ArgTypeError, e)

	_, e = p.Parse("nothing", "hi")
	test.ExpectErrorCode(t, UnknownRuleError, e)
}

func TestPosition(t *testing.T) {
	description := `
separator WS: "\s+";
START / {{[line(), row()]}} -> "a" "b" ;
`
	checkValues(t, description, []valueSample{
		{"a\n b", []any{2, 3}},
		{"a b  ", []any{1, 4}},
	})
}

func TestTokenize(t *testing.T) {
	for _, st := range tokenizingStrategies {
		p := compile(t, sumGrammar, WithLexer(st))
		tokens, e := p.Tokenize("3 + 4")
		require.NoError(t, e)
		require.Len(t, tokens, 3)
		assert.Equal(t, "NUM", tokens[0].Name())
		assert.Equal(t, 3, tokens[0].Value())
		assert.Equal(t, "PLUS", tokens[1].Name())
		assert.Equal(t, "4", tokens[2].Text())
	}

	p := compile(t, sumGrammar, WithLexer(lexer.ContextSensitive))
	_, e := p.Tokenize("3 + 4")
	test.ExpectErrorCode(t, UnsupportedError, e)
}

func TestCancel(t *testing.T) {
	p := compile(t, sumGrammar)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, e := p.ParseContext(ctx, "START", "1 + 2")
	test.ExpectErrorCode(t, CanceledError, e)
}

func TestTrace(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	p := compile(t, backtrackGrammar, WithTrace(log, 1))

	_, e := p.ParseDefault("x y w")
	require.NoError(t, e)

	var eats, matched int
	for _, entry := range hook.AllEntries() {
		if entry.Message != "eat" {
			continue
		}

		eats++
		assert.Equal(t, eats, entry.Data["eats"])
		if entry.Data["matched"] == true {
			matched++
		}
		assert.NotContains(t, entry.Data["stack"], "START")
	}
	assert.Equal(t, 7, eats)
	assert.Equal(t, 6, matched)
}

func TestTraceOption(t *testing.T) {
	p := compile(t, "set trace;\nset trace_depth = 3;\n"+sumGrammar)
	assert.NotNil(t, p.log)
	assert.Equal(t, 3, p.traceDepth)
}

func TestHandBuiltGrammar(t *testing.T) {
	g := grammar.New("hand")
	g.Options.WordBoundary = false
	g.Tokens = []grammar.Token{
		{Name: "A", Re: "a"},
		{Name: "_b", Re: "b", Inline: true},
	}
	g.Rules = []*grammar.Rule{
		{Name: "START", Body: &grammar.And{Items: []grammar.Expr{
			&grammar.Symbol{Name: "A"},
			&grammar.Rep{Expr: &grammar.InlineToken{Re: "b"}, Max: grammar.Unbounded},
		}}},
	}

	p, e := New(g)
	require.NoError(t, e)
	v, e := p.ParseDefault("abb")
	require.NoError(t, e)
	assert.Equal(t, []any{"b", "b"}, v)

	g.Rules[0].Body = &grammar.Symbol{Name: "C"}
	_, e = New(g)
	test.ExpectErrorCode(t, UnknownRuleError, e)

	g.Rules[0].Body = &grammar.Or{
		Left:  &grammar.And{Items: []grammar.Expr{&grammar.Symbol{Name: "START"}, &grammar.InlineToken{Re: "b"}}},
		Right: &grammar.Symbol{Name: "A"},
	}
	_, e = New(g)
	ee := test.ExpectErrorCode(t, LeftRecursionError, e)
	assert.Equal(t, "left recursion: START -> START", ee.Message)
}

func TestWrongCode(t *testing.T) {
	g := grammar.New("hand")
	g.Rules = []*grammar.Rule{{Name: "START", Body: &grammar.Code{Source: "1 +"}}}
	_, e := New(g)
	test.ExpectErrorCode(t, WrongCodeError, e)
}

func TestConcurrentParse(t *testing.T) {
	p := compile(t, sumGrammar)
	done := make(chan any)
	for i := 0; i < 8; i++ {
		go func() {
			v, _ := p.ParseDefault("1 + 2 + 3")
			done <- v
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, 6, <-done)
	}
}
