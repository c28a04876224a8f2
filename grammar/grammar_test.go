package grammar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/rdx/lexer"
)

func sym(name string) *Symbol {
	return &Symbol{Name: name}
}

func code(src string) *Code {
	return &Code{Source: src}
}

func TestExprString(t *testing.T) {
	samples := []struct {
		expr     Expr
		expected string
	}{
		{sym("a"), "a"},
		{&Symbol{Name: "r", Args: []*Code{code("1"), code("x")}}, "r<{{1}}, {{x}}>"},
		{&InlineToken{Re: `\+`}, `"\+"`},
		{&InlineToken{Re: `"`}, `'"'`},
		{&And{}, "()"},
		{&And{Items: []Expr{sym("a"), &Or{Left: sym("b"), Right: sym("c")}}}, "a (b | c)"},
		{&Or{Left: &And{Items: []Expr{sym("a"), sym("b")}}, Right: sym("c")}, "a b | c"},
		{&Rep{Expr: sym("a"), Min: 0, Max: 1}, "a?"},
		{&Rep{Expr: sym("a"), Min: 0, Max: Unbounded}, "a*"},
		{&Rep{Expr: sym("a"), Min: 1, Max: Unbounded}, "a+"},
		{&Rep{Expr: sym("a"), Min: 2, Max: Unbounded}, "a{2,}"},
		{&Rep{Expr: sym("a"), Min: 3, Max: 3}, "a{3}"},
		{&Rep{Expr: sym("a"), Min: 2, Max: 4}, "a{2,4}"},
		{&Rep{Expr: &And{Items: []Expr{sym("a"), sym("b")}}, Min: 0, Max: 1}, "(a b)?"},
		{&Bind{Expr: &Rep{Expr: sym("a"), Min: 1, Max: Unbounded}, Name: "x"}, "a+/x"},
		{&Rep{Expr: &Bind{Expr: sym("a"), Name: "x"}, Min: 1, Max: Unbounded}, "(a/x)+"},
		{&Check{Cond: code("x > 1")}, "check {{x > 1}}"},
		{&Error{Message: code(`"oops"`)}, `error {{"oops"}}`},
		{&Mark{Name: "m"}, "@m"},
		{code("{a: 1}}"), "${a: 1}}$"},
		{code("{a: 1}"), "${a: 1}$"},
	}

	for i, s := range samples {
		assert.Equal(t, s.expected, s.expr.String(), "sample #%d", i)
	}
}

func TestAlternation(t *testing.T) {
	assert.Nil(t, Alternation(nil))

	a, b, c, d := sym("a"), sym("b"), sym("c"), sym("d")
	assert.Same(t, a, Alternation([]Expr{a}))

	e := Alternation([]Expr{a, b, c})
	require.IsType(t, &Or{}, e)
	or := e.(*Or)
	assert.Same(t, a, or.Left)
	assert.Equal(t, &Or{Left: b, Right: c}, or.Right)

	e = Alternation([]Expr{a, b, c, d})
	assert.Equal(t, &Or{Left: &Or{Left: a, Right: b}, Right: &Or{Left: c, Right: d}}, e)
	assert.Equal(t, "a | b | c | d", e.String())

	var order []string
	Walk(e, func(x Expr) bool {
		if s, ok := x.(*Symbol); ok {
			order = append(order, s.Name)
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
}

func TestWalkSkip(t *testing.T) {
	e := &And{Items: []Expr{
		sym("a"),
		&Rep{Expr: sym("b"), Max: Unbounded},
		&Bind{Expr: sym("c"), Name: "x"},
	}}
	var names []string
	Walk(e, func(x Expr) bool {
		switch x := x.(type) {
		case *Symbol:
			names = append(names, x.Name)
		case *Rep:
			return false
		}
		return true
	})
	assert.Equal(t, []string{"a", "c"}, names)
}

func TestRuleString(t *testing.T) {
	r := &Rule{
		Name:   "sum",
		Params: []Param{{Name: "vars", Type: "map"}, {Name: "n", Default: code("0")}},
		Return: code("x"),
		Body:   &And{Items: []Expr{&Bind{Expr: sym("NUM"), Name: "x"}, &Rep{Expr: sym("tail"), Max: Unbounded}}},
	}
	assert.Equal(t, "sum<vars: map, n = {{0}}> / {{x}} -> NUM/x tail* ;", r.String())
}

func TestGrammarString(t *testing.T) {
	g := New("test")
	require.NoError(t, g.Options.Set("lexer", "longest"))
	g.Tokens = []Token{
		{Name: "NUM", Re: "[0-9]+", Action: code("toInt(text)")},
		{Name: "WS", Re: `\s+`, Separator: true},
		{Name: "_tok_1", Re: `\+`, Inline: true},
	}
	g.Rules = []*Rule{{Name: "START", Body: &And{Items: []Expr{sym("NUM"), &InlineToken{Re: `\+`, Name: "_tok_1"}, sym("NUM")}}}}

	expected := "set lexer = \"longest\";\n" +
		"token NUM: \"[0-9]+\" {{toInt(text)}};\n" +
		"separator WS: \"\\s+\";\n" +
		"START -> NUM \"\\+\" NUM ;\n"
	assert.Equal(t, expected, g.String())

	assert.NotNil(t, g.Rule("START"))
	assert.Nil(t, g.Rule("NUM"))
	assert.Equal(t, "WS", g.Token("WS").Name)
	assert.Nil(t, g.Token("START"))
}

func TestGoString(t *testing.T) {
	e := &Rep{Expr: &Symbol{Name: "a", Kind: TokenSymbol}, Min: 1, Max: Unbounded}
	assert.Equal(t, `&grammar.Rep{Expr: &grammar.Symbol{Name: "a", Kind: grammar.TokenSymbol}, Min: 1, Max: grammar.Unbounded}`, e.GoString())

	o := DefaultOptions()
	assert.Equal(t, `grammar.Options{WordBoundary: true, Axiom: "START", TraceDepth: 8}`, o.GoString())
}

func TestOptionsSet(t *testing.T) {
	o := DefaultOptions()
	require.NoError(t, o.Set("ignorecase", ""))
	require.NoError(t, o.Set("lexer-multiline", "true"))
	require.NoError(t, o.Set("word_boundary", "false"))
	require.NoError(t, o.Set("lexer", "cached_longest"))
	require.NoError(t, o.Set("trace-depth", "3"))
	require.NoError(t, o.Set("match_timeout", "1500ms"))
	require.NoError(t, o.Set("axiom", "expr"))

	assert.True(t, o.IgnoreCase)
	assert.True(t, o.Multiline)
	assert.False(t, o.WordBoundary)
	assert.Equal(t, lexer.CachedLongest, o.Strategy())
	assert.Equal(t, 3, o.TraceDepth)
	assert.Equal(t, 1500*time.Millisecond, o.MatchTimeout)
	assert.Equal(t, "expr", o.Axiom)

	c := o.LexerConfig()
	assert.Equal(t, lexer.IgnoreCase|lexer.Multiline, c.Flags)

	require.NoError(t, o.Set("lexer_locale", ""))
	assert.True(t, o.Locale)
	assert.Equal(t, lexer.IgnoreCase|lexer.Multiline|lexer.Locale, o.LexerConfig().Flags)
	assert.False(t, c.WordBoundary)
	assert.Equal(t, 1500*time.Millisecond, c.MatchTimeout)
}

func TestOptionsErrors(t *testing.T) {
	o := DefaultOptions()
	samples := []struct {
		name, value string
		unknown     bool
	}{
		{"foo", "", true},
		{"lexer_foo", "", true},
		{"lexer", "fastest", false},
		{"trace_depth", "-1", false},
		{"trace_depth", "many", false},
		{"ignorecase", "perhaps", false},
		{"match_timeout", "soon", false},
		{"axiom", "", false},
	}

	for _, s := range samples {
		e := o.Set(s.name, s.value)
		require.Error(t, e, "%s = %q", s.name, s.value)
		oe, ok := e.(*OptionError)
		require.True(t, ok)
		assert.Equal(t, s.unknown, oe.Unknown, "%s = %q", s.name, s.value)
	}
	assert.Equal(t, DefaultOptions(), o)
}

func TestLeftRecursion(t *testing.T) {
	rule := func(name string, body Expr) *Rule {
		return &Rule{Name: name, Body: body}
	}
	tok := &Symbol{Name: "T", Kind: TokenSymbol}
	call := func(name string) *Symbol {
		return &Symbol{Name: name, Kind: RuleSymbol}
	}

	g := New("rec")
	g.Rules = []*Rule{
		rule("START", &And{Items: []Expr{tok, call("START")}}),
		rule("opt", &Rep{Expr: tok, Max: 1}),
	}
	assert.Nil(t, LeftRecursion(g))

	g.Rules = append(g.Rules,
		rule("a", &And{Items: []Expr{call("opt"), &Mark{Name: "m"}, call("b")}}),
		rule("b", &Or{Left: tok, Right: &Bind{Expr: call("a"), Name: "x"}}),
	)
	assert.Equal(t, []string{"a", "b", "a"}, LeftRecursion(g))

	g.Rules[2].Body = &And{Items: []Expr{tok, call("opt"), call("b")}}
	assert.Nil(t, LeftRecursion(g))
}
