package langdef

import (
	"strconv"
	"strings"

	"github.com/ava12/rdx/action"
	"github.com/ava12/rdx/grammar"
	"github.com/ava12/rdx/lexer"
	"github.com/ava12/rdx/source"
)

// ParseString parses grammar description and returns linked grammar on success.
// Returns nil and *rdx.Error on error.
func ParseString(name, content string) (*grammar.Grammar, error) {
	return Parse(source.New(name, content))
}

// ParseBytes parses grammar description and returns linked grammar on success.
// Returns nil and *rdx.Error on error.
func ParseBytes(name string, content []byte) (*grammar.Grammar, error) {
	return Parse(source.New(name, string(content)))
}

// Parse parses grammar description and returns linked grammar on success.
// Returns nil and *rdx.Error on error.
func Parse(s *source.Source) (*grammar.Grammar, error) {
	c := newParseContext(s)
	e := c.parse()
	e = c.link(e)
	if e != nil {
		return nil, e
	}

	return c.g, nil
}

const (
	codeTok   = "$code"
	stringTok = "$string"
	numberTok = "$number"
	nameTok   = "$name"
	opTok     = "$op"
)

const (
	setKw       = "set"
	tokenKw     = "token"
	separatorKw = "separator"
	checkKw     = "check"
	errorKw     = "error"
)

var keywords = []string{setKw, tokenKw, separatorKw, checkKw, errorKw}

const (
	arrowOp     = "->"
	equOp       = "="
	colonOp     = ":"
	semicolonOp = ";"
	pipeOp      = "|"
	lParenOp    = "("
	rParenOp    = ")"
	lAngleOp    = "<"
	rAngleOp    = ">"
	commaOp     = ","
	slashOp     = "/"
	optOp       = "?"
	starOp      = "*"
	plusOp      = "+"
	lCurlyOp    = "{"
	rCurlyOp    = "}"
	atOp        = "@"
)

var langdefSet *lexer.Set

func init() {
	var e error
	langdefSet, e = lexer.NewSet([]lexer.Definition{
		{Name: "space", Re: `\s+`, Kind: lexer.SeparatorKind},
		{Name: "comment", Re: `#[^\n]*`, Kind: lexer.SeparatorKind},
		{Name: codeTok, Re: `\{\{[\s\S]*?\}\}|\$[^$]*\$`},
		{Name: stringTok, Re: `"(?:[^"\\]|\\[\s\S])*"|'(?:[^'\\]|\\[\s\S])*'`},
		{Name: numberTok, Re: `-?[0-9]+(?:\.[0-9]+)?`},
		{Name: nameTok, Re: `[A-Za-z_][A-Za-z_0-9]*(?:-[A-Za-z_0-9]+)*`},
		{Name: opTok, Re: `->|[=:;|()<>,/?*+{}@]`},
	}, lexer.Config{})
	if e != nil {
		panic(e)
	}
}

type parseContext struct {
	src        *source.Source
	lex        lexer.Tokenizer
	g          *grammar.Grammar
	tokenIndex map[string]int
	ruleTokens map[string]*lexer.Token
	literals   map[*grammar.InlineToken]*lexer.Token
}

func newParseContext(s *source.Source) *parseContext {
	return &parseContext{
		src:        s,
		lex:        lexer.New(lexer.CachedCombined, langdefSet).(lexer.Tokenizer),
		g:          grammar.New(s.Name()),
		tokenIndex: make(map[string]int),
		ruleTokens: make(map[string]*lexer.Token),
		literals:   make(map[*grammar.InlineToken]*lexer.Token),
	}
}

func (c *parseContext) parse() error {
	e := c.lex.Start(c.src)
	for e == nil {
		var t *lexer.Token
		t, e = c.fetch([]string{nameTok}, false, nil)
		if e != nil || t == nil {
			break
		}

		switch t.Text() {
		case setKw:
			e = c.parseOption()
		case tokenKw, separatorKw:
			e = c.parseTokenDef(t.Text() == separatorKw)
		default:
			e = c.parseRule(t)
		}
	}
	if e != nil {
		return e
	}

	_, e = c.fetch([]string{lexer.EndOfInput}, true, nil)
	return e
}

func matches(t *lexer.Token, types []string) bool {
	for _, typ := range types {
		if t.Name() == typ || (t.Name() == opTok && t.Text() == typ) {
			return true
		}
	}
	return false
}

// fetch consumes the next token if its type (or operator text) is listed in types.
// Otherwise returns an error if strict, nil token if not.
func (c *parseContext) fetch(types []string, strict bool, e error) (*lexer.Token, error) {
	if e != nil {
		return nil, e
	}

	t, e := c.lex.Peek()
	if e != nil {
		return nil, e
	}

	if matches(t, types) {
		_, e = c.lex.Next()
		return t, e
	}

	if !strict {
		return nil, nil
	}

	if t.IsEoi() {
		return nil, eofError(t)
	}

	return nil, unexpectedTokenError(t)
}

func (c *parseContext) fetchOne(typ string, strict bool, e error) (*lexer.Token, error) {
	return c.fetch([]string{typ}, strict, e)
}

func (c *parseContext) skipOne(typ string, e error) error {
	_, e = c.fetchOne(typ, true, e)
	return e
}

func (c *parseContext) peekKeyword(kw string) bool {
	t, e := c.lex.Peek()
	return e == nil && t.Name() == nameTok && t.Text() == kw
}

func isKeyword(name string) bool {
	for _, kw := range keywords {
		if kw == name {
			return true
		}
	}
	return false
}

func stringContent(t *lexer.Token) string {
	text := t.Text()
	q := text[:1]
	return strings.ReplaceAll(text[1:len(text)-1], `\`+q, q)
}

func codeContent(t *lexer.Token) string {
	text := t.Text()
	if text[0] == '$' {
		return text[1 : len(text)-1]
	}
	return text[2 : len(text)-2]
}

func newCode(t *lexer.Token, src string) *grammar.Code {
	return &grammar.Code{Source: src, Line: t.Line(), Col: t.Col()}
}

// parseObject converts a name, a number, a string, or a code block to action.
func (c *parseContext) parseObject(e error) (*grammar.Code, error) {
	t, e := c.fetch([]string{nameTok, numberTok, stringTok, codeTok}, true, e)
	if e != nil {
		return nil, e
	}

	switch t.Name() {
	case stringTok:
		return newCode(t, strconv.Quote(stringContent(t))), nil
	case codeTok:
		return newCode(t, codeContent(t)), nil
	default:
		return newCode(t, t.Text()), nil
	}
}

func (c *parseContext) parseOption() error {
	nt, e := c.fetchOne(nameTok, true, nil)
	if e != nil {
		return e
	}

	value := ""
	eq, e := c.fetchOne(equOp, false, nil)
	if eq != nil {
		var vt *lexer.Token
		vt, e = c.fetch([]string{nameTok, stringTok, numberTok}, true, e)
		if e != nil {
			return e
		}

		value = vt.Text()
		if vt.Name() == stringTok {
			value = stringContent(vt)
		}
	}
	_, e = c.fetchOne(semicolonOp, false, e)
	if e != nil {
		return e
	}

	e = c.g.Options.Set(nt.Text(), value)
	if e != nil {
		oe, is := e.(*grammar.OptionError)
		if is && oe.Unknown {
			return unknownOptionError(nt)
		}

		return wrongOptionError(nt, e)
	}
	return nil
}

func (c *parseContext) parseTokenDef(separator bool) error {
	nt, e := c.fetchOne(nameTok, true, nil)
	if e != nil {
		return e
	}

	name := nt.Text()
	if _, has := c.tokenIndex[name]; has {
		return tokenDefinedError(nt)
	}
	if _, has := c.ruleTokens[name]; has {
		return ruleTokenError(nt)
	}

	_, e = c.fetchOne(colonOp, false, nil)
	st, e := c.fetchOne(stringTok, true, e)
	at, e := c.fetch([]string{codeTok, nameTok}, false, e)
	e = c.skipOne(semicolonOp, e)
	if e != nil {
		return e
	}

	tok := grammar.Token{
		Name:      name,
		Re:        stringContent(st),
		Separator: separator,
		Line:      st.Line(),
		Col:       st.Col(),
	}
	if at != nil {
		if at.Name() == codeTok {
			tok.Action = newCode(at, codeContent(at))
		} else {
			tok.Action = newCode(at, at.Text()+"(text)")
		}
	}

	c.tokenIndex[name] = len(c.g.Tokens)
	c.g.Tokens = append(c.g.Tokens, tok)
	return nil
}

func (c *parseContext) checkVarName(t *lexer.Token) error {
	if action.IsHelper(t.Text()) || isKeyword(t.Text()) {
		return reservedNameError(t)
	}
	return nil
}

func (c *parseContext) parseRule(nt *lexer.Token) error {
	name := nt.Text()
	if isKeyword(name) {
		return unexpectedTokenError(nt)
	}
	if _, has := c.ruleTokens[name]; has {
		return ruleDefinedError(nt)
	}
	if _, has := c.tokenIndex[name]; has {
		return ruleTokenError(nt)
	}

	r := &grammar.Rule{Name: name, Line: nt.Line(), Col: nt.Col()}
	c.ruleTokens[name] = nt

	lt, e := c.fetchOne(lAngleOp, false, nil)
	if lt != nil {
		r.Params, e = c.parseParams()
	}

	st, e := c.fetchOne(slashOp, false, e)
	if st != nil {
		r.Return, e = c.parseObject(e)
	}

	e = c.skipOne(arrowOp, e)
	if e != nil {
		return e
	}

	r.Body, e = c.parseAlternation()
	e = c.skipOne(semicolonOp, e)
	if e != nil {
		return e
	}

	c.g.Rules = append(c.g.Rules, r)
	return nil
}

func (c *parseContext) parseParams() ([]grammar.Param, error) {
	var (
		res []grammar.Param
		e   error
	)
	names := make(map[string]bool)
	for {
		var nt, tt *lexer.Token
		nt, e = c.fetchOne(nameTok, true, e)
		if e != nil {
			return nil, e
		}
		if e = c.checkVarName(nt); e != nil {
			return nil, e
		}
		if names[nt.Text()] {
			return nil, unexpectedTokenError(nt)
		}

		names[nt.Text()] = true
		p := grammar.Param{Name: nt.Text()}
		ct, e := c.fetchOne(colonOp, false, nil)
		if ct != nil {
			tt, e = c.fetchOne(nameTok, true, e)
			if e != nil {
				return nil, e
			}
			if !grammar.ValidType(tt.Text()) {
				return nil, wrongTypeError(tt)
			}

			p.Type = tt.Text()
		}

		et, e := c.fetchOne(equOp, false, e)
		if et != nil {
			p.Default, e = c.parseObject(e)
		}

		res = append(res, p)
		var t *lexer.Token
		t, e = c.fetch([]string{commaOp, rAngleOp}, true, e)
		if e != nil {
			return nil, e
		}
		if t.Text() == rAngleOp {
			return res, nil
		}
	}
}

func (c *parseContext) parseAlternation() (grammar.Expr, error) {
	var alts []grammar.Expr
	for {
		seq, e := c.parseSequence()
		if e != nil {
			return nil, e
		}

		alts = append(alts, seq)
		pt, e := c.fetchOne(pipeOp, false, nil)
		if e != nil {
			return nil, e
		}
		if pt == nil {
			return grammar.Alternation(alts), nil
		}
	}
}

func (c *parseContext) parseSequence() (grammar.Expr, error) {
	var items []grammar.Expr
	for {
		t, e := c.lex.Peek()
		if e != nil {
			return nil, e
		}
		if t.IsEoi() || matches(t, []string{pipeOp, rParenOp, semicolonOp}) {
			break
		}

		item, e := c.parseItem()
		if e != nil {
			return nil, e
		}

		items = append(items, item)
	}

	if len(items) == 1 {
		return items[0], nil
	}
	return &grammar.And{Items: items}, nil
}

func (c *parseContext) parseItem() (grammar.Expr, error) {
	res, e := c.parseAtom()
	for e == nil {
		var t *lexer.Token
		t, e = c.fetch([]string{optOp, starOp, plusOp, lCurlyOp}, false, nil)
		if e != nil || t == nil {
			break
		}

		rep := &grammar.Rep{Expr: res, Max: grammar.Unbounded}
		switch t.Text() {
		case optOp:
			rep.Max = 1
		case plusOp:
			rep.Min = 1
		case lCurlyOp:
			e = c.parseBounds(t, rep)
		}
		res = rep
	}
	if e != nil {
		return nil, e
	}

	st, e := c.fetchOne(slashOp, false, nil)
	if st != nil {
		var nt *lexer.Token
		nt, e = c.fetchOne(nameTok, true, nil)
		if e == nil {
			e = c.checkVarName(nt)
		}
		if e == nil {
			res = &grammar.Bind{Expr: res, Name: nt.Text()}
		}
	}
	if e != nil {
		return nil, e
	}

	return res, nil
}

// parseBounds parses "{n}", "{n,}", "{,m}", "{n,m}", or "{,}" after opening brace.
func (c *parseContext) parseBounds(lt *lexer.Token, rep *grammar.Rep) error {
	number := func(e error) (int, bool, error) {
		t, e := c.fetchOne(numberTok, false, e)
		if e != nil || t == nil {
			return 0, false, e
		}

		n, ce := strconv.Atoi(t.Text())
		if ce != nil || n < 0 {
			return 0, false, unexpectedTokenError(t)
		}
		return n, true, nil
	}

	min, hasMin, e := number(nil)
	rep.Min = min
	ct, e := c.fetchOne(commaOp, false, e)
	if e != nil {
		return e
	}

	if ct == nil {
		if !hasMin {
			return c.skipOne(numberTok, nil)
		}

		rep.Max = min
	} else {
		max, hasMax, e := number(nil)
		if e != nil {
			return e
		}
		if hasMax {
			rep.Max = max
		}
	}

	e = c.skipOne(rCurlyOp, nil)
	if e != nil {
		return e
	}
	if rep.Max == 0 || (rep.Max != grammar.Unbounded && rep.Min > rep.Max) {
		return wrongRepeatError(lt, rep.Min, rep.Max)
	}
	return nil
}

func (c *parseContext) parseAtom() (grammar.Expr, error) {
	t, e := c.fetch([]string{nameTok, stringTok, codeTok, lParenOp, atOp}, true, nil)
	if e != nil {
		return nil, e
	}

	switch t.Name() {
	case stringTok:
		it := &grammar.InlineToken{Re: stringContent(t)}
		c.literals[it] = t
		return it, nil

	case codeTok:
		return newCode(t, codeContent(t)), nil
	}

	switch t.Text() {
	case lParenOp:
		res, e := c.parseAlternation()
		e = c.skipOne(rParenOp, e)
		if e != nil {
			return nil, e
		}
		return res, nil

	case atOp:
		nt, e := c.fetchOne(nameTok, true, nil)
		if e == nil {
			e = c.checkVarName(nt)
		}
		if e != nil {
			return nil, e
		}
		return &grammar.Mark{Name: nt.Text()}, nil

	case checkKw:
		cond, e := c.parseObject(nil)
		if e != nil {
			return nil, e
		}
		return &grammar.Check{Cond: cond}, nil

	case errorKw:
		msg, e := c.parseObject(nil)
		if e != nil {
			return nil, e
		}
		return &grammar.Error{Message: msg}, nil
	}

	if isKeyword(t.Text()) {
		return nil, unexpectedTokenError(t)
	}

	s := &grammar.Symbol{Name: t.Text()}
	lt, e := c.fetchOne(lAngleOp, false, nil)
	for lt != nil && e == nil {
		var arg *grammar.Code
		arg, e = c.parseObject(nil)
		if e != nil {
			break
		}

		s.Args = append(s.Args, arg)
		var ct *lexer.Token
		ct, e = c.fetch([]string{commaOp, rAngleOp}, true, nil)
		if ct != nil && ct.Text() == rAngleOp {
			break
		}
	}
	if e != nil {
		return nil, e
	}

	return s, nil
}
