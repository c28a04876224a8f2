package langdef

import (
	"strconv"

	"github.com/ava12/rdx/action"
	"github.com/ava12/rdx/grammar"
	"github.com/ava12/rdx/internal/queue"
	"github.com/ava12/rdx/lexer"
)

const inlinePrefix = "_tok_"

func (c *parseContext) link(e error) error {
	if e != nil {
		return e
	}

	if len(c.g.Rules) == 0 {
		return noRulesError()
	}

	e = c.checkTokens(e)
	e = c.collectInlineTokens(e)
	e = c.resolveSymbols(e)
	e = c.checkRecursion(e)
	return c.checkCode(e)
}

func (c *parseContext) checkPattern(name, re string, line, col int) error {
	e := lexer.CheckPattern(name, re, c.g.Options.LexerConfig())
	if e != nil {
		return wrongRegexpError(c.src.Name(), line, col, e)
	}
	return nil
}

func (c *parseContext) checkTokens(e error) error {
	if e != nil {
		return e
	}

	for _, t := range c.g.Tokens {
		e = c.checkPattern(t.Name, t.Re, t.Line, t.Col)
		if e != nil {
			return e
		}
	}
	return nil
}

// collectInlineTokens assigns token names to string literals found in rule bodies.
// A literal equal to the pattern of an explicit token uses that token,
// equal literals share the same synthesized token.
func (c *parseContext) collectInlineTokens(e error) error {
	if e != nil {
		return e
	}

	byRe := make(map[string]string)
	for _, t := range c.g.Tokens {
		if _, has := byRe[t.Re]; !has && !t.Separator {
			byRe[t.Re] = t.Name
		}
	}

	counter := 0
	nextName := func() string {
		for {
			counter++
			name := inlinePrefix + strconv.Itoa(counter)
			_, isToken := c.tokenIndex[name]
			_, isRule := c.ruleTokens[name]
			if !isToken && !isRule {
				return name
			}
		}
	}

	for _, r := range c.g.Rules {
		grammar.Walk(r.Body, func(x grammar.Expr) bool {
			it, is := x.(*grammar.InlineToken)
			if !is || e != nil {
				return e == nil
			}

			name, has := byRe[it.Re]
			if !has {
				lt := c.literals[it]
				e = c.checkPattern(it.String(), it.Re, lt.Line(), lt.Col())
				if e != nil {
					return false
				}

				name = nextName()
				byRe[it.Re] = name
				c.tokenIndex[name] = len(c.g.Tokens)
				c.g.Tokens = append(c.g.Tokens, grammar.Token{
					Name: name, Re: it.Re, Inline: true, Line: lt.Line(), Col: lt.Col(),
				})
			}
			it.Name = name
			return true
		})
		if e != nil {
			return e
		}
	}
	return nil
}

func (c *parseContext) resolveSymbols(e error) error {
	if e != nil {
		return e
	}

	var unknown []string
	seen := make(map[string]bool)
	for _, r := range c.g.Rules {
		grammar.Walk(r.Body, func(x grammar.Expr) bool {
			s, is := x.(*grammar.Symbol)
			if !is || e != nil {
				return e == nil
			}

			if i, has := c.tokenIndex[s.Name]; has {
				switch {
				case c.g.Tokens[i].Separator:
					e = separatorRefError(r.Name, s.Name)
				case len(s.Args) > 0:
					e = tokenArgsError(r.Name, s.Name)
				default:
					s.Kind = grammar.TokenSymbol
				}
				return false
			}

			if target := c.g.Rule(s.Name); target != nil {
				if len(s.Args) > len(target.Params) {
					e = argNumberError(r.Name, s, len(target.Params))
				}
				s.Kind = grammar.RuleSymbol
				return false
			}

			if !seen[s.Name] {
				seen[s.Name] = true
				unknown = append(unknown, s.Name)
			}
			return false
		})
		if e != nil {
			return e
		}
	}

	if len(unknown) > 0 {
		return unknownSymbolError(unknown)
	}
	return nil
}

func (c *parseContext) checkRecursion(e error) error {
	if e != nil {
		return e
	}

	cycle := grammar.LeftRecursion(c.g)
	if cycle != nil {
		return leftRecursionError(c.src.Name(), c.g.Rule(cycle[0]), cycle)
	}
	return nil
}

func (c *parseContext) checkCode(e error) error {
	if e != nil {
		return e
	}

	for _, code := range c.g.Codes() {
		_, e = action.Compile(code.Source)
		if e != nil {
			return wrongCodeError(c.src.Name(), code, e)
		}
	}
	return nil
}

// UnusedRules returns names of rules not reachable from axiom in declaration order.
// Empty axiom means grammar option value.
func UnusedRules(g *grammar.Grammar, axiom string) []string {
	if axiom == "" {
		axiom = g.Options.Axiom
	}

	used := make(map[string]bool)
	q := queue.New[*grammar.Rule]()
	if r := g.Rule(axiom); r != nil {
		used[axiom] = true
		q.Append(r)
	}

	for !q.IsEmpty() {
		r, _ := q.First()
		grammar.Walk(r.Body, func(x grammar.Expr) bool {
			s, is := x.(*grammar.Symbol)
			if is && !used[s.Name] {
				if target := g.Rule(s.Name); target != nil {
					used[s.Name] = true
					q.Append(target)
				}
			}
			return true
		})
	}

	var res []string
	for _, r := range g.Rules {
		if !used[r.Name] {
			res = append(res, r.Name)
		}
	}
	return res
}
