package parser

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/spf13/cast"

	"github.com/ava12/rdx/action"
	"github.com/ava12/rdx/grammar"
	"github.com/ava12/rdx/lexer"
	"github.com/ava12/rdx/source"
)

// ParseContext holds the state of a single parse call.
// It is the host of action helpers.
type ParseContext struct {
	ctx   context.Context
	p     *Parser
	src   *source.Source
	lex   lexer.Lexer
	rt    *action.Runtime
	trace *tracer
}

func newParseContext(ctx context.Context, p *Parser, s *source.Source) (*ParseContext, error) {
	pc := &ParseContext{
		ctx: ctx,
		p:   p,
		src: s,
		lex: p.Lexer(),
	}
	pc.rt = action.NewRuntime(pc)
	if p.log != nil {
		pc.trace = newTracer(p.log, p.traceDepth)
	}

	e := pc.lex.Start(s)
	if e != nil {
		return nil, e
	}

	return pc, nil
}

// Line returns line number of the position after the last consumed token.
func (pc *ParseContext) Line() int {
	return pc.lex.Current().EndLine()
}

// Row returns column number of the position after the last consumed token.
func (pc *ParseContext) Row() int {
	return pc.lex.Current().EndCol()
}

func (pc *ParseContext) markPos(mark any) (int, error) {
	switch m := mark.(type) {
	case nil:
		return 0, nil
	case *lexer.Token:
		return m.Stop(), nil
	default:
		pos, e := cast.ToIntE(mark)
		if e != nil {
			return 0, fmt.Errorf("mark expected, got %T", mark)
		}
		return pos, nil
	}
}

// Extract returns source text between two marks with surrounding spaces trimmed.
// A mark is a token stored with @name, a rune offset, or nil for start of input.
func (pc *ParseContext) Extract(from, to any) (string, error) {
	start, e := pc.markPos(from)
	if e != nil {
		return "", e
	}

	stop, e := pc.markPos(to)
	if e != nil {
		return "", e
	}

	return strings.TrimSpace(pc.src.Slice(start, stop)), nil
}

// Source returns input source.
func (pc *ParseContext) Source() *source.Source {
	return pc.src
}

// cont receives the value of an expression and parses the rest of the input.
// Its result is the result of the whole parse.
type cont func(v any) (any, error)

func (pc *ParseContext) parse(r *rule, args []any) (any, error) {
	res, e := pc.call(r, args, func(v any) (any, error) {
		_, e := pc.eat(lexer.EndOfInput)
		return v, e
	})
	if e == lexer.ErrWrongToken {
		return nil, syntaxError(pc.lex.Furthest())
	}
	if e != nil {
		return nil, e
	}

	return res, nil
}

func (pc *ParseContext) eat(name string) (any, error) {
	t, e := pc.lex.Eat(name)
	if pc.trace != nil {
		pc.trace.eat(name, t, e)
	}
	if e != nil {
		return nil, e
	}

	return t.Value(), nil
}

func (pc *ParseContext) token(name string, k cont) (any, error) {
	v, e := pc.eat(name)
	if e != nil {
		return nil, e
	}
	return k(v)
}

func (pc *ParseContext) run(c *grammar.Code, s action.Scope) (any, error) {
	v, e := pc.p.blocks[c].Run(pc.rt, s)
	if e == nil {
		return v, nil
	}

	if e == action.ErrCheck {
		return nil, lexer.ErrWrongToken
	}
	if re, is := e.(*action.RaiseError); is {
		return nil, raisedError(re.Message)
	}
	return nil, actionError(pc.lex.Current(), c, e)
}

// restore brings variables of s back to the saved state.
func restore(s, saved action.Scope) {
	clear(s)
	for k, v := range saved {
		s[k] = v
	}
}

// call parses rule r and passes its value to k.
// If k fails, alternatives inside the rule body are tried again.
func (pc *ParseContext) call(r *rule, args []any, k cont) (any, error) {
	if e := pc.ctx.Err(); e != nil {
		return nil, canceledError(pc.lex.Current(), e)
	}

	s := pc.rt.Scope()
	for i, p := range r.Params {
		var (
			v any
			e error
		)
		if i < len(args) {
			v = args[i]
		} else if p.Default != nil {
			v, e = pc.run(p.Default, s)
			if e != nil {
				return nil, e
			}
		}

		s[p.Name], e = action.Convert(v, p.Type)
		if e != nil {
			return nil, argTypeError(pc.lex.Current(), r.Name, p, e)
		}
	}

	if pc.trace != nil {
		pc.trace.enter(r)
		defer pc.trace.leave()
	}

	return pc.eval(r.Body, s, func(v any) (any, error) {
		if r.Return != nil {
			var e error
			v, e = pc.run(r.Return, s)
			if e != nil {
				return nil, e
			}
		}

		if pc.trace == nil {
			return k(v)
		}

		pc.trace.leave()
		res, e := k(v)
		pc.trace.resume(r)
		return res, e
	})
}

func (pc *ParseContext) eval(x grammar.Expr, s action.Scope, k cont) (any, error) {
	switch x := x.(type) {
	case *grammar.Symbol:
		if x.Kind == grammar.TokenSymbol {
			return pc.token(x.Name, k)
		}
		return pc.callSymbol(x, s, k)

	case *grammar.InlineToken:
		return pc.token(x.Name, k)

	case *grammar.Code:
		v, e := pc.run(x, s)
		if e != nil {
			return nil, e
		}
		return k(v)

	case *grammar.And:
		return pc.sequence(x.Items, s, nil, k)

	case *grammar.Or:
		saved := pc.lex.Current()
		vars := maps.Clone(s)
		res, e := pc.eval(x.Left, s, k)
		if e != lexer.ErrWrongToken {
			return res, e
		}

		pc.lex.Back(saved)
		restore(s, vars)
		return pc.eval(x.Right, s, k)

	case *grammar.Rep:
		return pc.repeat(x, s, []any{}, k)

	case *grammar.Check:
		v, e := pc.run(x.Cond, s)
		if e != nil {
			return nil, e
		}
		if !cast.ToBool(v) {
			return nil, lexer.ErrWrongToken
		}
		return k(nil)

	case *grammar.Error:
		v, e := pc.run(x.Message, s)
		if e != nil {
			return nil, e
		}
		return nil, raisedError(cast.ToString(v))

	case *grammar.Mark:
		s[x.Name] = pc.lex.Current()
		return k(nil)

	case *grammar.Bind:
		return pc.eval(x.Expr, s, func(v any) (any, error) {
			s[x.Name] = v
			return k(v)
		})

	default:
		panic(fmt.Sprintf("unexpected expression type %T", x))
	}
}

// sequence passes the value of the last item to k, nil for empty sequence.
func (pc *ParseContext) sequence(items []grammar.Expr, s action.Scope, last any, k cont) (any, error) {
	if len(items) == 0 {
		return k(last)
	}

	return pc.eval(items[0], s, func(v any) (any, error) {
		return pc.sequence(items[1:], s, v, k)
	})
}

// callSymbol restores caller variables before the callee retries its alternatives.
func (pc *ParseContext) callSymbol(x *grammar.Symbol, s action.Scope, k cont) (any, error) {
	r := pc.p.rules[x.Name]
	var args []any
	if len(x.Args) > 0 {
		args = make([]any, len(x.Args))
		for i, a := range x.Args {
			v, e := pc.run(a, s)
			if e != nil {
				return nil, e
			}
			args[i] = v
		}
	}

	vars := maps.Clone(s)
	return pc.call(r, args, func(v any) (any, error) {
		res, e := k(v)
		if e == lexer.ErrWrongToken {
			restore(s, vars)
		}
		return res, e
	})
}

// repeat is greedy: it tries one more iteration first and falls back to fewer ones if the rest fails.
// An unbounded loop stops after an iteration that consumed no tokens.
func (pc *ParseContext) repeat(x *grammar.Rep, s action.Scope, values []any, k cont) (any, error) {
	if x.Max == grammar.Unbounded || len(values) < x.Max {
		saved := pc.lex.Current()
		vars := maps.Clone(s)
		res, e := pc.eval(x.Expr, s, func(v any) (any, error) {
			next := append(values[:len(values):len(values)], v)
			if x.Max == grammar.Unbounded && len(next) >= x.Min && pc.lex.Current() == saved {
				return pc.finish(x, next, k)
			}
			return pc.repeat(x, s, next, k)
		})
		if e != lexer.ErrWrongToken {
			return res, e
		}

		pc.lex.Back(saved)
		restore(s, vars)
	}

	return pc.finish(x, values, k)
}

func (pc *ParseContext) finish(x *grammar.Rep, values []any, k cont) (any, error) {
	if len(values) < x.Min {
		return nil, lexer.ErrWrongToken
	}

	if x.Min == 0 && x.Max == 1 {
		if len(values) == 0 {
			return k(nil)
		}
		return k(values[0])
	}
	return k(values)
}
