// Package parser interprets compiled grammars: it is the backtracking engine
// and the generated parser at the same time.
//
// Each rule is executed as a plain function call walking the rule body.
// Alternatives and repetitions save lexer position and restore it when an attempt fails.
package parser

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ava12/rdx/action"
	"github.com/ava12/rdx/grammar"
	"github.com/ava12/rdx/langdef"
	"github.com/ava12/rdx/lexer"
	"github.com/ava12/rdx/source"
)

// Option configures Parser.
type Option func(p *Parser)

// WithLexer overrides lexer strategy set by grammar options.
func WithLexer(st lexer.Strategy) Option {
	return func(p *Parser) {
		p.strategy = st
	}
}

// WithAxiom overrides default axiom set by grammar options.
func WithAxiom(name string) Option {
	return func(p *Parser) {
		p.axiom = name
	}
}

// WithTrace enables tracing: every token match attempt is logged at debug level.
// depth limits the number of rule names shown, non-positive means grammar option value.
// nil log disables tracing.
func WithTrace(log logrus.FieldLogger, depth int) Option {
	return func(p *Parser) {
		p.log = log
		if depth > 0 {
			p.traceDepth = depth
		}
	}
}

type rule struct {
	*grammar.Rule
	doc string
}

// Parser is a parser for a grammar.
// It is immutable and safe for concurrent use.
type Parser struct {
	g          *grammar.Grammar
	set        *lexer.Set
	strategy   lexer.Strategy
	axiom      string
	rules      map[string]*rule
	blocks     map[*grammar.Code]*action.Block
	log        logrus.FieldLogger
	traceDepth int
}

// New creates a parser for linked grammar.
// Unresolved symbols are resolved against grammar tokens and rules.
// Returns *rdx.Error if the grammar cannot be compiled or has left-recursive rules.
func New(g *grammar.Grammar, opts ...Option) (*Parser, error) {
	st, e := lexer.ParseStrategy(g.Options.Lexer)
	if e != nil {
		return nil, e
	}

	p := &Parser{
		g:          g,
		strategy:   st,
		axiom:      g.Options.Axiom,
		rules:      make(map[string]*rule, len(g.Rules)),
		blocks:     make(map[*grammar.Code]*action.Block),
		traceDepth: g.Options.TraceDepth,
	}
	if g.Options.Trace {
		log := logrus.New()
		log.SetLevel(logrus.DebugLevel)
		p.log = log
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, c := range g.Codes() {
		b, e := action.Compile(c.Source)
		if e != nil {
			return nil, wrongCodeError(c, e)
		}
		p.blocks[c] = b
	}

	defs := make([]lexer.Definition, 0, len(g.Tokens))
	for _, t := range g.Tokens {
		d := lexer.Definition{Name: t.Name, Re: t.Re}
		if t.Separator {
			d.Kind = lexer.SeparatorKind
		}
		if t.Action != nil {
			d.Transform = transform(p.blocks[t.Action])
		}
		defs = append(defs, d)
	}
	p.set, e = lexer.NewSet(defs, g.Options.LexerConfig())
	if e != nil {
		return nil, e
	}

	for _, r := range g.Rules {
		p.rules[r.Name] = &rule{Rule: r, doc: r.String()}
	}
	for _, r := range g.Rules {
		e = p.resolve(r)
		if e != nil {
			return nil, e
		}
	}
	if cycle := grammar.LeftRecursion(g); cycle != nil {
		return nil, leftRecursionError(cycle)
	}

	return p, nil
}

// Compile parses grammar description and creates a parser for it.
func Compile(name, description string, opts ...Option) (*Parser, error) {
	g, e := langdef.ParseString(name, description)
	if e != nil {
		return nil, e
	}

	return New(g, opts...)
}

func (p *Parser) resolve(r *grammar.Rule) error {
	var e error
	grammar.Walk(r.Body, func(x grammar.Expr) bool {
		if e != nil {
			return false
		}

		switch x := x.(type) {
		case *grammar.Symbol:
			if x.Kind != grammar.Unresolved {
				return false
			}

			if _, has := p.set.Index(x.Name); has {
				x.Kind = grammar.TokenSymbol
			} else if _, has := p.rules[x.Name]; has {
				x.Kind = grammar.RuleSymbol
			} else {
				e = unresolvedError(r.Name, x.Name)
			}

		case *grammar.InlineToken:
			if x.Name != "" {
				return false
			}

			for _, t := range p.g.Tokens {
				if t.Re == x.Re && !t.Separator {
					x.Name = t.Name
					return false
				}
			}
			e = unresolvedError(r.Name, x.String())
		}
		return true
	})
	return e
}

type nullHost struct{}

func (nullHost) Line() int {
	return 0
}

func (nullHost) Row() int {
	return 0
}

func (nullHost) Extract(from, to any) (string, error) {
	return "", nil
}

func transform(b *action.Block) lexer.Transform {
	return func(text string) (any, error) {
		rt := action.NewRuntime(nullHost{})
		s := rt.Scope()
		s["text"] = text
		return b.Run(rt, s)
	}
}

// Grammar returns parser grammar.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.g
}

// Strategy returns lexer strategy used by parser.
func (p *Parser) Strategy() lexer.Strategy {
	return p.strategy
}

// Axiom returns default axiom name.
func (p *Parser) Axiom() string {
	return p.axiom
}

// Lexer creates a new lexer instance for parser grammar.
func (p *Parser) Lexer() lexer.Lexer {
	return lexer.New(p.strategy, p.set)
}

// Parse parses input starting from axiom rule and returns axiom value.
// Returns *rdx.Error on failure.
func (p *Parser) Parse(axiom, input string, args ...any) (any, error) {
	return p.ParseSource(context.Background(), axiom, source.New("", input), args...)
}

// ParseDefault parses input starting from default axiom.
func (p *Parser) ParseDefault(input string) (any, error) {
	return p.Parse(p.axiom, input)
}

// ParseContext is like Parse but stops when ctx is done.
func (p *Parser) ParseContext(ctx context.Context, axiom, input string, args ...any) (any, error) {
	return p.ParseSource(ctx, axiom, source.New("", input), args...)
}

// ParseSource parses named source, error messages contain source name.
func (p *Parser) ParseSource(ctx context.Context, axiom string, s *source.Source, args ...any) (any, error) {
	r, has := p.rules[axiom]
	if !has {
		return nil, unknownRuleError(axiom)
	}
	if len(args) > len(r.Params) {
		return nil, argNumberError(axiom, len(r.Params), len(args))
	}

	pc, e := newParseContext(ctx, p, s)
	if e != nil {
		return nil, e
	}

	return pc.parse(r, args)
}

// Tokenize splits input into tokens, end of input sentinel is not included.
// Returns UnsupportedError for context-sensitive lexer.
func (p *Parser) Tokenize(input string) ([]*lexer.Token, error) {
	return p.TokenizeSource(source.New("", input))
}

// TokenizeSource is like Tokenize for named source.
func (p *Parser) TokenizeSource(s *source.Source) ([]*lexer.Token, error) {
	l, valid := p.Lexer().(lexer.Tokenizer)
	if !valid {
		return nil, unsupportedError("tokenizing", p.strategy)
	}

	e := l.Start(s)
	if e != nil {
		return nil, e
	}

	var res []*lexer.Token
	for {
		t, e := l.Next()
		if e != nil {
			return nil, e
		}
		if t.IsEoi() {
			return res, nil
		}

		res = append(res, t)
	}
}
