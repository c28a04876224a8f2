// Package grammar defines the intermediate form of a compiled grammar:
// options, token definitions, and rules with expression trees.
// A Grammar is produced by langdef (or by Go code generated with rdx gen)
// and interpreted by parser.
package grammar

import (
	"strings"
)

// DefaultAxiom is the name of the rule used when no axiom is given.
const DefaultAxiom = "START"

// Token defines a token or a separator.
type Token struct {
	Name string

	// Re contains regular expression source.
	Re string

	// Separator tokens are matched and discarded.
	Separator bool

	// Inline tokens are synthesized from string literals found in rule bodies.
	Inline bool

	// Action computes token value from its text, nil means the value is the text itself.
	Action *Code

	Line, Col int
}

// Param is a rule parameter.
type Param struct {
	Name string

	// Type is one of Types, empty means "any".
	Type string

	// Default is used when caller passes fewer arguments, nil means nil value.
	Default *Code
}

// Types lists valid parameter types.
var Types = []string{"any", "int", "float", "string", "bool", "list", "map"}

// ValidType reports whether t is a valid parameter type.
func ValidType(t string) bool {
	if t == "" {
		return true
	}
	for _, vt := range Types {
		if vt == t {
			return true
		}
	}
	return false
}

func (p Param) String() string {
	res := p.Name
	if p.Type != "" {
		res += ": " + p.Type
	}
	if p.Default != nil {
		res += " = " + p.Default.String()
	}
	return res
}

// Rule is a named production.
type Rule struct {
	Name   string
	Params []Param

	// Return computes rule value, nil means the value of Body.
	Return *Code

	Body      Expr
	Line, Col int
}

// String renders the rule in grammar description syntax.
func (r *Rule) String() string {
	var sb strings.Builder
	sb.WriteString(r.Name)
	if len(r.Params) > 0 {
		sb.WriteByte('<')
		for i, p := range r.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteByte('>')
	}
	if r.Return != nil {
		sb.WriteString(" / ")
		sb.WriteString(r.Return.String())
	}
	sb.WriteString(" -> ")
	sb.WriteString(r.Body.String())
	sb.WriteString(" ;")
	return sb.String()
}

// Grammar is the compiled grammar.
// Tokens contain explicit definitions in declaration order followed by inline ones.
type Grammar struct {
	Name    string
	Options Options
	Tokens  []Token
	Rules   []*Rule
}

// New creates an empty grammar with default options.
func New(name string) *Grammar {
	return &Grammar{Name: name, Options: DefaultOptions()}
}

// Rule returns a rule by name or nil.
func (g *Grammar) Rule(name string) *Rule {
	for _, r := range g.Rules {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Token returns a token definition by name or nil.
func (g *Grammar) Token(name string) *Token {
	for i := range g.Tokens {
		if g.Tokens[i].Name == name {
			return &g.Tokens[i]
		}
	}
	return nil
}

// String renders the grammar in description syntax; inline tokens are not listed.
func (g *Grammar) String() string {
	var sb strings.Builder
	sb.WriteString(g.Options.String())
	for _, t := range g.Tokens {
		if t.Inline {
			continue
		}

		if t.Separator {
			sb.WriteString("separator ")
		} else {
			sb.WriteString("token ")
		}
		sb.WriteString(t.Name)
		sb.WriteString(": ")
		sb.WriteString(quoteRe(t.Re))
		if t.Action != nil {
			sb.WriteByte(' ')
			sb.WriteString(t.Action.String())
		}
		sb.WriteString(";\n")
	}
	for _, r := range g.Rules {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Codes returns all actions of the grammar in declaration order:
// token actions, then parameter defaults, return actions, and body actions of each rule.
func (g *Grammar) Codes() []*Code {
	var res []*Code
	for _, t := range g.Tokens {
		if t.Action != nil {
			res = append(res, t.Action)
		}
	}

	for _, r := range g.Rules {
		for _, p := range r.Params {
			if p.Default != nil {
				res = append(res, p.Default)
			}
		}
		if r.Return != nil {
			res = append(res, r.Return)
		}

		Walk(r.Body, func(x Expr) bool {
			switch x := x.(type) {
			case *Code:
				res = append(res, x)
			case *Check:
				res = append(res, x.Cond)
			case *Error:
				res = append(res, x.Message)
			case *Symbol:
				res = append(res, x.Args...)
			}
			return true
		})
	}
	return res
}
