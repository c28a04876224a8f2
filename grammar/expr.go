package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a node of rule body expression tree.
// Implemented by *Symbol, *InlineToken, *Code, *And, *Or, *Rep, *Check, *Error, *Mark, and *Bind.
type Expr interface {
	// String renders the node in grammar description syntax.
	String() string
	// GoString renders the node as Go source.
	GoString() string
	prec() int
}

const (
	orPrec = iota
	andPrec
	bindPrec
	repPrec
	atomPrec
)

func render(e Expr, minPrec int) string {
	if e.prec() < minPrec {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// SymbolKind tells what a Symbol refers to.
type SymbolKind int

const (
	Unresolved SymbolKind = iota
	TokenSymbol
	RuleSymbol
)

var symbolKindNames = []string{"grammar.Unresolved", "grammar.TokenSymbol", "grammar.RuleSymbol"}

func (k SymbolKind) GoString() string {
	if k < 0 || int(k) >= len(symbolKindNames) {
		return strconv.Itoa(int(k))
	}
	return symbolKindNames[k]
}

// Symbol is a reference to a token or a rule, only rules accept arguments.
type Symbol struct {
	Name string
	Args []*Code
	Kind SymbolKind
}

func (s *Symbol) prec() int {
	return atomPrec
}

func (s *Symbol) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}

	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.String()
	}
	return s.Name + "<" + strings.Join(args, ", ") + ">"
}

func (s *Symbol) GoString() string {
	res := "&grammar.Symbol{Name: " + strconv.Quote(s.Name)
	if len(s.Args) > 0 {
		res += ", Args: " + codesGoString(s.Args)
	}
	return res + ", Kind: " + s.Kind.GoString() + "}"
}

// InlineToken is a string literal in a rule body. Name is assigned by langdef.
type InlineToken struct {
	Re   string
	Name string
}

func (t *InlineToken) prec() int {
	return atomPrec
}

func (t *InlineToken) String() string {
	return quoteRe(t.Re)
}

func (t *InlineToken) GoString() string {
	return fmt.Sprintf("&grammar.InlineToken{Re: %q, Name: %q}", t.Re, t.Name)
}

// Code is a semantic action block.
type Code struct {
	Source    string
	Line, Col int
}

func (c *Code) prec() int {
	return atomPrec
}

func (c *Code) String() string {
	closing := strings.Contains(c.Source, "}}") || strings.HasSuffix(c.Source, "}")
	if closing && !strings.Contains(c.Source, "$") {
		return "$" + c.Source + "$"
	}
	return "{{" + c.Source + "}}"
}

func (c *Code) GoString() string {
	return fmt.Sprintf("&grammar.Code{Source: %q, Line: %d, Col: %d}", c.Source, c.Line, c.Col)
}

// And is a sequence, its value is the value of the last item.
type And struct {
	Items []Expr
}

func (a *And) prec() int {
	if len(a.Items) == 0 {
		return atomPrec
	}
	return andPrec
}

func (a *And) String() string {
	if len(a.Items) == 0 {
		return "()"
	}

	items := make([]string, len(a.Items))
	for i, item := range a.Items {
		items[i] = render(item, bindPrec)
	}
	return strings.Join(items, " ")
}

func (a *And) GoString() string {
	return "&grammar.And{Items: " + exprsGoString(a.Items) + "}"
}

// Or is an ordered choice, Right is tried only if Left fails.
type Or struct {
	Left, Right Expr
}

func (o *Or) prec() int {
	return orPrec
}

func (o *Or) String() string {
	return render(o.Left, orPrec) + " | " + render(o.Right, orPrec)
}

func (o *Or) GoString() string {
	return "&grammar.Or{Left: " + o.Left.GoString() + ", Right: " + o.Right.GoString() + "}"
}

// Unbounded is Rep.Max value for repetitions without upper limit.
const Unbounded = -1

// Rep repeats Expr from Min to Max times inclusive.
type Rep struct {
	Expr     Expr
	Min, Max int
}

func (r *Rep) prec() int {
	return repPrec
}

func (r *Rep) suffix() string {
	switch {
	case r.Min == 0 && r.Max == 1:
		return "?"
	case r.Min == 0 && r.Max == Unbounded:
		return "*"
	case r.Min == 1 && r.Max == Unbounded:
		return "+"
	case r.Max == Unbounded:
		return "{" + strconv.Itoa(r.Min) + ",}"
	case r.Min == r.Max:
		return "{" + strconv.Itoa(r.Min) + "}"
	default:
		return "{" + strconv.Itoa(r.Min) + "," + strconv.Itoa(r.Max) + "}"
	}
}

func (r *Rep) String() string {
	return render(r.Expr, repPrec) + r.suffix()
}

func (r *Rep) GoString() string {
	max := strconv.Itoa(r.Max)
	if r.Max == Unbounded {
		max = "grammar.Unbounded"
	}
	return fmt.Sprintf("&grammar.Rep{Expr: %s, Min: %d, Max: %s}", r.Expr.GoString(), r.Min, max)
}

// Check fails the current alternative if Cond value is false.
type Check struct {
	Cond *Code
}

func (c *Check) prec() int {
	return atomPrec
}

func (c *Check) String() string {
	return "check " + c.Cond.String()
}

func (c *Check) GoString() string {
	return "&grammar.Check{Cond: " + c.Cond.GoString() + "}"
}

// Error aborts parsing with Message value.
type Error struct {
	Message *Code
}

func (e *Error) prec() int {
	return atomPrec
}

func (e *Error) String() string {
	return "error " + e.Message.String()
}

func (e *Error) GoString() string {
	return "&grammar.Error{Message: " + e.Message.GoString() + "}"
}

// Mark stores the last consumed token in a rule variable.
type Mark struct {
	Name string
}

func (m *Mark) prec() int {
	return atomPrec
}

func (m *Mark) String() string {
	return "@" + m.Name
}

func (m *Mark) GoString() string {
	return fmt.Sprintf("&grammar.Mark{Name: %q}", m.Name)
}

// Bind stores Expr value in a rule variable.
type Bind struct {
	Expr Expr
	Name string
}

func (b *Bind) prec() int {
	return bindPrec
}

func (b *Bind) String() string {
	return render(b.Expr, repPrec) + "/" + b.Name
}

func (b *Bind) GoString() string {
	return fmt.Sprintf("&grammar.Bind{Expr: %s, Name: %q}", b.Expr.GoString(), b.Name)
}

// Walk calls f for e and its descendants depth first.
// Children of a node are skipped if f returns false for it.
func Walk(e Expr, f func(Expr) bool) {
	if e == nil || !f(e) {
		return
	}

	switch x := e.(type) {
	case *And:
		for _, item := range x.Items {
			Walk(item, f)
		}
	case *Or:
		Walk(x.Left, f)
		Walk(x.Right, f)
	case *Rep:
		Walk(x.Expr, f)
	case *Bind:
		Walk(x.Expr, f)
	}
}

// Alternation builds a balanced tree of Or nodes preserving the order of alternatives.
// Returns nil if alts is empty.
func Alternation(alts []Expr) Expr {
	switch len(alts) {
	case 0:
		return nil
	case 1:
		return alts[0]
	}

	mid := len(alts) / 2
	return &Or{Left: Alternation(alts[:mid]), Right: Alternation(alts[mid:])}
}

func quoteRe(re string) string {
	switch {
	case !strings.Contains(re, `"`):
		return `"` + re + `"`
	case !strings.Contains(re, "'"):
		return "'" + re + "'"
	default:
		return `"` + strings.ReplaceAll(re, `"`, `\"`) + `"`
	}
}

func exprsGoString(items []Expr) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.GoString()
	}
	return "[]grammar.Expr{" + strings.Join(parts, ", ") + "}"
}

func codesGoString(codes []*Code) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = c.GoString()
	}
	return "[]*grammar.Code{" + strings.Join(parts, ", ") + "}"
}
