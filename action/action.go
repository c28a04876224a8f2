// Package action compiles and runs semantic action blocks.
//
// A block is a list of expr-lang expressions separated by semicolons or line breaks.
// A statement of the form "name = expression" stores the value in the rule scope.
// The value of a block is the value of its last statement, empty block yields nil.
//
// Every block can use rule variables (parameters, bound and marked items, assigned names)
// and helper functions:
//
//	line()          line number of the position after the last consumed token
//	row()           column number of the same position
//	extract(a, b)   source text between two marks
//	check(cond)     fails current alternative if cond is false
//	fail(msg)       aborts parsing with msg
//	toInt(x), toFloat(x), toString(x), toBool(x)  value conversions
package action

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"
)

type statement struct {
	source string
	target string
	prog   *vm.Program
}

// Block is a compiled action, safe for concurrent use.
type Block struct {
	source string
	stmts  []statement
}

var assignRe = regexp2.MustCompile(`^\s*([A-Za-z_][A-Za-z_0-9]*)\s*=(?!=)`, regexp2.None)

// Compile compiles action source.
func Compile(src string) (*Block, error) {
	b := &Block{source: src}
	for _, part := range split(src) {
		st := statement{source: part}
		m, _ := assignRe.FindStringMatch(part)
		if m != nil {
			st.target = m.GroupByNumber(1).String()
			if IsHelper(st.target) {
				return nil, errors.Errorf("cannot assign to %q", st.target)
			}
			part = string([]rune(part)[m.Index+m.Length:])
			if strings.TrimSpace(part) == "" {
				return nil, errors.Errorf("missing expression after %q", st.target+" =")
			}
		}

		prog, e := expr.Compile(part, expr.Env(helperDecls), expr.AllowUndefinedVariables())
		if e != nil {
			return nil, errors.Wrapf(e, "statement %q", st.source)
		}

		st.prog = prog
		b.stmts = append(b.stmts, st)
	}
	return b, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Block {
	b, e := Compile(src)
	if e != nil {
		panic(e)
	}
	return b
}

// Source returns original action text.
func (b *Block) Source() string {
	return b.source
}

// Empty reports whether the block has no statements.
func (b *Block) Empty() bool {
	return len(b.stmts) == 0
}

// Run executes the block in a scope created by r.
// Returns ErrCheck if check() failed and *RaiseError if fail() was called.
func (b *Block) Run(r *Runtime, s Scope) (any, error) {
	var res any
	for _, st := range b.stmts {
		v, e := expr.Run(st.prog, map[string]any(s))
		if signal := r.signal(); signal != nil {
			return nil, signal
		}
		if e != nil {
			return nil, errors.Wrapf(e, "statement %q", st.source)
		}

		if st.target != "" {
			s[st.target] = v
		}
		res = v
	}
	return res, nil
}

// split breaks source into statements at semicolons and line breaks outside of brackets and strings.
// A line break after an operator continues the statement.
func split(src string) []string {
	var (
		res   []string
		depth int
		quote rune
		esc   bool
		start int
	)
	flush := func(end int) {
		part := strings.TrimSpace(src[start:end])
		if part != "" {
			res = append(res, part)
		}
	}

	for i, c := range src {
		if quote != 0 {
			switch {
			case esc:
				esc = false
			case c == '\\' && quote != '`':
				esc = true
			case c == quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		case '\n':
			if depth == 0 && complete(src[start:i]) {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(src))
	return res
}

func complete(part string) bool {
	part = strings.TrimRightFunc(part, unicode.IsSpace)
	if part == "" {
		return true
	}

	c, _ := utf8.DecodeLastRuneInString(part)
	return strings.ContainsRune(")]}\"'`_", c) || unicode.IsLetter(c) || unicode.IsDigit(c)
}
