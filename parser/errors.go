package parser

import (
	"strings"

	"github.com/ava12/rdx"
	"github.com/ava12/rdx/grammar"
	"github.com/ava12/rdx/lexer"
)

// Syntax error code:
const (
	// SyntaxError indicates that input does not match the grammar.
	// Error is positioned at the furthest token lexer has reached.
	SyntaxError = rdx.SyntaxErrors + iota
)

// Semantic error codes, raised by actions:
const (
	// ActionError indicates failed action.
	ActionError = rdx.SemanticErrors + iota

	// RaisedError is produced by error expression or fail() helper, message is the raised value.
	RaisedError

	// ArgTypeError indicates rule argument that cannot be converted to parameter type.
	ArgTypeError
)

// Parser error codes:
const (
	// UnknownRuleError indicates unknown axiom or unresolved reference in grammar.
	UnknownRuleError = rdx.ParserErrors + iota

	// ArgNumberError indicates too many rule arguments.
	ArgNumberError

	// WrongCodeError indicates malformed action in grammar.
	WrongCodeError

	// CanceledError indicates canceled parsing context.
	CanceledError

	// UnsupportedError indicates operation not supported by lexer strategy.
	UnsupportedError

	// LeftRecursionError indicates a rule that can call itself before consuming any token.
	LeftRecursionError
)

func syntaxError(t *lexer.Token) *rdx.Error {
	if t.IsEoi() {
		return rdx.FormatErrorPos(t, SyntaxError, "unexpected end of input")
	}
	return rdx.FormatErrorPos(t, SyntaxError, "syntax error near %q", t.Text())
}

func actionError(t *lexer.Token, c *grammar.Code, e error) *rdx.Error {
	return rdx.FormatErrorPos(t, ActionError, "action %s failed (%s)", c.String(), e.Error())
}

func raisedError(msg string) *rdx.Error {
	return rdx.FormatError(RaisedError, msg)
}

func argTypeError(t *lexer.Token, rule string, p grammar.Param, e error) *rdx.Error {
	return rdx.FormatErrorPos(t, ArgTypeError, "rule %s: cannot convert %s argument to %s (%s)", rule, p.Name, p.Type, e.Error())
}

func unknownRuleError(name string) *rdx.Error {
	return rdx.FormatError(UnknownRuleError, "unknown rule %q", name)
}

func unresolvedError(rule, name string) *rdx.Error {
	return rdx.FormatError(UnknownRuleError, "unknown token or rule %q in rule %q", name, rule)
}

func argNumberError(rule string, max, got int) *rdx.Error {
	return rdx.FormatError(ArgNumberError, "rule %s takes at most %d arguments, got %d", rule, max, got)
}

func wrongCodeError(c *grammar.Code, e error) *rdx.Error {
	return rdx.FormatError(WrongCodeError, "incorrect action %s at line %d col %d (%s)", c.String(), c.Line, c.Col, e.Error())
}

func canceledError(t *lexer.Token, e error) *rdx.Error {
	return rdx.FormatErrorPos(t, CanceledError, "parsing canceled (%s)", e.Error())
}

func unsupportedError(op string, st lexer.Strategy) *rdx.Error {
	return rdx.FormatError(UnsupportedError, "%s is not supported by %s lexer", op, st.String())
}

func leftRecursionError(cycle []string) *rdx.Error {
	return rdx.FormatError(LeftRecursionError, "left recursion: %s", strings.Join(cycle, " -> "))
}
