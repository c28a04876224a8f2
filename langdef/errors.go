package langdef

import (
	"strings"

	"github.com/ava12/rdx"
	"github.com/ava12/rdx/grammar"
	"github.com/ava12/rdx/lexer"
)

// Error codes used by langdef:
const (
	// UnexpectedEofError indicates that description ends in the middle of a statement.
	UnexpectedEofError = rdx.LangDefErrors + iota

	// UnexpectedTokenError indicates a token not allowed at current position.
	UnexpectedTokenError

	// TokenDefinedError indicates a token or separator defined twice.
	TokenDefinedError

	// RuleDefinedError indicates a rule defined twice.
	RuleDefinedError

	// RuleTokenError indicates a rule having the same name as a token or separator.
	RuleTokenError

	// UnknownSymbolError indicates references to undefined tokens or rules, message lists all of them.
	UnknownSymbolError

	// TokenArgsError indicates a token reference with arguments.
	TokenArgsError

	// ArgNumberError indicates a rule reference with more arguments than the rule has parameters.
	ArgNumberError

	// WrongRegexpError indicates a malformed regular expression or one matching empty string.
	WrongRegexpError

	// WrongCodeError indicates a malformed action.
	WrongCodeError

	// UnknownOptionError indicates unknown option name in "set" statement.
	UnknownOptionError

	// WrongOptionError indicates invalid option value.
	WrongOptionError

	// WrongTypeError indicates unknown rule parameter type.
	WrongTypeError

	// NoRulesError indicates description without rules.
	NoRulesError

	// WrongRepeatError indicates invalid repetition bounds.
	WrongRepeatError

	// ReservedNameError indicates a variable named after a helper function.
	ReservedNameError

	// SeparatorRefError indicates a separator referenced in a rule.
	SeparatorRefError

	// LeftRecursionError indicates a rule that can call itself before consuming any token.
	LeftRecursionError
)

func eofError(t *lexer.Token) *rdx.Error {
	return rdx.FormatErrorPos(t, UnexpectedEofError, "unexpected end of description")
}

func unexpectedTokenError(t *lexer.Token) *rdx.Error {
	return rdx.FormatErrorPos(t, UnexpectedTokenError, "unexpected %q", t.Text())
}

func tokenDefinedError(t *lexer.Token) *rdx.Error {
	return rdx.FormatErrorPos(t, TokenDefinedError, "token %q already defined", t.Text())
}

func ruleDefinedError(t *lexer.Token) *rdx.Error {
	return rdx.FormatErrorPos(t, RuleDefinedError, "rule %q already defined", t.Text())
}

func ruleTokenError(t *lexer.Token) *rdx.Error {
	return rdx.FormatErrorPos(t, RuleTokenError, "%q is defined both as a rule and a token", t.Text())
}

func unknownSymbolError(names []string) *rdx.Error {
	return rdx.FormatError(UnknownSymbolError, "undefined tokens or rules: "+strings.Join(names, ", "))
}

func tokenArgsError(rule, token string) *rdx.Error {
	return rdx.FormatError(TokenArgsError, "token %q cannot have arguments (rule %q)", token, rule)
}

func argNumberError(rule string, s *grammar.Symbol, params int) *rdx.Error {
	return rdx.FormatError(ArgNumberError, "rule %q takes at most %d arguments, %d passed in rule %q",
		s.Name, params, len(s.Args), rule)
}

// wrongRegexpError repositions lexer error e.
func wrongRegexpError(src string, line, col int, e error) *rdx.Error {
	return rdx.NewError(WrongRegexpError, e.Error(), src, line, col)
}

func wrongCodeError(src string, c *grammar.Code, e error) *rdx.Error {
	return rdx.NewError(WrongCodeError, "incorrect action "+c.String()+" ("+e.Error()+")", src, c.Line, c.Col)
}

func unknownOptionError(t *lexer.Token) *rdx.Error {
	return rdx.FormatErrorPos(t, UnknownOptionError, "unknown option %q", t.Text())
}

func wrongOptionError(t *lexer.Token, e error) *rdx.Error {
	return rdx.FormatErrorPos(t, WrongOptionError, e.Error())
}

func wrongTypeError(t *lexer.Token) *rdx.Error {
	return rdx.FormatErrorPos(t, WrongTypeError, "unknown type %q, expecting one of: %s", t.Text(), strings.Join(grammar.Types, ", "))
}

func noRulesError() *rdx.Error {
	return rdx.FormatError(NoRulesError, "no rules defined")
}

func wrongRepeatError(t *lexer.Token, min, max int) *rdx.Error {
	return rdx.FormatErrorPos(t, WrongRepeatError, "invalid repetition bounds {%d,%d}", min, max)
}

func reservedNameError(t *lexer.Token) *rdx.Error {
	return rdx.FormatErrorPos(t, ReservedNameError, "cannot use reserved name %q", t.Text())
}

func separatorRefError(rule, name string) *rdx.Error {
	return rdx.FormatError(SeparatorRefError, "separator %q referenced in rule %q", name, rule)
}

func leftRecursionError(src string, r *grammar.Rule, cycle []string) *rdx.Error {
	return rdx.NewError(LeftRecursionError, "left recursion: "+strings.Join(cycle, " -> "), src, r.Line, r.Col)
}
