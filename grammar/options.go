package grammar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/ava12/rdx/lexer"
)

// Options are grammar settings changed with "set" statements.
type Options struct {
	// Lexer is lexer strategy name, see lexer.ParseStrategy.
	Lexer string

	WordBoundary bool
	IgnoreCase   bool
	Multiline    bool
	DotAll       bool
	Verbose      bool
	Unicode      bool

	// Locale is accepted for compatibility and does not change matching.
	Locale bool

	// Axiom is the rule used by parser when no axiom is given.
	Axiom string

	Trace      bool
	TraceDepth int

	MatchTimeout time.Duration
}

// DefaultOptions returns options of a grammar with no "set" statements.
func DefaultOptions() Options {
	return Options{WordBoundary: true, Axiom: DefaultAxiom, TraceDepth: 8}
}

// OptionError is returned by Options.Set.
type OptionError struct {
	Name    string
	Value   string
	Unknown bool
	Err     error
}

func (e *OptionError) Error() string {
	if e.Unknown {
		return fmt.Sprintf("unknown option %q", e.Name)
	}
	return fmt.Sprintf("invalid value %q for option %q (%s)", e.Value, e.Name, e.Err.Error())
}

func (e *OptionError) Unwrap() error {
	return e.Err
}

var flagOptions = []string{"ignorecase", "multiline", "dotall", "verbose", "locale", "unicode"}

func normalizeName(name string) string {
	name = strings.ReplaceAll(strings.ToLower(name), "-", "_")
	if strings.HasPrefix(name, "lexer_") {
		for _, f := range flagOptions {
			if name[6:] == f {
				return f
			}
		}
	}
	return name
}

// Set changes an option, empty value sets boolean option to true.
// Returns *OptionError on failure.
func (o *Options) Set(name, value string) error {
	fail := func(e error) error {
		return &OptionError{Name: name, Value: value, Err: e}
	}
	setBool := func(b *bool) error {
		if value == "" {
			*b = true
			return nil
		}

		v, e := cast.ToBoolE(value)
		if e != nil {
			return fail(e)
		}
		*b = v
		return nil
	}

	switch normalizeName(name) {
	case "lexer":
		_, e := lexer.ParseStrategy(value)
		if e != nil {
			return fail(e)
		}
		o.Lexer = value
	case "axiom":
		if value == "" {
			return fail(fmt.Errorf("empty axiom"))
		}
		o.Axiom = value
	case "word_boundary":
		return setBool(&o.WordBoundary)
	case "ignorecase":
		return setBool(&o.IgnoreCase)
	case "multiline":
		return setBool(&o.Multiline)
	case "dotall":
		return setBool(&o.DotAll)
	case "verbose":
		return setBool(&o.Verbose)
	case "locale":
		return setBool(&o.Locale)
	case "unicode":
		return setBool(&o.Unicode)
	case "trace":
		return setBool(&o.Trace)
	case "trace_depth":
		depth, e := cast.ToIntE(value)
		if e != nil || depth < 0 {
			return fail(fmt.Errorf("non-negative integer expected"))
		}
		o.TraceDepth = depth
	case "match_timeout":
		timeout, e := cast.ToDurationE(value)
		if e != nil {
			return fail(e)
		}
		o.MatchTimeout = timeout
	default:
		return &OptionError{Name: name, Value: value, Unknown: true}
	}
	return nil
}

// Strategy returns lexer strategy, invalid names fall back to lexer.Combined.
func (o Options) Strategy() lexer.Strategy {
	st, _ := lexer.ParseStrategy(o.Lexer)
	return st
}

// LexerConfig returns configuration for lexer.NewSet.
func (o Options) LexerConfig() lexer.Config {
	c := lexer.Config{WordBoundary: o.WordBoundary, MatchTimeout: o.MatchTimeout}
	flags := []struct {
		on   bool
		flag lexer.Flags
	}{
		{o.IgnoreCase, lexer.IgnoreCase},
		{o.Multiline, lexer.Multiline},
		{o.DotAll, lexer.DotAll},
		{o.Verbose, lexer.Verbose},
		{o.Locale, lexer.Locale},
		{o.Unicode, lexer.Unicode},
	}
	for _, f := range flags {
		if f.on {
			c.Flags |= f.flag
		}
	}
	return c
}

// String renders options that differ from defaults as "set" statements.
func (o Options) String() string {
	d := DefaultOptions()
	var sb strings.Builder
	set := func(name, value string) {
		sb.WriteString("set " + name + " = " + value + ";\n")
	}
	setBool := func(name string, value, def bool) {
		if value != def {
			set(name, strconv.FormatBool(value))
		}
	}

	if o.Lexer != d.Lexer {
		set("lexer", strconv.Quote(o.Lexer))
	}
	setBool("word_boundary", o.WordBoundary, d.WordBoundary)
	setBool("ignorecase", o.IgnoreCase, d.IgnoreCase)
	setBool("multiline", o.Multiline, d.Multiline)
	setBool("dotall", o.DotAll, d.DotAll)
	setBool("verbose", o.Verbose, d.Verbose)
	setBool("locale", o.Locale, d.Locale)
	setBool("unicode", o.Unicode, d.Unicode)
	if o.Axiom != d.Axiom {
		set("axiom", o.Axiom)
	}
	setBool("trace", o.Trace, d.Trace)
	if o.TraceDepth != d.TraceDepth {
		set("trace_depth", strconv.Itoa(o.TraceDepth))
	}
	if o.MatchTimeout != d.MatchTimeout {
		set("match_timeout", strconv.Quote(o.MatchTimeout.String()))
	}
	return sb.String()
}
