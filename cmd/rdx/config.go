package main

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/ava12/rdx/grammar"
	"github.com/ava12/rdx/lexer"
	"github.com/ava12/rdx/parser"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

type config struct {
	Axiom      string         `toml:"axiom"`
	Format     string         `toml:"format"`
	Jobs       int            `toml:"jobs"`
	Lexer      string         `toml:"lexer"`
	TraceDepth int            `toml:"trace_depth"`
	Options    map[string]any `toml:"options"`
}

func defaultConfig() config {
	return config{
		Format: jsonFormat,
		Jobs:   runtime.NumCPU(),
	}
}

// load reads TOML file, unknown keys are reported as warnings.
func (c *config) load(name string, log logrus.FieldLogger) error {
	md, e := toml.DecodeFile(name, c)
	if e != nil {
		return errors.Wrapf(e, "cannot load config %s", name)
	}

	for _, key := range md.Undecoded() {
		log.WithField("key", key.String()).Warn("unknown config key")
	}
	log.WithField("config", name).Debug("config loaded")
	return nil
}

// override replaces settings with non-empty flag values.
func (c *config) override(lexerName, axiom, format string, jobs int) {
	if lexerName != "" {
		c.Lexer = lexerName
	}
	if axiom != "" {
		c.Axiom = axiom
	}
	if format != "" {
		c.Format = format
	}
	if jobs > 0 {
		c.Jobs = jobs
	}
}

func (c *config) validate() error {
	if c.Format != jsonFormat && c.Format != yamlFormat {
		return fmt.Errorf("unknown output format %q", c.Format)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be positive, got %d", c.Jobs)
	}
	if c.TraceDepth < 0 {
		return fmt.Errorf("trace depth must not be negative, got %d", c.TraceDepth)
	}
	_, e := lexer.ParseStrategy(c.Lexer)
	return e
}

// apply sets configured grammar options in name order.
func (c *config) apply(o *grammar.Options) error {
	names := make([]string, 0, len(c.Options))
	for name := range c.Options {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value, e := cast.ToStringE(c.Options[name])
		if e == nil {
			e = o.Set(name, value)
		}
		if e != nil {
			return errors.Wrapf(e, "config option %s", name)
		}
	}
	return nil
}

func (c *config) parserOptions() []parser.Option {
	var res []parser.Option
	if c.Lexer != "" {
		st, _ := lexer.ParseStrategy(c.Lexer)
		res = append(res, parser.WithLexer(st))
	}
	if c.Axiom != "" {
		res = append(res, parser.WithAxiom(c.Axiom))
	}
	return res
}
