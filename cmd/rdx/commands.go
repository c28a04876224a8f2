package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ava12/rdx/grammar"
	"github.com/ava12/rdx/langdef"
	"github.com/ava12/rdx/parser"
	"github.com/ava12/rdx/source"
)

func (c *env) loadGrammar(name string) (*grammar.Grammar, error) {
	content, e := os.ReadFile(name)
	if e != nil {
		return nil, errors.Wrapf(e, "cannot read grammar %s", name)
	}

	g, e := langdef.ParseBytes(name, content)
	if e != nil {
		return nil, e
	}

	e = c.cfg.apply(&g.Options)
	if e != nil {
		return nil, e
	}

	c.log.WithFields(logrus.Fields{
		"grammar": name,
		"tokens":  len(g.Tokens),
		"rules":   len(g.Rules),
	}).Debug("grammar loaded")
	return g, nil
}

func (c *env) newParser(name string, trace bool) (*parser.Parser, error) {
	g, e := c.loadGrammar(name)
	if e != nil {
		return nil, e
	}

	opts := c.cfg.parserOptions()
	if trace {
		c.log.SetLevel(logrus.DebugLevel)
		opts = append(opts, parser.WithTrace(c.log.WithField("grammar", name), c.cfg.TraceDepth))
	}
	return parser.New(g, opts...)
}

func (c *env) check(names []string) bool {
	failed := false
	for _, name := range names {
		g, e := c.loadGrammar(name)
		var p *parser.Parser
		if e == nil {
			p, e = parser.New(g, c.cfg.parserOptions()...)
		}
		if e != nil {
			c.failure(e)
			failed = true
			continue
		}

		axiom := p.Axiom()
		if g.Rule(axiom) == nil {
			c.warning("%s: axiom %q is not defined", name, axiom)
		} else {
			for _, r := range langdef.UnusedRules(g, axiom) {
				c.warning("%s: rule %q is not reachable from %s", name, r, axiom)
			}
		}

		fmt.Fprintf(c.stdout, "%s: %s tokens, %s rules, %s lexer\n", name,
			humanize.Comma(int64(len(g.Tokens))), humanize.Comma(int64(len(g.Rules))), p.Strategy())
	}
	return failed
}

type result struct {
	File  string `json:"file" yaml:"file"`
	Value any    `json:"value" yaml:"value"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	err   error
}

type parseSettings struct {
	trace        bool
	timeout      time.Duration
	samples      bool
	samplePrefix string
	expectError  bool
}

func (c *env) readSources(name string, s parseSettings) ([]*source.Source, int, error) {
	content, e := os.ReadFile(name)
	if e != nil {
		return nil, 0, errors.Wrapf(e, "cannot read %s", name)
	}

	text := string(content)
	if !utf8.ValidString(text) {
		return nil, 0, errors.Errorf("%s is not a valid UTF-8 text", name)
	}

	if s.samples || (s.samplePrefix != "" && strings.HasPrefix(text, s.samplePrefix)) {
		return splitSamples(name, text), len(content), nil
	}
	return []*source.Source{source.New(name, text)}, len(content), nil
}

func (c *env) parse(grammarName string, files []string, s parseSettings) bool {
	p, e := c.newParser(grammarName, s.trace)
	if e != nil {
		c.failure(e)
		return true
	}

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	jobs := c.cfg.Jobs
	if s.trace {
		jobs = 1
	}

	var size atomic.Int64
	started := time.Now()
	fileResults := make([][]result, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for i, name := range files {
		i, name := i, name
		eg.Go(func() error {
			sources, n, e := c.readSources(name, s)
			if e != nil {
				return e
			}

			size.Add(int64(n))
			for _, src := range sources {
				v, e := p.ParseSource(ctx, p.Axiom(), src)
				r := result{File: src.Name(), Value: v, err: e}
				if e != nil {
					r.Error = e.Error()
				}
				fileResults[i] = append(fileResults[i], r)
				c.log.WithFields(logrus.Fields{"source": src.Name(), "ok": e == nil}).Debug("parsed")
			}
			return nil
		})
	}
	e = eg.Wait()
	if e != nil {
		c.failure(e)
		return true
	}

	failed := false
	var results []result
	for _, rs := range fileResults {
		for _, r := range rs {
			results = append(results, r)
			switch {
			case s.expectError && r.err == nil:
				c.failure(errors.Errorf("expecting error, got success in %s", r.File))
				failed = true
			case !s.expectError && r.err != nil:
				c.failure(r.err)
				failed = true
			}
		}
	}

	e = c.write(results)
	if e != nil {
		c.failure(e)
		return true
	}

	c.log.Debugf("parsed %d sources, %s in %s", len(results),
		humanize.Bytes(uint64(size.Load())), time.Since(started).Round(time.Millisecond))
	return failed
}

func (c *env) write(v any) error {
	if c.cfg.Format == yamlFormat {
		enc := yaml.NewEncoder(c.stdout)
		enc.SetIndent(2)
		e := enc.Encode(v)
		if e == nil {
			e = enc.Close()
		}
		return errors.Wrap(e, "cannot encode YAML")
	}

	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "cannot encode JSON")
}

func (c *env) tokens(grammarName, fileName string) bool {
	p, e := c.newParser(grammarName, false)
	if e != nil {
		c.failure(e)
		return true
	}

	content, e := os.ReadFile(fileName)
	if e != nil {
		c.failure(errors.Wrapf(e, "cannot read %s", fileName))
		return true
	}

	toks, e := p.TokenizeSource(source.New(fileName, string(content)))
	for _, t := range toks {
		fmt.Fprintf(c.stdout, "%d:%d\t%s\t%q\n", t.Line(), t.Col(), t.Name(), t.Text())
	}
	if e != nil {
		c.failure(e)
		return true
	}

	c.log.Debugf("%s tokens, %s", humanize.Comma(int64(len(toks))), humanize.Bytes(uint64(len(content))))
	return false
}
