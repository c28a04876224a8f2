package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"os"
	"path/filepath"

	"github.com/dlclark/regexp2"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/ava12/rdx/grammar"
	"github.com/ava12/rdx/parser"
)

type genSettings struct {
	json                              bool
	outFileName, packageName, varName string
}

func (c *env) gen(name string, s genSettings) bool {
	if s.outFileName == "" {
		ext := filepath.Ext(name)
		s.outFileName = name[:len(name)-len(ext)]
		if s.json {
			s.outFileName += ".json"
		} else {
			s.outFileName += ".go"
		}
	}

	g, e := c.loadGrammar(name)
	if e == nil {
		_, e = parser.New(g)
	}
	var content []byte
	if e == nil {
		if s.json {
			content, e = makeJson(g)
		} else {
			content, e = makeGo(g, s)
		}
	}
	if e == nil {
		e = errors.Wrapf(os.WriteFile(s.outFileName, content, 0o666), "cannot write %s", s.outFileName)
	}

	if e != nil {
		c.failure(e)
		return true
	}

	c.log.Debugf("%s written, %s", s.outFileName, humanize.Bytes(uint64(len(content))))
	return false
}

func makeJson(g *grammar.Grammar) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

var identRe = regexp2.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*$`, regexp2.None)

func isIdent(name string) bool {
	res, e := identRe.MatchString(name)
	return e == nil && res
}

func makeGo(g *grammar.Grammar, s genSettings) ([]byte, error) {
	packageName := s.packageName
	if packageName == "" {
		dir, e := filepath.Abs(s.outFileName)
		if e != nil {
			return nil, e
		}

		packageName = filepath.Base(filepath.Dir(dir))
	}
	varName := s.varName
	if varName == "" {
		varName = g.Options.Axiom
	}

	if !isIdent(packageName) {
		return nil, fmt.Errorf("invalid package name: %s", packageName)
	}
	if !isIdent(varName) {
		return nil, fmt.Errorf("invalid variable name: %s", varName)
	}

	var buffer bytes.Buffer
	buffer.WriteString("// Code generated with rdx gen. DO NOT EDIT.\n\n" +
		"package " + packageName + "\n\n" +
		"import \"github.com/ava12/rdx/grammar\"\n\n" +
		"var " + varName + " = " + g.GoString() + "\n")
	return format.Source(buffer.Bytes())
}
