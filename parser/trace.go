package parser

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ava12/rdx/lexer"
)

// tracer logs token match attempts without affecting parsing.
type tracer struct {
	log   logrus.FieldLogger
	depth int
	stack []string
	eats  int
}

func newTracer(log logrus.FieldLogger, depth int) *tracer {
	return &tracer{log: log, depth: depth}
}

func (t *tracer) enter(r *rule) {
	t.stack = append(t.stack, r.Name)
	t.log.WithFields(logrus.Fields{
		"rule":  r.doc,
		"stack": t.stackString(),
	}).Debug("enter")
}

func (t *tracer) leave() {
	t.stack = t.stack[:len(t.stack)-1]
}

// resume returns into r after the rest of the input failed to parse.
func (t *tracer) resume(r *rule) {
	t.stack = append(t.stack, r.Name)
}

func (t *tracer) stackString() string {
	names := t.stack
	if t.depth > 0 && len(names) > t.depth {
		names = names[len(names)-t.depth:]
		return "... " + strings.Join(names, " > ")
	}
	return strings.Join(names, " > ")
}

func (t *tracer) eat(name string, tok *lexer.Token, e error) {
	t.eats++
	fields := logrus.Fields{
		"token":   name,
		"matched": e == nil,
		"stack":   t.stackString(),
		"eats":    t.eats,
	}
	if tok != nil {
		fields["text"] = tok.Text()
		fields["line"] = tok.Line()
		fields["col"] = tok.Col()
	}
	if e != nil && e != lexer.ErrWrongToken {
		fields["error"] = e.Error()
	}
	t.log.WithFields(fields).Debug("eat")
}
