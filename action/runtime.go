package action

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"
)

// ErrCheck is returned by Block.Run when check() got a false condition.
var ErrCheck = errors.New("check failed")

// RaiseError is returned by Block.Run when fail() was called.
type RaiseError struct {
	Message string
}

func (e *RaiseError) Error() string {
	return e.Message
}

// Host provides position data for helper functions.
type Host interface {
	// Line and Row return position after the last consumed token.
	Line() int
	Row() int
	// Extract returns source text between two marks.
	Extract(from, to any) (string, error)
}

var helperDecls = map[string]any{
	"line":     func() int { return 0 },
	"row":      func() int { return 0 },
	"extract":  func(from, to any) (string, error) { return "", nil },
	"check":    func(cond any) bool { return true },
	"fail":     func(msg any) any { return nil },
	"toInt":    cast.ToInt,
	"toFloat":  cast.ToFloat64,
	"toString": cast.ToString,
	"toBool":   cast.ToBool,
}

// IsHelper reports whether name is reserved for a helper function.
func IsHelper(name string) bool {
	_, has := helperDecls[name]
	return has
}

// Scope is a variable scope of one rule invocation.
type Scope map[string]any

// Runtime holds helper functions shared by all scopes of one parse.
// Not safe for concurrent use.
type Runtime struct {
	helpers map[string]any
	failed  error
}

// NewRuntime creates helpers bound to h.
func NewRuntime(h Host) *Runtime {
	r := &Runtime{}
	r.helpers = map[string]any{
		"line":    h.Line,
		"row":     h.Row,
		"extract": h.Extract,
		"check": func(cond any) bool {
			ok := cast.ToBool(cond)
			if !ok && r.failed == nil {
				r.failed = ErrCheck
			}
			return ok
		},
		"fail": func(msg any) any {
			if _, raised := r.failed.(*RaiseError); !raised {
				r.failed = &RaiseError{cast.ToString(msg)}
			}
			return nil
		},
		"toInt":    cast.ToInt,
		"toFloat":  cast.ToFloat64,
		"toString": cast.ToString,
		"toBool":   cast.ToBool,
	}
	return r
}

// Scope creates an empty variable scope.
func (r *Runtime) Scope() Scope {
	s := make(Scope, len(r.helpers)+4)
	for k, v := range r.helpers {
		s[k] = v
	}
	return s
}

func (r *Runtime) signal() error {
	e := r.failed
	r.failed = nil
	return e
}

// Convert converts value to parameter type, see grammar.Types.
func Convert(value any, typ string) (any, error) {
	switch typ {
	case "", "any":
		return value, nil
	case "int":
		return cast.ToIntE(value)
	case "float":
		return cast.ToFloat64E(value)
	case "string":
		return cast.ToStringE(value)
	case "bool":
		return cast.ToBoolE(value)
	case "list":
		if value == nil {
			return []any{}, nil
		}
		return cast.ToSliceE(value)
	case "map":
		if value == nil {
			return map[string]any{}, nil
		}
		return cast.ToStringMapE(value)
	default:
		return nil, fmt.Errorf("unknown type %q", typ)
	}
}
