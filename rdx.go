/*
Package rdx is a backtracking recursive-descent parser generator.

Consists of subpackages:
  - cmd/rdx: console utility checking grammars, parsing files, and generating Go source with compiled grammars;
  - grammar: intermediate form of a compiled grammar: options, token definitions, and rule expression trees;
  - langdef: converts grammar description (tokens, separators, rules with semantic actions) to grammar;
  - action: compiles and runs semantic actions embedded in grammar description;
  - lexer: tokens and lexer strategies (combined regexp, longest match, cached, context-sensitive);
  - parser: backtracking parser engine interpreting grammar rules;
  - source: defines source text used by lexers.

Typical usage is:

1. Describe grammar: token and separator definitions plus rules with embedded actions.

2. Compile the description using langdef subpackage "on the fly"
or rdx gen utility to generate Go file.

3. Create new parser for the grammar and feed it input texts.
*/
package rdx

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	LangDefErrors  = 1   // used by langdef
	LexicalErrors  = 101 // used by lexer
	SyntaxErrors   = 201 // used by parser
	SemanticErrors = 301 // used by parser for failed or raising actions
	ParserErrors   = 401 // used by parser
)

// Error is the error type used by rdx subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source text or 0.
	Line int

	// Col contains column number in source text or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and lexer.Token implement this interface.
type SourcePos interface {
	// SourceName returns source name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// line and col will be added to error message if provided (non-zero), as well as non-empty name.
func NewError(code int, msg, name string, line, col int) *Error {
	if line != 0 && col != 0 {
		if name != "" {
			msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
		} else {
			msg += fmt.Sprintf(" at line %d col %d", line, col)
		}
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// Class returns error class of e.Code, e.g. SyntaxErrors.
func (e *Error) Class() int {
	return Class(e.Code)
}

// Class returns error class for error code, 0 for non-positive codes.
func Class(code int) int {
	if code <= 0 {
		return 0
	}

	return (code-1)/100*100 + 1
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
