package test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/ava12/rdx"
)

func fatalf(t *testing.T, message string, params ...any) {
	t.Helper()
	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}
	_, thisFile, _, _ := runtime.Caller(0)
	file := thisFile
	line := 0
	for i := 2; file == thisFile; i++ {
		_, file, line, _ = runtime.Caller(i)
	}
	t.Fatalf("%s at %s:%d", message, file, line)
}

// ExpectErrorCode fails the test unless e is *rdx.Error with expected code.
func ExpectErrorCode(t *testing.T, expected int, e error) *rdx.Error {
	t.Helper()
	if e != nil {
		ee, valid := e.(*rdx.Error)
		if valid && ee.Code == expected {
			return ee
		}
	}

	fatalf(t, "expecting error code %d, got %v", expected, e)
	return nil
}

// ExpectErrorPos fails the test unless e is *rdx.Error with expected code and position.
func ExpectErrorPos(t *testing.T, code, line, col int, e error) {
	t.Helper()
	ee := ExpectErrorCode(t, code, e)
	if ee.Line != line || ee.Col != col {
		fatalf(t, "expecting error at line %d col %d, got %q", line, col, ee.Message)
	}
}
