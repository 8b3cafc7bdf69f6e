package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/gopher-lua/parse"
)

var (
	// ErrSyntax matches errors for input that is not valid Lua.
	ErrSyntax = errors.New("syntax error")
	// ErrVerification matches errors from the output self-check.
	ErrVerification = errors.New("output verification failed")
)

// SyntaxError reports where the input failed to parse. Line is 0 when the
// error is at end of input.
type SyntaxError struct {
	Line    int
	Column  int
	Token   string
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Line <= 0 {
		return fmt.Sprintf("syntax error at end of input: %s", e.Message)
	}
	return fmt.Sprintf("syntax error at line %d, column %d near '%s': %s", e.Line, e.Column, e.Token, e.Message)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// VerificationError is returned when formatted output does not parse back
// to the same program.
type VerificationError struct {
	Reason string
}

func (e *VerificationError) Error() string {
	return "output verification failed: " + e.Reason
}

func (e *VerificationError) Unwrap() error { return ErrVerification }

func syntaxErrorFrom(err error) error {
	var perr *parse.Error
	if errors.As(err, &perr) {
		line := perr.Pos.Line
		if line < 0 {
			line = 0
		}
		return &SyntaxError{
			Line:    line,
			Column:  perr.Pos.Column,
			Token:   perr.Token,
			Message: strings.TrimSpace(perr.Message),
		}
	}
	return &SyntaxError{Message: strings.TrimSpace(err.Error())}
}
