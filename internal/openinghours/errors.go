package openinghours

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidWeekDay matches every InvalidWeekDayError via errors.Is
	ErrInvalidWeekDay = errors.New("invalid week day")
	// ErrInvalidNth is returned for ordinals outside 1..5 / -5..-1 or malformed ranges
	ErrInvalidNth = errors.New("invalid nth")
	// ErrSyntax is wrapped by ParseError for malformed selectors
	ErrSyntax = errors.New("syntax error")
)

// InvalidWeekDayError reports a label that is not one of the seven canonical forms
type InvalidWeekDayError struct {
	Text string
}

func (e *InvalidWeekDayError) Error() string {
	return fmt.Sprintf("%q is not a valid week day (expected one of %v)", e.Text, WeekDayLabels())
}

// Is lets errors.Is(err, ErrInvalidWeekDay) succeed
func (e *InvalidWeekDayError) Is(target error) bool {
	return target == ErrInvalidWeekDay
}

func newInvalidWeekDay(text string) error {
	return errors.WithStack(&InvalidWeekDayError{Text: text})
}

// ParseError locates a failure inside a selector string
type ParseError struct {
	Input  string
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q at offset %d: %v", e.Input, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
