package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, matched with errors.Is
var (
	ErrSchema           = errors.New("cannot process this file")
	ErrDateParse        = errors.New("invalid date")
	ErrValueParse       = errors.New("invalid value")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrEmptyResult      = errors.New("no trades match the current selection")
	ErrLedgerNotFound   = errors.New("ledger not found")
)

// SchemaError reports required columns missing from a trade log
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required column(s): %s", ErrSchema, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// DateParseError reports a date cell that could not be parsed.
// Row is the 0-based index of the data row, excluding the header.
type DateParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("%s in row %d, column %q: %q", ErrDateParse, e.Row, e.Column, e.Value)
}

func (e *DateParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDateParse}
	}
	return []error{ErrDateParse, e.Err}
}

// ValueParseError reports a numeric cell that could not be parsed
type ValueParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ValueParseError) Error() string {
	return fmt.Sprintf("%s in row %d, column %q: %q", ErrValueParse, e.Row, e.Column, e.Value)
}

func (e *ValueParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValueParse}
	}
	return []error{ErrValueParse, e.Err}
}

// InvalidParameterError reports a rejected aggregation parameter
type InvalidParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s %s=%v: %s", ErrInvalidParameter, e.Name, e.Value, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error { return ErrInvalidParameter }

// EmptyResultWarning marks a view whose selection produced no trades.
// It is attached to results and never returned as a failure.
type EmptyResultWarning struct {
	View string
}

func (w *EmptyResultWarning) Error() string {
	return fmt.Sprintf("%s: %s", w.View, ErrEmptyResult)
}

func (w *EmptyResultWarning) Unwrap() error { return ErrEmptyResult }

// MarshalText lets warnings render as plain strings in JSON responses
func (w *EmptyResultWarning) MarshalText() ([]byte, error) {
	return []byte(w.Error()), nil
}

// IsInputError reports whether err was caused by bad user input
func IsInputError(err error) bool {
	return errors.Is(err, ErrSchema) ||
		errors.Is(err, ErrDateParse) ||
		errors.Is(err, ErrValueParse) ||
		errors.Is(err, ErrInvalidParameter)
}
