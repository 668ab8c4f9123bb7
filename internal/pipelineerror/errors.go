// Package pipelineerror defines the typed errors raised along the
// extraction → classification → export pipeline.
package pipelineerror

import (
	"errors"
	"fmt"
)

// InputError is returned when a request cannot produce any output at all,
// for example an empty transaction list or a missing IBAN that was required.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input for %s: %s", e.Field, e.Reason)
}

// FormatError describes a single transaction that has an unexpected shape.
// Exporters skip the offending row and record the error as a warning.
type FormatError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("row %d: cannot use %s='%s': %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ClassificationError records a degradation of the categorization engine.
// It is logged, never returned to callers of the engine.
type ClassificationError struct {
	UserID string
	RuleID string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("classification degraded for user %s (rule %s): %v", e.UserID, e.RuleID, e.Err)
	}
	return fmt.Sprintf("classification degraded for user %s: %v", e.UserID, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// RuleError is returned by Rule.Validate for malformed categorization rules.
type RuleError struct {
	RuleID string
	Field  string
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: invalid %s: %s", e.RuleID, e.Field, e.Reason)
}

// ExtractionError is returned when raw source text could not be obtained,
// e.g. the PDF-to-text collaborator failed.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("text extraction failed for %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// UserMessage returns a human-readable reason for err that is safe to show
// to API and CLI users. Internal details are only exposed for input errors.
func UserMessage(err error) string {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr.Error()
	}
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr.Error()
	}
	var extractErr *ExtractionError
	if errors.As(err, &extractErr) {
		return "the source document could not be read"
	}
	return "the export could not be produced"
}

// IsInputError reports whether err is, or wraps, an InputError or RuleError.
func IsInputError(err error) bool {
	var inputErr *InputError
	var ruleErr *RuleError
	return errors.As(err, &inputErr) || errors.As(err, &ruleErr)
}
