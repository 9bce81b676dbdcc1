package validator

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError represents a single validation failure attached to a field.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors represents a collection of validation failures.
// It preserves the order in which rules were applied so callers can
// surface the first message per field deterministically.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}

	var parts []string
	for _, err := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (fe *FieldErrors) Add(err FieldError) {
	*fe = append(*fe, err)
}

func (fe FieldErrors) Has(field string) bool {
	for _, err := range fe {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Get returns all messages recorded for a field, in rule order.
func (fe FieldErrors) Get(field string) []string {
	var messages []string
	for _, err := range fe {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

func (fe FieldErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range fe {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

func (fe FieldErrors) IsEmpty() bool {
	return len(fe) == 0
}

// Map converts the collection into a field -> messages mapping suitable
// for JSON responses.
func (fe FieldErrors) Map() map[string][]string {
	if len(fe) == 0 {
		return nil
	}
	m := make(map[string][]string, len(fe))
	for _, err := range fe {
		m[err.Field] = append(m[err.Field], err.Message)
	}
	return m
}

// Rule represents a single validation rule.
type Rule struct {
	Check func() bool
	Error FieldError
}

// Apply executes the rules in order and returns accumulated FieldErrors,
// or nil when every rule passes.
func Apply(rules ...Rule) error {
	var errs FieldErrors

	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}

	if errs.IsEmpty() {
		return nil
	}

	return errs
}

// Extract extracts FieldErrors from an error chain.
func Extract(err error) FieldErrors {
	if err == nil {
		return nil
	}

	var fieldErrs FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}

	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var fieldErrs FieldErrors
	return errors.As(err, &fieldErrs)
}
