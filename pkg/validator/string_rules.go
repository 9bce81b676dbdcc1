package validator

import (
	"fmt"
	"strings"
)

// Required validates that a string is not empty after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: FieldError{
			Field:   field,
			Message: "field is required",
		},
	}
}

// RequiredWithMessage behaves like Required but with a caller-supplied message.
func RequiredWithMessage(field, value, message string) Rule {
	r := Required(field, value)
	r.Error.Message = message
	return r
}

func MinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) >= min
		},
		Error: FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters long", min),
		},
	}
}

func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) <= max
		},
		Error: FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", max),
		},
	}
}

// Equal validates that two string values match, reporting the error on field.
func Equal(field, value, other, message string) Rule {
	return Rule{
		Check: func() bool {
			return value == other
		},
		Error: FieldError{
			Field:   field,
			Message: message,
		},
	}
}
