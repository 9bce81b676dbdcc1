package validator

import (
	"fmt"
	"regexp"
)

var (
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	digitRegex     = regexp.MustCompile(`[0-9]`)
)

// PasswordPolicy describes the password requirements enforced at sign-up.
type PasswordPolicy struct {
	MinLength        int
	MaxLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigit     bool
}

// DefaultPasswordPolicy returns the policy the identity provider expects:
// 8-128 characters with at least one lowercase letter, one uppercase letter
// and one digit.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        8,
		MaxLength:        128,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigit:     true,
	}
}

// PasswordMinLen validates minimum password length with a dedicated message.
func PasswordMinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) >= min
		},
		Error: FieldError{
			Field:   field,
			Message: fmt.Sprintf("password must be at least %d characters", min),
		},
	}
}

// PasswordMaxLen validates maximum password length with a dedicated message.
func PasswordMaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) <= max
		},
		Error: FieldError{
			Field:   field,
			Message: fmt.Sprintf("password must be less than %d characters", max+1),
		},
	}
}

func PasswordUppercase(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return uppercaseRegex.MatchString(value)
		},
		Error: FieldError{
			Field:   field,
			Message: "password must contain at least one uppercase letter",
		},
	}
}

func PasswordLowercase(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return lowercaseRegex.MatchString(value)
		},
		Error: FieldError{
			Field:   field,
			Message: "password must contain at least one lowercase letter",
		},
	}
}

func PasswordDigit(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return digitRegex.MatchString(value)
		},
		Error: FieldError{
			Field:   field,
			Message: "password must contain at least one number",
		},
	}
}

// PasswordStrength expands a policy into the individual content rules so each
// violated requirement yields its own field error.
func PasswordStrength(field, value string, policy PasswordPolicy) []Rule {
	rules := []Rule{
		PasswordMinLen(field, value, policy.MinLength),
		PasswordMaxLen(field, value, policy.MaxLength),
	}
	if policy.RequireLowercase {
		rules = append(rules, PasswordLowercase(field, value))
	}
	if policy.RequireUppercase {
		rules = append(rules, PasswordUppercase(field, value))
	}
	if policy.RequireDigit {
		rules = append(rules, PasswordDigit(field, value))
	}
	return rules
}
