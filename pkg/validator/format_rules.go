package validator

import (
	"net/mail"
	"net/url"
	"strings"
)

// ValidEmail validates that a string is a valid email address using RFC 5322
// parsing plus stricter checks suited to web sign-up forms.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}

			addr, err := mail.ParseAddress(value)
			if err != nil {
				return false
			}

			parts := strings.Split(addr.Address, "@")
			if len(parts) != 2 {
				return false
			}

			localPart := parts[0]
			domain := parts[1]

			if localPart == "" {
				return false
			}

			// Domain must contain at least one dot and cannot start/end with dot
			if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
				return false
			}

			for _, part := range strings.Split(domain, ".") {
				if part == "" {
					return false
				}
			}

			return true
		},
		Error: FieldError{
			Field:   field,
			Message: "must be a valid email address",
		},
	}
}

// ValidURL validates that a string parses as an absolute http(s) URL.
func ValidURL(field, value string) Rule {
	return Rule{
		Check: func() bool {
			u, err := url.Parse(value)
			if err != nil {
				return false
			}
			return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
		},
		Error: FieldError{
			Field:   field,
			Message: "must be a valid URL",
		},
	}
}

// RelativePath validates that a string is a same-origin relative path:
// it must start with a single "/" and cannot be a protocol-relative URL.
func RelativePath(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if !strings.HasPrefix(value, "/") {
				return false
			}
			// "//host" and "/\host" are treated as absolute by browsers
			if strings.HasPrefix(value, "//") || strings.HasPrefix(value, "/\\") {
				return false
			}
			return true
		},
		Error: FieldError{
			Field:   field,
			Message: "must be a relative path",
		},
	}
}
