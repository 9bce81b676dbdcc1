package cookie

import "errors"

var (
	// ErrNoSecret is returned when a Manager is created without signing secrets.
	ErrNoSecret = errors.New("cookie: at least one signing secret is required")
	// ErrSecretTooShort is returned when a signing secret is below the minimum length.
	ErrSecretTooShort = errors.New("cookie: signing secret too short")
	// ErrCookieNotFound is returned when the requested cookie is absent.
	ErrCookieNotFound = errors.New("cookie: not found")
	// ErrInvalidSignature is returned when a signed cookie fails verification.
	ErrInvalidSignature = errors.New("cookie: invalid signature")
)
