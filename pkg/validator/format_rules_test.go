package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viralpost/authgate/pkg/validator"
)

func TestValidEmail(t *testing.T) {
	t.Parallel()

	t.Run("valid addresses", func(t *testing.T) {
		t.Parallel()
		for _, email := range []string{
			"user@example.com",
			"first.last@sub.example.co",
			"user+tag@example.org",
		} {
			assert.NoError(t, validator.Apply(validator.ValidEmail("email", email)), email)
		}
	})

	t.Run("invalid addresses", func(t *testing.T) {
		t.Parallel()
		for _, email := range []string{
			"",
			"   ",
			"plainaddress",
			"@example.com",
			"user@",
			"user@nodot",
			"user@.example.com",
			"user@example.com.",
			"user@example..com",
		} {
			assert.Error(t, validator.Apply(validator.ValidEmail("email", email)), email)
		}
	})
}

func TestValidURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		valid bool
	}{
		{"https://example.com", true},
		{"http://localhost:3000", true},
		{"https://app.viralpost.io/path?x=1", true},
		{"", false},
		{"not-a-url", false},
		{"ftp://example.com", false},
		{"https://", false},
	}

	for _, tt := range tests {
		err := validator.Apply(validator.ValidURL("url", tt.value))
		if tt.valid {
			assert.NoError(t, err, tt.value)
		} else {
			assert.Error(t, err, tt.value)
		}
	}
}

func TestRelativePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		valid bool
	}{
		{"/", true},
		{"/dashboard", true},
		{"/account/settings?tab=profile", true},
		{"", false},
		{"dashboard", false},
		{"//evil.example.com", false},
		{`/\evil.example.com`, false},
		{"https://evil.example.com", false},
	}

	for _, tt := range tests {
		err := validator.Apply(validator.RelativePath("next", tt.value))
		if tt.valid {
			assert.NoError(t, err, tt.value)
		} else {
			assert.Error(t, err, tt.value)
		}
	}
}
