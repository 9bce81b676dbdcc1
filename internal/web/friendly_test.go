package web_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viralpost/authgate/internal/identity"
	"github.com/viralpost/authgate/internal/web"
)

func TestFriendly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider string
		want     string
	}{
		{
			name:     "invalid credentials",
			provider: "Invalid login credentials",
			want:     "Invalid email or password. Please check your credentials and try again.",
		},
		{
			name:     "email not confirmed",
			provider: "Email not confirmed",
			want:     "Please check your email and click the confirmation link before signing in.",
		},
		{
			name:     "already registered",
			provider: "User already registered",
			want:     "An account with this email already exists. Try signing in instead.",
		},
		{
			name:     "weak password",
			provider: "Password should be at least 6 characters",
			want:     "Password must be at least 8 characters long.",
		},
		{
			name:     "signups disabled",
			provider: "Signup is disabled",
			want:     "New registrations are currently disabled. Please contact support.",
		},
		{
			name:     "rate limited",
			provider: "email rate limit exceeded",
			want:     "Too many attempts. Please wait a few minutes before trying again.",
		},
		{
			name:     "case insensitive match",
			provider: "INVALID LOGIN CREDENTIALS",
			want:     "Invalid email or password. Please check your credentials and try again.",
		},
		{
			name:     "unknown message passes through",
			provider: "flow state expired",
			want:     "flow state expired",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := &identity.APIError{Status: 400, Message: tt.provider}
			assert.Equal(t, tt.want, web.Friendly(err))
		})
	}
}

func TestFriendlyPlainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "boom", web.Friendly(errors.New("boom")))
	assert.Empty(t, web.Friendly(nil))
}
