package web

import (
	"strings"

	"github.com/viralpost/authgate/internal/identity"
)

// friendlyMessages maps provider error substrings to the copy shown to
// users. Matching is case-insensitive and the first hit wins, so more
// specific fragments must come before broader ones.
var friendlyMessages = []struct {
	fragment string
	message  string
}{
	{"invalid login credentials", "Invalid email or password. Please check your credentials and try again."},
	{"email not confirmed", "Please check your email and click the confirmation link before signing in."},
	{"user already registered", "An account with this email already exists. Try signing in instead."},
	{"password should be at least", "Password must be at least 8 characters long."},
	{"signup is disabled", "New registrations are currently disabled. Please contact support."},
	{"rate limit", "Too many attempts. Please wait a few minutes before trying again."},
}

// Friendly translates a provider error into user-facing copy. Messages
// without a known fragment pass through unchanged so unexpected provider
// errors stay diagnosable.
func Friendly(err error) string {
	msg := identity.ProviderMessage(err)
	lower := strings.ToLower(msg)

	for _, fm := range friendlyMessages {
		if strings.Contains(lower, fm.fragment) {
			return fm.message
		}
	}
	return msg
}
