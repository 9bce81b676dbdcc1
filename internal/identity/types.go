package identity

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record owned by the provider. It is read-only from
// this service's perspective; the provider creates it on sign-up or OAuth
// completion and mutates it on profile changes.
type User struct {
	ID           uuid.UUID      `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	AppMetadata  map[string]any `json:"app_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Session is the opaque token bundle issued by the provider. This service
// never constructs or parses the tokens; it only holds the reference and
// surfaces presence or absence.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// Expired reports whether the session's access token is past its expiry.
// Sessions without an expiry are treated as live.
func (s *Session) Expired() bool {
	if s == nil || s.ExpiresAt == 0 {
		return false
	}
	return time.Now().Unix() >= s.ExpiresAt
}

// EventType identifies an auth-state change notification.
type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
	EventUserUpdated    EventType = "USER_UPDATED"
)

// Event is delivered to auth-state change subscribers. Session is nil for
// sign-out events.
type Event struct {
	Type    EventType
	Session *Session
}

// SignUpParams carries a sign-up request. RedirectTo is appended to the
// confirmation email link so the user lands back on the intended page.
type SignUpParams struct {
	Email      string
	Password   string
	RedirectTo string
	Data       map[string]any
}

// OAuthParams configures a redirect-based OAuth sign-in.
type OAuthParams struct {
	Provider   string
	RedirectTo string
	Scopes     string
}

// IDTokenParams configures an ID-token sign-in (Google One Tap and
// pre-built button flows).
type IDTokenParams struct {
	Provider string
	Token    string
	Nonce    string
}
