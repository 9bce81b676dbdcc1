// Package identity wraps the hosted identity provider's REST API. All
// security-sensitive work (password storage, token issuance, OAuth code
// exchange, nonce verification) happens on the provider side; this package
// only transports requests and mirrors the resulting session.
package identity

import (
	"context"

	"github.com/viralpost/authgate/pkg/broadcast"
)

// Client is the surface consumed by forms, the session watcher and the
// OAuth callback handler.
type Client interface {
	// GetSession returns the current session, or nil when signed out.
	GetSession(ctx context.Context) (*Session, error)

	// OnAuthStateChange subscribes to auth-state change notifications for
	// the lifetime of ctx.
	OnAuthStateChange(ctx context.Context) broadcast.Subscriber[Event]

	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, params SignUpParams) (*Session, error)
	SignOut(ctx context.Context) error
	RefreshSession(ctx context.Context) (*Session, error)

	// SignInWithOAuth returns the provider authorization URL the browser
	// must be redirected to.
	SignInWithOAuth(ctx context.Context, params OAuthParams) (string, error)
	SignInWithIDToken(ctx context.Context, params IDTokenParams) (*Session, error)
	ExchangeCodeForSession(ctx context.Context, code string) (*Session, error)

	RequestPasswordReset(ctx context.Context, email string) error
}
