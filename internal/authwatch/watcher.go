// Package authwatch mirrors the identity provider's auth state into local
// reactive state. A Watcher owns one provider subscription and forwards
// every delivered notification as a discrete snapshot update.
package authwatch

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/viralpost/authgate/internal/authstate"
	"github.com/viralpost/authgate/internal/identity"
	"github.com/viralpost/authgate/pkg/broadcast"
	"github.com/viralpost/authgate/pkg/logger"
)

const roleMetadataKey = "role"

// Snapshot is the watcher's view of the current auth state.
type Snapshot struct {
	User      *identity.User
	Session   *identity.Session
	IsLoading bool
}

// IsAuthenticated reports whether a signed-in user is present.
func (s Snapshot) IsAuthenticated() bool {
	return s.User != nil
}

// Role returns the user's role, read from user metadata first and app
// metadata second, defaulting to "user".
func (s Snapshot) Role() string {
	if s.User == nil {
		return ""
	}
	if role, ok := s.User.UserMetadata[roleMetadataKey].(string); ok && role != "" {
		return role
	}
	if role, ok := s.User.AppMetadata[roleMetadataKey].(string); ok && role != "" {
		return role
	}
	return "user"
}

// HasRole checks both metadata namespaces as equal-priority sources: the
// user-editable and application-controlled namespaces are ORed together.
func (s Snapshot) HasRole(role string) bool {
	if s.User == nil {
		return false
	}
	if r, ok := s.User.UserMetadata[roleMetadataKey].(string); ok && r == role {
		return true
	}
	if r, ok := s.User.AppMetadata[roleMetadataKey].(string); ok && r == role {
		return true
	}
	return false
}

func (s Snapshot) IsAdmin() bool {
	return s.HasRole("admin")
}

// IsPremium treats admins as premium.
func (s Snapshot) IsPremium() bool {
	return s.HasRole("premium") || s.IsAdmin()
}

// Watcher subscribes to provider auth-state notifications and keeps the
// latest snapshot. Updates are last-write-wins: the initial session fetch
// and the notification stream may race, and no reconciliation beyond
// provider delivery order is attempted.
type Watcher struct {
	client identity.Client
	store  *authstate.Store
	logger *slog.Logger

	changes *broadcast.MemoryBroadcaster[Snapshot]

	mu   sync.RWMutex
	snap Snapshot

	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher in its initial state: no user, no session,
// loading until the first fetch or notification lands.
func New(client identity.Client, store *authstate.Store, opts ...Option) *Watcher {
	w := &Watcher{
		client:  client,
		store:   store,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		changes: broadcast.NewMemoryBroadcaster[Snapshot](8),
		snap:    Snapshot{IsLoading: true},
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start subscribes to provider notifications and issues the initial session
// fetch. The subscription lives until Stop is called or ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	// Subscribe before the initial fetch so notifications emitted during
	// the fetch are not lost. The two may still race; last write wins.
	sub := w.client.OnAuthStateChange(ctx)

	go w.initialFetch(ctx)

	go func() {
		defer close(w.done)
		defer func() { _ = sub.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Receive(ctx):
				if !ok {
					return
				}
				w.applyEvent(msg.Data)
			}
		}
	}()
}

// Stop releases the provider subscription and waits for the event loop to
// drain. In-flight provider requests are not cancelled beyond ctx.
func (w *Watcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	_ = w.changes.Close()
}

// Snapshot returns the current auth state.
func (w *Watcher) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snap
}

// Subscribe delivers a snapshot after every auth-state change for the
// lifetime of ctx.
func (w *Watcher) Subscribe(ctx context.Context) broadcast.Subscriber[Snapshot] {
	return w.changes.Subscribe(ctx)
}

// SignOut requests provider sign-out. On success the local snapshot is NOT
// cleared here: the SIGNED_OUT notification performs the update, so a reader
// may briefly observe the old user until it arrives.
func (w *Watcher) SignOut(ctx context.Context) error {
	w.store.SetLoading(true)

	if err := w.client.SignOut(ctx); err != nil {
		w.logger.Error("sign out failed", logger.Error(err), logger.Component("authwatch"))
		w.store.SetError(identity.ProviderMessage(err))
		return err
	}

	w.store.SetLoading(false)
	return nil
}

// RefreshSession requests a fresh session and applies it directly without
// waiting for the notification.
func (w *Watcher) RefreshSession(ctx context.Context) (*identity.Session, error) {
	w.store.SetLoading(true)

	session, err := w.client.RefreshSession(ctx)
	if err != nil {
		w.logger.Error("session refresh failed", logger.Error(err), logger.Component("authwatch"))
		w.store.SetError(identity.ProviderMessage(err))
		return nil, err
	}

	w.apply(snapshotFromSession(session))
	w.store.SetLoading(false)
	return session, nil
}

func (w *Watcher) initialFetch(ctx context.Context) {
	session, err := w.client.GetSession(ctx)
	if err != nil {
		w.logger.Error("initial session fetch failed", logger.Error(err), logger.Component("authwatch"))
		w.store.SetError(identity.ProviderMessage(err))
		w.apply(Snapshot{})
		return
	}
	w.apply(snapshotFromSession(session))
}

func (w *Watcher) applyEvent(event Event) {
	w.logger.Debug("auth state changed",
		logger.Event(string(event.Type)),
		logger.Component("authwatch"),
	)
	w.apply(snapshotFromSession(event.Session))
}

func (w *Watcher) apply(snap Snapshot) {
	w.mu.Lock()
	w.snap = snap
	w.mu.Unlock()

	_ = w.changes.Broadcast(context.Background(), broadcast.Message[Snapshot]{Data: snap})
}

func snapshotFromSession(session *identity.Session) Snapshot {
	snap := Snapshot{Session: session}
	if session != nil {
		snap.User = session.User
	}
	return snap
}

// Event aliases the provider notification type consumed by the watcher.
type Event = identity.Event
