// Package authstate holds the transient auth UI state: loading flags, the
// current top-level error message and form preferences. The store is an
// explicit, injectable container owned by the composition root; tests create
// as many isolated instances as they need.
package authstate

import (
	"context"
	"sync"

	"github.com/viralpost/authgate/pkg/broadcast"
)

// State is the auth UI state snapshot handed to readers and subscribers.
// Only RememberMe and ShowPassword survive a reload; everything else resets
// to defaults on every fresh load.
type State struct {
	IsLoading           bool   `json:"is_loading"`
	IsSigningIn         bool   `json:"is_signing_in"`
	IsSigningUp         bool   `json:"is_signing_up"`
	IsResettingPassword bool   `json:"is_resetting_password"`
	Error               string `json:"error,omitempty"`
	ShowPassword        bool   `json:"show_password"`
	RememberMe          bool   `json:"remember_me"`
}

// Store is a concurrency-safe auth UI state container. Every mutation
// replaces the full snapshot atomically and notifies subscribers.
//
// Invariant: IsLoading is true whenever any of the mode flags
// (IsSigningIn, IsSigningUp, IsResettingPassword) is true.
type Store struct {
	mu       sync.RWMutex
	state    State
	hydrated bool
	changes  *broadcast.MemoryBroadcaster[State]
}

// NewStore creates a store with default state. The store reports
// Hydrated() == false until persisted preferences are applied, so consumers
// can render a neutral placeholder instead of flickering defaults.
func NewStore() *Store {
	return &Store{
		changes: broadcast.NewMemoryBroadcaster[State](8),
	}
}

// Close shuts down the change stream.
func (s *Store) Close() error {
	return s.changes.Close()
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Hydrated reports whether persisted preferences have been applied.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Subscribe delivers a snapshot after every state change for the lifetime
// of ctx.
func (s *Store) Subscribe(ctx context.Context) broadcast.Subscriber[State] {
	return s.changes.Subscribe(ctx)
}

// SetLoading toggles the generic loading flag. It cannot drop below the
// coupling invariant while a mode flag is active.
func (s *Store) SetLoading(loading bool) {
	s.update(func(st *State) {
		st.IsLoading = loading || st.IsSigningIn || st.IsSigningUp || st.IsResettingPassword
	})
}

// SetSigningIn toggles the sign-in flag, coupling IsLoading with it.
func (s *Store) SetSigningIn(signing bool) {
	s.update(func(st *State) {
		st.IsSigningIn = signing
		st.IsLoading = signing || st.IsSigningUp || st.IsResettingPassword
	})
}

// SetSigningUp toggles the sign-up flag, coupling IsLoading with it.
func (s *Store) SetSigningUp(signing bool) {
	s.update(func(st *State) {
		st.IsSigningUp = signing
		st.IsLoading = signing || st.IsSigningIn || st.IsResettingPassword
	})
}

// SetResettingPassword toggles the reset flag, coupling IsLoading with it.
func (s *Store) SetResettingPassword(resetting bool) {
	s.update(func(st *State) {
		st.IsResettingPassword = resetting
		st.IsLoading = resetting || st.IsSigningIn || st.IsSigningUp
	})
}

// SetError records a top-level error message. An error always ends any
// in-flight loading indication, so the mode flags and IsLoading drop
// together.
func (s *Store) SetError(msg string) {
	s.update(func(st *State) {
		st.Error = msg
		st.IsLoading = false
		st.IsSigningIn = false
		st.IsSigningUp = false
		st.IsResettingPassword = false
	})
}

// ClearError removes the error message. Calling it with no error set is a
// no-op and does not notify subscribers.
func (s *Store) ClearError() {
	s.update(func(st *State) {
		st.Error = ""
	})
}

func (s *Store) SetShowPassword(show bool) {
	s.update(func(st *State) {
		st.ShowPassword = show
	})
}

func (s *Store) SetRememberMe(remember bool) {
	s.update(func(st *State) {
		st.RememberMe = remember
	})
}

// Reset restores defaults but preserves RememberMe: the user's remember-me
// choice outlives a reset triggered by switching sign-in/sign-up modes.
func (s *Store) Reset() {
	s.update(func(st *State) {
		*st = State{RememberMe: st.RememberMe}
	})
}

// Rehydrate applies persisted preferences and marks the store hydrated.
// It is called once per load; a missing cookie still hydrates with defaults.
func (s *Store) Rehydrate(prefs Preferences) {
	s.mu.Lock()
	s.state.RememberMe = prefs.RememberMe
	s.state.ShowPassword = prefs.ShowPassword
	s.hydrated = true
	snapshot := s.state
	s.mu.Unlock()

	_ = s.changes.Broadcast(context.Background(), broadcast.Message[State]{Data: snapshot})
}

// update applies a mutation atomically and notifies subscribers when the
// snapshot actually changed.
func (s *Store) update(mutate func(*State)) {
	s.mu.Lock()
	before := s.state
	mutate(&s.state)
	after := s.state
	s.mu.Unlock()

	if before == after {
		return
	}
	_ = s.changes.Broadcast(context.Background(), broadcast.Message[State]{Data: after})
}
