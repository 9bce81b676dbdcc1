package authstate_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viralpost/authgate/internal/authstate"
	"github.com/viralpost/authgate/pkg/broadcast"
)

func newStore(t *testing.T) *authstate.Store {
	t.Helper()
	s := authstate.NewStore()
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	assert.Equal(t, authstate.State{}, s.Snapshot())
	assert.False(t, s.Hydrated())
}

func TestLoadingCoupling(t *testing.T) {
	t.Parallel()

	t.Run("signing in couples loading", func(t *testing.T) {
		t.Parallel()
		s := newStore(t)

		s.SetSigningIn(true)
		st := s.Snapshot()
		assert.True(t, st.IsSigningIn)
		assert.True(t, st.IsLoading)

		s.SetSigningIn(false)
		st = s.Snapshot()
		assert.False(t, st.IsSigningIn)
		assert.False(t, st.IsLoading)
	})

	t.Run("signing up couples loading", func(t *testing.T) {
		t.Parallel()
		s := newStore(t)

		s.SetSigningUp(true)
		assert.True(t, s.Snapshot().IsLoading)
	})

	t.Run("resetting password couples loading", func(t *testing.T) {
		t.Parallel()
		s := newStore(t)

		s.SetResettingPassword(true)
		assert.True(t, s.Snapshot().IsLoading)
	})

	t.Run("loading stays up while any mode flag is set", func(t *testing.T) {
		t.Parallel()
		s := newStore(t)

		s.SetSigningIn(true)
		s.SetSigningUp(true)
		s.SetSigningIn(false)

		st := s.Snapshot()
		assert.True(t, st.IsSigningUp)
		assert.True(t, st.IsLoading, "loading must hold while sign-up is in flight")

		s.SetLoading(false)
		assert.True(t, s.Snapshot().IsLoading, "explicit SetLoading cannot break the invariant")
	})
}

func TestSetError(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	s.SetSigningIn(true)
	s.SetError("Invalid email or password. Please check your credentials and try again.")

	st := s.Snapshot()
	assert.Equal(t, "Invalid email or password. Please check your credentials and try again.", st.Error)
	assert.False(t, st.IsLoading, "an error always ends the loading indication")
	assert.False(t, st.IsSigningIn)
}

func TestClearErrorIdempotent(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	sub := s.Subscribe(context.Background())

	before := s.Snapshot()
	s.ClearError()
	assert.Equal(t, before, s.Snapshot())

	// No notification for a no-op clear.
	select {
	case msg := <-sub.Receive(context.Background()):
		t.Fatalf("unexpected notification: %+v", msg.Data)
	case <-time.After(50 * time.Millisecond):
	}

	s.SetError("boom")
	s.ClearError()
	assert.Empty(t, s.Snapshot().Error)
}

func TestResetPreservesRememberMe(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	s.SetRememberMe(true)
	s.SetShowPassword(true)
	s.SetSigningUp(true)
	s.SetError("boom")

	s.Reset()

	st := s.Snapshot()
	assert.True(t, st.RememberMe, "remember-me must survive a reset")
	assert.Equal(t, authstate.State{RememberMe: true}, st)
}

func TestRehydrate(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	s.Rehydrate(authstate.Preferences{RememberMe: true, ShowPassword: true})

	assert.True(t, s.Hydrated())
	st := s.Snapshot()
	assert.True(t, st.RememberMe)
	assert.True(t, st.ShowPassword)
	// Transient fields stay at defaults.
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	t.Parallel()
	s := newStore(t)

	sub := s.Subscribe(context.Background())
	s.SetSigningIn(true)

	st := receiveState(t, sub)
	assert.True(t, st.IsSigningIn)
	assert.True(t, st.IsLoading)
}

func receiveState(t *testing.T, sub broadcast.Subscriber[authstate.State]) authstate.State {
	t.Helper()
	select {
	case msg, ok := <-sub.Receive(context.Background()):
		require.True(t, ok)
		return msg.Data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for state notification")
		panic("unreachable")
	}
}
