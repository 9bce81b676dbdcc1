package authstate_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viralpost/authgate/internal/authstate"
	"github.com/viralpost/authgate/pkg/cookie"
)

func newPersistor(t *testing.T) *authstate.CookiePersistor {
	t.Helper()
	m, err := cookie.New([]string{"0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)
	return authstate.NewCookiePersistor(m)
}

func TestSaveAndRehydrate(t *testing.T) {
	t.Parallel()
	p := newPersistor(t)

	source := authstate.NewStore()
	t.Cleanup(func() { _ = source.Close() })
	source.SetRememberMe(true)
	source.SetShowPassword(true)
	// Transient state must not leak into the cookie.
	source.SetError("boom")
	source.SetSigningIn(true)

	w := httptest.NewRecorder()
	require.NoError(t, p.Save(w, source))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, authstate.CookieName, cookies[0].Name)
	assert.False(t, cookies[0].HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])

	fresh := authstate.NewStore()
	t.Cleanup(func() { _ = fresh.Close() })
	p.Rehydrate(r, fresh)

	st := fresh.Snapshot()
	assert.True(t, fresh.Hydrated())
	assert.True(t, st.RememberMe)
	assert.True(t, st.ShowPassword)
	assert.Empty(t, st.Error)
	assert.False(t, st.IsSigningIn)
}

func TestLoadMissingCookie(t *testing.T) {
	t.Parallel()
	p := newPersistor(t)

	prefs := p.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, authstate.Preferences{}, prefs)
}

func TestLoadTamperedCookie(t *testing.T) {
	t.Parallel()
	p := newPersistor(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: authstate.CookieName, Value: "forged.signature"})

	assert.Equal(t, authstate.Preferences{}, p.Load(r))
}

func TestRehydrateWithoutCookieStillHydrates(t *testing.T) {
	t.Parallel()
	p := newPersistor(t)

	s := authstate.NewStore()
	t.Cleanup(func() { _ = s.Close() })
	p.Rehydrate(httptest.NewRequest(http.MethodGet, "/", nil), s)

	assert.True(t, s.Hydrated())
	assert.Equal(t, authstate.State{}, s.Snapshot())
}
