package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/viralpost/authgate/internal/authstate"
	"github.com/viralpost/authgate/internal/authwatch"
	"github.com/viralpost/authgate/internal/identity"
	"github.com/viralpost/authgate/internal/web"
	"github.com/viralpost/authgate/pkg/broadcast"
)

type fakeClient struct {
	mu     sync.Mutex
	events *broadcast.MemoryBroadcaster[identity.Event]

	session *identity.Session
	getErr  error

	signInSession *identity.Session
	signInErr     error
	signInCalls   int
	lastEmail     string
	lastPassword  string

	signUpSession *identity.Session
	signUpErr     error
	lastSignUp    identity.SignUpParams

	signOutErr error

	exchangeSession *identity.Session
	exchangeErr     error
	lastCode        string

	idTokenSession *identity.Session
	idTokenErr     error
	lastIDToken    identity.IDTokenParams

	oauthURL  string
	lastOAuth identity.OAuthParams

	resetErr       error
	lastResetEmail string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		events:   broadcast.NewMemoryBroadcaster[identity.Event](8),
		oauthURL: "https://supabase.example.com/auth/v1/authorize?provider=google",
	}
}

func (f *fakeClient) emitSignedIn(s *identity.Session) {
	_ = f.events.Broadcast(context.Background(), broadcast.Message[identity.Event]{
		Data: identity.Event{Type: identity.EventSignedIn, Session: s},
	})
}

func (f *fakeClient) GetSession(context.Context) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.getErr
}

func (f *fakeClient) OnAuthStateChange(ctx context.Context) broadcast.Subscriber[identity.Event] {
	return f.events.Subscribe(ctx)
}

func (f *fakeClient) SignInWithPassword(_ context.Context, email, password string) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signInCalls++
	f.lastEmail, f.lastPassword = email, password
	return f.signInSession, f.signInErr
}

func (f *fakeClient) SignUp(_ context.Context, params identity.SignUpParams) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSignUp = params
	return f.signUpSession, f.signUpErr
}

func (f *fakeClient) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signOutErr
}

func (f *fakeClient) RefreshSession(context.Context) (*identity.Session, error) {
	return nil, identity.ErrNoSession
}

func (f *fakeClient) SignInWithOAuth(_ context.Context, params identity.OAuthParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOAuth = params
	return f.oauthURL, nil
}

func (f *fakeClient) SignInWithIDToken(_ context.Context, params identity.IDTokenParams) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastIDToken = params
	return f.idTokenSession, f.idTokenErr
}

func (f *fakeClient) ExchangeCodeForSession(_ context.Context, code string) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCode = code
	return f.exchangeSession, f.exchangeErr
}

func (f *fakeClient) RequestPasswordReset(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastResetEmail = email
	return f.resetErr
}

func testSession() *identity.Session {
	return &identity.Session{
		AccessToken:  "access-token",
		TokenType:    "bearer",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		RefreshToken: "refresh-token",
		User: &identity.User{
			ID:           uuid.New(),
			Email:        "creator@viralpost.io",
			UserMetadata: map[string]any{},
			AppMetadata:  map[string]any{},
		},
	}
}

type fixture struct {
	client  *fakeClient
	store   *authstate.Store
	watcher *authwatch.Watcher
	handler *web.Handler
	router  http.Handler
}

func newFixture(t *testing.T, opts ...web.Option) *fixture {
	t.Helper()

	client := newFakeClient()
	store := authstate.NewStore()
	t.Cleanup(func() { _ = store.Close() })

	watcher := authwatch.New(client, store)
	watcher.Start(context.Background())
	t.Cleanup(watcher.Stop)

	h := web.NewHandler(client, store, watcher, opts...)
	return &fixture{
		client:  client,
		store:   store,
		watcher: watcher,
		handler: h,
		router:  h.Routes(),
	}
}

func (f *fixture) waitAuthenticated(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.watcher.Snapshot().IsAuthenticated()
	}, 2*time.Second, 5*time.Millisecond)
}

func (f *fixture) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) web.JSONBody {
	t.Helper()
	var body web.JSONBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}
