package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/viralpost/authgate/pkg/broadcast"
	"github.com/viralpost/authgate/pkg/logger"
)

const authPath = "/auth/v1"

// Config holds the provider connection settings.
type Config struct {
	URL     string `env:"SUPABASE_URL,required"`
	AnonKey string `env:"SUPABASE_ANON_KEY,required"`
}

// ProviderClient implements Client against a GoTrue-compatible REST API.
// It caches the most recent session in memory and broadcasts an auth-state
// change event after every successful state-changing operation.
type ProviderClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *slog.Logger
	events     *broadcast.MemoryBroadcaster[Event]

	mu      sync.RWMutex
	session *Session
}

var _ Client = (*ProviderClient)(nil)

// ProviderOption configures a ProviderClient.
type ProviderOption func(*ProviderClient)

func WithLogger(l *slog.Logger) ProviderOption {
	return func(c *ProviderClient) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithHTTPClient(hc *http.Client) ProviderOption {
	return func(c *ProviderClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewProviderClient creates a provider client from config.
func NewProviderClient(cfg Config, opts ...ProviderOption) *ProviderClient {
	c := &ProviderClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		events:     broadcast.NewMemoryBroadcaster[Event](8),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close shuts down the event stream. Pending subscribers observe a closed
// channel.
func (c *ProviderClient) Close() error {
	return c.events.Close()
}

// OnAuthStateChange subscribes to auth-state change notifications.
func (c *ProviderClient) OnAuthStateChange(ctx context.Context) broadcast.Subscriber[Event] {
	return c.events.Subscribe(ctx)
}

// GetSession returns the cached session, refreshing it first when the access
// token has expired and a refresh token is available. Returns nil without
// error when signed out.
func (c *ProviderClient) GetSession(ctx context.Context) (*Session, error) {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()

	if session == nil {
		return nil, nil
	}
	if session.Expired() && session.RefreshToken != "" {
		return c.RefreshSession(ctx)
	}
	return session, nil
}

// SignInWithPassword exchanges email/password credentials for a session.
func (c *ProviderClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.doJSON(ctx, http.MethodPost, "/token", url.Values{"grant_type": {"password"}},
		map[string]string{"email": email, "password": password}, &session)
	if err != nil {
		return nil, err
	}

	c.setSession(&session)
	c.emit(ctx, Event{Type: EventSignedIn, Session: &session})
	return &session, nil
}

// SignUp registers a new account. Depending on provider settings the
// response is either a full session (auto-confirm) or a bare user record
// pending email confirmation; in the latter case the returned session has
// an empty access token and no event is emitted.
func (c *ProviderClient) SignUp(ctx context.Context, params SignUpParams) (*Session, error) {
	query := url.Values{}
	if params.RedirectTo != "" {
		query.Set("redirect_to", params.RedirectTo)
	}

	body := map[string]any{
		"email":    params.Email,
		"password": params.Password,
	}
	if len(params.Data) > 0 {
		body["data"] = params.Data
	}

	raw, err := c.doRaw(ctx, http.MethodPost, "/signup", query, body)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("identity: decode signup response: %w", err)
	}

	if session.AccessToken == "" {
		// Confirmation-required flow: the body is the user record itself.
		var user User
		if err := json.Unmarshal(raw, &user); err != nil {
			return nil, fmt.Errorf("identity: decode signup response: %w", err)
		}
		session.User = &user
		return &session, nil
	}

	c.setSession(&session)
	c.emit(ctx, Event{Type: EventSignedIn, Session: &session})
	return &session, nil
}

// SignOut revokes the current session at the provider and clears the local
// reference. State consumers learn about the change through the SIGNED_OUT
// event, not through a synchronous update.
func (c *ProviderClient) SignOut(ctx context.Context) error {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()

	if session == nil {
		return nil
	}

	if err := c.doBearer(ctx, http.MethodPost, "/logout", session.AccessToken, nil, nil); err != nil {
		return err
	}

	c.setSession(nil)
	c.emit(ctx, Event{Type: EventSignedOut})
	return nil
}

// RefreshSession requests a fresh token pair using the stored refresh token.
func (c *ProviderClient) RefreshSession(ctx context.Context) (*Session, error) {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()

	if session == nil || session.RefreshToken == "" {
		return nil, ErrNoSession
	}

	var fresh Session
	err := c.doJSON(ctx, http.MethodPost, "/token", url.Values{"grant_type": {"refresh_token"}},
		map[string]string{"refresh_token": session.RefreshToken}, &fresh)
	if err != nil {
		return nil, err
	}

	c.setSession(&fresh)
	c.emit(ctx, Event{Type: EventTokenRefreshed, Session: &fresh})
	return &fresh, nil
}

// SignInWithOAuth builds the provider authorization URL for a redirect-based
// flow. No network call is made; the provider handles consent and redirects
// back to the configured callback with an authorization code.
func (c *ProviderClient) SignInWithOAuth(ctx context.Context, params OAuthParams) (string, error) {
	if params.Provider == "" {
		return "", errors.New("identity: oauth provider is required")
	}

	query := url.Values{"provider": {params.Provider}}
	if params.RedirectTo != "" {
		query.Set("redirect_to", params.RedirectTo)
	}
	if params.Scopes != "" {
		query.Set("scopes", params.Scopes)
	}

	return c.baseURL + authPath + "/authorize?" + query.Encode(), nil
}

// SignInWithIDToken exchanges a provider-issued ID token (Google One Tap,
// pre-built buttons) for a session.
func (c *ProviderClient) SignInWithIDToken(ctx context.Context, params IDTokenParams) (*Session, error) {
	body := map[string]string{
		"provider": params.Provider,
		"id_token": params.Token,
	}
	if params.Nonce != "" {
		body["nonce"] = params.Nonce
	}

	var session Session
	err := c.doJSON(ctx, http.MethodPost, "/token", url.Values{"grant_type": {"id_token"}}, body, &session)
	if err != nil {
		return nil, err
	}

	c.setSession(&session)
	c.emit(ctx, Event{Type: EventSignedIn, Session: &session})
	return &session, nil
}

// ExchangeCodeForSession completes the OAuth callback by exchanging the
// authorization code for a session.
func (c *ProviderClient) ExchangeCodeForSession(ctx context.Context, code string) (*Session, error) {
	var session Session
	err := c.doJSON(ctx, http.MethodPost, "/token", url.Values{"grant_type": {"pkce"}},
		map[string]string{"auth_code": code}, &session)
	if err != nil {
		return nil, err
	}

	c.setSession(&session)
	c.emit(ctx, Event{Type: EventSignedIn, Session: &session})
	return &session, nil
}

// RequestPasswordReset asks the provider to send a recovery email.
func (c *ProviderClient) RequestPasswordReset(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/recover", nil, map[string]string{"email": email}, nil)
}

func (c *ProviderClient) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *ProviderClient) emit(ctx context.Context, event Event) {
	if err := c.events.Broadcast(ctx, broadcast.Message[Event]{Data: event}); err != nil {
		c.logger.Warn("failed to broadcast auth event",
			logger.Event(string(event.Type)),
			logger.Error(err),
			logger.Component("identity"),
		)
	}
}

func (c *ProviderClient) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	raw, err := c.doRaw(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("identity: decode provider response: %w", err)
	}
	return nil
}

func (c *ProviderClient) doRaw(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	return c.do(ctx, method, path, query, c.anonKey, body)
}

func (c *ProviderClient) doBearer(ctx context.Context, method, path, bearer string, body, out any) error {
	raw, err := c.do(ctx, method, path, nil, bearer, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("identity: decode provider response: %w", err)
	}
	return nil
}

func (c *ProviderClient) do(ctx context.Context, method, path string, query url.Values, bearer string, body any) ([]byte, error) {
	endpoint := c.baseURL + authPath + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("identity: encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("identity: read provider response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{Status: resp.StatusCode, Message: decodeErrorMessage(raw)}
	}

	return raw, nil
}

// decodeErrorMessage handles the provider's inconsistent error body shapes.
func decodeErrorMessage(raw []byte) string {
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return strings.TrimSpace(string(raw))
	}

	for _, msg := range []string{payload.ErrorDescription, payload.Msg, payload.Message, payload.Error} {
		if msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(raw))
}
