package web

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/viralpost/authgate/internal/authstate"
	"github.com/viralpost/authgate/internal/authwatch"
	"github.com/viralpost/authgate/internal/identity"
	"github.com/viralpost/authgate/pkg/environment"
	"github.com/viralpost/authgate/pkg/logger"
)

// Handler bundles the auth endpoints with their dependencies. The state
// store is injected, never global, so tests run against isolated instances.
type Handler struct {
	client    identity.Client
	store     *authstate.Store
	watcher   *authwatch.Watcher
	persistor *authstate.CookiePersistor
	google    identity.GoogleConfig
	env       environment.Environment
	appURL    string
	logger    *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithGoogle enables the pre-built Google flows (nonce + ID token).
func WithGoogle(cfg identity.GoogleConfig) Option {
	return func(h *Handler) {
		h.google = cfg
	}
}

func WithEnvironment(env environment.Environment) Option {
	return func(h *Handler) {
		h.env = env
	}
}

// WithPersistor wires signed-cookie persistence for UI preferences.
func WithPersistor(p *authstate.CookiePersistor) Option {
	return func(h *Handler) {
		h.persistor = p
	}
}

// WithAppURL pins the public application URL used for provider redirect
// targets. When empty, the request origin is used.
func WithAppURL(u string) Option {
	return func(h *Handler) {
		h.appURL = u
	}
}

// NewHandler creates the auth HTTP handler.
func NewHandler(client identity.Client, store *authstate.Store, watcher *authwatch.Watcher, opts ...Option) *Handler {
	h := &Handler{
		client:  client,
		store:   store,
		watcher: watcher,
		env:     environment.Development,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts every auth endpoint under /auth.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/sign-in", h.SignIn)
		r.Post("/sign-up", h.SignUp)
		r.Post("/sign-out", h.SignOut)
		r.Post("/password-reset", h.PasswordReset)
		r.Post("/validate", h.Validate)

		r.Get("/google", h.GoogleRedirect)
		r.Get("/google/nonce", h.GoogleNonce)
		r.Post("/google/id-token", h.GoogleIDToken)

		r.Get("/callback", h.Callback)
		r.Get("/error", h.ErrorPage)

		r.Get("/state", h.State)
		r.Post("/preferences", h.Preferences)
	})

	return r
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, resp Response) {
	if err := resp.Render(w, r); err != nil {
		h.logger.Error("failed to render response",
			logger.Error(err),
			logger.Component("web"),
		)
	}
}

// requestOrigin reconstructs the scheme://host origin of the request.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// redirectOrigin resolves the origin the browser is sent back to after the
// provider round trip. In development the request origin wins so local hosts
// keep working; behind a load balancer the forwarded host takes precedence
// and is always upgraded to https.
func (h *Handler) redirectOrigin(r *http.Request) string {
	origin := requestOrigin(r)
	if h.env.IsDevelopment() {
		return origin
	}
	if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" {
		return "https://" + forwarded
	}
	return origin
}

// callbackURL is the absolute URL the provider redirects back to.
func (h *Handler) callbackURL(r *http.Request) string {
	base := h.appURL
	if base == "" {
		base = requestOrigin(r)
	}
	return base + "/auth/callback"
}
