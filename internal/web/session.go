package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/viralpost/authgate/internal/authstate"
	"github.com/viralpost/authgate/internal/identity"
	"github.com/viralpost/authgate/pkg/logger"
)

type userContextKey struct{}

// UserFromContext returns the user attached by RequireAuth, or nil.
func UserFromContext(ctx context.Context) *identity.User {
	user, _ := ctx.Value(userContextKey{}).(*identity.User)
	return user
}

// stateData is the GET /auth/state payload: the UI state snapshot plus the
// watcher's view of the session.
type stateData struct {
	State         authstate.State `json:"state"`
	Hydrated      bool            `json:"hydrated"`
	AuthLoading   bool            `json:"auth_loading"`
	Authenticated bool            `json:"authenticated"`
	User          *identity.User  `json:"user,omitempty"`
	Role          string          `json:"role,omitempty"`
}

// State handles GET /auth/state. On the first call persisted preferences are
// rehydrated into the store so readers never observe a pre-hydration flicker
// beyond the Hydrated flag.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	if !h.store.Hydrated() && h.persistor != nil {
		h.persistor.Rehydrate(r, h.store)
	}

	snap := h.watcher.Snapshot()
	h.render(w, r, JSON(stateData{
		State:         h.store.Snapshot(),
		Hydrated:      h.store.Hydrated(),
		AuthLoading:   snap.IsLoading,
		Authenticated: snap.IsAuthenticated(),
		User:          snap.User,
		Role:          snap.Role(),
	}))
}

// Preferences handles POST /auth/preferences, updating the durable UI
// preferences and writing the signed cookie back. A "reset" field clears the
// transient state the way switching between sign-in and sign-up does,
// keeping only the remember-me choice.
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, JSONError(http.StatusBadRequest, "invalid_form", err.Error()))
		return
	}

	if parseCheckbox(r.PostFormValue("reset")) {
		h.store.Reset()
	}
	if raw := r.PostFormValue("show_password"); raw != "" {
		h.store.SetShowPassword(parseCheckbox(raw))
	}
	if raw := r.PostFormValue("remember_me"); raw != "" {
		h.store.SetRememberMe(parseCheckbox(raw))
	}

	if h.persistor != nil {
		if err := h.persistor.Save(w, h.store); err != nil {
			h.logger.Warn("failed to persist preferences", logger.Error(err), logger.Component("web"))
		}
	}

	h.render(w, r, JSON(h.store.Snapshot()))
}

// RequireAuth guards routes that need a signed-in user. Unauthenticated
// requests are sent to the sign-in page with the original destination in
// the next parameter; authenticated ones proceed with the user in context.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := h.watcher.Snapshot()
		if !snap.IsAuthenticated() {
			target := "/sign-in?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey{}, snap.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseCheckbox(raw string) bool {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw == "on"
}
