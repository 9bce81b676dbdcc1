package web

import (
	"net/http"
	"net/url"

	"github.com/viralpost/authgate/internal/identity"
	"github.com/viralpost/authgate/internal/schema"
	"github.com/viralpost/authgate/pkg/binder"
	"github.com/viralpost/authgate/pkg/logger"
	"github.com/viralpost/authgate/pkg/validator"
)

// GoogleRedirect handles GET /auth/google: it sends the browser to the
// provider's authorization endpoint, which brokers the Google consent screen
// and redirects back to /auth/callback with an authorization code.
func (h *Handler) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if next == "" || validator.Apply(validator.RelativePath("next", next)) != nil {
		next = schema.DefaultNext
	}

	redirectTo := h.callbackURL(r)
	if next != schema.DefaultNext {
		redirectTo += "?next=" + url.QueryEscape(next)
	}

	authorizeURL, err := h.client.SignInWithOAuth(r.Context(), identity.OAuthParams{
		Provider:   identity.ProviderGoogle,
		RedirectTo: redirectTo,
	})
	if err != nil {
		h.logger.Error("failed to build authorization url", logger.Error(err), logger.Component("web"))
		h.render(w, r, JSONError(http.StatusInternalServerError, "oauth_failed", "Unable to start Google sign-in."))
		return
	}

	h.render(w, r, Redirect(authorizeURL))
}

// GoogleNonce handles GET /auth/google/nonce. The raw nonce accompanies the
// later ID-token submission; the hashed form goes into the Google consent
// request so Google embeds it in the issued token.
func (h *Handler) GoogleNonce(w http.ResponseWriter, r *http.Request) {
	if !h.google.Enabled() {
		h.render(w, r, JSONError(http.StatusNotFound, "google_disabled", "Google sign-in is not configured."))
		return
	}

	nonce, err := identity.GenerateNonce()
	if err != nil {
		h.logger.Error("failed to generate nonce", logger.Error(err), logger.Component("web"))
		h.render(w, r, JSONError(http.StatusInternalServerError, "nonce_failed", "Unable to prepare Google sign-in."))
		return
	}

	h.render(w, r, JSON(map[string]string{
		"client_id":    h.google.ClientID,
		"nonce":        nonce.Raw,
		"hashed_nonce": nonce.Hashed,
	}))
}

// GoogleIDToken handles POST /auth/google/id-token for One Tap and the
// pre-built Google button.
func (h *Handler) GoogleIDToken(w http.ResponseWriter, r *http.Request) {
	if !h.google.Enabled() {
		h.render(w, r, JSONError(http.StatusNotFound, "google_disabled", "Google sign-in is not configured."))
		return
	}

	var in schema.IDTokenInput
	if err := binder.Form(r, &in); err != nil {
		h.render(w, r, JSONError(http.StatusBadRequest, "invalid_form", err.Error()))
		return
	}
	if err := in.Validate(); err != nil {
		h.render(w, r, ValidationFailed(err))
		return
	}

	h.store.ClearError()
	h.store.SetSigningIn(true)

	session, err := h.client.SignInWithIDToken(r.Context(), identity.IDTokenParams{
		Provider: identity.ProviderGoogle,
		Token:    in.Token,
		Nonce:    in.Nonce,
	})
	if err != nil {
		msg := Friendly(err)
		h.logger.Warn("id token sign in rejected", logger.Error(err), logger.Component("web"))
		h.store.SetError(msg)
		h.render(w, r, JSONError(http.StatusUnauthorized, "auth_failed", msg))
		return
	}

	h.store.SetSigningIn(false)
	h.render(w, r, JSON(newSessionData(session)))
}
