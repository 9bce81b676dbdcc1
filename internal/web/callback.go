package web

import (
	"net/http"
	"net/url"

	"github.com/viralpost/authgate/internal/schema"
	"github.com/viralpost/authgate/pkg/binder"
	"github.com/viralpost/authgate/pkg/logger"
)

// Callback handles GET /auth/callback, the landing point of the provider's
// OAuth redirect. It is stateless per request: the code is exchanged for a
// session and the browser continues to the validated next destination.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	var params schema.OAuthCallbackParams
	if err := binder.Query(r, &params); err != nil {
		h.redirectError(w, r, "Invalid callback parameters")
		return
	}
	if err := params.Validate(); err != nil {
		// The only hard validation failure is a missing code: the provider
		// redirected without one, so no session can be established.
		h.redirectError(w, r, "Authentication failed")
		return
	}

	if _, err := h.client.ExchangeCodeForSession(r.Context(), params.Code); err != nil {
		h.logger.Warn("code exchange failed", logger.Error(err), logger.Component("web"))
		h.redirectError(w, r, Friendly(err))
		return
	}

	h.render(w, r, RedirectWithCode(h.redirectOrigin(r)+params.Next, http.StatusFound))
}

func (h *Handler) redirectError(w http.ResponseWriter, r *http.Request, message string) {
	target := "/auth/error?message=" + url.QueryEscape(message)
	h.render(w, r, RedirectWithCode(target, http.StatusFound))
}
