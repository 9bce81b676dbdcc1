package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/viralpost/authgate/internal/identity"
	"github.com/viralpost/authgate/internal/schema"
	"github.com/viralpost/authgate/pkg/binder"
	"github.com/viralpost/authgate/pkg/logger"
)

// sessionData is the success payload for endpoints that establish a session.
// Tokens themselves never leave the gateway.
type sessionData struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func newSessionData(s *identity.Session) sessionData {
	data := sessionData{}
	if s.User != nil {
		data.UserID = s.User.ID
		data.Email = s.User.Email
	}
	if s.ExpiresAt > 0 {
		data.ExpiresAt = time.Unix(s.ExpiresAt, 0).UTC()
	}
	return data
}

// SignIn handles POST /auth/sign-in. Validation failures never reach the
// provider; provider failures are translated to friendly copy and recorded
// in the state store.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var in schema.SignInInput
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

	session, err := h.client.SignInWithPassword(r.Context(), in.Email, in.Password)
	if err != nil {
		msg := Friendly(err)
		h.logger.Warn("sign in rejected", logger.Error(err), logger.Component("web"))
		h.store.SetError(msg)
		h.render(w, r, JSONError(http.StatusUnauthorized, "auth_failed", msg))
		return
	}

	h.store.SetSigningIn(false)
	h.rememberFromForm(w, r)
	h.render(w, r, JSON(newSessionData(session)))
}

// SignUp handles POST /auth/sign-up. Depending on provider settings the
// account is either live immediately or pending email confirmation.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var in schema.SignUpInput
	if err := binder.Form(r, &in); err != nil {
		h.render(w, r, JSONError(http.StatusBadRequest, "invalid_form", err.Error()))
		return
	}
	if err := in.Validate(); err != nil {
		h.render(w, r, ValidationFailed(err))
		return
	}

	h.store.ClearError()
	h.store.SetSigningUp(true)

	session, err := h.client.SignUp(r.Context(), identity.SignUpParams{
		Email:      in.Email,
		Password:   in.Password,
		RedirectTo: h.callbackURL(r),
	})
	if err != nil {
		msg := Friendly(err)
		h.logger.Warn("sign up rejected", logger.Error(err), logger.Component("web"))
		h.store.SetError(msg)
		h.render(w, r, JSONError(http.StatusBadRequest, "signup_failed", msg))
		return
	}

	h.store.SetSigningUp(false)

	if session.AccessToken == "" {
		h.render(w, r, JSONMessage("confirmation_required",
			"Check your email and click the confirmation link to finish signing up.",
			newSessionData(session)))
		return
	}
	h.render(w, r, JSON(newSessionData(session)))
}

// SignOut handles POST /auth/sign-out.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	err := h.watcher.SignOut(r.Context())
	if err != nil {
		h.render(w, r, JSONError(http.StatusBadGateway, "signout_failed", identity.ProviderMessage(err)))
		return
	}
	h.render(w, r, JSONMessage("signed_out", "You have been signed out.", nil))
}

// PasswordReset handles POST /auth/password-reset by asking the provider to
// send a recovery email.
func (h *Handler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var in schema.PasswordResetInput
	if err := binder.Form(r, &in); err != nil {
		h.render(w, r, JSONError(http.StatusBadRequest, "invalid_form", err.Error()))
		return
	}
	if err := in.Validate(); err != nil {
		h.render(w, r, ValidationFailed(err))
		return
	}

	h.store.ClearError()
	h.store.SetResettingPassword(true)

	if err := h.client.RequestPasswordReset(r.Context(), in.Email); err != nil {
		msg := Friendly(err)
		h.store.SetError(msg)
		h.render(w, r, JSONError(http.StatusBadGateway, "reset_failed", msg))
		return
	}

	h.store.SetResettingPassword(false)
	h.render(w, r, JSONMessage("reset_requested",
		"Check your email for a password reset link.", nil))
}

// Validate handles POST /auth/validate, the real-time validation endpoint.
// The "form" field selects which schema the remaining fields run against.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, JSONError(http.StatusBadRequest, "invalid_form", err.Error()))
		return
	}

	var err error
	switch r.PostFormValue("form") {
	case "sign_in":
		in := schema.SignInInput{
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
		}
		err = in.Validate()
	case "sign_up":
		in := schema.SignUpInput{
			Email:           r.PostFormValue("email"),
			Password:        r.PostFormValue("password"),
			ConfirmPassword: r.PostFormValue("confirm_password"),
		}
		err = in.Validate()
	case "password_reset":
		in := schema.PasswordResetInput{Email: r.PostFormValue("email")}
		err = in.Validate()
	case "password_update":
		in := schema.PasswordUpdateInput{
			Password:        r.PostFormValue("password"),
			ConfirmPassword: r.PostFormValue("confirm_password"),
		}
		err = in.Validate()
	default:
		h.render(w, r, JSONError(http.StatusBadRequest, "unknown_form", "unknown form identifier"))
		return
	}

	if err != nil {
		h.render(w, r, ValidationFailed(err))
		return
	}
	h.render(w, r, JSON(map[string]bool{"valid": true}))
}

// rememberFromForm applies an optional remember_me field and persists the
// preference when a persistor is configured.
func (h *Handler) rememberFromForm(w http.ResponseWriter, r *http.Request) {
	raw := r.PostFormValue("remember_me")
	if raw == "" {
		return
	}
	h.store.SetRememberMe(parseCheckbox(raw))

	if h.persistor != nil {
		if err := h.persistor.Save(w, h.store); err != nil {
			h.logger.Warn("failed to persist preferences", logger.Error(err), logger.Component("web"))
		}
	}
}
