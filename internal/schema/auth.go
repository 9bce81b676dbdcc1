// Package schema defines the validation schemas for auth form input and
// OAuth callback parameters. Validation is pure: input either normalizes
// into a valid value or yields field-scoped errors, and nothing reaches the
// identity provider until its schema passes.
package schema

import (
	"github.com/viralpost/authgate/pkg/sanitizer"
	"github.com/viralpost/authgate/pkg/validator"
)

// DefaultNext is where the OAuth callback sends users when no explicit
// destination survived validation.
const DefaultNext = "/"

func emailRules(value string) []validator.Rule {
	return []validator.Rule{
		validator.RequiredWithMessage("email", value, "Email is required"),
		validator.ValidEmail("email", value),
	}
}

// SignInInput is the sign-in form payload. Sign-in deliberately applies no
// password content policy; the stored password decides.
type SignInInput struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate normalizes the email and checks the sign-in schema.
func (in *SignInInput) Validate() error {
	in.Email = sanitizer.NormalizeEmail(in.Email)

	rules := emailRules(in.Email)
	rules = append(rules, validator.RequiredWithMessage("password", in.Password, "Password is required"))
	return validator.Apply(rules...)
}

// SignUpInput is the sign-up form payload.
type SignUpInput struct {
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate normalizes the email and checks the sign-up schema. The password
// mismatch error is attached to confirm_password so it renders next to the
// confirmation field.
func (in *SignUpInput) Validate() error {
	in.Email = sanitizer.NormalizeEmail(in.Email)

	rules := emailRules(in.Email)
	rules = append(rules, validator.PasswordStrength("password", in.Password, validator.DefaultPasswordPolicy())...)
	rules = append(rules,
		validator.RequiredWithMessage("confirm_password", in.ConfirmPassword, "Please confirm your password"),
		validator.Equal("confirm_password", in.ConfirmPassword, in.Password, "Passwords do not match"),
	)
	return validator.Apply(rules...)
}

// PasswordResetInput requests a recovery email.
type PasswordResetInput struct {
	Email string `form:"email" json:"email"`
}

func (in *PasswordResetInput) Validate() error {
	in.Email = sanitizer.NormalizeEmail(in.Email)
	return validator.Apply(emailRules(in.Email)...)
}

// PasswordUpdateInput sets a new password after recovery.
type PasswordUpdateInput struct {
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

func (in *PasswordUpdateInput) Validate() error {
	rules := validator.PasswordStrength("password", in.Password, validator.DefaultPasswordPolicy())
	rules = append(rules,
		validator.RequiredWithMessage("confirm_password", in.ConfirmPassword, "Please confirm your password"),
		validator.Equal("confirm_password", in.ConfirmPassword, in.Password, "Passwords do not match"),
	)
	return validator.Apply(rules...)
}

// IDTokenInput is the Google ID-token sign-in payload.
type IDTokenInput struct {
	Token string `form:"token" json:"token"`
	Nonce string `form:"nonce" json:"nonce"`
}

func (in *IDTokenInput) Validate() error {
	return validator.Apply(
		validator.RequiredWithMessage("token", in.Token, "ID token is required"),
	)
}

// OAuthCallbackParams is the validated, request-scoped value extracted from
// the provider redirect.
type OAuthCallbackParams struct {
	Code  string `form:"code" json:"code"`
	State string `form:"state" json:"state"`
	Next  string `form:"next" json:"next"`
}

// Validate requires a non-empty authorization code and normalizes Next.
// A missing Next defaults to "/"; a Next that is not a same-origin relative
// path is replaced with "/" instead of failing the whole callback, so a
// hostile or malformed destination can never redirect off-origin.
func (p *OAuthCallbackParams) Validate() error {
	if p.Next == "" {
		p.Next = DefaultNext
	}
	if validator.Apply(validator.RelativePath("next", p.Next)) != nil {
		p.Next = DefaultNext
	}

	return validator.Apply(
		validator.RequiredWithMessage("code", p.Code, "Authorization code is required"),
	)
}
