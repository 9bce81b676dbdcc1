package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ProviderGoogle is the provider identifier used for both the redirect and
// ID-token Google flows.
const ProviderGoogle = "google"

// GoogleConfig describes the optional Google pre-built sign-in setup
// (One Tap, GSI button). The redirect-based flow does not need it because
// consent is brokered by the identity provider.
type GoogleConfig struct {
	ClientID    string `env:"GOOGLE_CLIENT_ID"`
	RedirectURI string
}

// Enabled reports whether the pre-built Google flows are configured.
func (c GoogleConfig) Enabled() bool {
	return c.ClientID != ""
}

// OAuth2Config builds the oauth2 client configuration for Google's consent
// screen. The client secret stays empty: the ID-token flow validates on the
// identity provider side, not here.
func (c GoogleConfig) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:    c.ClientID,
		RedirectURL: c.RedirectURI,
		Scopes:      []string{"openid", "email", "profile"},
		Endpoint:    google.Endpoint,
	}
}

// ConsentURL builds the Google authorization URL carrying the hashed nonce,
// as Google requires for ID-token issuance.
func (c GoogleConfig) ConsentURL(state, hashedNonce string) string {
	return c.OAuth2Config().AuthCodeURL(state, oauth2.SetAuthURLParam("nonce", hashedNonce))
}

// Nonce pairs the raw value submitted to the identity provider with the
// SHA-256 hex digest sent to Google.
type Nonce struct {
	Raw    string
	Hashed string
}

// GenerateNonce produces a fresh nonce for the Google ID-token flow. Google
// receives the hashed form in the consent request and embeds it into the
// ID token; the provider verifies it against the raw form.
func GenerateNonce() (Nonce, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return Nonce{}, fmt.Errorf("identity: generate nonce: %w", err)
	}

	raw := base64.StdEncoding.EncodeToString(b)
	digest := sha256.Sum256([]byte(raw))

	return Nonce{
		Raw:    raw,
		Hashed: hex.EncodeToString(digest[:]),
	}, nil
}
