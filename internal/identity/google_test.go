package identity_test

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viralpost/authgate/internal/identity"
)

func TestGoogleConfigEnabled(t *testing.T) {
	t.Parallel()

	assert.False(t, identity.GoogleConfig{}.Enabled())
	assert.True(t, identity.GoogleConfig{ClientID: "client-id"}.Enabled())
}

func TestGoogleConsentURL(t *testing.T) {
	t.Parallel()

	cfg := identity.GoogleConfig{
		ClientID:    "client-id.apps.googleusercontent.com",
		RedirectURI: "http://localhost:3000/auth/callback",
	}

	consentURL := cfg.ConsentURL("state-token", "hashed-nonce")
	parsed, err := url.Parse(consentURL)
	require.NoError(t, err)

	assert.Equal(t, "accounts.google.com", parsed.Host)
	query := parsed.Query()
	assert.Equal(t, "client-id.apps.googleusercontent.com", query.Get("client_id"))
	assert.Equal(t, "http://localhost:3000/auth/callback", query.Get("redirect_uri"))
	assert.Equal(t, "state-token", query.Get("state"))
	assert.Equal(t, "hashed-nonce", query.Get("nonce"))
	assert.Contains(t, query.Get("scope"), "email")
}

func TestGenerateNonce(t *testing.T) {
	t.Parallel()

	nonce, err := identity.GenerateNonce()
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(nonce.Raw)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	digest := sha256.Sum256([]byte(nonce.Raw))
	assert.Equal(t, hex.EncodeToString(digest[:]), nonce.Hashed)

	// Nonces must be unique per request.
	other, err := identity.GenerateNonce()
	require.NoError(t, err)
	assert.NotEqual(t, nonce.Raw, other.Raw)
}
