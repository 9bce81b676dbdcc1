package authstate

import (
	"encoding/json"
	"net/http"

	"github.com/viralpost/authgate/pkg/cookie"
)

// CookieName is the key the durable UI preference slice is stored under.
const CookieName = "auth-ui-state"

// cookieMaxAge keeps preferences for a year.
const cookieMaxAge = 365 * 24 * 60 * 60

// Preferences is the non-sensitive subset of state that survives reloads.
// Loading flags and errors are deliberately excluded.
type Preferences struct {
	RememberMe   bool `json:"remember_me"`
	ShowPassword bool `json:"show_password"`
}

// CookiePersistor stores Preferences in a signed browser cookie.
type CookiePersistor struct {
	cookies *cookie.Manager
}

func NewCookiePersistor(m *cookie.Manager) *CookiePersistor {
	return &CookiePersistor{cookies: m}
}

// Save writes the store's current preference slice to the response.
func (p *CookiePersistor) Save(w http.ResponseWriter, store *Store) error {
	snapshot := store.Snapshot()
	prefs := Preferences{
		RememberMe:   snapshot.RememberMe,
		ShowPassword: snapshot.ShowPassword,
	}

	encoded, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	p.cookies.SetSigned(w, CookieName, string(encoded),
		cookie.WithMaxAge(cookieMaxAge),
		cookie.WithHTTPOnly(false),
	)
	return nil
}

// Load reads persisted preferences from the request. A missing, tampered or
// malformed cookie yields zero-value preferences without an error: stale
// persistence must never block a page load.
func (p *CookiePersistor) Load(r *http.Request) Preferences {
	raw, err := p.cookies.GetSigned(r, CookieName)
	if err != nil {
		return Preferences{}
	}

	var prefs Preferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return Preferences{}
	}
	return prefs
}

// Rehydrate loads persisted preferences and applies them to the store.
func (p *CookiePersistor) Rehydrate(r *http.Request, store *Store) {
	store.Rehydrate(p.Load(r))
}
