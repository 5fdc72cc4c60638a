package session

import (
	"net/http"

	"github.com/google/uuid"
)

// Manager handles the session-id cookie on the HTTP boundary
type Manager struct {
	cookieName string
	secure     bool
}

// NewManager creates a new session manager
func NewManager(cookieName string, secure bool) *Manager {
	if cookieName == "" {
		cookieName = "session_id"
	}
	return &Manager{
		cookieName: cookieName,
		secure:     secure,
	}
}

// SessionID returns the request's session id, or empty when no session cookie is present
func (m *Manager) SessionID(r *http.Request) string {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// EnsureSessionID returns the request's session id, minting a new one and
// setting the session cookie when the request carries none
func (m *Manager) EnsureSessionID(w http.ResponseWriter, r *http.Request) string {
	if sid := m.SessionID(r); sid != "" {
		return sid
	}

	sid := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}
