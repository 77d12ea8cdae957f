package auth

import (
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
)

// MockAuth signs every visitor in as a dev user, for local development
type MockAuth struct {
	store *sessionStore
}

// NewMockAuth creates a new mock authentication handler
func NewMockAuth() *MockAuth {
	return NewMockAuthWithClock(nil)
}

// NewMockAuthWithClock creates a mock provider whose sessions expire on clock
func NewMockAuthWithClock(clock clockwork.Clock) *MockAuth {
	return &MockAuth{store: newSessionStore(clock)}
}

// LoginHandler auto-creates a session
func (m *MockAuth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	sess := m.store.create(&User{
		ID:       "dev-user-123",
		Email:    "dev@snake-draft.local",
		Name:     "Dev User",
		Username: "devuser",
		Groups:   []string{"users"},
	}, nil, 24*time.Hour)

	setSessionCookie(w, sess, false)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (m *MockAuth) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (m *MockAuth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		m.store.delete(cookie.Value)
	}
	clearCookie(w, SessionCookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (m *MockAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return m.store.middleware(next)
}

func (m *MockAuth) PurgeExpired() int {
	return m.store.purgeExpired()
}
