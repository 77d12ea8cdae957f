package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/oauth2"
)

// SessionCookie carries the login session ID
const SessionCookie = "session_id"

// User represents an authenticated user
type User struct {
	ID       string
	Email    string
	Name     string
	Username string
	Groups   []string
}

// Session represents a user session
type Session struct {
	ID        string
	User      *User
	Token     *oauth2.Token
	CreatedAt time.Time
	ExpiresAt time.Time
}

// AuthProvider is a common interface for authentication providers
type AuthProvider interface {
	LoginHandler(w http.ResponseWriter, r *http.Request)
	CallbackHandler(w http.ResponseWriter, r *http.Request)
	LogoutHandler(w http.ResponseWriter, r *http.Request)
	Middleware(next http.HandlerFunc) http.HandlerFunc
	// PurgeExpired drops expired login sessions and reports how many
	PurgeExpired() int
}

type contextKey struct{}

var userKey contextKey

// WithUser returns a copy of ctx carrying user
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the user stored in ctx, if any
func UserFrom(ctx context.Context) *User {
	user, _ := ctx.Value(userKey).(*User)
	return user
}

// GetUser retrieves the authenticated user from the request context
func GetUser(r *http.Request) *User {
	return UserFrom(r.Context())
}

// sessionStore holds login sessions in memory
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	clock    clockwork.Clock
}

func newSessionStore(clock clockwork.Clock) *sessionStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &sessionStore{sessions: make(map[string]*Session), clock: clock}
}

func (s *sessionStore) create(user *User, token *oauth2.Token, ttl time.Duration) *Session {
	now := s.clock.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		User:      user,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if token != nil && !token.Expiry.IsZero() {
		sess.ExpiresAt = token.Expiry
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *sessionStore) lookup(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.clock.Now().After(sess.ExpiresAt) {
		s.delete(id)
		return nil, false
	}
	return sess, true
}

func (s *sessionStore) purgeExpired() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *sessionStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *sessionStore) delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// middleware resolves the session cookie into a user, rejecting API calls
// with 401 and sending page requests to the login flow
func (s *sessionStore) middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			deny(w, r)
			return
		}
		sess, ok := s.lookup(cookie.Value)
		if !ok {
			deny(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), sess.User)))
	}
}

func deny(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "authentication required"})
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func setSessionCookie(w http.ResponseWriter, sess *Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// NoAuth lets every request through anonymously
type NoAuth struct{}

func NewNoAuth() *NoAuth { return &NoAuth{} }

func (NoAuth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (NoAuth) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (NoAuth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (NoAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return next
}

func (NoAuth) PurgeExpired() int { return 0 }
