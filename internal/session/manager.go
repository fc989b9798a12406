package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/examprep/pkg/metrics"
)

// CookieName is the cookie carrying the session ID.
const CookieName = "examprep_session"

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 2 * time.Hour

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithTTL sets the idle timeout.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager owns all live sessions. Expired sessions are swept on access.
type Manager struct {
	ttl    time.Duration
	secure bool
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		ttl:      DefaultTTL,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session.
func (m *Manager) Create() *Session {
	now := m.now()
	s := New(uuid.NewString(), now)

	m.mu.Lock()
	m.sweepLocked(now)
	m.sessions[s.id] = s
	count := len(m.sessions)
	m.mu.Unlock()

	metrics.UpdateActiveSessions(count)
	return s
}

// Get returns a live session and marks it used. Unknown and expired IDs
// report false.
func (m *Manager) Get(id string) (*Session, bool) {
	now := m.now()

	m.mu.Lock()
	m.sweepLocked(now)
	s, ok := m.sessions[id]
	count := len(m.sessions)
	m.mu.Unlock()

	metrics.UpdateActiveSessions(count)
	if !ok {
		return nil, false
	}
	s.Touch(now)
	return s, true
}

// Resolve returns the session named by the request cookie, or a new one
// when the cookie is missing, unknown or expired. The bool reports whether
// a new session was created.
func (m *Manager) Resolve(r *http.Request) (*Session, bool) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		if s, ok := m.Get(c.Value); ok {
			return s, false
		}
	}
	return m.Create(), true
}

// Cookie builds the cookie that binds a client to s.
func (m *Manager) Cookie(s *Session) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    s.ID(),
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked(m.now())
	return len(m.sessions)
}

// TTL returns the idle timeout.
func (m *Manager) TTL() time.Duration { return m.ttl }

// sweepLocked drops idle sessions. Caller holds mu.
func (m *Manager) sweepLocked(now time.Time) {
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.ttl {
			delete(m.sessions, id)
		}
	}
}
