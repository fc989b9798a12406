// Package session holds per-visitor interaction state: the active quiz and
// the last status notice shown to the user.
package session

import (
	"sync"
	"time"

	"github.com/okian/examprep/internal/domain/model"
)

// Notice levels.
const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelInfo    = "info"
	LevelError   = "error"
)

// Notice is a status message for the user.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Session is the state of one visitor. Methods are safe for concurrent use.
type Session struct {
	id string

	mu       sync.RWMutex
	quiz     model.ActiveQuiz
	notice   *Notice
	lastSeen time.Time
}

// New creates a session with the given ID.
func New(id string, now time.Time) *Session {
	return &Session{id: id, lastSeen: now}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Quiz returns the active quiz, which is empty until one is generated.
func (s *Session) Quiz() model.ActiveQuiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quiz
}

// SetQuiz replaces the active quiz.
func (s *Session) SetQuiz(q model.ActiveQuiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz = q
}

// Notice returns the last notice, or nil.
func (s *Session) Notice() *Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.notice == nil {
		return nil
	}
	n := *s.notice
	return &n
}

// Notify records a notice, replacing the previous one.
func (s *Session) Notify(level, message string) Notice {
	n := Notice{Level: level, Message: message}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = &n
	return n
}

// ClearNotice drops the last notice.
func (s *Session) ClearNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = nil
}

// Touch marks the session as used at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
}

// LastSeen returns the time of the last request in this session.
func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}
