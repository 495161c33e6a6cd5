package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"sgc-backend/internal/models"
)

// ListenerFactory builds the listener attached to a new session's conversation.
type ListenerFactory func(sessionID uuid.UUID) Listener

// Session is one visitor's widget, alive until the page is abandoned.
type Session struct {
	ID           uuid.UUID
	Conversation *Conversation

	mu       sync.Mutex
	language models.Language
	lastSeen time.Time
}

func (s *Session) Language() models.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

func (s *Session) SetLanguage(lang models.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = lang
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Sessions is the in-memory registry of open widget sessions.
type Sessions struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID]*Session
	newListener ListenerFactory
	now         func() time.Time
}

func NewSessions(newListener ListenerFactory) *Sessions {
	return &Sessions{
		sessions:    make(map[uuid.UUID]*Session),
		newListener: newListener,
		now:         time.Now,
	}
}

// Create registers a fresh session with an empty conversation.
func (s *Sessions) Create(lang models.Language) *Session {
	id := uuid.New()

	var listener Listener
	if s.newListener != nil {
		listener = s.newListener(id)
	}

	session := &Session{
		ID:           id,
		Conversation: NewConversation(listener),
		language:     lang,
		lastSeen:     s.now(),
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return session
}

// Get looks up a session and marks it as seen.
func (s *Sessions) Get(id uuid.UUID) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	session.touch(s.now())
	return session, true
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Reap drops sessions idle for longer than maxIdle. Sessions with a request
// in flight are kept so the reply still lands somewhere.
func (s *Sessions) Reap(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.RLock()
	candidates := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if session.idleSince().Before(cutoff) {
			candidates = append(candidates, session)
		}
	}
	s.mu.RUnlock()

	stale := candidates[:0]
	for _, session := range candidates {
		if !session.Conversation.IsAwaitingResponse() {
			stale = append(stale, session)
		}
	}
	if len(stale) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, session := range stale {
		// Get touches under the read lock, so a session seen since the scan is kept.
		if s.sessions[session.ID] != session || !session.idleSince().Before(cutoff) {
			continue
		}
		delete(s.sessions, session.ID)
		removed++
	}
	return removed
}

// StartReaper runs Reap every interval until ctx is cancelled.
func (s *Sessions) StartReaper(ctx context.Context, interval, maxIdle time.Duration, onReap func(removed int)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Reap(maxIdle); n > 0 && onReap != nil {
					onReap(n)
				}
			}
		}
	}()
}
