package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dealhive/dealhive/domain"
	"github.com/dealhive/dealhive/internal/viewmodel"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session is one viewer's comment session on one deal. Notices emitted by
// the flow queue up here until the transport drains them.
type Session struct {
	ID   string
	Flow *InteractionFlow

	mu       sync.Mutex
	lastSeen time.Time
	notices  []domain.Notice
}

func (s *Session) pushNotice(n domain.Notice) {
	s.mu.Lock()
	s.notices = append(s.notices, n)
	s.mu.Unlock()
}

// DrainNotices returns and clears the queued notices.
func (s *Session) DrainNotices() []domain.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.notices
	s.notices = nil
	return res
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Registry keeps the live comment sessions, one per (viewer session, deal).
// Sessions idle longer than the TTL are evicted by the reaper; a remote call
// resolving after eviction mutates only the discarded manager, which is a
// safe no-op for the rest of the system.
type Registry struct {
	svc domain.CommentService
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(svc domain.CommentService, ttl time.Duration) *Registry {
	return &Registry{
		svc:      svc,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

func sessionKey(sessionID string, dealID int64) string {
	return fmt.Sprintf("%s:%d", sessionID, dealID)
}

// Lookup returns the existing session for (sessionID, deal), refreshing its
// idle timer, or nil.
func (r *Registry) Lookup(sessionID string, dealID int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionKey(sessionID, dealID)]
	if !ok {
		return nil
	}
	s.touch(time.Now())
	return s
}

// Acquire returns the session for (sessionID, deal), creating and seeding it
// on first use. An empty sessionID gets a generated one; the caller is
// expected to hand it back to the client.
func (r *Registry) Acquire(sessionID string, dealID int64, seed []viewmodel.CommentViewModel) *Session {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionKey(sessionID, dealID)
	if s, ok := r.sessions[key]; ok {
		s.touch(time.Now())
		return s
	}

	s := &Session{
		ID:       sessionID,
		lastSeen: time.Now(),
	}
	manager := NewManager(dealID, seed, r.svc)
	s.Flow = NewInteractionFlow(manager, s.pushNotice)
	r.sessions[key] = s
	return s
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Start runs the eviction loop until ctx is done.
func (r *Registry) Start(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictIdle(time.Now())
		case <-ctx.Done():
			logrus.Info("shutting down session registry reaper")
			return
		}
	}
}

func (r *Registry) evictIdle(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, s := range r.sessions {
		if s.idleSince(now) > r.ttl {
			delete(r.sessions, key)
		}
	}
}
