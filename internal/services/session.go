package services

import (
	"context"
	"sync"
	"time"

	"bizplan/internal/questionnaire"
	"bizplan/internal/storage"
	"bizplan/pkg/memcache"
	"bizplan/pkg/utils"
)

// Session is one user's pass through the questionnaire. mu guards the
// answers, the navigator and the coordinator pointer; the engine types
// themselves are not synchronised.
type Session struct {
	ID        string
	PlanType  string
	Email     string
	CreatedAt time.Time
	Keys      storage.SessionKeys

	mu         sync.Mutex
	answers    *questionnaire.AnswerSet
	nav        *questionnaire.Navigator
	submission *SubmissionCoordinator

	ctx    context.Context
	cancel context.CancelFunc
}

func newSession(id, planType, email string, catalog *questionnaire.Catalog, submission *SubmissionCoordinator) *Session {
	answers := questionnaire.NewAnswerSet(catalog)
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:         id,
		PlanType:   planType,
		Email:      email,
		CreatedAt:  time.Now(),
		Keys:       storage.KeysFor(id),
		answers:    answers,
		nav:        questionnaire.NewNavigator(catalog, answers),
		submission: submission,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Context is cancelled when the session is torn down.
func (s *Session) Context() context.Context { return s.ctx }

func (s *Session) Submission() *SubmissionCoordinator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submission
}

// Close aborts in-flight calls. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	sub := s.submission
	s.mu.Unlock()
	sub.Abort()
	s.cancel()
}

// SessionManager keeps live sessions in memory with sliding expiry. Evicted
// sessions are closed.
type SessionManager struct {
	cache *memcache.TTLStore[*Session]
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		cache: memcache.NewTTLStore(ttl, func(_ string, s *Session) { s.Close() }),
	}
}

func (m *SessionManager) Put(s *Session) { m.cache.Set(s.ID, s) }

func (m *SessionManager) Get(id string) (*Session, error) {
	s, ok := m.cache.Get(id)
	if !ok {
		return nil, utils.ErrSessionNotFound
	}
	return s, nil
}

// Remove tears the session down.
func (m *SessionManager) Remove(id string) error {
	if !m.cache.Delete(id) {
		return utils.ErrSessionNotFound
	}
	return nil
}

// Context returns the live session's context, or a background context when
// the session has already expired.
func (m *SessionManager) Context(id string) context.Context {
	if s, ok := m.cache.Get(id); ok {
		return s.ctx
	}
	return context.Background()
}

func (m *SessionManager) Len() int { return m.cache.Len() }

func (m *SessionManager) Sweep() int { return m.cache.Sweep() }

func (m *SessionManager) StartJanitor(interval time.Duration) { m.cache.StartJanitor(interval) }

func (m *SessionManager) Stop() { m.cache.Stop() }

// CloseAll tears down every live session, used at shutdown.
func (m *SessionManager) CloseAll() {
	for _, id := range m.cache.Keys() {
		m.cache.Delete(id)
	}
}
