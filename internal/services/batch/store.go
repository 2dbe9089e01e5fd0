package batch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/id-photo-studio/internal/models"
	"go.uber.org/zap"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewSessionStore(ttl time.Duration, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

func (st *SessionStore) Create(credential string) *Session {
	now := st.now()
	session := &Session{
		ID:         uuid.New().String(),
		credential: credential,
		settings:   models.DefaultSettings(),
		createdAt:  now,
		lastActive: now,
	}

	st.mu.Lock()
	st.sessions[session.ID] = session
	st.mu.Unlock()

	st.logger.Info("Session created",
		zap.String("session_id", session.ID),
		zap.Bool("has_credential", credential != ""))
	return session
}

// Get returns the session and marks it active.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	session, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	session.touch(st.now())
	return session, nil
}

func (st *SessionStore) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the TTL. Sessions with a
// running batch are kept.
func (st *SessionStore) Sweep(now time.Time) int {
	if st.ttl <= 0 {
		return 0
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, session := range st.sessions {
		idle, running := session.idleSince(now)
		if running || idle < st.ttl {
			continue
		}
		delete(st.sessions, id)
		removed++
	}

	if removed > 0 {
		st.logger.Info("Expired sessions removed",
			zap.Int("removed", removed),
			zap.Int("remaining", len(st.sessions)))
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (st *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep(st.now())
		}
	}
}
