package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/odds-board/internal/domain/session"
)

// SessionRepository keeps sessions in process. A single mutex serializes updates so
// every state transition is applied atomically.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]session.Session)}
}

func (r *SessionRepository) Create(_ context.Context, s session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID] = s
	return nil
}

func (r *SessionRepository) Get(_ context.Context, id string) (session.Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok, nil
}

func (r *SessionRepository) Update(_ context.Context, id string, now time.Time, fn func(session.State) (session.State, error)) (session.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return session.Session{}, false, nil
	}

	next, err := fn(s.State)
	s.LastSeenAt = now
	if err != nil {
		r.sessions[id] = s
		return s, true, err
	}
	s.State = next
	r.sessions[id] = s
	return s, true, nil
}

// Touch refreshes the idle clock of a session without changing its state.
func (r *SessionRepository) Touch(_ context.Context, id string, now time.Time) (session.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return session.Session{}, false, nil
	}
	s.LastSeenAt = now
	r.sessions[id] = s
	return s, true, nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false, nil
	}
	delete(r.sessions, id)
	return true, nil
}

func (r *SessionRepository) ListIdleSince(_ context.Context, cutoff time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for id, s := range r.sessions {
		if s.LastSeenAt.Before(cutoff) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *SessionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), nil
}
