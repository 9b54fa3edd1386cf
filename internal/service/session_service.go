package service

import (
	"context"
	"log"
	"sync"

	"wellness-tracker/internal/ledger"
	"wellness-tracker/internal/model"
)

// SessionManager keeps one ledger session per logged-in user.
type SessionManager struct {
	ledger     *ledger.Ledger
	activities *ActivityService
	moods      *MoodService

	mu       sync.Mutex
	sessions map[uint]*ledger.Session
	opening  map[uint]*openCall
}

// openCall is a session load in progress. Callers arriving while it runs
// wait on done and share its result.
type openCall struct {
	done chan struct{}
	sess *ledger.Session
	err  error
}

func NewSessionManager(l *ledger.Ledger, activities *ActivityService, moods *MoodService) *SessionManager {
	return &SessionManager{
		ledger:     l,
		activities: activities,
		moods:      moods,
		sessions:   make(map[uint]*ledger.Session),
		opening:    make(map[uint]*openCall),
	}
}

// Login loads catalog, progress, history and moods for user. An open session
// is reloaded in place, so every holder keeps seeing the same state.
func (m *SessionManager) Login(ctx context.Context, user *model.User) (*ledger.Session, error) {
	m.mu.Lock()
	s := m.sessions[user.ID]
	m.mu.Unlock()
	if s == nil {
		return m.Ensure(ctx, user)
	}

	s.Lock()
	if s.User == nil {
		// Logged out between the lookup and now.
		s.Unlock()
		return m.Ensure(ctx, user)
	}
	s.User = user
	s.Unlock()

	if err := m.load(ctx, s); err != nil {
		return nil, err
	}
	log.Printf("[info] session reloaded user=%d", user.ID)
	return s, nil
}

// Ensure returns the user's session, logging in when there is none.
// Concurrent callers for one user share a single load.
func (m *SessionManager) Ensure(ctx context.Context, user *model.User) (*ledger.Session, error) {
	m.mu.Lock()
	if s := m.sessions[user.ID]; s != nil {
		m.mu.Unlock()
		return s, nil
	}
	if call, ok := m.opening[user.ID]; ok {
		m.mu.Unlock()
		select {
		case <-call.done:
			return call.sess, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &openCall{done: make(chan struct{})}
	m.opening[user.ID] = call
	m.mu.Unlock()

	s := m.ledger.NewSession(user)
	err := m.load(ctx, s)

	m.mu.Lock()
	delete(m.opening, user.ID)
	if err == nil {
		m.sessions[user.ID] = s
		call.sess = s
	}
	call.err = err
	m.mu.Unlock()
	close(call.done)

	if err != nil {
		return nil, err
	}
	log.Printf("[info] session started user=%d completed=%d", user.ID, s.Snapshot().Daily.Completed)
	return s, nil
}

func (m *SessionManager) load(ctx context.Context, s *ledger.Session) error {
	if err := m.activities.LoadCatalog(ctx, s); err != nil {
		return err
	}
	if err := m.ledger.Load(ctx, s); err != nil {
		return err
	}
	return m.moods.Load(ctx, s)
}

// Get returns the session of userID or nil when logged out.
func (m *SessionManager) Get(userID uint) *ledger.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID]
}

// Logout drops the session. Holders of the old pointer see a logged-out session.
func (m *SessionManager) Logout(userID uint) bool {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if !ok {
		return false
	}
	s.Lock()
	s.User = nil
	s.Unlock()
	log.Printf("[info] session closed user=%d", userID)
	return true
}

// Active returns every open session.
func (m *SessionManager) Active() []*ledger.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ledger.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// ResetStale runs the daily reset policy over all open sessions and returns
// how many were reset.
func (m *SessionManager) ResetStale() int {
	reset := 0
	for _, s := range m.Active() {
		if m.ledger.ResetIfStale(s) {
			reset++
		}
	}
	return reset
}

// Refresh applies the daily reset policy to one session, the way a screen
// reload would. It reports whether the bucket was stale.
func (m *SessionManager) Refresh(s *ledger.Session) bool {
	return m.ledger.ResetIfStale(s)
}
