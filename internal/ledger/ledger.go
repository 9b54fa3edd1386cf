package ledger

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"wellness-tracker/internal/metrics"
	"wellness-tracker/internal/model"
)

// Gateway is the persistence the ledger reads and writes. Each call is
// atomic on its own; there are no transactions across calls.
type Gateway interface {
	ProgressSince(ctx context.Context, userID uint, since time.Time) (map[string]int, error)
	UpsertProgress(ctx context.Context, userID uint, activityID string, progress int, at time.Time) error
	History(ctx context.Context, userID uint) ([]model.HistoryEntry, error)
	AppendHistory(ctx context.Context, entry *model.HistoryEntry) error
}

// Ledger owns the rules turning progress updates into stored percentages,
// daily completion counts and history entries.
type Ledger struct {
	gw   Gateway
	goal int
	now  func() time.Time
}

type Option func(*Ledger)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(gw Gateway, goal int, opts ...Option) *Ledger {
	if goal <= 0 {
		goal = DefaultGoal
	}
	l := &Ledger{gw: gw, goal: goal, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) Now() time.Time { return l.now() }

func (l *Ledger) Goal() int { return l.goal }

// NewSession starts a session for user dated today.
func (l *Ledger) NewSession(user *model.User) *Session {
	return NewSession(user, l.goal, DayKey(l.now()))
}

// Load resets a stale bucket, then rebuilds progress, history and the daily
// counter from the gateway.
func (l *Ledger) Load(ctx context.Context, s *Session) error {
	if s == nil {
		return ErrNoSession
	}
	s.Lock()
	defer s.Unlock()
	if s.User == nil {
		return ErrNoSession
	}

	now := l.now()
	today := DayKey(now)
	l.resetLocked(s, today)

	progress, err := l.gw.ProgressSince(ctx, s.User.ID, Midnight(now))
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	history, err := l.gw.History(ctx, s.User.ID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	s.Progress = progress
	s.History = history
	s.Daily = DailyProgress{Completed: CompletedOn(history, today), Goal: l.goal, Day: today}
	return nil
}

// ResetIfStale applies the daily reset policy to s and reports whether the
// bucket was stale.
func (l *Ledger) ResetIfStale(s *Session) bool {
	if s == nil {
		return false
	}
	s.Lock()
	defer s.Unlock()
	return l.resetLocked(s, DayKey(l.now()))
}

func (l *Ledger) resetLocked(s *Session, today string) bool {
	next, reset := CheckAndReset(s.Daily, today)
	if !reset {
		return false
	}
	s.Daily = next
	s.Progress = make(map[string]int)
	s.TodayMood = nil
	metrics.DailyResets.Inc()
	return true
}

// UpdateProgress records a requested progress value for one activity.
//
// It returns false with a nil error when the request is rejected by a guard
// (logged out, or a partial update against a stale day), and false with the
// gateway error when the write fails. Local state is only touched after a
// successful write.
func (l *Ledger) UpdateProgress(ctx context.Context, s *Session, activityID string, requested int) (bool, error) {
	if s == nil {
		metrics.ProgressUpdates.WithLabelValues("rejected").Inc()
		return false, nil
	}
	s.Lock()
	defer s.Unlock()
	if s.User == nil {
		metrics.ProgressUpdates.WithLabelValues("rejected").Inc()
		return false, nil
	}

	now := l.now()
	today := DayKey(now)
	newProgress := Clamp(requested)
	nowCompleted := newProgress >= 100

	if s.Daily.Day != today {
		if !nowCompleted {
			metrics.ProgressUpdates.WithLabelValues("rejected").Inc()
			return false, nil
		}
		// A completion still counts; it lands in today's bucket.
		l.resetLocked(s, today)
	}

	wasCompleted := s.Progress[activityID] >= 100

	if err := l.gw.UpsertProgress(ctx, s.User.ID, activityID, newProgress, now); err != nil {
		metrics.ProgressUpdates.WithLabelValues("failed").Inc()
		return false, err
	}
	s.Progress[activityID] = newProgress

	switch {
	case !wasCompleted && nowCompleted:
		s.Daily.Completed++
		metrics.Completions.Inc()
		entry := l.historyEntry(s, activityID, newProgress, now)
		if err := l.gw.AppendHistory(ctx, &entry); err != nil {
			log.Printf("append history user=%d activity=%s: %v", s.User.ID, activityID, err)
		}
		s.History = append([]model.HistoryEntry{entry}, s.History...)
	case wasCompleted && !nowCompleted:
		if s.Daily.Completed > 0 {
			s.Daily.Completed--
		}
		metrics.CompletionWalkbacks.Inc()
	}

	history, err := l.gw.History(ctx, s.User.ID)
	if err != nil {
		log.Printf("reload history user=%d: %v", s.User.ID, err)
	} else {
		s.History = history
	}

	metrics.ProgressUpdates.WithLabelValues("accepted").Inc()
	return true, nil
}

func (l *Ledger) historyEntry(s *Session, activityID string, progress int, at time.Time) model.HistoryEntry {
	entry := model.HistoryEntry{
		ID:          uuid.New(),
		UserID:      s.User.ID,
		ActivityID:  activityID,
		Progress:    progress,
		LastUpdated: at,
	}
	if activity, category, ok := s.FindActivity(activityID); ok {
		entry.ActivityTitle = activity.Title
		entry.ActivityDuration = activity.Duration
		entry.CategoryName = category.Title
	}
	return entry
}
