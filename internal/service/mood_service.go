package service

import (
	"context"
	"log"
	"time"

	"wellness-tracker/internal/ledger"
	"wellness-tracker/internal/metrics"
	"wellness-tracker/internal/model"
	"wellness-tracker/internal/repository"
)

// MoodService manages the once-a-day mood journal.
type MoodService struct {
	moods *repository.MoodRepository
	now   func() time.Time
}

func NewMoodService(moods *repository.MoodRepository, now func() time.Time) *MoodService {
	if now == nil {
		now = time.Now
	}
	return &MoodService{moods: moods, now: now}
}

// Load fills today's mood and the mood history into the session.
func (s *MoodService) Load(ctx context.Context, sess *ledger.Session) error {
	userID, ok := sessionUser(sess)
	if !ok {
		return ledger.ErrNoSession
	}
	today, err := s.moods.LatestSince(ctx, userID, ledger.Midnight(s.now()))
	if err != nil {
		return err
	}
	history, err := s.moods.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()
	sess.TodayMood = nil
	if today != nil {
		idx := today.MoodIndex
		sess.TodayMood = &idx
	}
	sess.MoodHistory = history
	return nil
}

// SaveDailyMood records today's mood. Only one entry per calendar day is accepted.
func (s *MoodService) SaveDailyMood(ctx context.Context, sess *ledger.Session, moodIndex int) error {
	if sess == nil {
		return ledger.ErrNoSession
	}
	if moodIndex < 0 || moodIndex >= len(model.MoodLabels) {
		return ErrInvalidMood
	}
	sess.Lock()
	defer sess.Unlock()
	if sess.User == nil {
		return ledger.ErrNoSession
	}

	now := s.now()
	existing, err := s.moods.LatestSince(ctx, sess.User.ID, ledger.Midnight(now))
	if err != nil {
		return err
	}
	if existing != nil {
		idx := existing.MoodIndex
		sess.TodayMood = &idx
		return ErrMoodAlreadyRecorded
	}

	if _, err := s.moods.Append(ctx, sess.User.ID, moodIndex, now); err != nil {
		return err
	}
	sess.TodayMood = &moodIndex
	metrics.MoodEntries.WithLabelValues(model.MoodLabels[moodIndex].Text).Inc()

	history, err := s.moods.ListByUser(ctx, sess.User.ID)
	if err != nil {
		log.Printf("reload moods user=%d: %v", sess.User.ID, err)
		return nil
	}
	sess.MoodHistory = history
	return nil
}
