package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"wellness-tracker/internal/ledger"
	"wellness-tracker/internal/repository"
)

// ActivityService wraps the catalog, favorites and progress updates.
type ActivityService struct {
	categories *repository.CategoryRepository
	favorites  *repository.FavoriteRepository
	ledger     *ledger.Ledger
}

func NewActivityService(categories *repository.CategoryRepository, favorites *repository.FavoriteRepository, l *ledger.Ledger) *ActivityService {
	return &ActivityService{categories: categories, favorites: favorites, ledger: l}
}

// LoadCatalog fills the session's catalog and favorite flags.
func (s *ActivityService) LoadCatalog(ctx context.Context, sess *ledger.Session) error {
	userID, ok := sessionUser(sess)
	if !ok {
		return ledger.ErrNoSession
	}
	categories, err := s.categories.ListWithActivities(ctx)
	if err != nil {
		return err
	}
	ids, err := s.favorites.ListActivityIDs(ctx, userID)
	if err != nil {
		return err
	}

	favorites := make(map[string]bool, len(ids))
	for _, id := range ids {
		favorites[id] = true
	}

	sess.Lock()
	sess.Catalog = categories
	sess.Favorites = favorites
	sess.Unlock()
	return nil
}

// UpdateProgress forwards a known activity's progress to the ledger.
func (s *ActivityService) UpdateProgress(ctx context.Context, sess *ledger.Session, activityID string, progress int) (bool, error) {
	if sess != nil {
		known, err := s.known(ctx, sess, activityID)
		if err != nil {
			return false, err
		}
		if !known {
			return false, ErrUnknownActivity
		}
	}
	return s.ledger.UpdateProgress(ctx, sess, activityID, progress)
}

// Complete marks an activity as fully done.
func (s *ActivityService) Complete(ctx context.Context, sess *ledger.Session, activityID string) (bool, error) {
	return s.UpdateProgress(ctx, sess, activityID, 100)
}

// RecordPlayback converts an audio position to a percentage and forwards it
// when it moved enough since the last stored value. reported is false when
// the change was too small to write.
func (s *ActivityService) RecordPlayback(ctx context.Context, sess *ledger.Session, activityID string, position, duration time.Duration) (reported, accepted bool, err error) {
	if sess == nil {
		return false, false, nil
	}
	next := ledger.PlaybackPercent(position, duration)
	sess.Lock()
	current := sess.Progress[activityID]
	sess.Unlock()
	if !ledger.ShouldReport(current, next) {
		return false, false, nil
	}
	accepted, err = s.UpdateProgress(ctx, sess, activityID, next)
	return true, accepted, err
}

// ToggleFavorite flips the favorite mark optimistically and returns the new state.
func (s *ActivityService) ToggleFavorite(ctx context.Context, sess *ledger.Session, activityID string) (bool, error) {
	if sess == nil {
		return false, ledger.ErrNoSession
	}
	sess.Lock()
	defer sess.Unlock()
	if sess.User == nil {
		return false, ledger.ErrNoSession
	}
	if _, _, ok := sess.FindActivity(activityID); !ok {
		return false, ErrUnknownActivity
	}

	userID := sess.User.ID
	was := sess.Favorites[activityID]
	err := ledger.Optimistic(ctx,
		func() { sess.Favorites[activityID] = !was },
		func(ctx context.Context) error {
			if was {
				return s.favorites.Remove(ctx, userID, activityID)
			}
			return s.favorites.Add(ctx, userID, activityID)
		},
		func() { sess.Favorites[activityID] = was },
	)
	if err != nil {
		return was, err
	}
	return !was, nil
}

// known checks the session catalog, falling back to the store when the
// session was opened without one.
func (s *ActivityService) known(ctx context.Context, sess *ledger.Session, activityID string) (bool, error) {
	sess.Lock()
	loaded := len(sess.Catalog) > 0
	_, _, ok := sess.FindActivity(activityID)
	sess.Unlock()
	if loaded {
		return ok, nil
	}

	if _, err := s.categories.GetActivity(ctx, activityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func sessionUser(sess *ledger.Session) (uint, bool) {
	if sess == nil {
		return 0, false
	}
	sess.Lock()
	defer sess.Unlock()
	if sess.User == nil {
		return 0, false
	}
	return sess.User.ID, true
}
