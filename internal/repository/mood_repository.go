package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wellness-tracker/internal/model"
)

// MoodRepository stores mood journal entries.
type MoodRepository struct {
	db *gorm.DB
}

func NewMoodRepository(db *gorm.DB) *MoodRepository {
	return &MoodRepository{db: db}
}

func (r *MoodRepository) Append(ctx context.Context, userID uint, moodIndex int, at time.Time) (*model.MoodEntry, error) {
	entry := model.MoodEntry{
		ID:        uuid.New(),
		UserID:    userID,
		MoodIndex: moodIndex,
		CreatedAt: at.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("append mood: %w", err)
	}
	return &entry, nil
}

// LatestSince returns the newest entry created at or after since, or nil.
func (r *MoodRepository) LatestSince(ctx context.Context, userID uint, since time.Time) (*model.MoodEntry, error) {
	var entry model.MoodEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since.UTC()).
		Order("created_at DESC").
		First(&entry).Error
	switch {
	case err == nil:
		return &entry, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find mood: %w", err)
	}
}

func (r *MoodRepository) ListByUser(ctx context.Context, userID uint) ([]model.MoodEntry, error) {
	var entries []model.MoodEntry
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list moods: %w", err)
	}
	return entries, nil
}
