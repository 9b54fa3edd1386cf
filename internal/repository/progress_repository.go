package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wellness-tracker/internal/model"
)

// ProgressRepository stores one progress row per (user, activity).
type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Upsert writes the progress value, replacing any existing row for the pair.
func (r *ProgressRepository) Upsert(ctx context.Context, userID uint, activityID string, progress int, at time.Time) error {
	record := model.ProgressRecord{
		UserID:      userID,
		ActivityID:  activityID,
		Progress:    progress,
		LastUpdated: at.UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "activity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"progress", "last_updated", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

// Since returns activityID -> progress for rows updated at or after since.
func (r *ProgressRepository) Since(ctx context.Context, userID uint, since time.Time) (map[string]int, error) {
	var records []model.ProgressRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND last_updated >= ?", userID, since.UTC()).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	progress := make(map[string]int, len(records))
	for _, rec := range records {
		progress[rec.ActivityID] = rec.Progress
	}
	return progress, nil
}
