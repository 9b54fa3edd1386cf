package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wellness-tracker/internal/model"
)

// FavoriteRepository stores the (user, activity) favorite marks.
type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Add(ctx context.Context, userID uint, activityID string) error {
	fav := model.Favorite{UserID: userID, ActivityID: activityID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID uint, activityID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND activity_id = ?", userID, activityID).
		Delete(&model.Favorite{}).Error; err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) ListActivityIDs(ctx context.Context, userID uint) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&model.Favorite{}).Where("user_id = ?", userID).Pluck("activity_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return ids, nil
}
