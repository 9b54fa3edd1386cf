package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wellness-tracker/internal/model"
)

// CategoryRepository manages the shared activity catalog.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListWithActivities returns every category with its activities, ordered by ID.
func (r *CategoryRepository) ListWithActivities(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Preload("Activities", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) GetActivity(ctx context.Context, id string) (*model.Activity, error) {
	var activity model.Activity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// Seed upserts categories and their activities by primary key.
func (r *CategoryRepository) Seed(ctx context.Context, categories []model.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, cat := range categories {
			activities := cat.Activities
			cat.Activities = nil
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&cat).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", cat.ID, err)
			}
			for i := range activities {
				activities[i].CategoryID = cat.ID
			}
			if len(activities) == 0 {
				continue
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&activities).Error; err != nil {
				return fmt.Errorf("seed activities of %s: %w", cat.ID, err)
			}
		}
		return nil
	})
}
