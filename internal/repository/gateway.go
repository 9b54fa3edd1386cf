package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"wellness-tracker/internal/model"
)

// Gateway exposes the progress and history tables with the method set the
// ledger consumes.
type Gateway struct {
	progress *ProgressRepository
	history  *HistoryRepository
}

func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{
		progress: NewProgressRepository(db),
		history:  NewHistoryRepository(db),
	}
}

func (g *Gateway) ProgressSince(ctx context.Context, userID uint, since time.Time) (map[string]int, error) {
	return g.progress.Since(ctx, userID, since)
}

func (g *Gateway) UpsertProgress(ctx context.Context, userID uint, activityID string, progress int, at time.Time) error {
	return g.progress.Upsert(ctx, userID, activityID, progress, at)
}

func (g *Gateway) History(ctx context.Context, userID uint) ([]model.HistoryEntry, error) {
	return g.history.ListByUser(ctx, userID)
}

func (g *Gateway) AppendHistory(ctx context.Context, entry *model.HistoryEntry) error {
	return g.history.Append(ctx, entry)
}
