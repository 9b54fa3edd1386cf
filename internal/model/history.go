package model

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one completion event. Entries are append-only; the
// activity and category names are copied in at write time for display.
type HistoryEntry struct {
	ID               uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index:idx_history_user_time,priority:1" json:"user_id"`
	ActivityID       string    `gorm:"not null;index" json:"activity_id"`
	Progress         int       `gorm:"not null" json:"progress"`
	LastUpdated      time.Time `gorm:"not null;index:idx_history_user_time,priority:2" json:"last_updated"`
	ActivityTitle    string    `json:"activity_title"`
	ActivityDuration string    `json:"activity_duration"`
	CategoryName     string    `json:"category_name"`
	CreatedAt        time.Time `json:"-"`
}
