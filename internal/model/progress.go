package model

import "time"

// ProgressRecord is the stored completion percentage of one activity for one
// user. Writes are upserts keyed on (UserID, ActivityID).
type ProgressRecord struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_progress_user_activity,priority:1"`
	ActivityID  string    `gorm:"not null;uniqueIndex:idx_progress_user_activity,priority:2"`
	Progress    int       `gorm:"not null;default:0"`
	LastUpdated time.Time `gorm:"index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
