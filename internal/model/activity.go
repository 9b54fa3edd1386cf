package model

import "time"

// Activity is a single wellness exercise. Display metadata is shared by all
// users; Progress and Favorite are per-user and filled in from the session.
type Activity struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	CategoryID  string    `gorm:"index;not null" json:"category_id"`
	Title       string    `json:"title"`
	Duration    string    `json:"duration"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	AudioURL    *string   `json:"audio_url,omitempty"`
	Content     *string   `json:"content,omitempty"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	Progress int  `gorm:"-" json:"progress"`
	Favorite bool `gorm:"-" json:"favorite"`
}
