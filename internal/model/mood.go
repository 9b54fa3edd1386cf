package model

import (
	"time"

	"github.com/google/uuid"
)

// Mood indexes as shown to the user.
const (
	MoodGood = iota
	MoodNeutral
	MoodSad
	MoodAnxious
	MoodTired
)

// MoodLabels maps a mood index to its emoji and label.
var MoodLabels = [...]struct {
	Emoji string
	Text  string
}{
	{"😊", "Bien"},
	{"😐", "Neutral"},
	{"😔", "Triste"},
	{"😰", "Ansioso"},
	{"😴", "Cansado"},
}

// MoodEntry is one mood journal record.
type MoodEntry struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_mood_user_time,priority:1" json:"user_id"`
	MoodIndex int       `gorm:"not null" json:"mood_index"`
	CreatedAt time.Time `gorm:"not null;index:idx_mood_user_time,priority:2" json:"created_at"`
}
