package model

import "time"

// User stores profile metadata for both front ends. A Telegram user has
// TelegramID set, an API user has Subject set (the JWT "sub" claim).
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TelegramID *int64    `gorm:"uniqueIndex" json:"-"`
	Subject    *string   `gorm:"uniqueIndex" json:"-"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
