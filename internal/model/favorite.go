package model

import "time"

type Favorite struct {
	UserID     uint   `gorm:"primaryKey;autoIncrement:false"`
	ActivityID string `gorm:"primaryKey"`
	CreatedAt  time.Time
}
