package model

import "time"

// Category groups activities (meditations, exercises, readings, sounds).
type Category struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	Title      string     `json:"title"`
	Icon       string     `json:"icon"`
	TabIcon    string     `json:"tab_icon"`
	Color      string     `json:"color"`
	CreatedAt  time.Time  `json:"-"`
	UpdatedAt  time.Time  `json:"-"`
	Activities []Activity `gorm:"foreignKey:CategoryID" json:"activities"`
}
