package models

import "time"

// Tag names are stored trimmed and lower-cased.
type Tag struct {
	ID        int    `gorm:"primaryKey"`
	Name      string `gorm:"size:100;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
