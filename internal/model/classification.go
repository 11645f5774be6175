package model

import "time"

// Classification is a named vehicle category (e.g. "SUV").
type Classification struct {
	ID        uint      `json:"classification_id" gorm:"primaryKey"`
	Name      string    `json:"classification_name" gorm:"type:varchar(50);uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
