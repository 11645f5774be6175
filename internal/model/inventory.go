package model

import "time"

// Inventory represents a single vehicle for sale.
// ClassificationID must reference an existing Classification row; the
// handlers verify this before insert or update.
type Inventory struct {
	ID               uint      `json:"inv_id" gorm:"primaryKey"`
	ClassificationID uint      `json:"classification_id" gorm:"index"`
	Make             string    `json:"inv_make" gorm:"type:varchar(50)"`
	Model            string    `json:"inv_model" gorm:"type:varchar(50)"`
	Year             int       `json:"inv_year"`
	Description      string    `json:"inv_description" gorm:"type:text"`
	Image            string    `json:"inv_image" gorm:"type:varchar(255)"`
	Thumbnail        string    `json:"inv_thumbnail" gorm:"type:varchar(255)"`
	Price            float64   `json:"inv_price"`
	Miles            int       `json:"inv_miles"`
	Color            string    `json:"inv_color" gorm:"type:varchar(30)"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// InventoryWithClassification is the detail-view row shape: a vehicle
// joined with its classification name.
type InventoryWithClassification struct {
	Inventory
	ClassificationName string `json:"classification_name"`
}
