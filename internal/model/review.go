package model

import "time"

// Review is a free-text customer review of one vehicle by one account.
// Only the author may edit or delete it.
type Review struct {
	ID          uint      `json:"review_id" gorm:"primaryKey"`
	Text        string    `json:"review_text" gorm:"type:text"`
	InventoryID uint      `json:"inv_id" gorm:"index"`
	AccountID   uint      `json:"account_id" gorm:"index"`
	CreatedAt   time.Time `json:"review_date"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReviewWithAuthor is a review joined with the author's display names,
// used wherever reviews are rendered.
type ReviewWithAuthor struct {
	Review
	FirstName string `json:"account_firstname"`
	LastName  string `json:"account_lastname"`
}

// ReviewWithVehicle is a review joined with the vehicle it belongs to,
// used on the account management page and the edit/delete views.
type ReviewWithVehicle struct {
	Review
	Make      string `json:"inv_make"`
	ModelName string `json:"inv_model" gorm:"column:model"`
	Year      int    `json:"inv_year"`
}
