package model

import (
	"time"
)

// Account types stored in accounts.account_type.
const (
	AccountTypeClient   = "Client"
	AccountTypeEmployee = "Employee"
	AccountTypeAdmin    = "Admin"
)

// Account represents a registered user stored in the database.
// The password column only ever holds a bcrypt hash.
type Account struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FirstName   string    `json:"first_name" gorm:"type:varchar(100)"`
	LastName    string    `json:"last_name" gorm:"type:varchar(100)"`
	Email       string    `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password    string    `json:"-" gorm:"type:varchar(255)"`
	AccountType string    `json:"account_type" gorm:"type:varchar(20);default:Client"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsStaff reports whether the account may manage inventory.
func (a *Account) IsStaff() bool {
	return a.AccountType == AccountTypeEmployee || a.AccountType == AccountTypeAdmin
}
