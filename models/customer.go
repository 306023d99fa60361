package models

import (
	"time"
)

// Customer adalah pelanggan bar. FirstName boleh kosong untuk pelanggan
// yang hanya punya satu nama.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LastName  string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_customer_identity,priority:1" json:"last_name"`
	FirstName string    `gorm:"type:varchar(100);not null;default:'';uniqueIndex:idx_customer_identity,priority:2" json:"first_name"`
	Planet    string    `gorm:"type:varchar(100);not null" json:"planet"`
	UBA       string    `gorm:"column:uba;type:varchar(24);not null;default:'';uniqueIndex:idx_customer_identity,priority:3" json:"uba"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Name returns "First Last", or only the last name when the customer has a single name.
func (c Customer) Name() string {
	if c.FirstName == "" {
		return c.LastName
	}
	return c.FirstName + " " + c.LastName
}
