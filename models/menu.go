package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItemCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;unique" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// MenuItem adalah item yang bisa dijual, harga dalam credits.
type MenuItem struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	Name       string           `gorm:"type:varchar(100);not null;unique" json:"name"`
	CategoryID uint             `gorm:"not null;index" json:"category_id"`
	Category   MenuItemCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Price      decimal.Decimal  `gorm:"type:decimal(7,2);not null" json:"price"`
	CreatedAt  time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time        `gorm:"not null" json:"updated_at"`
}
