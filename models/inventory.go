package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryItemCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;unique" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// InventoryItem is a stocked ingredient. Stock is tracked by hand; purchases never deplete it.
type InventoryItem struct {
	ID            uint                  `gorm:"primaryKey" json:"id"`
	Name          string                `gorm:"type:varchar(100);not null;unique" json:"name"`
	CategoryID    uint                  `gorm:"not null;index" json:"category_id"`
	Category      InventoryItemCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Stock         decimal.Decimal       `gorm:"type:decimal(7,2);not null" json:"stock"`
	Cost          decimal.Decimal       `gorm:"type:decimal(7,2);not null" json:"cost"`
	ReorderPoint  int                   `gorm:"not null;default:0" json:"reorder_point"`
	ReorderAmount int                   `gorm:"not null;default:0" json:"reorder_amount"`
	CreatedAt     time.Time             `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time             `gorm:"not null" json:"updated_at"`
}

// NeedsReorder reports whether stock has fallen to the reorder point.
func (i InventoryItem) NeedsReorder() bool {
	return i.Stock.LessThanOrEqual(decimal.NewFromInt(int64(i.ReorderPoint)))
}
