package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Component: menu item ini butuh Amount dari bahan inventory ini (misal ons).
type Component struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ItemID       uint            `gorm:"not null;uniqueIndex:idx_component_pair,priority:1" json:"item_id"`
	Item         *MenuItem       `gorm:"foreignKey:ItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"item,omitempty"`
	IngredientID uint            `gorm:"not null;uniqueIndex:idx_component_pair,priority:2" json:"ingredient_id"`
	Ingredient   *InventoryItem  `gorm:"foreignKey:IngredientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"ingredient,omitempty"`
	Amount       decimal.Decimal `gorm:"type:decimal(7,2);not null" json:"amount"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}
