package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase adalah satu baris penjualan menu item di sebuah tab.
// Amount diturunkan dari harga item x quantity, kecuali di-comp.
type Purchase struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	TabID    uint            `gorm:"not null;index" json:"tab_id"`
	ItemID   uint            `gorm:"not null;index" json:"item_id"`
	Item     MenuItem        `gorm:"foreignKey:ItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"item"`
	Quantity int             `gorm:"not null" json:"quantity"`
	Amount   decimal.Decimal `gorm:"type:decimal(7,2);not null" json:"amount"`
	Comped   bool            `gorm:"not null;default:false" json:"comped"`
	Time     time.Time       `gorm:"not null;index;<-:create" json:"time"`
}

// UpdateAmount recomputes Amount from the loaded Item price and Quantity.
// Nothing is persisted; an edited purchase is charged again, so the comp flag is cleared.
func (p *Purchase) UpdateAmount() {
	p.Amount = p.Item.Price.Mul(decimal.NewFromInt(int64(p.Quantity))).Round(2)
	p.Comped = false
}

// Comp zeroes the charged amount without touching Quantity. Nothing is persisted.
func (p *Purchase) Comp() {
	p.Amount = decimal.Zero
	p.Comped = true
}
