package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultTabTerm is how long after opening a tab falls due.
const DefaultTabTerm = 7 * 24 * time.Hour

// Tab adalah rekening berjalan milik satu customer. Closed == nil berarti tab masih open.
type Tab struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CustomerID uint       `gorm:"not null;index" json:"customer_id"`
	Customer   *Customer  `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"customer,omitempty"`
	Opened     time.Time  `gorm:"not null;<-:create" json:"opened"`
	Due        time.Time  `gorm:"not null" json:"due"`
	Closed     *time.Time `gorm:"index" json:"closed"`
	// OpenSlot holds CustomerID while the tab is open and NULL once closed, so the
	// unique index allows at most one open tab per customer.
	OpenSlot  *uint      `gorm:"uniqueIndex:idx_tabs_open_slot" json:"-"`
	Purchases []Purchase `gorm:"foreignKey:TabID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"purchases,omitempty"`
}

func (t *Tab) IsOpen() bool {
	return t.Closed == nil
}

// IsOverdue reports whether an open tab is past its due date at now.
func (t *Tab) IsOverdue(now time.Time) bool {
	return t.IsOpen() && now.After(t.Due)
}

func (t *Tab) BeforeSave(tx *gorm.DB) error {
	if t.Closed == nil {
		slot := t.CustomerID
		t.OpenSlot = &slot
	} else {
		t.OpenSlot = nil
	}
	return nil
}
