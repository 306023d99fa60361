package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventTabOpened        = "tab_opened"
	EventTabClosed        = "tab_closed"
	EventPurchaseRecorded = "purchase_recorded"
	EventPurchaseUpdated  = "purchase_updated"
	EventPurchaseComped   = "purchase_comped"
	EventPurchaseDeleted  = "purchase_deleted"
)

// LedgerEvent is one audit row for a tab. Payload keeps the amounts involved,
// including the amount a purchase had before it was comped.
type LedgerEvent struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	TabID      uint           `gorm:"not null;index:idx_event_tab" json:"tab_id"`
	PurchaseID *uint          `gorm:"index" json:"purchase_id,omitempty"`
	Action     string         `gorm:"type:varchar(30);not null" json:"action"`
	Payload    datatypes.JSON `json:"payload"`
	CreatedAt  time.Time      `gorm:"not null;index:idx_event_tab" json:"created_at"`
}
