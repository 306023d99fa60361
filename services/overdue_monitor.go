package services

import (
	"context"
	"time"

	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/utils"
)

// EventTabOverdue is published (not audited) when an open tab passes its due date.
const EventTabOverdue = "tab_overdue"

// OverdueMonitor memeriksa tab open yang lewat due date secara berkala
// dan memberi tahu client live sekali per tab.
type OverdueMonitor struct {
	Ledger   *Ledger
	Interval time.Duration
	StopChan chan struct{}

	notified map[uint]bool
}

func NewOverdueMonitor(ledger *Ledger) *OverdueMonitor {
	return &OverdueMonitor{
		Ledger:   ledger,
		Interval: 5 * time.Minute,
		StopChan: make(chan struct{}),
		notified: make(map[uint]bool),
	}
}

func (om *OverdueMonitor) Start() {
	go func() {
		ticker := time.NewTicker(om.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := om.Check(context.Background()); err != nil {
					utils.ErrorLogger.Printf("Error checking overdue tabs: %v", err)
				}
			case <-om.StopChan:
				return
			}
		}
	}()
}

func (om *OverdueMonitor) Stop() {
	close(om.StopChan)
}

// Check returns every overdue open tab and publishes the ones not reported before.
// It is not safe for concurrent use; Start runs it from a single goroutine.
func (om *OverdueMonitor) Check(ctx context.Context) ([]models.Tab, error) {
	now := om.Ledger.clock()

	var tabs []models.Tab
	if err := om.Ledger.DB.WithContext(ctx).
		Preload("Customer").
		Where("closed IS NULL AND due < ?", now).
		Order("due ASC").
		Find(&tabs).Error; err != nil {
		return nil, err
	}

	// Tab yang sudah closed atau diperpanjang keluar dari daftar
	current := make(map[uint]bool, len(tabs))
	for _, tab := range tabs {
		current[tab.ID] = true
		if om.notified[tab.ID] {
			continue
		}

		name := ""
		if tab.Customer != nil {
			name = tab.Customer.Name()
		}
		utils.InfoLogger.Printf("Tab %d (%s) overdue since %s", tab.ID, name, tab.Due.Format(time.RFC3339))
		om.Ledger.publish(EventTabOverdue, tab)
	}
	om.notified = current

	return tabs, nil
}
