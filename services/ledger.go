package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// openTabAttempts bounds the find-or-create loop when a concurrent request
// wins the race for the customer's open tab slot.
const openTabAttempts = 3

// Notifier receives ledger changes after they are committed.
type Notifier interface {
	Publish(event string, data interface{})
}

// Ledger owns tabs and purchases: one open tab per customer, purchase amounts
// derived from item price, and comps.
type Ledger struct {
	DB       *gorm.DB
	TabTerm  time.Duration
	Notifier Notifier
	Now      func() time.Time
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{
		DB:      db,
		TabTerm: models.DefaultTabTerm,
		Now:     time.Now,
	}
}

func (l *Ledger) clock() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

func (l *Ledger) publish(event string, data interface{}) {
	if l.Notifier != nil {
		l.Notifier.Publish(event, data)
	}
}

// ResolveOpenTab returns the customer's open tab, opening one if there is none.
func (l *Ledger) ResolveOpenTab(ctx context.Context, customerID uint) (*models.Tab, error) {
	var (
		tab     *models.Tab
		created bool
	)
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		tab, created, err = l.resolveOpenTab(tx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if created {
		l.publish(models.EventTabOpened, tab)
	}
	return tab, nil
}

// resolveOpenTab must run inside a transaction. The customer row is locked for the
// rest of the transaction (SQLite ignores the clause and serializes writers instead),
// and the unique open_slot index turns a lost race into gorm.ErrDuplicatedKey.
func (l *Ledger) resolveOpenTab(tx *gorm.DB, customerID uint) (*models.Tab, bool, error) {
	var customer models.Customer
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&customer, customerID).Error; err != nil {
		return nil, false, TranslateDBError(err, CustomerKey, customerID)
	}

	for attempt := 1; ; attempt++ {
		tab, err := findOpenTab(tx, customerID)
		if err != nil {
			return nil, false, err
		}
		if tab != nil {
			tab.Customer = &customer
			return tab, false, nil
		}

		now := l.clock()
		tab = &models.Tab{
			CustomerID: customerID,
			Opened:     now,
			Due:        now.Add(l.TabTerm),
		}
		err = tx.Transaction(func(sp *gorm.DB) error {
			if err := sp.Omit(clause.Associations).Create(tab).Error; err != nil {
				return err
			}
			return recordEvent(sp, tab.ID, nil, models.EventTabOpened, map[string]interface{}{
				"customer_id": customerID,
				"due":         tab.Due,
			})
		})
		if err == nil {
			utils.InfoLogger.Printf("Opened tab %d for customer %d", tab.ID, customerID)
			tab.Customer = &customer
			return tab, true, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, err
		}
		if attempt >= openTabAttempts {
			utils.ErrorLogger.Errorf("Open tab for customer %d still conflicting after %d attempts", customerID, attempt)
			return nil, false, TranslateDBError(err, OpenTabKey, customerID)
		}
		utils.InfoLogger.Printf("Open tab for customer %d created concurrently, retrying lookup (attempt %d)", customerID, attempt)
	}
}

// findOpenTab harus locking read: di MySQL REPEATABLE READ, read biasa memakai snapshot lama
// sehingga tab yang baru di-commit transaksi lain tidak terlihat saat retry.
func findOpenTab(tx *gorm.DB, customerID uint) (*models.Tab, error) {
	var tabs []models.Tab
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND closed IS NULL", customerID).
		Order("id ASC").
		Limit(2).
		Find(&tabs).Error; err != nil {
		return nil, err
	}

	switch len(tabs) {
	case 0:
		return nil, nil
	case 1:
		return &tabs[0], nil
	}
	utils.ErrorLogger.Errorf("Customer %d has open tabs %d and %d", customerID, tabs[0].ID, tabs[1].ID)
	return nil, &IntegrityError{Reason: fmt.Sprintf("customer %d has more than one open tab", customerID)}
}

// RecordPurchase charges quantity x menu item to the customer's open tab.
// Inventory stock is not touched.
func (l *Ledger) RecordPurchase(ctx context.Context, customerID, menuItemID uint, quantity int) (*models.Purchase, error) {
	if quantity < 1 {
		return nil, NewValidationError("quantity", "Ensure this value is greater than or equal to 1.")
	}

	var (
		purchase models.Purchase
		opened   *models.Tab
	)
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.First(&item, menuItemID).Error; err != nil {
			return TranslateDBError(err, MenuItemKey, menuItemID)
		}

		tab, created, err := l.resolveOpenTab(tx, customerID)
		if err != nil {
			return err
		}
		if created {
			opened = tab
		}

		purchase = models.Purchase{
			TabID:    tab.ID,
			ItemID:   item.ID,
			Item:     item,
			Quantity: quantity,
			Time:     l.clock(),
		}
		purchase.UpdateAmount()

		if err := tx.Omit(clause.Associations).Create(&purchase).Error; err != nil {
			return err
		}
		return recordEvent(tx, tab.ID, &purchase.ID, models.EventPurchaseRecorded, map[string]interface{}{
			"item":     item.Name,
			"quantity": quantity,
			"amount":   purchase.Amount.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	if opened != nil {
		l.publish(models.EventTabOpened, opened)
	}
	l.publish(models.EventPurchaseRecorded, purchase)
	return &purchase, nil
}

// GetAmount sums the tab's purchase amounts as they are stored right now.
func (l *Ledger) GetAmount(ctx context.Context, tab *models.Tab) (decimal.Decimal, error) {
	return sumAmounts(l.DB.WithContext(ctx), tab.ID)
}

// GetPurchases returns the tab's purchases oldest first.
func (l *Ledger) GetPurchases(ctx context.Context, tab *models.Tab) ([]models.Purchase, error) {
	purchases := []models.Purchase{}
	if err := l.DB.WithContext(ctx).
		Preload("Item").
		Where("tab_id = ?", tab.ID).
		Order("time ASC").
		Order("id ASC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

func (l *Ledger) GetTab(ctx context.Context, tabID uint) (*models.Tab, error) {
	var tab models.Tab
	if err := l.DB.WithContext(ctx).Preload("Customer").First(&tab, tabID).Error; err != nil {
		return nil, TranslateDBError(err, TabKey, tabID)
	}
	return &tab, nil
}

func (l *Ledger) GetPurchase(ctx context.Context, purchaseID uint) (*models.Purchase, error) {
	var p models.Purchase
	if err := l.DB.WithContext(ctx).Preload("Item").First(&p, purchaseID).Error; err != nil {
		return nil, TranslateDBError(err, PurchaseKey, purchaseID)
	}
	return &p, nil
}

// EditPurchase changes quantity (and the item when itemID is non-zero), recomputes
// the amount and saves it.
func (l *Ledger) EditPurchase(ctx context.Context, purchaseID uint, quantity int, itemID uint) (*models.Purchase, error) {
	if quantity < 1 {
		return nil, NewValidationError("quantity", "Ensure this value is greater than or equal to 1.")
	}

	var purchase models.Purchase
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Item").First(&purchase, purchaseID).Error; err != nil {
			return TranslateDBError(err, PurchaseKey, purchaseID)
		}

		if itemID != 0 && itemID != purchase.ItemID {
			var item models.MenuItem
			if err := tx.First(&item, itemID).Error; err != nil {
				return TranslateDBError(err, MenuItemKey, itemID)
			}
			purchase.ItemID = item.ID
			purchase.Item = item
		}

		before := purchase.Amount
		purchase.Quantity = quantity
		purchase.UpdateAmount()

		if err := tx.Omit(clause.Associations).Save(&purchase).Error; err != nil {
			return err
		}
		return recordEvent(tx, purchase.TabID, &purchase.ID, models.EventPurchaseUpdated, map[string]interface{}{
			"item":            purchase.Item.Name,
			"quantity":        quantity,
			"previous_amount": before.StringFixed(2),
			"amount":          purchase.Amount.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	l.publish(models.EventPurchaseUpdated, purchase)
	return &purchase, nil
}

// CompPurchase zeroes a purchase and saves it. The audit event keeps the amount it had.
func (l *Ledger) CompPurchase(ctx context.Context, purchaseID uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Item").First(&purchase, purchaseID).Error; err != nil {
			return TranslateDBError(err, PurchaseKey, purchaseID)
		}

		before := purchase.Amount
		purchase.Comp()

		if err := tx.Omit(clause.Associations).Save(&purchase).Error; err != nil {
			return err
		}
		return recordEvent(tx, purchase.TabID, &purchase.ID, models.EventPurchaseComped, map[string]interface{}{
			"item":            purchase.Item.Name,
			"quantity":        purchase.Quantity,
			"previous_amount": before.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Purchase %d comped on tab %d", purchase.ID, purchase.TabID)
	l.publish(models.EventPurchaseComped, purchase)
	return &purchase, nil
}

// CloseTab moves an open tab to CLOSED now. Closed tabs stay closed.
func (l *Ledger) CloseTab(ctx context.Context, tabID uint) (*models.Tab, error) {
	return l.CloseTabAt(ctx, tabID, l.clock())
}

// CloseTabAt closes the tab at the given time, which may not precede its opening.
func (l *Ledger) CloseTabAt(ctx context.Context, tabID uint, at time.Time) (*models.Tab, error) {
	return l.UpdateTab(ctx, tabID, nil, &at)
}

// UpdateTab changes the due date and/or closes the tab in one transaction.
// Semua input dicek dulu; kalau ada yang invalid tidak ada yang tersimpan.
func (l *Ledger) UpdateTab(ctx context.Context, tabID uint, due, closed *time.Time) (*models.Tab, error) {
	var tab models.Tab
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Customer").First(&tab, tabID).Error; err != nil {
			return TranslateDBError(err, TabKey, tabID)
		}

		fields := map[string]string{}
		if due != nil && due.Before(tab.Opened) {
			fields["due"] = "Due date cannot be before the tab was opened."
		}
		if closed != nil {
			if !tab.IsOpen() {
				fields["closed"] = "Tab is already closed."
			} else if closed.Before(tab.Opened) {
				fields["closed"] = "A tab cannot close before it was opened."
			}
		}
		if len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
		if due == nil && closed == nil {
			return nil
		}

		if due != nil {
			tab.Due = *due
		}
		if closed != nil {
			at := *closed
			tab.Closed = &at
		}
		if err := tx.Omit(clause.Associations).Save(&tab).Error; err != nil {
			return err
		}
		if closed == nil {
			return nil
		}

		total, err := sumAmounts(tx, tab.ID)
		if err != nil {
			return err
		}
		return recordEvent(tx, tab.ID, nil, models.EventTabClosed, map[string]interface{}{
			"total": total.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	if closed != nil {
		l.publish(models.EventTabClosed, tab)
	}
	return &tab, nil
}

// DeleteCustomer removes the customer together with its tabs, their purchases and audit rows.
func (l *Ledger) DeleteCustomer(ctx context.Context, customerID uint) error {
	return l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			return TranslateDBError(err, CustomerKey, customerID)
		}

		var tabIDs []uint
		if err := tx.Model(&models.Tab{}).Where("customer_id = ?", customerID).Pluck("id", &tabIDs).Error; err != nil {
			return err
		}
		if len(tabIDs) > 0 {
			if err := tx.Where("tab_id IN ?", tabIDs).Delete(&models.Purchase{}).Error; err != nil {
				return err
			}
			if err := tx.Where("tab_id IN ?", tabIDs).Delete(&models.LedgerEvent{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", tabIDs).Delete(&models.Tab{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&customer).Error; err != nil {
			return err
		}
		utils.InfoLogger.Printf("Customer %d deleted with %d tab(s)", customerID, len(tabIDs))
		return nil
	})
}

// DeleteTab removes a tab with its purchases and audit rows.
func (l *Ledger) DeleteTab(ctx context.Context, tabID uint) error {
	return l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tab models.Tab
		if err := tx.First(&tab, tabID).Error; err != nil {
			return TranslateDBError(err, TabKey, tabID)
		}
		if err := tx.Where("tab_id = ?", tabID).Delete(&models.Purchase{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tab_id = ?", tabID).Delete(&models.LedgerEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tab).Error
	})
}

// DeletePurchase removes a purchase from its tab and keeps an audit row of what was removed.
func (l *Ledger) DeletePurchase(ctx context.Context, purchaseID uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Item").First(&purchase, purchaseID).Error; err != nil {
			return TranslateDBError(err, PurchaseKey, purchaseID)
		}
		if err := tx.Delete(&models.Purchase{}, purchase.ID).Error; err != nil {
			return err
		}
		return recordEvent(tx, purchase.TabID, &purchase.ID, models.EventPurchaseDeleted, map[string]interface{}{
			"item":     purchase.Item.Name,
			"quantity": purchase.Quantity,
			"amount":   purchase.Amount.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Purchase %d deleted from tab %d", purchase.ID, purchase.TabID)
	l.publish(models.EventPurchaseDeleted, purchase)
	return &purchase, nil
}

// Events returns the audit trail of a tab, oldest first.
func (l *Ledger) Events(ctx context.Context, tabID uint) ([]models.LedgerEvent, error) {
	events := []models.LedgerEvent{}
	if err := l.DB.WithContext(ctx).
		Where("tab_id = ?", tabID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func sumAmounts(tx *gorm.DB, tabID uint) (decimal.Decimal, error) {
	var purchases []models.Purchase
	if err := tx.Select("id", "amount").Where("tab_id = ?", tabID).Find(&purchases).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.Amount)
	}
	return total.Round(2), nil
}

func recordEvent(tx *gorm.DB, tabID uint, purchaseID *uint, action string, payload map[string]interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := models.LedgerEvent{
		TabID:      tabID,
		PurchaseID: purchaseID,
		Action:     action,
		Payload:    datatypes.JSON(raw),
	}
	return tx.Create(&event).Error
}
