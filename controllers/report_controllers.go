package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/utils"
	"gorm.io/gorm"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

func sumPurchases(db *gorm.DB) (decimal.Decimal, error) {
	var purchases []models.Purchase
	if err := db.Select("purchases.id", "purchases.amount").Find(&purchases).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.Amount)
	}
	return total, nil
}

// Summary -> ringkasan bar untuk admin
func (rc *ReportController) Summary(c *gin.Context) {
	db := rc.DB.WithContext(c.Request.Context())
	now := time.Now()

	var customers, openTabs, overdueTabs, comped int64
	if err := db.Model(&models.Customer{}).Count(&customers).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if err := db.Model(&models.Tab{}).Where("closed IS NULL").Count(&openTabs).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if err := db.Model(&models.Tab{}).Where("closed IS NULL AND due < ?", now).Count(&overdueTabs).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if err := db.Model(&models.Purchase{}).Where("comped = ?", true).Count(&comped).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	outstanding, err := sumPurchases(db.Model(&models.Purchase{}).
		Joins("JOIN tabs ON tabs.id = purchases.tab_id").
		Where("tabs.closed IS NULL"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	settled, err := sumPurchases(db.Model(&models.Purchase{}).
		Joins("JOIN tabs ON tabs.id = purchases.tab_id").
		Where("tabs.closed IS NOT NULL"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var stock []models.InventoryItem
	if err := db.Order("name ASC").Find(&stock).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	reorder := []inventoryItemView{}
	for _, item := range stock {
		if item.NeedsReorder() {
			reorder = append(reorder, newInventoryItemView(item))
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Bar summary", gin.H{
		"customers":        customers,
		"open_tabs":        openTabs,
		"overdue_tabs":     overdueTabs,
		"comped_purchases": comped,
		"outstanding":      utils.FormatMoney(outstanding),
		"closed_total":     utils.FormatMoney(settled),
		"needs_reorder":    reorder,
	})
}
