package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/services"
	"github.com/yeremiapane/cantina/utils"
	"gorm.io/gorm"
)

type TabController struct {
	DB     *gorm.DB
	Ledger *services.Ledger
}

func NewTabController(db *gorm.DB, ledger *services.Ledger) *TabController {
	return &TabController{DB: db, Ledger: ledger}
}

// tabDisplayOrder: tab open dulu, lalu yang closed paling baru, lalu nama belakang customer.
// NULL ordering beda antara MySQL dan SQLite, jadi status open diurutkan eksplisit.
func tabDisplayOrder(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN customers ON customers.id = tabs.customer_id").
		Order("CASE WHEN tabs.closed IS NULL THEN 0 ELSE 1 END").
		Order("tabs.closed DESC").
		Order("customers.last_name ASC")
}

func tabViews(c *gin.Context, ledger *services.Ledger, tabs []models.Tab) ([]tabView, error) {
	now := time.Now()
	views := make([]tabView, 0, len(tabs))
	for i := range tabs {
		total, err := ledger.GetAmount(c.Request.Context(), &tabs[i])
		if err != nil {
			return nil, err
		}
		views = append(views, newTabView(tabs[i], total, now))
	}
	return views, nil
}

func (tc *TabController) List(c *gin.Context) {
	var tabs []models.Tab
	if err := tabDisplayOrder(tc.DB.Preload("Customer")).Find(&tabs).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	views, err := tabViews(c, tc.Ledger, tabs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tabs", views)
}

// Create -> satu customer hanya boleh punya satu tab open, jadi ini mengembalikan
// tab open yang sudah ada atau membuka yang baru.
func (tc *TabController) Create(c *gin.Context) {
	var req struct {
		CustomerID uint `json:"customer_id" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	tab, err := tc.Ledger.ResolveOpenTab(ctx, req.CustomerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	total, err := tc.Ledger.GetAmount(ctx, tab)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Open tab", newTabView(*tab, total, time.Now()))
}

func (tc *TabController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	tab, err := tc.Ledger.GetTab(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	total, err := tc.Ledger.GetAmount(ctx, tab)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tab detail", newTabView(*tab, total, time.Now()))
}

// Update -> ubah due date dan/atau tutup tab. Tab yang sudah closed tidak bisa dibuka lagi.
func (tc *TabController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Due    *time.Time `json:"due"`
		Closed *time.Time `json:"closed"`
	}
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	tab, err := tc.Ledger.UpdateTab(ctx, id, req.Due, req.Closed)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	total, err := tc.Ledger.GetAmount(ctx, tab)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tab updated", newTabView(*tab, total, time.Now()))
}

func (tc *TabController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := tc.Ledger.DeleteTab(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Tab %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Tab deleted", gin.H{"tab_id": id})
}

// Purchases -> isi tab, yang paling lama dulu, dengan total
func (tc *TabController) Purchases(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	tab, err := tc.Ledger.GetTab(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	purchases, err := tc.Ledger.GetPurchases(ctx, tab)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	total, err := tc.Ledger.GetAmount(ctx, tab)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Tab purchases", gin.H{
		"tab":       newTabView(*tab, total, time.Now()),
		"purchases": newPurchaseViews(purchases),
		"total":     utils.FormatMoney(total),
		"display":   utils.FormatTotal(total),
	})
}

func (tc *TabController) Close(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	tab, err := tc.Ledger.CloseTab(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	total, err := tc.Ledger.GetAmount(ctx, tab)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Tab %d closed, %s", tab.ID, utils.FormatTotal(total))
	utils.RespondJSON(c, http.StatusOK, "Tab closed", newTabView(*tab, total, time.Now()))
}

// Events -> audit trail tab
func (tc *TabController) Events(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := tc.Ledger.GetTab(ctx, id); err != nil {
		respondServiceError(c, err)
		return
	}
	events, err := tc.Ledger.Events(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tab events", events)
}

// Statement -> PDF tagihan tab
func (tc *TabController) Statement(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	st, err := tc.Ledger.BuildStatement(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.RenderStatementPDF(&buf, st); err != nil {
		utils.ErrorLogger.Printf("Error rendering statement for tab %d: %v", id, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Statement %s generated", st.Reference)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="tab-%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
