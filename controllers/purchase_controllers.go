package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/services"
	"github.com/yeremiapane/cantina/utils"
	"gorm.io/gorm"
)

type PurchaseController struct {
	DB     *gorm.DB
	Ledger *services.Ledger
}

func NewPurchaseController(db *gorm.DB, ledger *services.Ledger) *PurchaseController {
	return &PurchaseController{DB: db, Ledger: ledger}
}

// List -> semua purchase, yang terbaru dulu
func (pc *PurchaseController) List(c *gin.Context) {
	var purchases []models.Purchase
	if err := pc.DB.Preload("Item").Order("time DESC").Order("id DESC").Find(&purchases).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of purchases", newPurchaseViews(purchases))
}

// Create -> purchase selalu masuk ke tab open milik customer
func (pc *PurchaseController) Create(c *gin.Context) {
	var req struct {
		CustomerID uint `json:"customer_id" binding:"required"`
		ItemID     uint `json:"item_id" binding:"required"`
		Quantity   *int `json:"quantity" binding:"required,min=1"`
	}
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := pc.Ledger.RecordPurchase(c.Request.Context(), req.CustomerID, req.ItemID, *req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Purchase recorded", newPurchaseView(*purchase))
}

func (pc *PurchaseController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	purchase, err := pc.Ledger.GetPurchase(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Purchase detail", newPurchaseView(*purchase))
}

// Update -> ganti quantity (dan item kalau dikirim); amount dihitung ulang
func (pc *PurchaseController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Quantity *int `json:"quantity" binding:"required,min=1"`
		ItemID   uint `json:"item_id"`
	}
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := pc.Ledger.EditPurchase(c.Request.Context(), id, *req.Quantity, req.ItemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Purchase updated", newPurchaseView(*purchase))
}

func (pc *PurchaseController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	purchase, err := pc.Ledger.DeletePurchase(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Purchase deleted", gin.H{
		"purchase_id": purchase.ID,
		"tab_id":      purchase.TabID,
	})
}

// Comp -> gratiskan purchase, quantity tetap
func (pc *PurchaseController) Comp(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	purchase, err := pc.Ledger.CompPurchase(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Purchase comped", newPurchaseView(*purchase))
}
