package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/services"
	"github.com/yeremiapane/cantina/utils"
	"gorm.io/gorm"
)

type ComponentController struct {
	DB *gorm.DB
}

func NewComponentController(db *gorm.DB) *ComponentController {
	return &ComponentController{DB: db}
}

// createComponent memastikan item dan bahan ada sebelum membuat pasangan baru.
func createComponent(db *gorm.DB, itemID, ingredientID uint, rawAmount moneyInput) (*models.Component, error) {
	amount, err := parseMoney("amount", rawAmount)
	if err != nil {
		return nil, err
	}

	var item models.MenuItem
	if err := db.First(&item, itemID).Error; err != nil {
		return nil, invalidChoice("item_id", err)
	}
	var ingredient models.InventoryItem
	if err := db.First(&ingredient, ingredientID).Error; err != nil {
		return nil, invalidChoice("ingredient_id", err)
	}

	component := models.Component{
		ItemID:       item.ID,
		IngredientID: ingredient.ID,
		Amount:       amount,
	}
	if err := db.Omit("Item", "Ingredient").Create(&component).Error; err != nil {
		return nil, services.TranslateDBError(err, services.ComponentKey, 0)
	}
	component.Item = &item
	component.Ingredient = &ingredient

	utils.InfoLogger.Printf("Component added: %s needs %s of %s", item.Name, utils.FormatMoney(amount), ingredient.Name)
	return &component, nil
}

func (cc *ComponentController) List(c *gin.Context) {
	var components []models.Component
	if err := cc.DB.Preload("Item").Preload("Ingredient").Order("item_id ASC").Order("id ASC").Find(&components).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]componentView, 0, len(components))
	for _, comp := range components {
		views = append(views, newComponentView(comp))
	}
	utils.RespondJSON(c, http.StatusOK, "List of components", views)
}

func (cc *ComponentController) Create(c *gin.Context) {
	var req struct {
		ItemID       uint       `json:"item_id" binding:"required"`
		IngredientID uint       `json:"ingredient_id" binding:"required"`
		Amount       moneyInput `json:"amount" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	component, err := createComponent(cc.DB, req.ItemID, req.IngredientID, req.Amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Component created", newComponentView(*component))
}

func (cc *ComponentController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var component models.Component
	if err := cc.DB.Preload("Item").Preload("Ingredient").First(&component, id).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.ComponentKey, id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Component detail", newComponentView(component))
}

// Update -> item tidak bisa diganti, hanya bahan dan jumlahnya
func (cc *ComponentController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		IngredientID *uint       `json:"ingredient_id"`
		Amount       *moneyInput `json:"amount"`
	}
	if !bindJSON(c, &req) {
		return
	}

	var component models.Component
	if err := cc.DB.First(&component, id).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.ComponentKey, id))
		return
	}

	if req.Amount != nil {
		amount, err := parseMoney("amount", *req.Amount)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		component.Amount = amount
	}
	if req.IngredientID != nil {
		var ingredient models.InventoryItem
		if err := cc.DB.First(&ingredient, *req.IngredientID).Error; err != nil {
			respondServiceError(c, invalidChoice("ingredient_id", err))
			return
		}
		component.IngredientID = ingredient.ID
	}

	if err := cc.DB.Omit("Item", "Ingredient").Save(&component).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.ComponentKey, id))
		return
	}
	if err := cc.DB.Preload("Item").Preload("Ingredient").First(&component, id).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Component updated", newComponentView(component))
}

func (cc *ComponentController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res := cc.DB.WithContext(c.Request.Context()).Delete(&models.Component{}, id)
	if res.Error != nil {
		respondServiceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondServiceError(c, &services.NotFoundError{Entity: "Component", ID: id})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Component deleted", gin.H{"component_id": id})
}
