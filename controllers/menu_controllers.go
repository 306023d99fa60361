package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/services"
	"github.com/yeremiapane/cantina/utils"
	"gorm.io/gorm"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

func menuItemViews(items []models.MenuItem) []menuItemView {
	views := make([]menuItemView, 0, len(items))
	for _, m := range items {
		views = append(views, newMenuItemView(m))
	}
	return views
}

// List -> menu urut kategori lalu nama item
func (mc *MenuController) List(c *gin.Context) {
	var items []models.MenuItem
	if err := mc.DB.Joins("Category").
		Order("Category.name ASC").
		Order("menu_items.name ASC").
		Find(&items).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", menuItemViews(items))
}

func (mc *MenuController) Create(c *gin.Context) {
	var req struct {
		Name       string     `json:"name" binding:"required,max=100"`
		CategoryID uint       `json:"category_id" binding:"required"`
		Price      moneyInput `json:"price" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	price, err := parseMoney("price", req.Price)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var category models.MenuItemCategory
	if err := mc.DB.First(&category, req.CategoryID).Error; err != nil {
		respondServiceError(c, invalidChoice("category_id", err))
		return
	}

	item := models.MenuItem{
		Name:       strings.TrimSpace(req.Name),
		CategoryID: category.ID,
		Category:   category,
		Price:      price,
	}
	if err := mc.DB.Omit("Category").Create(&item).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.MenuItemKey, 0))
		return
	}

	utils.InfoLogger.Printf("Menu item created: %s (%s credits)", item.Name, utils.FormatMoney(item.Price))
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", newMenuItemView(item))
}

// Get -> detail item beserta komponen bahannya
func (mc *MenuController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var item models.MenuItem
	if err := mc.DB.Joins("Category").First(&item, id).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.MenuItemKey, id))
		return
	}

	var components []models.Component
	if err := mc.DB.Preload("Ingredient").Where("item_id = ?", id).Order("id ASC").Find(&components).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	componentViews := make([]componentView, 0, len(components))
	for _, comp := range components {
		componentViews = append(componentViews, newComponentView(comp))
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item detail", gin.H{
		"item":       newMenuItemView(item),
		"components": componentViews,
	})
}

// Update -> harga baru tidak mengubah amount purchase yang sudah tercatat
func (mc *MenuController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name       *string     `json:"name" binding:"omitempty,max=100"`
		CategoryID *uint       `json:"category_id"`
		Price      *moneyInput `json:"price"`
	}
	if !bindJSON(c, &req) {
		return
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.MenuItemKey, id))
		return
	}

	if req.Name != nil {
		if item.Name = strings.TrimSpace(*req.Name); item.Name == "" {
			respondServiceError(c, services.NewValidationError("name", "This field is required."))
			return
		}
	}
	if req.Price != nil {
		price, err := parseMoney("price", *req.Price)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		item.Price = price
	}
	if req.CategoryID != nil {
		var category models.MenuItemCategory
		if err := mc.DB.First(&category, *req.CategoryID).Error; err != nil {
			respondServiceError(c, invalidChoice("category_id", err))
			return
		}
		item.CategoryID = category.ID
	}

	if err := mc.DB.Omit("Category").Save(&item).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.MenuItemKey, id))
		return
	}
	if err := mc.DB.First(&item.Category, item.CategoryID).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", newMenuItemView(item))
}

// Delete -> item yang sudah pernah dibeli tidak bisa dihapus; komponennya ikut terhapus
func (mc *MenuController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := mc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.First(&item, id).Error; err != nil {
			return services.TranslateDBError(err, services.MenuItemKey, id)
		}

		var sold int64
		if err := tx.Model(&models.Purchase{}).Where("item_id = ?", id).Count(&sold).Error; err != nil {
			return err
		}
		if sold > 0 {
			return services.NewValidationError("item", fmt.Sprintf("%s has %d purchase(s) and cannot be deleted.", item.Name, sold))
		}

		if err := tx.Where("item_id = ?", id).Delete(&models.Component{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"item_id": id})
}

func (mc *MenuController) ListCategories(c *gin.Context) {
	var categories []models.MenuItemCategory
	if err := mc.DB.Order("name ASC").Find(&categories).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu categories", categories)
}

func (mc *MenuController) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,max=100"`
	}
	if !bindJSON(c, &req) {
		return
	}

	category := models.MenuItemCategory{Name: strings.TrimSpace(req.Name)}
	if err := mc.DB.Create(&category).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.MenuItemCategoryKey, 0))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu category created", category)
}

// ListByCategory -> item dalam satu kategori, urut nama
func (mc *MenuController) ListByCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var category models.MenuItemCategory
	if err := mc.DB.First(&category, id).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.MenuItemCategoryKey, id))
		return
	}

	var items []models.MenuItem
	if err := mc.DB.Where("category_id = ?", id).Order("name ASC").Find(&items).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	for i := range items {
		items[i].Category = category
	}

	utils.RespondJSON(c, http.StatusOK, "Menu items in "+category.Name, gin.H{
		"category": category,
		"items":    menuItemViews(items),
	})
}

// AddComponent -> tambah bahan inventory ke menu item
func (mc *MenuController) AddComponent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		IngredientID uint       `json:"ingredient_id" binding:"required"`
		Amount       moneyInput `json:"amount" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.MenuItemKey, id))
		return
	}

	component, err := createComponent(mc.DB, item.ID, req.IngredientID, req.Amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Component added", newComponentView(*component))
}
