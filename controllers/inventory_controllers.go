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

// InventoryController mengelola stok bahan. Stok hanya berubah lewat endpoint ini,
// tidak pernah oleh purchase.
type InventoryController struct {
	DB *gorm.DB
}

func NewInventoryController(db *gorm.DB) *InventoryController {
	return &InventoryController{DB: db}
}

func inventoryItemViews(items []models.InventoryItem) []inventoryItemView {
	views := make([]inventoryItemView, 0, len(items))
	for _, i := range items {
		views = append(views, newInventoryItemView(i))
	}
	return views
}

func (ic *InventoryController) List(c *gin.Context) {
	var items []models.InventoryItem
	if err := ic.DB.Joins("Category").
		Order("Category.name ASC").
		Order("inventory_items.name ASC").
		Find(&items).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of inventory items", inventoryItemViews(items))
}

type inventoryRequest struct {
	Name          *string     `json:"name" binding:"omitempty,max=100"`
	CategoryID    *uint       `json:"category_id"`
	Stock         *moneyInput `json:"stock"`
	Cost          *moneyInput `json:"cost"`
	ReorderPoint  *int        `json:"reorder_point" binding:"omitempty,min=0"`
	ReorderAmount *int        `json:"reorder_amount" binding:"omitempty,min=0"`
}

// apply menyalin field yang dikirim ke item; required dicek hanya saat create.
func (req *inventoryRequest) apply(db *gorm.DB, item *models.InventoryItem, creating bool) error {
	fields := map[string]string{}
	if creating {
		if req.Name == nil {
			fields["name"] = "This field is required."
		}
		if req.CategoryID == nil {
			fields["category_id"] = "This field is required."
		}
		if req.Stock == nil {
			fields["stock"] = "This field is required."
		}
		if req.Cost == nil {
			fields["cost"] = "This field is required."
		}
	}

	if req.Name != nil {
		if item.Name = strings.TrimSpace(*req.Name); item.Name == "" {
			fields["name"] = "This field is required."
		}
	}
	if req.Stock != nil {
		if d, err := utils.ParseMoney(string(*req.Stock)); err != nil {
			fields["stock"] = err.Error()
		} else {
			item.Stock = d
		}
	}
	if req.Cost != nil {
		if d, err := utils.ParseMoney(string(*req.Cost)); err != nil {
			fields["cost"] = err.Error()
		} else {
			item.Cost = d
		}
	}
	if len(fields) > 0 {
		return &services.ValidationError{Fields: fields}
	}

	if req.ReorderPoint != nil {
		item.ReorderPoint = *req.ReorderPoint
	}
	if req.ReorderAmount != nil {
		item.ReorderAmount = *req.ReorderAmount
	}
	if req.CategoryID != nil {
		var category models.InventoryItemCategory
		if err := db.First(&category, *req.CategoryID).Error; err != nil {
			return invalidChoice("category_id", err)
		}
		item.CategoryID = category.ID
		item.Category = category
	}
	return nil
}

func (ic *InventoryController) Create(c *gin.Context) {
	var req inventoryRequest
	if !bindJSON(c, &req) {
		return
	}

	var item models.InventoryItem
	if err := req.apply(ic.DB, &item, true); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := ic.DB.Omit("Category").Create(&item).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.InventoryItemKey, 0))
		return
	}

	utils.InfoLogger.Printf("Inventory item created: %s (stock %s)", item.Name, utils.FormatMoney(item.Stock))
	utils.RespondJSON(c, http.StatusCreated, "Inventory item created", newInventoryItemView(item))
}

func (ic *InventoryController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var item models.InventoryItem
	if err := ic.DB.Joins("Category").First(&item, id).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.InventoryItemKey, id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item detail", newInventoryItemView(item))
}

func (ic *InventoryController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req inventoryRequest
	if !bindJSON(c, &req) {
		return
	}

	var item models.InventoryItem
	if err := ic.DB.Joins("Category").First(&item, id).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.InventoryItemKey, id))
		return
	}
	if err := req.apply(ic.DB, &item, false); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := ic.DB.Omit("Category").Save(&item).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.InventoryItemKey, id))
		return
	}

	if item.NeedsReorder() {
		utils.InfoLogger.Printf("Inventory item %s at reorder point, reorder %d", item.Name, item.ReorderAmount)
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item updated", newInventoryItemView(item))
}

// Delete -> bahan yang masih dipakai menu item tidak bisa dihapus
func (ic *InventoryController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := ic.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.First(&item, id).Error; err != nil {
			return services.TranslateDBError(err, services.InventoryItemKey, id)
		}

		var used int64
		if err := tx.Model(&models.Component{}).Where("ingredient_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return services.NewValidationError("item", fmt.Sprintf("%s is a component of %d menu item(s) and cannot be deleted.", item.Name, used))
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item deleted", gin.H{"item_id": id})
}

func (ic *InventoryController) ListCategories(c *gin.Context) {
	var categories []models.InventoryItemCategory
	if err := ic.DB.Order("name ASC").Find(&categories).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of inventory categories", categories)
}

func (ic *InventoryController) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,max=100"`
	}
	if !bindJSON(c, &req) {
		return
	}

	category := models.InventoryItemCategory{Name: strings.TrimSpace(req.Name)}
	if err := ic.DB.Create(&category).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.InventoryItemCategoryKey, 0))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Inventory category created", category)
}

func (ic *InventoryController) ListByCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var category models.InventoryItemCategory
	if err := ic.DB.First(&category, id).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.InventoryItemCategoryKey, id))
		return
	}

	var items []models.InventoryItem
	if err := ic.DB.Where("category_id = ?", id).Order("name ASC").Find(&items).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	for i := range items {
		items[i].Category = category
	}

	utils.RespondJSON(c, http.StatusOK, "Inventory items in "+category.Name, gin.H{
		"category": category,
		"items":    inventoryItemViews(items),
	})
}
