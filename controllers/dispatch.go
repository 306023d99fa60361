package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/services"
	"gorm.io/gorm"
)

// Resource is the CRUD surface every entity kind exposes.
type Resource interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// CategoryResource is implemented by kinds that carry their own category taxonomy.
type CategoryResource interface {
	Resource
	ListCategories(c *gin.Context)
	CreateCategory(c *gin.Context)
	ListByCategory(c *gin.Context)
}

// NewResource returns the controller serving kind.
func NewResource(kind models.EntityKind, db *gorm.DB, ledger *services.Ledger) (Resource, error) {
	switch kind {
	case models.KindCustomers:
		return NewCustomerController(db, ledger), nil
	case models.KindMenu:
		return NewMenuController(db), nil
	case models.KindInventory:
		return NewInventoryController(db), nil
	case models.KindComponents:
		return NewComponentController(db), nil
	case models.KindTabs:
		return NewTabController(db, ledger), nil
	case models.KindPurchases:
		return NewPurchaseController(db, ledger), nil
	}
	return nil, fmt.Errorf("unknown entity kind %d", kind)
}
