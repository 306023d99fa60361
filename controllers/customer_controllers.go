package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/services"
	"github.com/yeremiapane/cantina/utils"
	"gorm.io/gorm"
)

type CustomerController struct {
	DB     *gorm.DB
	Ledger *services.Ledger
}

func NewCustomerController(db *gorm.DB, ledger *services.Ledger) *CustomerController {
	return &CustomerController{DB: db, Ledger: ledger}
}

// List -> semua customer, urut nama belakang lalu nama depan
func (cc *CustomerController) List(c *gin.Context) {
	var customers []models.Customer
	if err := cc.DB.Order("last_name ASC").Order("first_name ASC").Find(&customers).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]customerView, 0, len(customers))
	for _, cu := range customers {
		views = append(views, newCustomerView(cu))
	}
	utils.RespondJSON(c, http.StatusOK, "List of customers", views)
}

// Create -> customer baru. Kombinasi last name, first name dan UBA harus unik.
func (cc *CustomerController) Create(c *gin.Context) {
	var req struct {
		LastName  string `json:"last_name" binding:"required,max=100"`
		FirstName string `json:"first_name" binding:"max=100"`
		Planet    string `json:"planet" binding:"required,max=100"`
		UBA       string `json:"uba" binding:"max=24"`
	}
	if !bindJSON(c, &req) {
		return
	}

	customer := models.Customer{
		LastName:  strings.TrimSpace(req.LastName),
		FirstName: strings.TrimSpace(req.FirstName),
		Planet:    strings.TrimSpace(req.Planet),
		UBA:       strings.TrimSpace(req.UBA),
	}
	if err := cc.DB.Create(&customer).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.CustomerKey, 0))
		return
	}

	utils.InfoLogger.Printf("New customer created (ID=%d) %s", customer.ID, customer.Name())
	utils.RespondJSON(c, http.StatusCreated, "Customer created", newCustomerView(customer))
}

func (cc *CustomerController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := cc.DB.First(&customer, id).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.CustomerKey, id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer detail", newCustomerView(customer))
}

// Update -> hanya field yang dikirim yang diubah
func (cc *CustomerController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		LastName  *string `json:"last_name" binding:"omitempty,max=100"`
		FirstName *string `json:"first_name" binding:"omitempty,max=100"`
		Planet    *string `json:"planet" binding:"omitempty,max=100"`
		UBA       *string `json:"uba" binding:"omitempty,max=24"`
	}
	if !bindJSON(c, &req) {
		return
	}

	var customer models.Customer
	if err := cc.DB.First(&customer, id).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.CustomerKey, id))
		return
	}

	fields := map[string]string{}
	if req.LastName != nil {
		if customer.LastName = strings.TrimSpace(*req.LastName); customer.LastName == "" {
			fields["last_name"] = "This field is required."
		}
	}
	if req.Planet != nil {
		if customer.Planet = strings.TrimSpace(*req.Planet); customer.Planet == "" {
			fields["planet"] = "This field is required."
		}
	}
	if len(fields) > 0 {
		respondServiceError(c, &services.ValidationError{Fields: fields})
		return
	}
	if req.FirstName != nil {
		customer.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.UBA != nil {
		customer.UBA = strings.TrimSpace(*req.UBA)
	}

	if err := cc.DB.Save(&customer).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.CustomerKey, id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer updated", newCustomerView(customer))
}

// Delete -> customer beserta semua tab dan purchase-nya
func (cc *CustomerController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := cc.Ledger.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer deleted", gin.H{"customer_id": id})
}

// ListTabs -> riwayat tab customer, tab open di atas
func (cc *CustomerController) ListTabs(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := cc.DB.First(&customer, id).Error; err != nil {
		respondServiceError(c, services.TranslateDBError(err, services.CustomerKey, id))
		return
	}

	var tabs []models.Tab
	if err := tabDisplayOrder(cc.DB.Preload("Customer")).
		Where("tabs.customer_id = ?", id).
		Find(&tabs).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	views, err := tabViews(c, cc.Ledger, tabs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tabs of "+customer.Name(), views)
}

// GetOpenTab -> tab yang sedang open, dibuat kalau belum ada
func (cc *CustomerController) GetOpenTab(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	tab, err := cc.Ledger.ResolveOpenTab(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	total, err := cc.Ledger.GetAmount(ctx, tab)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Open tab", newTabView(*tab, total, time.Now()))
}

// RecordPurchase -> catat pembelian ke tab open customer
func (cc *CustomerController) RecordPurchase(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		ItemID   uint `json:"item_id" binding:"required"`
		Quantity *int `json:"quantity" binding:"required,min=1"`
	}
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := cc.Ledger.RecordPurchase(c.Request.Context(), id, req.ItemID, *req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Purchase %d recorded on tab %d (customer %d)", purchase.ID, purchase.TabID, id)
	utils.RespondJSON(c, http.StatusCreated, "Purchase recorded", newPurchaseView(*purchase))
}
