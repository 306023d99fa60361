package controllers

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/utils"
)

// View structs embed the model and shadow money fields so they always render
// with two decimals ("5.00", not "5").

type customerView struct {
	models.Customer
	Name string `json:"name"`
}

func newCustomerView(c models.Customer) customerView {
	return customerView{Customer: c, Name: c.Name()}
}

type menuItemView struct {
	models.MenuItem
	Price string `json:"price"`
}

func newMenuItemView(m models.MenuItem) menuItemView {
	return menuItemView{MenuItem: m, Price: utils.FormatMoney(m.Price)}
}

type inventoryItemView struct {
	models.InventoryItem
	Stock   string `json:"stock"`
	Cost    string `json:"cost"`
	Reorder bool   `json:"needs_reorder"`
}

func newInventoryItemView(i models.InventoryItem) inventoryItemView {
	return inventoryItemView{
		InventoryItem: i,
		Stock:         utils.FormatMoney(i.Stock),
		Cost:          utils.FormatMoney(i.Cost),
		Reorder:       i.NeedsReorder(),
	}
}

type componentView struct {
	models.Component
	Amount     string             `json:"amount"`
	Item       *menuItemView      `json:"item,omitempty"`
	Ingredient *inventoryItemView `json:"ingredient,omitempty"`
}

func newComponentView(c models.Component) componentView {
	v := componentView{Component: c, Amount: utils.FormatMoney(c.Amount)}
	if c.Item != nil {
		item := newMenuItemView(*c.Item)
		v.Item = &item
	}
	if c.Ingredient != nil {
		ing := newInventoryItemView(*c.Ingredient)
		v.Ingredient = &ing
	}
	return v
}

type purchaseView struct {
	models.Purchase
	Amount string       `json:"amount"`
	Item   menuItemView `json:"item"`
}

func newPurchaseView(p models.Purchase) purchaseView {
	return purchaseView{
		Purchase: p,
		Amount:   utils.FormatMoney(p.Amount),
		Item:     newMenuItemView(p.Item),
	}
}

func newPurchaseViews(purchases []models.Purchase) []purchaseView {
	views := make([]purchaseView, 0, len(purchases))
	for _, p := range purchases {
		views = append(views, newPurchaseView(p))
	}
	return views
}

type tabView struct {
	models.Tab
	Customer *customerView `json:"customer,omitempty"`
	Status   string        `json:"status"`
	Overdue  bool          `json:"overdue"`
	Total    string        `json:"total"`
	Display  string        `json:"display"`
}

func newTabView(t models.Tab, total decimal.Decimal, now time.Time) tabView {
	v := tabView{
		Tab:     t,
		Status:  "closed",
		Overdue: t.IsOverdue(now),
		Total:   utils.FormatMoney(total),
		Display: utils.FormatTotal(total),
	}
	if t.IsOpen() {
		v.Status = "open"
	}
	if t.Customer != nil {
		cv := newCustomerView(*t.Customer)
		v.Customer = &cv
	}
	return v
}
