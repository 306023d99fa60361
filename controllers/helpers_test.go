package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/cantina/controllers"
	"github.com/yeremiapane/cantina/database"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/services"
	"gorm.io/gorm"
)

type testBar struct {
	db       *gorm.DB
	ledger   *services.Ledger
	router   *gin.Engine
	drinks   models.MenuItemCategory
	duff     models.MenuItem
	ale      models.MenuItem
	customer models.Customer
}

// setupTestBar membuat database in-memory berisi satu customer dan dua menu item,
// lalu memasang controller tanpa auth.
func setupTestBar(t *testing.T) *testBar {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	b := &testBar{db: db, ledger: services.NewLedger(db)}

	b.drinks = models.MenuItemCategory{Name: "Drinks"}
	require.NoError(t, db.Create(&b.drinks).Error)
	b.duff = models.MenuItem{Name: "Duff Beer", CategoryID: b.drinks.ID, Price: decimal.NewFromInt(5)}
	require.NoError(t, db.Create(&b.duff).Error)
	b.ale = models.MenuItem{Name: "Romulan Ale", CategoryID: b.drinks.ID, Price: decimal.NewFromInt(10)}
	require.NoError(t, db.Create(&b.ale).Error)
	b.customer = models.Customer{LastName: "Thanos", Planet: "Titan"}
	require.NoError(t, db.Create(&b.customer).Error)

	r := gin.New()
	for _, kind := range models.EntityKinds {
		res, err := controllers.NewResource(kind, db, b.ledger)
		require.NoError(t, err)

		g := r.Group("/" + kind.Slug())
		g.GET("", res.List)
		g.POST("", res.Create)
		g.GET("/:id", res.Get)
		g.PATCH("/:id", res.Update)
		g.DELETE("/:id", res.Delete)
		if cr, ok := res.(controllers.CategoryResource); ok {
			g.GET("/categories", cr.ListCategories)
			g.POST("/categories", cr.CreateCategory)
			g.GET("/categories/:id", cr.ListByCategory)
		}
	}

	customers := controllers.NewCustomerController(db, b.ledger)
	r.GET("/customers/:id/tabs", customers.ListTabs)
	r.GET("/customers/:id/tab", customers.GetOpenTab)
	r.POST("/customers/:id/purchases", customers.RecordPurchase)

	tabs := controllers.NewTabController(db, b.ledger)
	r.GET("/tabs/:id/purchases", tabs.Purchases)
	r.POST("/tabs/:id/close", tabs.Close)
	r.GET("/tabs/:id/events", tabs.Events)
	r.GET("/tabs/:id/statement", tabs.Statement)

	r.POST("/purchases/:id/comp", controllers.NewPurchaseController(db, b.ledger).Comp)
	r.POST("/menu/:id/components", controllers.NewMenuController(db).AddComponent)
	r.GET("/reports/summary", controllers.NewReportController(db).Summary)

	b.router = r
	return b
}

// do mengirim request JSON dan mengembalikan recorder beserta body yang sudah di-decode.
func (b *testBar) do(t *testing.T, method, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	return b.doAuth(t, method, path, "", payload)
}

// doAuth sama seperti do, tapi mengirim bearer token bila ada.
func (b *testBar) doAuth(t *testing.T, method, path, token string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var body *bytes.Buffer
	switch p := payload.(type) {
	case nil:
		body = &bytes.Buffer{}
	case string:
		body = bytes.NewBufferString(p)
	default:
		raw, err := json.Marshal(p)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)

	resp := map[string]interface{}{}
	if w.Header().Get("Content-Type") != "application/pdf" && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func dataMap(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "data is not an object: %v", resp["data"])
	return data
}

func dataList(t *testing.T, resp map[string]interface{}) []interface{} {
	t.Helper()
	data, ok := resp["data"].([]interface{})
	require.True(t, ok, "data is not a list: %v", resp["data"])
	return data
}

func idOf(t *testing.T, obj map[string]interface{}) uint {
	t.Helper()
	id, ok := obj["id"].(float64)
	require.True(t, ok)
	return uint(id)
}
