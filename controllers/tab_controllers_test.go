package controllers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/cantina/models"
)

func TestTabPurchasesTotalAndComp(t *testing.T) {
	b := setupTestBar(t)

	var purchaseIDs []uint
	for i := 0; i < 5; i++ {
		p, err := b.ledger.RecordPurchase(context.Background(), b.customer.ID, b.ale.ID, 1)
		require.NoError(t, err)
		purchaseIDs = append(purchaseIDs, p.ID)
	}
	tab, err := b.ledger.ResolveOpenTab(context.Background(), b.customer.ID)
	require.NoError(t, err)

	w, resp := b.do(t, http.MethodGet, fmt.Sprintf("/tabs/%d/purchases", tab.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, resp)
	assert.Equal(t, "50.00", data["total"])
	assert.Equal(t, "Total: 50.00 credits", data["display"])
	assert.Len(t, data["purchases"], 5)

	w, resp = b.do(t, http.MethodPost, fmt.Sprintf("/purchases/%d/comp", purchaseIDs[0]), nil)
	require.Equal(t, http.StatusOK, w.Code)
	comped := dataMap(t, resp)
	assert.Equal(t, "0.00", comped["amount"])
	assert.Equal(t, true, comped["comped"])
	assert.Equal(t, float64(1), comped["quantity"])

	_, resp = b.do(t, http.MethodGet, fmt.Sprintf("/tabs/%d/purchases", tab.ID), nil)
	assert.Equal(t, "40.00", dataMap(t, resp)["total"])

	w, resp = b.do(t, http.MethodGet, fmt.Sprintf("/tabs/%d/events", tab.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := dataList(t, resp)
	last := events[len(events)-1].(map[string]interface{})
	assert.Equal(t, models.EventPurchaseComped, last["action"])
	assert.Equal(t, "10.00", last["payload"].(map[string]interface{})["previous_amount"])
}

func TestEditPurchaseEndpoint(t *testing.T) {
	b := setupTestBar(t)

	p, err := b.ledger.RecordPurchase(context.Background(), b.customer.ID, b.duff.ID, 2)
	require.NoError(t, err)

	w, resp := b.do(t, http.MethodPatch, fmt.Sprintf("/purchases/%d", p.ID), map[string]interface{}{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "20.00", dataMap(t, resp)["amount"])

	w, _ = b.do(t, http.MethodPatch, fmt.Sprintf("/purchases/%d", p.ID), map[string]interface{}{"quantity": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = b.do(t, http.MethodPatch, "/purchases/999", map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCloseTabEndpoint(t *testing.T) {
	b := setupTestBar(t)

	p, err := b.ledger.RecordPurchase(context.Background(), b.customer.ID, b.duff.ID, 1)
	require.NoError(t, err)

	w, resp := b.do(t, http.MethodPost, fmt.Sprintf("/tabs/%d/close", p.TabID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "closed", dataMap(t, resp)["status"])
	assert.NotNil(t, dataMap(t, resp)["closed"])

	w, resp = b.do(t, http.MethodPost, fmt.Sprintf("/tabs/%d/close", p.TabID), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := dataMap(t, resp)["errors"].(map[string]interface{})
	assert.Equal(t, "Tab is already closed.", errs["closed"])

	// purchase berikutnya membuka tab baru
	w, resp = b.do(t, http.MethodPost, fmt.Sprintf("/customers/%d/purchases", b.customer.ID), map[string]interface{}{
		"item_id":  b.duff.ID,
		"quantity": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEqual(t, float64(p.TabID), dataMap(t, resp)["tab_id"])
}

func TestTabListOpenFirst(t *testing.T) {
	b := setupTestBar(t)
	ctx := context.Background()

	apoc := models.Customer{LastName: "Apocalypse", Planet: "Earth"}
	require.NoError(t, b.db.Create(&apoc).Error)

	// Thanos: satu tab closed lalu satu open; Apocalypse: satu open
	first, err := b.ledger.RecordPurchase(ctx, b.customer.ID, b.duff.ID, 1)
	require.NoError(t, err)
	_, err = b.ledger.CloseTab(ctx, first.TabID)
	require.NoError(t, err)
	_, err = b.ledger.RecordPurchase(ctx, b.customer.ID, b.duff.ID, 1)
	require.NoError(t, err)
	_, err = b.ledger.RecordPurchase(ctx, apoc.ID, b.duff.ID, 1)
	require.NoError(t, err)

	w, resp := b.do(t, http.MethodGet, "/tabs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tabs := dataList(t, resp)
	require.Len(t, tabs, 3)

	var order []string
	for _, raw := range tabs {
		tab := raw.(map[string]interface{})
		customer := tab["customer"].(map[string]interface{})
		order = append(order, fmt.Sprintf("%s/%s", customer["last_name"], tab["status"]))
	}
	assert.Equal(t, []string{"Apocalypse/open", "Thanos/open", "Thanos/closed"}, order)

	w, resp = b.do(t, http.MethodGet, fmt.Sprintf("/customers/%d/tabs", b.customer.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataList(t, resp), 2)
}

func TestUpdateTabDueAndClose(t *testing.T) {
	b := setupTestBar(t)

	tab, err := b.ledger.ResolveOpenTab(context.Background(), b.customer.ID)
	require.NoError(t, err)

	w, _ := b.do(t, http.MethodPatch, fmt.Sprintf("/tabs/%d", tab.ID), map[string]interface{}{
		"due": tab.Opened.Add(-time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	due := tab.Opened.Add(48 * time.Hour).UTC().Truncate(time.Second)
	w, resp := b.do(t, http.MethodPatch, fmt.Sprintf("/tabs/%d", tab.ID), map[string]interface{}{
		"due":    due,
		"closed": tab.Opened.Add(time.Hour),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "closed", dataMap(t, resp)["status"])

	var stored models.Tab
	require.NoError(t, b.db.First(&stored, tab.ID).Error)
	assert.True(t, stored.Due.Equal(due))
	assert.Nil(t, stored.OpenSlot)
}

func TestUpdateTabInvalidCloseKeepsDue(t *testing.T) {
	b := setupTestBar(t)

	tab, err := b.ledger.ResolveOpenTab(context.Background(), b.customer.ID)
	require.NoError(t, err)
	var before models.Tab
	require.NoError(t, b.db.First(&before, tab.ID).Error)

	w, resp := b.do(t, http.MethodPatch, fmt.Sprintf("/tabs/%d", tab.ID), map[string]interface{}{
		"due":    before.Opened.Add(72 * time.Hour),
		"closed": before.Opened.Add(-time.Hour),
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	fields := dataMap(t, resp)["errors"].(map[string]interface{})
	assert.Equal(t, "A tab cannot close before it was opened.", fields["closed"])

	var after models.Tab
	require.NoError(t, b.db.First(&after, tab.ID).Error)
	assert.True(t, after.Due.Equal(before.Due), "due changed to %s", after.Due)
	assert.Nil(t, after.Closed)

	// tab yang sudah closed: due juga tidak boleh ikut berubah
	_, err = b.ledger.CloseTab(context.Background(), tab.ID)
	require.NoError(t, err)
	w, _ = b.do(t, http.MethodPatch, fmt.Sprintf("/tabs/%d", tab.ID), map[string]interface{}{
		"due":    before.Opened.Add(72 * time.Hour),
		"closed": before.Opened.Add(2 * time.Hour),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, b.db.First(&after, tab.ID).Error)
	assert.True(t, after.Due.Equal(before.Due))
}

func TestDeletePurchaseEndpoint(t *testing.T) {
	b := setupTestBar(t)
	ctx := context.Background()

	keep, err := b.ledger.RecordPurchase(ctx, b.customer.ID, b.duff.ID, 1)
	require.NoError(t, err)
	drop, err := b.ledger.RecordPurchase(ctx, b.customer.ID, b.ale.ID, 2)
	require.NoError(t, err)

	w, resp := b.do(t, http.MethodDelete, fmt.Sprintf("/purchases/%d", drop.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(keep.TabID), dataMap(t, resp)["tab_id"])

	w, resp = b.do(t, http.MethodGet, fmt.Sprintf("/tabs/%d/purchases", keep.TabID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5.00", dataMap(t, resp)["total"])

	w, resp = b.do(t, http.MethodGet, fmt.Sprintf("/tabs/%d/events", keep.TabID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := dataList(t, resp)
	last := events[len(events)-1].(map[string]interface{})
	assert.Equal(t, models.EventPurchaseDeleted, last["action"])
	assert.Equal(t, "20.00", last["payload"].(map[string]interface{})["amount"])

	w, _ = b.do(t, http.MethodDelete, fmt.Sprintf("/purchases/%d", drop.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTabNotFound(t *testing.T) {
	b := setupTestBar(t)

	for _, path := range []string{"/tabs/999", "/tabs/999/purchases", "/tabs/999/events", "/tabs/999/statement"} {
		w, _ := b.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	w, _ := b.do(t, http.MethodPost, "/tabs/999/close", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTabStatementPDF(t *testing.T) {
	b := setupTestBar(t)

	p, err := b.ledger.RecordPurchase(context.Background(), b.customer.ID, b.duff.ID, 3)
	require.NoError(t, err)

	w, _ := b.do(t, http.MethodGet, fmt.Sprintf("/tabs/%d/statement", p.TabID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), fmt.Sprintf("tab-%d.pdf", p.TabID))
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestCreateTabResolvesOpenTab(t *testing.T) {
	b := setupTestBar(t)

	w, resp := b.do(t, http.MethodPost, "/tabs", map[string]interface{}{"customer_id": b.customer.ID})
	require.Equal(t, http.StatusOK, w.Code)
	first := idOf(t, dataMap(t, resp))

	w, resp = b.do(t, http.MethodPost, "/tabs", map[string]interface{}{"customer_id": b.customer.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first, idOf(t, dataMap(t, resp)))
	assert.Equal(t, "0.00", dataMap(t, resp)["total"])

	w, _ = b.do(t, http.MethodPost, "/tabs", map[string]interface{}{"customer_id": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
