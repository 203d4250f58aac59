package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/antonkhv/shop-app/controllers"
	"github.com/antonkhv/shop-app/models"
	"github.com/antonkhv/shop-app/services"
	"github.com/antonkhv/shop-app/utils"
)

// quietNotifier stands in for the mail transport in tests.
type quietNotifier struct{}

func (quietNotifier) NotifyOrder(models.Order, []models.OrderItem) error { return nil }

// brokenNotifier simulates a notification transport blowing up.
type brokenNotifier struct{}

func (brokenNotifier) NotifyOrder(models.Order, []models.OrderItem) error {
	panic("notification transport down")
}

func setupTestDBForOrders(name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Order{}, &models.OrderItem{})
	if err != nil {
		panic(err)
	}
	// Seed: one category with one product
	category := models.Category{Name: "Winston"}
	db.Create(&category)
	db.Create(&models.Product{CategoryID: category.ID, Name: "Winston Blue", Price: 150})
	return db
}

func setupOrderRouter(db *gorm.DB, notifier services.Notifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	orderCtrl := controllers.NewOrderController(db, notifier)
	router.POST("/orders", orderCtrl.SubmitOrder)
	router.GET("/admin/orders", orderCtrl.GetAllOrders)
	router.GET("/admin/orders/:order_id", orderCtrl.GetOrderByID)
	router.PATCH("/admin/orders/:order_id/status", orderCtrl.SetOrderStatus)
	router.POST("/admin/orders/:order_id/advance", orderCtrl.AdvanceOrderStatus)
	return router
}

func submitOrder(r *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
	payloadBytes, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/orders", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitAndInspectOrder(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_submit_test")
	router := setupOrderRouter(db, quietNotifier{})

	w := submitOrder(router, map[string]interface{}{
		"shopName":    "Shop1",
		"phone":       "+100200300",
		"items":       []map[string]interface{}{{"productId": 1, "quantity": 2, "price": 150}},
		"totalAmount": 300,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var createResp utils.JSONResponse
	assert.NoError(t, decodeBody(w, &createResp))
	data := createResp.Data.(map[string]interface{})
	orderID := int(data["id"].(float64))
	assert.NotEmpty(t, data["message"])

	// detail shows one line with the frozen price
	req, _ := http.NewRequest("GET", fmt.Sprintf("/admin/orders/%d", orderID), nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)

	var detailResp utils.JSONResponse
	assert.NoError(t, decodeBody(w2, &detailResp))
	detail := detailResp.Data.(map[string]interface{})
	order := detail["order"].(map[string]interface{})
	assert.Equal(t, "Shop1", order["shop_name"])
	assert.Equal(t, 300.0, order["total_amount"])
	assert.Equal(t, "new", order["status"])

	items := detail["items"].([]interface{})
	assert.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, 2.0, item["quantity"])
	assert.Equal(t, 150.0, item["price"])
	assert.Equal(t, "Winston Blue", item["product_name"])

	// listing carries the item count
	req, _ = http.NewRequest("GET", "/admin/orders", nil)
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)
	assert.Equal(t, http.StatusOK, w3.Code)

	var listResp utils.JSONResponse
	assert.NoError(t, decodeBody(w3, &listResp))
	list := listResp.Data.([]interface{})
	assert.Len(t, list, 1)
	assert.Equal(t, 1.0, list[0].(map[string]interface{})["items_count"])
}

func TestSubmitOrderValidation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_validation_test")
	router := setupOrderRouter(db, quietNotifier{})

	// empty cart
	w := submitOrder(router, map[string]interface{}{
		"shopName":    "Shop1",
		"items":       []map[string]interface{}{},
		"totalAmount": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// empty shop name
	w = submitOrder(router, map[string]interface{}{
		"shopName":    "   ",
		"items":       []map[string]interface{}{{"productId": 1, "quantity": 1, "price": 150}},
		"totalAmount": 150,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// zero quantity
	w = submitOrder(router, map[string]interface{}{
		"shopName":    "Shop1",
		"items":       []map[string]interface{}{{"productId": 1, "quantity": 0, "price": 150}},
		"totalAmount": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// nothing was written by any of the rejected submissions
	var orders, items int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderItem{}).Count(&items)
	assert.Equal(t, int64(0), orders)
	assert.Equal(t, int64(0), items)
}

// The declared total is trusted by default, even when it disagrees with
// the item sum. That is the documented storefront contract.
func TestSubmitOrderTrustsDeclaredTotal(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_trust_test")
	router := setupOrderRouter(db, quietNotifier{})

	w := submitOrder(router, map[string]interface{}{
		"shopName":    "Shop1",
		"items":       []map[string]interface{}{{"productId": 1, "quantity": 2, "price": 150}},
		"totalAmount": 100, // below the real sum of 300
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	assert.NoError(t, db.First(&order).Error)
	assert.Equal(t, 100.0, order.TotalAmount)
}

func TestSubmitOrderVerifyTotalsFlag(t *testing.T) {
	utils.InitLogger()
	t.Setenv("ORDER_VERIFY_TOTALS", "true")

	db := setupTestDBForOrders("orders_verify_test")
	router := setupOrderRouter(db, quietNotifier{})

	w := submitOrder(router, map[string]interface{}{
		"shopName":    "Shop1",
		"items":       []map[string]interface{}{{"productId": 1, "quantity": 2, "price": 150}},
		"totalAmount": 100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSubmitOrderSurvivesNotifierFailure(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_notifier_test")
	router := setupOrderRouter(db, brokenNotifier{})

	w := submitOrder(router, map[string]interface{}{
		"shopName":    "Shop1",
		"items":       []map[string]interface{}{{"productId": 1, "quantity": 1, "price": 150}},
		"totalAmount": 150,
	})
	// the panicking transport never reaches the caller
	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func setStatus(r *gin.Engine, orderID int, status string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(map[string]string{"status": status})
	req, _ := http.NewRequest("PATCH", fmt.Sprintf("/admin/orders/%d/status", orderID), bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetOrderStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_status_test")
	router := setupOrderRouter(db, quietNotifier{})

	order := models.Order{ShopName: "Shop1", TotalAmount: 150, Status: models.StatusNew}
	db.Create(&order)

	// any of the three values is accepted from any current state
	for _, target := range []string{"completed", "new", "processing"} {
		w := setStatus(router, int(order.ID), target)
		assert.Equal(t, http.StatusOK, w.Code)

		var current models.Order
		db.First(&current, order.ID)
		assert.Equal(t, models.OrderStatus(target), current.Status)
	}

	// anything else is rejected and leaves the row alone
	w := setStatus(router, int(order.ID), "shipped")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var current models.Order
	db.First(&current, order.ID)
	assert.Equal(t, models.StatusProcessing, current.Status)

	// missing order
	w = setStatus(router, 999, "new")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdvanceOrderStatusCycles(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_advance_test")
	router := setupOrderRouter(db, quietNotifier{})

	order := models.Order{ShopName: "Shop1", TotalAmount: 150, Status: models.StatusNew}
	db.Create(&order)

	expected := []models.OrderStatus{
		models.StatusProcessing,
		models.StatusCompleted,
		models.StatusNew, // completed wraps around
	}
	for _, want := range expected {
		req, _ := http.NewRequest("POST", fmt.Sprintf("/admin/orders/%d/advance", order.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var current models.Order
		db.First(&current, order.ID)
		assert.Equal(t, want, current.Status)
	}
}

func TestListOrdersFilters(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_filters_test")
	router := setupOrderRouter(db, quietNotifier{})

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	db.Create(&models.Order{ShopName: "Shop1", TotalAmount: 300, Status: models.StatusProcessing, CreatedAt: now, UpdatedAt: now})
	db.Create(&models.Order{ShopName: "Corner Kiosk", TotalAmount: 150, Status: models.StatusNew, CreatedAt: now, UpdatedAt: now})
	db.Create(&models.Order{ShopName: "shop one", TotalAmount: 450, Status: models.StatusProcessing, CreatedAt: yesterday, UpdatedAt: yesterday})

	fetch := func(query string) []interface{} {
		req, _ := http.NewRequest("GET", "/admin/orders"+query, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		var resp utils.JSONResponse
		assert.NoError(t, decodeBody(w, &resp))
		if resp.Data == nil {
			return nil
		}
		return resp.Data.([]interface{})
	}

	assert.Len(t, fetch(""), 3)

	processing := fetch("?status=processing")
	assert.Len(t, processing, 2)
	for _, entry := range processing {
		assert.Equal(t, "processing", entry.(map[string]interface{})["status"])
	}

	// case-insensitive substring on the shop name
	matches := fetch("?search=SHOP")
	assert.Len(t, matches, 2)

	// date filter keeps only today's orders
	today := fetch("?date=" + now.Format("2006-01-02"))
	assert.Len(t, today, 2)

	// filters combine with AND
	combined := fetch("?status=processing&date=" + now.Format("2006-01-02"))
	assert.Len(t, combined, 1)
	assert.Equal(t, "Shop1", combined[0].(map[string]interface{})["shop_name"])
}

func TestGetOrderMissingIsNotFound(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders("orders_missing_test")
	router := setupOrderRouter(db, quietNotifier{})

	req, _ := http.NewRequest("GET", "/admin/orders/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
