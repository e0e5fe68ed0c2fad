package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hemaperikala/is-it-ready/internal/handlers"
	"github.com/hemaperikala/is-it-ready/internal/middleware"
	"github.com/hemaperikala/is-it-ready/internal/models"
	"github.com/hemaperikala/is-it-ready/internal/orders"
)

type fakeStore struct {
	orders []models.Order
}

func (f *fakeStore) InsertOrder(order models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	f.orders = append(f.orders, order)
	return &order, nil
}

func (f *fakeStore) GetOrder(orderID, shopID uuid.UUID) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == orderID && o.ShopID == shopID {
			order := o
			return &order, nil
		}
	}
	return nil, fmt.Errorf("failed to get order: no rows")
}

func (f *fakeStore) ListOrders(shopID uuid.UUID) ([]models.Order, error) {
	var result []models.Order
	for _, o := range f.orders {
		if o.ShopID == shopID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (f *fakeStore) UpdateOrderStatus(orderID, shopID uuid.UUID, status models.OrderStatus) error {
	for i, o := range f.orders {
		if o.ID == orderID && o.ShopID == shopID {
			f.orders[i].Status = status
		}
	}
	return nil
}

func (f *fakeStore) UpdateOrderDeliveryDate(orderID, shopID uuid.UUID, deliveryDate string) error {
	for i, o := range f.orders {
		if o.ID == orderID && o.ShopID == shopID {
			f.orders[i].DeliveryDate = deliveryDate
		}
	}
	return nil
}

func newTestRouter(store *fakeStore, shopID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)

	service := orders.NewService(store, nil, zap.NewNop().Sugar())
	handler := handlers.NewOrdersHandler(service, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ShopIDKey, shopID.String())
		c.Set(middleware.ShopNameKey, "Test Tailors")
		c.Next()
	})

	router.POST("/orders", handler.CreateOrder)
	router.GET("/orders", handler.ListOrders)
	router.GET("/orders/export", handler.ExportOrders)
	router.GET("/orders/:order_id", handler.GetOrder)
	router.POST("/orders/:order_id/ready", handler.MarkReady)
	router.POST("/orders/:order_id/complete", handler.MarkCompleted)
	router.POST("/orders/:order_id/delivery-date", handler.ExtendDeliveryDate)
	router.GET("/orders/:order_id/handoff-qr", handler.HandoffQR)

	return router
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createOrder(t *testing.T, router *gin.Engine) models.OrderMutationResponse {
	t.Helper()

	w := postJSON(router, "/orders", models.OrderForm{
		CustomerName:   "John Doe",
		CustomerPhone:  "+91 98765-43210",
		Items:          "Shirt",
		Price:          "500",
		AdvancePayment: "200",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.OrderMutationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateOrderHandler(t *testing.T) {
	router := newTestRouter(&fakeStore{}, uuid.New())

	resp := createOrder(t, router)

	assert.Equal(t, models.StatusInProgress, resp.Order.Status)
	assert.Equal(t, 300.0, resp.Order.BalanceDue)
	require.NotNil(t, resp.Notification)
	assert.Equal(t, "created", resp.Notification.Kind)
	assert.Contains(t, resp.Notification.Message, "Test Tailors")
}

func TestCreateOrderHandler_MissingName(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store, uuid.New())

	w := postJSON(router, "/orders", models.OrderForm{CustomerPhone: "123"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.orders)
}

func TestListOrdersHandler(t *testing.T) {
	router := newTestRouter(&fakeStore{}, uuid.New())

	created := createOrder(t, router)
	orderID, _ := uuid.Parse(created.Order.ID)

	w := postJSON(router, "/orders/"+orderID.String()+"/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)

	req, _ := http.NewRequest("GET", "/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.OrderListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Orders, 1)
	assert.Equal(t, models.Stats{Ready: 1}, resp.Stats)
}

func TestListOrdersHandler_SearchAndViewFilters(t *testing.T) {
	router := newTestRouter(&fakeStore{}, uuid.New())

	createOrder(t, router)
	w := postJSON(router, "/orders", models.OrderForm{
		CustomerName:  "Amy",
		CustomerPhone: "5551234",
	})
	require.Equal(t, http.StatusOK, w.Code)

	req, _ := http.NewRequest("GET", "/orders?q=jo&view=active", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.OrderListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Orders, 1)
	assert.Equal(t, "John Doe", resp.Orders[0].CustomerName)
	// Stats still cover the whole collection.
	assert.Equal(t, models.Stats{InProgress: 2}, resp.Stats)
}

func TestMarkReadyHandler_NotFound(t *testing.T) {
	router := newTestRouter(&fakeStore{}, uuid.New())

	w := postJSON(router, "/orders/"+uuid.New().String()+"/ready", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkCompletedHandler_IllegalTransition(t *testing.T) {
	router := newTestRouter(&fakeStore{}, uuid.New())

	created := createOrder(t, router)

	w := postJSON(router, "/orders/"+created.Order.ID+"/complete", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtendDeliveryDateHandler_EmptyDate(t *testing.T) {
	router := newTestRouter(&fakeStore{}, uuid.New())

	created := createOrder(t, router)

	w := postJSON(router, "/orders/"+created.Order.ID+"/delivery-date",
		models.ExtendDeliveryDateRequest{DeliveryDate: ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtendDeliveryDateHandler(t *testing.T) {
	router := newTestRouter(&fakeStore{}, uuid.New())

	created := createOrder(t, router)

	w := postJSON(router, "/orders/"+created.Order.ID+"/delivery-date",
		models.ExtendDeliveryDateRequest{DeliveryDate: "2026-10-01"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.OrderMutationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-10-01", resp.Order.DeliveryDate)
	require.NotNil(t, resp.Notification)
	assert.Contains(t, resp.Notification.Message, "2026-10-01")
}

func TestHandoffQRHandler(t *testing.T) {
	router := newTestRouter(&fakeStore{}, uuid.New())

	created := createOrder(t, router)

	req, _ := http.NewRequest("GET", "/orders/"+created.Order.ID+"/handoff-qr?kind=ready", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestExportOrdersHandler_StreamsWorkbook(t *testing.T) {
	router := newTestRouter(&fakeStore{}, uuid.New())

	createOrder(t, router)

	req, _ := http.NewRequest("GET", "/orders/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotEmpty(t, rec.Body.Bytes())
}
