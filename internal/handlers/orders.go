package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hemaperikala/is-it-ready/internal/export"
	"github.com/hemaperikala/is-it-ready/internal/middleware"
	"github.com/hemaperikala/is-it-ready/internal/models"
	"github.com/hemaperikala/is-it-ready/internal/orders"
	"github.com/hemaperikala/is-it-ready/internal/supabase"
	"github.com/hemaperikala/is-it-ready/internal/view"
	"github.com/hemaperikala/is-it-ready/internal/whatsapp"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OrdersHandler struct {
	service       *orders.Service
	storageClient *supabase.StorageClient
}

func NewOrdersHandler(service *orders.Service, storageClient *supabase.StorageClient) *OrdersHandler {
	return &OrdersHandler{
		service:       service,
		storageClient: storageClient,
	}
}

func shopFromContext(c *gin.Context) (orders.Shop, bool) {
	shopIDStr, exists := c.Get(middleware.ShopIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "shop id not found"})
		return orders.Shop{}, false
	}

	shopID, err := uuid.Parse(shopIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid shop id"})
		return orders.Shop{}, false
	}

	shopName := ""
	if name, exists := c.Get(middleware.ShopNameKey); exists {
		shopName, _ = name.(string)
	}

	return orders.Shop{ID: shopID, Name: shopName}, true
}

func orderIDFromPath(c *gin.Context) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order id"})
		return uuid.Nil, false
	}
	return orderID, true
}

func respondLifecycleError(c *gin.Context, err error) {
	var validationErr *orders.ValidationError
	switch {
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: validationErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "store operation failed",
			Message: err.Error(),
		})
	}
}

// CreateOrder godoc
// @Summary     Create a new order
// @Description Creates an In Progress order for the shop and composes the "order received" WhatsApp hand-off for the caller to open.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.OrderForm true "Order form"
// @Success     200 {object} models.OrderMutationResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders [post]
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	shop, ok := shopFromContext(c)
	if !ok {
		return
	}

	var form models.OrderForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	order, notification, err := h.service.CreateOrder(shop, form)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.OrderMutationResponse{
		Order:        models.NewOrderResponse(*order),
		Notification: notification,
	})
}

// ListOrders godoc
// @Summary     List orders
// @Description Fetches the shop's orders newest first, with derived stats. Supports name/phone search and active/completed filtering.
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Param       q    query string false "Search by customer name or phone"
// @Param       view query string false "active | completed | all" default(all)
// @Success     200 {object} models.OrderListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders [get]
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	shop, ok := shopFromContext(c)
	if !ok {
		return
	}

	all, err := h.service.Refresh(shop.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list orders",
			Message: err.Error(),
		})
		return
	}

	// Stats always cover the full collection, not the filtered view.
	stats := view.ComputeStats(all)

	filtered := view.Search(all, c.Query("q"))
	switch c.DefaultQuery("view", "all") {
	case "active":
		filtered = view.FilterActive(filtered)
	case "completed":
		filtered = view.FilterCompleted(filtered)
	}

	responses := make([]models.OrderResponse, len(filtered))
	for i, o := range filtered {
		responses[i] = models.NewOrderResponse(o)
	}

	c.JSON(http.StatusOK, models.OrderListResponse{
		Orders: responses,
		Stats:  stats,
	})
}

// GetOrder godoc
// @Summary     Get order details
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id} [get]
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	shop, ok := shopFromContext(c)
	if !ok {
		return
	}

	orderID, ok := orderIDFromPath(c)
	if !ok {
		return
	}

	order, err := h.service.Get(shop, orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "order not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.NewOrderResponse(*order))
}

// MarkReady godoc
// @Summary     Mark an order ready for pickup
// @Description Moves an In Progress order to Ready and composes the pickup notification with the balance due.
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} models.OrderMutationResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders/{order_id}/ready [post]
func (h *OrdersHandler) MarkReady(c *gin.Context) {
	h.advance(c, models.StatusReady)
}

// MarkCompleted godoc
// @Summary     Mark an order completed
// @Description Moves a Ready order to Completed. No notification is sent.
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} models.OrderMutationResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders/{order_id}/complete [post]
func (h *OrdersHandler) MarkCompleted(c *gin.Context) {
	h.advance(c, models.StatusCompleted)
}

func (h *OrdersHandler) advance(c *gin.Context, target models.OrderStatus) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	shop, ok := shopFromContext(c)
	if !ok {
		return
	}

	orderID, ok := orderIDFromPath(c)
	if !ok {
		return
	}

	order, notification, err := h.service.AdvanceStatus(shop, orderID, target)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.OrderMutationResponse{
		Order:        models.NewOrderResponse(*order),
		Notification: notification,
	})
}

// ExtendDeliveryDate godoc
// @Summary     Extend an order's delivery date
// @Description Updates the delivery date of an In Progress order and composes the delay notification.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Param       request  body models.ExtendDeliveryDateRequest true "New delivery date"
// @Success     200 {object} models.OrderMutationResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders/{order_id}/delivery-date [post]
func (h *OrdersHandler) ExtendDeliveryDate(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	shop, ok := shopFromContext(c)
	if !ok {
		return
	}

	orderID, ok := orderIDFromPath(c)
	if !ok {
		return
	}

	var req models.ExtendDeliveryDateRequest
	// Body is required but binding errors surface as the empty-date case.
	_ = c.ShouldBindJSON(&req)

	order, notification, err := h.service.ExtendDeliveryDate(shop, orderID, req.DeliveryDate)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.OrderMutationResponse{
		Order:        models.NewOrderResponse(*order),
		Notification: notification,
	})
}

// HandoffQR godoc
// @Summary     Render a notification hand-off link as a QR code
// @Description Composes the message for the given kind from the order's current values and returns the wa.me link as a scannable PNG.
// @Tags        orders
// @Produce     png
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Param       kind query string false "created | ready | extended" default(ready)
// @Success     200 {file} binary
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id}/handoff-qr [get]
func (h *OrdersHandler) HandoffQR(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	shop, ok := shopFromContext(c)
	if !ok {
		return
	}

	orderID, ok := orderIDFromPath(c)
	if !ok {
		return
	}

	var kind whatsapp.Kind
	switch c.DefaultQuery("kind", "ready") {
	case "created":
		kind = whatsapp.KindCreated
	case "ready":
		kind = whatsapp.KindReady
	case "extended":
		kind = whatsapp.KindExtended
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid notification kind"})
		return
	}

	order, err := h.service.Get(shop, orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "order not found",
			Message: err.Error(),
		})
		return
	}

	message := whatsapp.ComposeMessage(kind, *order, shop.Name)
	uri, err := whatsapp.BuildHandoffURI(order.CustomerPhone, message)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "cannot build hand-off link",
			Message: err.Error(),
		})
		return
	}

	png, err := whatsapp.QRCode(uri)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to render qr code",
			Message: err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// ExportOrders godoc
// @Summary     Export order history
// @Description Streams the shop's orders as an xlsx workbook, or uploads it to the reports bucket and returns the public URL when upload=true.
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Param       upload query bool false "Upload to storage instead of streaming"
// @Success     200 {object} models.ExportResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders/export [get]
func (h *OrdersHandler) ExportOrders(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	shop, ok := shopFromContext(c)
	if !ok {
		return
	}

	all, err := h.service.Refresh(shop.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list orders",
			Message: err.Error(),
		})
		return
	}

	workbook, err := export.Workbook(all)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to build report",
			Message: err.Error(),
		})
		return
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to write report",
			Message: err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))

	if c.Query("upload") == "true" && h.storageClient != nil {
		_, publicURL, err := h.storageClient.UploadReport(shop.ID, filename, buf.Bytes())
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to upload report",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, models.ExportResponse{ReportURL: publicURL})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
