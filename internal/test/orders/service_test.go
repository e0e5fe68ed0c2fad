package orders_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hemaperikala/is-it-ready/internal/models"
	"github.com/hemaperikala/is-it-ready/internal/orders"
)

type fakeStore struct {
	orders        []models.Order
	statusUpdates int
	dateUpdates   int
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
	f.statusUpdates++
	for i, o := range f.orders {
		if o.ID == orderID && o.ShopID == shopID {
			f.orders[i].Status = status
		}
	}
	return nil
}

func (f *fakeStore) UpdateOrderDeliveryDate(orderID, shopID uuid.UUID, deliveryDate string) error {
	f.dateUpdates++
	for i, o := range f.orders {
		if o.ID == orderID && o.ShopID == shopID {
			f.orders[i].DeliveryDate = deliveryDate
		}
	}
	return nil
}

type fakeEvents struct {
	events []string
}

func (f *fakeEvents) PublishShopEvent(shopID uuid.UUID, event string, payload map[string]interface{}) error {
	f.events = append(f.events, event)
	return nil
}

func newTestService() (*orders.Service, *fakeStore, *fakeEvents) {
	store := &fakeStore{}
	events := &fakeEvents{}
	return orders.NewService(store, events, zap.NewNop().Sugar()), store, events
}

func testShop() orders.Shop {
	return orders.Shop{ID: uuid.New(), Name: "Stitch In Time"}
}

func validForm() models.OrderForm {
	return models.OrderForm{
		CustomerName:   "John Doe",
		CustomerPhone:  "+91 98765-43210",
		Items:          "Shirt, Pant",
		Price:          "500",
		AdvancePayment: "200",
		DeliveryDate:   "2026-09-15",
	}
}

func TestCreateOrder(t *testing.T) {
	svc, store, events := newTestService()
	shop := testShop()

	order, notification, err := svc.CreateOrder(shop, validForm())

	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, order.Status)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, 500.0, order.Price)
	assert.Equal(t, 200.0, order.AdvancePayment)
	assert.Len(t, store.orders, 1)

	require.NotNil(t, notification)
	assert.Equal(t, "created", notification.Kind)
	assert.Contains(t, notification.Message, "Hello John Doe")
	assert.Contains(t, notification.HandoffURI, "https://wa.me/919876543210?text=")

	assert.Contains(t, events.events, "order_created")
	assert.Contains(t, events.events, "orders_refreshed")
}

func TestCreateOrder_InvalidFormNeverReachesStore(t *testing.T) {
	svc, store, _ := newTestService()
	shop := testShop()

	for _, form := range []models.OrderForm{
		{CustomerName: "", CustomerPhone: "123"},
		{CustomerName: "John", CustomerPhone: ""},
		{CustomerName: "   ", CustomerPhone: "123"},
	} {
		_, _, err := svc.CreateOrder(shop, form)

		var validationErr *orders.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	}
	assert.Empty(t, store.orders)
}

func TestCreateOrder_NonNumericAmountsFallBackToZero(t *testing.T) {
	svc, _, _ := newTestService()

	form := validForm()
	form.Price = "abc"
	form.AdvancePayment = ""

	order, _, err := svc.CreateOrder(testShop(), form)

	require.NoError(t, err)
	assert.Equal(t, 0.0, order.Price)
	assert.Equal(t, 0.0, order.AdvancePayment)
}

func TestCreateOrder_PhoneWithoutDigitsSkipsNotification(t *testing.T) {
	svc, store, _ := newTestService()

	form := validForm()
	form.CustomerPhone = "ask at counter"

	order, notification, err := svc.CreateOrder(testShop(), form)

	// The order is still persisted; only the hand-off is dropped.
	require.NoError(t, err)
	assert.Nil(t, notification)
	assert.NotNil(t, order)
	assert.Len(t, store.orders, 1)
}

func TestAdvanceStatus_ReadyNotifiesFromPreUpdateSnapshot(t *testing.T) {
	svc, store, _ := newTestService()
	shop := testShop()

	order, _, err := svc.CreateOrder(shop, validForm())
	require.NoError(t, err)

	// Change the stored price behind the snapshot's back; the notification
	// must still be composed from the snapshot the engine holds.
	store.orders[0].Price = 900

	updated, notification, err := svc.AdvanceStatus(shop, order.ID, models.StatusReady)

	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, updated.Status)
	require.NotNil(t, notification)
	assert.Equal(t, "ready", notification.Kind)
	assert.Contains(t, notification.Message, "Balance Due: ₹300")
}

func TestAdvanceStatus_CompletedSendsNoNotification(t *testing.T) {
	svc, _, _ := newTestService()
	shop := testShop()

	order, _, err := svc.CreateOrder(shop, validForm())
	require.NoError(t, err)

	_, _, err = svc.AdvanceStatus(shop, order.ID, models.StatusReady)
	require.NoError(t, err)

	updated, notification, err := svc.AdvanceStatus(shop, order.ID, models.StatusCompleted)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Nil(t, notification)
}

func TestAdvanceStatus_UnknownOrder(t *testing.T) {
	svc, store, _ := newTestService()
	shop := testShop()

	_, _, err := svc.AdvanceStatus(shop, uuid.New(), models.StatusReady)

	assert.ErrorIs(t, err, orders.ErrNotFound)
	assert.Zero(t, store.statusUpdates)
}

func TestAdvanceStatus_RejectsIllegalTransitions(t *testing.T) {
	svc, store, _ := newTestService()
	shop := testShop()

	order, _, err := svc.CreateOrder(shop, validForm())
	require.NoError(t, err)

	// No direct In Progress -> Completed path.
	_, _, err = svc.AdvanceStatus(shop, order.ID, models.StatusCompleted)
	var validationErr *orders.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	// No way back to In Progress.
	_, _, err = svc.AdvanceStatus(shop, order.ID, models.StatusInProgress)
	assert.ErrorAs(t, err, &validationErr)

	assert.Zero(t, store.statusUpdates)
}

func TestExtendDeliveryDate(t *testing.T) {
	svc, store, _ := newTestService()
	shop := testShop()

	order, _, err := svc.CreateOrder(shop, validForm())
	require.NoError(t, err)

	updated, notification, err := svc.ExtendDeliveryDate(shop, order.ID, "2026-10-01")

	require.NoError(t, err)
	assert.Equal(t, "2026-10-01", updated.DeliveryDate)
	assert.Equal(t, 1, store.dateUpdates)
	require.NotNil(t, notification)
	assert.Equal(t, "extended", notification.Kind)
	assert.Contains(t, notification.Message, "New Delivery Date: 2026-10-01")
}

func TestExtendDeliveryDate_EmptyDateIsANoOp(t *testing.T) {
	svc, store, _ := newTestService()
	shop := testShop()

	order, _, err := svc.CreateOrder(shop, validForm())
	require.NoError(t, err)

	_, notification, err := svc.ExtendDeliveryDate(shop, order.ID, "  ")

	var validationErr *orders.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Nil(t, notification)
	assert.Zero(t, store.dateUpdates)
}

func TestExtendDeliveryDate_OnlyWhileInProgress(t *testing.T) {
	svc, store, _ := newTestService()
	shop := testShop()

	order, _, err := svc.CreateOrder(shop, validForm())
	require.NoError(t, err)

	_, _, err = svc.AdvanceStatus(shop, order.ID, models.StatusReady)
	require.NoError(t, err)

	_, _, err = svc.ExtendDeliveryDate(shop, order.ID, "2026-10-01")

	var validationErr *orders.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Zero(t, store.dateUpdates)
}

func TestSnapshotIsScopedToShop(t *testing.T) {
	svc, _, _ := newTestService()
	shopA := testShop()
	shopB := testShop()

	orderA, _, err := svc.CreateOrder(shopA, validForm())
	require.NoError(t, err)

	// Shop B never sees shop A's order.
	_, _, err = svc.AdvanceStatus(shopB, orderA.ID, models.StatusReady)
	assert.ErrorIs(t, err, orders.ErrNotFound)

	assert.Len(t, svc.Snapshot(shopA.ID), 1)
	assert.Empty(t, svc.Snapshot(shopB.ID))
}
