// Package orders runs the order lifecycle: it validates transitions, applies
// shop-scoped writes and composes the customer notification for qualifying
// changes.
package orders

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hemaperikala/is-it-ready/internal/models"
	"github.com/hemaperikala/is-it-ready/internal/supabase"
	"github.com/hemaperikala/is-it-ready/internal/whatsapp"
)

// Shop is the authenticated identity every operation is scoped to.
type Shop struct {
	ID   uuid.UUID
	Name string
}

// Store is the durable order record, implemented by the Supabase Postgres
// client.
type Store interface {
	InsertOrder(order models.Order) (*models.Order, error)
	GetOrder(orderID, shopID uuid.UUID) (*models.Order, error)
	ListOrders(shopID uuid.UUID) ([]models.Order, error)
	UpdateOrderStatus(orderID, shopID uuid.UUID, status models.OrderStatus) error
	UpdateOrderDeliveryDate(orderID, shopID uuid.UUID, deliveryDate string) error
}

// EventPublisher fans out "orders changed, re-fetch" events to a shop's
// channel after every successful write.
type EventPublisher interface {
	PublishShopEvent(shopID uuid.UUID, event string, payload map[string]interface{}) error
}

type Service struct {
	store  Store
	events EventPublisher
	logger *zap.SugaredLogger

	mu        sync.RWMutex
	snapshots map[uuid.UUID][]models.Order
}

func NewService(store Store, events EventPublisher, logger *zap.SugaredLogger) *Service {
	return &Service{
		store:     store,
		events:    events,
		logger:    logger,
		snapshots: make(map[uuid.UUID][]models.Order),
	}
}

// Refresh fetches the shop's full order collection (newest first) and
// replaces the in-memory snapshot that lookups and notification composition
// read from.
func (s *Service) Refresh(shopID uuid.UUID) ([]models.Order, error) {
	orders, err := s.store.ListOrders(shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh orders: %w", err)
	}

	s.mu.Lock()
	s.snapshots[shopID] = orders
	s.mu.Unlock()

	return orders, nil
}

// Snapshot returns a copy of the shop's last fetched order collection.
func (s *Service) Snapshot(shopID uuid.UUID) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]models.Order, len(s.snapshots[shopID]))
	copy(orders, s.snapshots[shopID])
	return orders
}

func (s *Service) lookup(shopID, orderID uuid.UUID) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.snapshots[shopID] {
		if o.ID == orderID {
			return o, true
		}
	}
	return models.Order{}, false
}

// CreateOrder validates the form, persists a new In Progress order and
// composes the "order received" notification. Invalid forms never reach the
// store.
func (s *Service) CreateOrder(shop Shop, form models.OrderForm) (*models.Order, *models.Notification, error) {
	if strings.TrimSpace(form.CustomerName) == "" || strings.TrimSpace(form.CustomerPhone) == "" {
		return nil, nil, &ValidationError{Message: "customer name and phone number are required"}
	}

	order := models.Order{
		ShopID:         shop.ID,
		CustomerName:   form.CustomerName,
		CustomerPhone:  form.CustomerPhone,
		Items:          form.Items,
		Measurements:   form.Measurements,
		Price:          parseAmount(form.Price),
		AdvancePayment: parseAmount(form.AdvancePayment),
		DeliveryDate:   form.DeliveryDate,
		Notes:          form.Notes,
		Status:         models.StatusInProgress,
	}

	created, err := s.store.InsertOrder(order)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	notification := s.compose(whatsapp.KindCreated, *created, shop.Name)

	s.publish(shop.ID, "order_created", supabase.OrderCreatedPayload(created.ID, created.CustomerName))
	s.refreshAfterWrite(shop.ID)

	return created, notification, nil
}

// AdvanceStatus moves an order one step along the lifecycle. The order is
// resolved against the in-memory snapshot, not a fresh store read, and the
// "ready for pickup" notification is composed from that pre-update snapshot.
// That staleness is deliberate: it saves a round trip before messaging.
func (s *Service) AdvanceStatus(shop Shop, orderID uuid.UUID, target models.OrderStatus) (*models.Order, *models.Notification, error) {
	current, ok := s.lookup(shop.ID, orderID)
	if !ok {
		return nil, nil, ErrNotFound
	}

	if !transitionAllowed(current.Status, target) {
		return nil, nil, validationErrorf("cannot move order from %s to %s", current.Status, target)
	}

	if err := s.store.UpdateOrderStatus(orderID, shop.ID, target); err != nil {
		return nil, nil, fmt.Errorf("failed to advance order status: %w", err)
	}

	// No notification on completion; the customer already picked up.
	var notification *models.Notification
	if target == models.StatusReady {
		notification = s.compose(whatsapp.KindReady, current, shop.Name)
		s.publish(shop.ID, "order_ready", supabase.OrderReadyPayload(orderID, current.BalanceDue()))
	} else {
		s.publish(shop.ID, "order_completed", supabase.OrderCompletedPayload(orderID))
	}

	s.refreshAfterWrite(shop.ID)

	updated := current
	updated.Status = target
	return &updated, notification, nil
}

// ExtendDeliveryDate is a side-channel field update, not a status transition.
// It is only offered while the order is In Progress and always notifies the
// customer, again from the pre-update snapshot.
func (s *Service) ExtendDeliveryDate(shop Shop, orderID uuid.UUID, newDate string) (*models.Order, *models.Notification, error) {
	if strings.TrimSpace(newDate) == "" {
		return nil, nil, &ValidationError{Message: "a new delivery date is required"}
	}

	current, ok := s.lookup(shop.ID, orderID)
	if !ok {
		return nil, nil, ErrNotFound
	}

	if current.Status != models.StatusInProgress {
		return nil, nil, validationErrorf("cannot extend delivery date of a %s order", current.Status)
	}

	if err := s.store.UpdateOrderDeliveryDate(orderID, shop.ID, newDate); err != nil {
		return nil, nil, fmt.Errorf("failed to extend delivery date: %w", err)
	}

	updated := current
	updated.DeliveryDate = newDate

	notification := s.compose(whatsapp.KindExtended, updated, shop.Name)

	s.publish(shop.ID, "delivery_date_extended", supabase.DeliveryDateExtendedPayload(orderID, newDate))
	s.refreshAfterWrite(shop.ID)

	return &updated, notification, nil
}

// Get reads a single order from the store, shop-scoped.
func (s *Service) Get(shop Shop, orderID uuid.UUID) (*models.Order, error) {
	return s.store.GetOrder(orderID, shop.ID)
}

func (s *Service) compose(kind whatsapp.Kind, order models.Order, shopName string) *models.Notification {
	message := whatsapp.ComposeMessage(kind, order, shopName)
	uri, err := whatsapp.BuildHandoffURI(order.CustomerPhone, message)
	if err != nil {
		// The write already happened; a broken phone number only costs the
		// notification.
		s.logger.Warnw("skipping notification", "order_id", order.ID, "error", err)
		return nil
	}

	return &models.Notification{
		Kind:       string(kind),
		Message:    message,
		HandoffURI: uri,
	}
}

func (s *Service) publish(shopID uuid.UUID, event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishShopEvent(shopID, event, payload); err != nil {
		s.logger.Warnw("failed to publish event", "event", event, "error", err)
	}
}

// refreshAfterWrite keeps the snapshot eventually consistent with the store.
// A failed refresh leaves the previous snapshot in place; the write itself
// already succeeded.
func (s *Service) refreshAfterWrite(shopID uuid.UUID) {
	orders, err := s.Refresh(shopID)
	if err != nil {
		s.logger.Warnw("failed to refresh snapshot after write", "shop_id", shopID, "error", err)
		return
	}
	s.publish(shopID, "orders_refreshed", supabase.OrdersRefreshedPayload(len(orders)))
}

func transitionAllowed(from, to models.OrderStatus) bool {
	switch from {
	case models.StatusInProgress:
		return to == models.StatusReady
	case models.StatusReady:
		return to == models.StatusCompleted
	default:
		return false
	}
}

// parseAmount coerces free-form numeric input; anything unparseable counts
// as 0.
func parseAmount(raw string) float64 {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return amount
}
