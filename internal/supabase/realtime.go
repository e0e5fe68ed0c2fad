package supabase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

func (r *RealtimeClient) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	// The orders table updates already trigger Supabase Realtime for
	// subscribed dashboards; explicit channel publishing would go through the
	// Realtime REST API if it becomes necessary.
	return nil
}

// PublishShopEvent notifies a shop's channel that its order collection
// changed and a re-fetch is due.
func (r *RealtimeClient) PublishShopEvent(shopID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("shop:%s", shopID.String())
	return r.PublishEvent(channel, event, payload)
}

// Event payloads
func OrderCreatedPayload(orderID uuid.UUID, customerName string) map[string]interface{} {
	return map[string]interface{}{
		"order_id":      orderID.String(),
		"status":        "In Progress",
		"customer_name": customerName,
	}
}

func OrderReadyPayload(orderID uuid.UUID, balanceDue float64) map[string]interface{} {
	return map[string]interface{}{
		"order_id":    orderID.String(),
		"status":      "Ready",
		"balance_due": balanceDue,
	}
}

func OrderCompletedPayload(orderID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"order_id": orderID.String(),
		"status":   "Completed",
	}
}

func DeliveryDateExtendedPayload(orderID uuid.UUID, newDate string) map[string]interface{} {
	return map[string]interface{}{
		"order_id":      orderID.String(),
		"delivery_date": newDate,
	}
}

func OrdersRefreshedPayload(count int) map[string]interface{} {
	return map[string]interface{}{
		"order_count": count,
	}
}
