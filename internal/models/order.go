package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

// Order lifecycle: In Progress -> Ready -> Completed. No path back.
const (
	StatusInProgress OrderStatus = "In Progress"
	StatusReady      OrderStatus = "Ready"
	StatusCompleted  OrderStatus = "Completed"
)

type Order struct {
	ID             uuid.UUID   `json:"id"`
	ShopID         uuid.UUID   `json:"shop_id"`
	CustomerName   string      `json:"customer_name"`
	CustomerPhone  string      `json:"customer_phone"`
	Items          string      `json:"items"`
	Measurements   string      `json:"measurements"`
	Price          float64     `json:"price"`
	AdvancePayment float64     `json:"advance_payment"`
	DeliveryDate   string      `json:"delivery_date"`
	Notes          string      `json:"notes"`
	Status         OrderStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
}

// BalanceDue may be negative when the customer overpaid; that is not
// validated against.
func (o Order) BalanceDue() float64 {
	return o.Price - o.AdvancePayment
}

type Stats struct {
	InProgress int `json:"in_progress"`
	Ready      int `json:"ready"`
	Completed  int `json:"completed"`
}
