package models

import "time"

type OrderResponse struct {
	ID             string      `json:"order_id"`
	CustomerName   string      `json:"customer_name"`
	CustomerPhone  string      `json:"customer_phone"`
	Items          string      `json:"items"`
	Measurements   string      `json:"measurements"`
	Price          float64     `json:"price"`
	AdvancePayment float64     `json:"advance_payment"`
	BalanceDue     float64     `json:"balance_due"`
	DeliveryDate   string      `json:"delivery_date"`
	Notes          string      `json:"notes"`
	Status         OrderStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
}

func NewOrderResponse(o Order) OrderResponse {
	return OrderResponse{
		ID:             o.ID.String(),
		CustomerName:   o.CustomerName,
		CustomerPhone:  o.CustomerPhone,
		Items:          o.Items,
		Measurements:   o.Measurements,
		Price:          o.Price,
		AdvancePayment: o.AdvancePayment,
		BalanceDue:     o.BalanceDue(),
		DeliveryDate:   o.DeliveryDate,
		Notes:          o.Notes,
		Status:         o.Status,
		CreatedAt:      o.CreatedAt,
	}
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Stats  Stats           `json:"stats"`
}

// Notification is the fire-and-forget hand-off for the caller to open; the
// external messaging app owns the actual send.
type Notification struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	HandoffURI string `json:"handoff_uri"`
}

type OrderMutationResponse struct {
	Order        OrderResponse `json:"order"`
	Notification *Notification `json:"notification,omitempty"`
}

type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Email        string `json:"email"`
	ShopName     string `json:"shop_name,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ExportResponse struct {
	ReportURL string `json:"report_url"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
