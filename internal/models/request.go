package models

// OrderForm is the staging input for a new order. Numeric fields arrive as
// strings and are parsed at submit time; non-numeric input falls back to 0.
type OrderForm struct {
	CustomerName   string `json:"customer_name"`
	CustomerPhone  string `json:"customer_phone"`
	Items          string `json:"items,omitempty"`
	Measurements   string `json:"measurements,omitempty"`
	Price          string `json:"price,omitempty"`
	AdvancePayment string `json:"advance_payment,omitempty"`
	DeliveryDate   string `json:"delivery_date,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

type ExtendDeliveryDateRequest struct {
	DeliveryDate string `json:"delivery_date"`
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ShopName string `json:"shop_name"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
