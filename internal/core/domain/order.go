package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// validTransitions defines the allowed lifecycle transitions. Cancellation is
// allowed until the order is out for delivery.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrOrderNotFound = errors.New("order not found")
var ErrEmptyCart = errors.New("cart is empty")

// CanTransitionTo reports whether a transition from the current status to
// next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Final reports whether the status ends the lifecycle.
func (s OrderStatus) Final() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CartItem is one line in the cart: a material, the service it belongs to,
// and a positive quantity. At most one line exists per (MaterialID,
// ServiceID) pair; repeated adds increment the quantity.
type CartItem struct {
	MaterialID string    `json:"material_id"`
	ServiceID  string    `json:"service_id"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit,omitempty"`
	UnitPrice  float64   `json:"unit_price"`
	ImageRef   string    `json:"image_ref,omitempty"`
	Quantity   int       `json:"quantity"`
	AddedAt    time.Time `json:"added_at"`
}

// LineTotal returns the extended price for this line.
func (i CartItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Order is an immutable checkout snapshot of the cart. Only Status changes
// after creation, and only through the lifecycle transitions above.
type Order struct {
	ID                string      `json:"id"`
	Items             []CartItem  `json:"items"`
	Total             float64     `json:"total"`
	DeliveryFee       float64     `json:"delivery_fee"`
	Address           string      `json:"address"`
	PaymentMethod     string      `json:"payment_method"`
	Status            OrderStatus `json:"status"`
	EstimatedDelivery string      `json:"estimated_delivery"`
	CreatedAt         time.Time   `json:"created_at"`
}

// GrandTotal returns the item total plus the delivery fee.
func (o Order) GrandTotal() float64 {
	return o.Total + o.DeliveryFee
}
