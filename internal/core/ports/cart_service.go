package ports

import (
	"context"

	"github.com/craftlink/marketplace-core/internal/core/domain"
)

// CreateOrderInput carries the checkout parameters supplied by the caller.
type CreateOrderInput struct {
	Address       string
	PaymentMethod string
	DeliveryFee   float64
}

// CartService owns the cart line items and the local order ledger. Subtotal
// and ItemCount are derived reads recomputed on every call.
type CartService interface {
	Items() []domain.CartItem
	// AddItem merges on (material.ID, serviceID): an existing line's
	// quantity is incremented, otherwise a new line is appended. Quantities
	// below 1 are treated as 1.
	AddItem(material domain.Material, serviceID string, quantity int)
	RemoveItem(materialID, serviceID string)
	// UpdateQuantity replaces the matching line's quantity; zero or negative
	// removes the line.
	UpdateQuantity(materialID, serviceID string, quantity int)
	ClearCart()

	Subtotal() float64
	ItemCount() int

	// CreateOrder snapshots the current cart into an immutable pending order
	// and clears the cart. An empty cart returns domain.ErrEmptyCart.
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	// UpdateOrderStatus advances the order through the forward-only
	// lifecycle; illegal transitions return domain.ErrInvalidTransition.
	UpdateOrderStatus(orderID string, status domain.OrderStatus) error

	Orders() []domain.Order
	OrderByID(id string) (*domain.Order, error)
	ActiveOrders() []domain.Order
	CompletedOrders() []domain.Order
}
