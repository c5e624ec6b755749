package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/craftlink/marketplace-core/internal/core/domain"
	"github.com/craftlink/marketplace-core/internal/core/ports"
	"github.com/craftlink/marketplace-core/internal/metrics"
)

// CartService owns the cart line items and the local order ledger. Both
// collections are persisted wholesale after every mutation via the
// write-behind path; in-memory state is authoritative.
type CartService struct {
	mu     sync.Mutex
	items  []domain.CartItem
	orders []domain.Order // newest first

	writer ports.SnapshotWriter
	nav    ports.Navigator
	log    zerolog.Logger
}

var _ ports.CartService = (*CartService)(nil)

// NewCartService builds the ledger and rehydrates both snapshots. Missing or
// unreadable snapshots yield empty collections; failures are logged, never
// fatal. nav may be nil.
func NewCartService(ctx context.Context, store ports.SnapshotStore, writer ports.SnapshotWriter, nav ports.Navigator, log zerolog.Logger) *CartService {
	s := &CartService{writer: writer, nav: nav, log: log}

	if data, err := store.Load(ctx, ports.SnapshotCart); err == nil {
		if err := json.Unmarshal(data, &s.items); err != nil {
			log.Warn().Err(err).Msg("cart snapshot corrupt, starting empty")
			s.items = nil
		}
	} else if !errors.Is(err, ports.ErrSnapshotNotFound) {
		log.Warn().Err(err).Msg("cart snapshot unreadable, starting empty")
	}

	if data, err := store.Load(ctx, ports.SnapshotOrders); err == nil {
		if err := json.Unmarshal(data, &s.orders); err != nil {
			log.Warn().Err(err).Msg("orders snapshot corrupt, starting empty")
			s.orders = nil
		}
	} else if !errors.Is(err, ports.ErrSnapshotNotFound) {
		log.Warn().Err(err).Msg("orders snapshot unreadable, starting empty")
	}

	return s
}

// Items returns a copy of the current line items.
func (s *CartService) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// AddItem merges on the (material.ID, serviceID) pair: an existing line's
// quantity is incremented by quantity, otherwise a new line is appended.
func (s *CartService) AddItem(material domain.Material, serviceID string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.findLocked(material.ID, serviceID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, domain.CartItem{
			MaterialID: material.ID,
			ServiceID:  serviceID,
			Name:       material.Name,
			Unit:       material.Unit,
			UnitPrice:  material.UnitPrice,
			ImageRef:   material.ImageRef,
			Quantity:   quantity,
			AddedAt:    time.Now(),
		})
	}

	metrics.CartMutationsTotal.WithLabelValues("add").Inc()
	s.persistCartLocked()
}

// RemoveItem drops the exact matching line; a non-existent line is a no-op.
func (s *CartService) RemoveItem(materialID, serviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(materialID, serviceID)
	metrics.CartMutationsTotal.WithLabelValues("remove").Inc()
	s.persistCartLocked()
}

// UpdateQuantity replaces the matching line's quantity. A quantity of zero
// or below removes the line entirely.
func (s *CartService) UpdateQuantity(materialID, serviceID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(materialID, serviceID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findLocked(materialID, serviceID); i >= 0 {
		s.items[i].Quantity = quantity
	}
	metrics.CartMutationsTotal.WithLabelValues("update_quantity").Inc()
	s.persistCartLocked()
}

// ClearCart empties the line list.
func (s *CartService) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	metrics.CartMutationsTotal.WithLabelValues("clear").Inc()
	s.persistCartLocked()
}

// Subtotal sums unit price times quantity over all lines. Recomputed on
// every call, no caching.
func (s *CartService) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked()
}

// ItemCount sums quantities over all lines.
func (s *CartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, it := range s.items {
		count += it.Quantity
	}
	return count
}

// CreateOrder snapshots the current cart into an immutable pending order,
// prepends it to the ledger, and clears the cart.
func (s *CartService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return nil, domain.ErrEmptyCart
	}

	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)

	now := time.Now()
	order := domain.Order{
		ID:                generateOrderID(now),
		Items:             items,
		Total:             s.subtotalLocked(),
		DeliveryFee:       input.DeliveryFee,
		Address:           input.Address,
		PaymentMethod:     input.PaymentMethod,
		Status:            domain.StatusPending,
		EstimatedDelivery: deliveryEstimate(now),
		CreatedAt:         now,
	}

	s.orders = append([]domain.Order{order}, s.orders...)
	s.items = nil
	s.persistOrdersLocked()
	s.persistCartLocked()
	s.mu.Unlock()

	metrics.OrdersCreatedTotal.WithLabelValues(input.PaymentMethod).Inc()
	s.log.Info().
		Str("order_id", order.ID).
		Float64("total", order.Total).
		Str("payment_method", input.PaymentMethod).
		Msg("order created")
	if s.nav != nil {
		s.nav.Navigate(ports.RouteOrders)
	}

	return &order, nil
}

// UpdateOrderStatus advances the matching order through the lifecycle.
// Illegal transitions are rejected with domain.ErrInvalidTransition.
func (s *CartService) UpdateOrderStatus(orderID string, status domain.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}
		if !s.orders[i].Status.CanTransitionTo(status) {
			return fmt.Errorf("order %s: %w (from %s to %s)", orderID, domain.ErrInvalidTransition, s.orders[i].Status, status)
		}
		s.orders[i].Status = status
		s.persistOrdersLocked()
		metrics.OrderStatusUpdatesTotal.WithLabelValues(string(status)).Inc()
		s.log.Info().Str("order_id", orderID).Str("status", string(status)).Msg("order status updated")
		return nil
	}
	return domain.ErrOrderNotFound
}

// Orders returns a copy of the ledger, newest first.
func (s *CartService) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *CartService) OrderByID(id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			clone := s.orders[i]
			return &clone, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

// ActiveOrders returns orders still moving through the lifecycle.
func (s *CartService) ActiveOrders() []domain.Order {
	return s.filterOrders(func(o domain.Order) bool { return !o.Status.Final() })
}

// CompletedOrders returns delivered and cancelled orders.
func (s *CartService) CompletedOrders() []domain.Order {
	return s.filterOrders(func(o domain.Order) bool { return o.Status.Final() })
}

func (s *CartService) filterOrders(keep func(domain.Order) bool) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

func (s *CartService) findLocked(materialID, serviceID string) int {
	for i, it := range s.items {
		if it.MaterialID == materialID && it.ServiceID == serviceID {
			return i
		}
	}
	return -1
}

func (s *CartService) removeLocked(materialID, serviceID string) {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.MaterialID == materialID && it.ServiceID == serviceID {
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
}

func (s *CartService) subtotalLocked() float64 {
	total := 0.0
	for _, it := range s.items {
		total += it.LineTotal()
	}
	return total
}

func (s *CartService) persistCartLocked() {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.log.Error().Err(err).Msg("cart snapshot encode failed")
		return
	}
	s.writer.Enqueue(ports.SnapshotCart, data)
}

func (s *CartService) persistOrdersLocked() {
	data, err := json.Marshal(s.orders)
	if err != nil {
		s.log.Error().Err(err).Msg("orders snapshot encode failed")
		return
	}
	s.writer.Enqueue(ports.SnapshotOrders, data)
}

// generateOrderID returns an id in the format ORD-<unix_millis>-<hex>.
// Uniqueness is probabilistic, not guaranteed.
func generateOrderID(now time.Time) string {
	b := make([]byte, 2)
	if _, err := rand.Read(b); err != nil {
		// fallback: reuse the low nanoseconds
		return fmt.Sprintf("ORD-%d-%04X", now.UnixMilli(), now.UnixNano()&0xFFFF)
	}
	return fmt.Sprintf("ORD-%d-%04X", now.UnixMilli(), b)
}

// deliveryEstimate renders the fixed "+2 days" estimate as a human-readable
// date string.
func deliveryEstimate(from time.Time) string {
	return from.AddDate(0, 0, 2).Format("Monday, Jan 2")
}
