package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/craftlink/marketplace-core/internal/core/domain"
	"github.com/craftlink/marketplace-core/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Shared in-memory stubs
// ---------------------------------------------------------------------------

// stubStore is a map-backed SnapshotStore used for rehydration tests.
type stubStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newStubStore() *stubStore {
	return &stubStore{data: make(map[string][]byte)}
}

func (st *stubStore) Save(_ context.Context, key string, data []byte) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.data[key] = data
	return nil
}

func (st *stubStore) Load(_ context.Context, key string) ([]byte, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	data, ok := st.data[key]
	if !ok {
		return nil, ports.ErrSnapshotNotFound
	}
	return data, nil
}

func (st *stubStore) Delete(_ context.Context, key string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.data, key)
	return nil
}

// stubWriter applies writes synchronously so tests can inspect the latest
// snapshot bytes per key.
type stubWriter struct {
	mu       sync.Mutex
	snapshot map[string][]byte
	writes   int
}

func newStubWriter() *stubWriter {
	return &stubWriter{snapshot: make(map[string][]byte)}
}

func (w *stubWriter) Enqueue(key string, data []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snapshot[key] = data
	w.writes++
}

func (w *stubWriter) get(key string) []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot[key]
}

// stubNavigator records the routes navigated to.
type stubNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *stubNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *stubNavigator) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}

var discardLogger = zerolog.Nop()

func newCart(t *testing.T) (*CartService, *stubWriter) {
	t.Helper()
	w := newStubWriter()
	return NewCartService(context.Background(), newStubStore(), w, nil, discardLogger), w
}

func material(id string, price float64) domain.Material {
	return domain.Material{ID: id, Name: "material " + id, Unit: "piece", UnitPrice: price}
}

// ---------------------------------------------------------------------------
// Line item tests
// ---------------------------------------------------------------------------

func TestCartService_AddItem_MergesOnMaterialAndService(t *testing.T) {
	svc, _ := newCart(t)

	svc.AddItem(material("7", 100), "2", 1)
	svc.AddItem(material("7", 100), "2", 3)

	items := svc.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", items[0].Quantity)
	}
}

func TestCartService_AddItem_SameMaterialDifferentService(t *testing.T) {
	svc, _ := newCart(t)

	svc.AddItem(material("7", 100), "2", 1)
	svc.AddItem(material("7", 100), "9", 1)

	if got := len(svc.Items()); got != 2 {
		t.Fatalf("expected 2 lines, got %d", got)
	}
}

func TestCartService_AddItem_DefaultsQuantityToOne(t *testing.T) {
	svc, _ := newCart(t)

	svc.AddItem(material("7", 100), "2", 0)

	items := svc.Items()
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected one line with quantity 1, got %+v", items)
	}
}

func TestCartService_UpdateQuantity_ZeroRemovesLine(t *testing.T) {
	svc, _ := newCart(t)

	svc.AddItem(material("7", 100), "2", 2)
	svc.UpdateQuantity("7", "2", 0)

	if got := len(svc.Items()); got != 0 {
		t.Fatalf("expected empty cart, got %d lines", got)
	}
}

func TestCartService_UpdateQuantity_ReplacesQuantity(t *testing.T) {
	svc, _ := newCart(t)

	svc.AddItem(material("7", 100), "2", 2)
	svc.UpdateQuantity("7", "2", 5)

	if got := svc.Items()[0].Quantity; got != 5 {
		t.Errorf("expected quantity 5, got %d", got)
	}
}

func TestCartService_RemoveItem_NonExistentIsNoOp(t *testing.T) {
	svc, _ := newCart(t)

	svc.AddItem(material("7", 100), "2", 1)
	svc.RemoveItem("no_such", "2")

	if got := len(svc.Items()); got != 1 {
		t.Fatalf("expected 1 line, got %d", got)
	}
}

func TestCartService_Totals(t *testing.T) {
	svc, _ := newCart(t)

	svc.AddItem(material("a", 100), "1", 2)
	svc.AddItem(material("b", 50), "1", 1)

	if got := svc.Subtotal(); got != 250 {
		t.Errorf("subtotal: got %v, want 250", got)
	}
	if got := svc.ItemCount(); got != 3 {
		t.Errorf("item count: got %d, want 3", got)
	}
}

func TestCartService_ClearCart(t *testing.T) {
	svc, _ := newCart(t)

	svc.AddItem(material("a", 100), "1", 2)
	svc.ClearCart()

	if got := len(svc.Items()); got != 0 {
		t.Fatalf("expected empty cart, got %d lines", got)
	}
	if got := svc.Subtotal(); got != 0 {
		t.Errorf("subtotal after clear: got %v, want 0", got)
	}
}

// ---------------------------------------------------------------------------
// Order tests
// ---------------------------------------------------------------------------

func checkoutInput() ports.CreateOrderInput {
	return ports.CreateOrderInput{Address: "123 St", PaymentMethod: "cod", DeliveryFee: 50}
}

func TestCartService_CreateOrder_SnapshotsCartAndClearsIt(t *testing.T) {
	svc, _ := newCart(t)

	svc.AddItem(material("a", 100), "1", 2)
	svc.AddItem(material("b", 50), "1", 1)

	order, err := svc.CreateOrder(context.Background(), checkoutInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Total != 250 {
		t.Errorf("order total: got %v, want 250", order.Total)
	}
	if order.DeliveryFee != 50 {
		t.Errorf("delivery fee: got %v, want 50", order.DeliveryFee)
	}
	if order.Status != domain.StatusPending {
		t.Errorf("status: got %q, want %q", order.Status, domain.StatusPending)
	}
	if !strings.HasPrefix(order.ID, "ORD-") {
		t.Errorf("order id format wrong: %s", order.ID)
	}
	if order.EstimatedDelivery == "" {
		t.Error("estimated delivery must not be empty")
	}
	if len(order.Items) != 2 {
		t.Errorf("expected 2 snapshotted lines, got %d", len(order.Items))
	}
	if got := len(svc.Items()); got != 0 {
		t.Errorf("cart must be empty after checkout, got %d lines", got)
	}
}

func TestCartService_CreateOrder_EmptyCart(t *testing.T) {
	svc, _ := newCart(t)

	_, err := svc.CreateOrder(context.Background(), checkoutInput())
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCartService_CreateOrder_PrependsNewestFirst(t *testing.T) {
	svc, _ := newCart(t)

	svc.AddItem(material("a", 100), "1", 1)
	first, _ := svc.CreateOrder(context.Background(), checkoutInput())
	svc.AddItem(material("b", 50), "1", 1)
	second, _ := svc.CreateOrder(context.Background(), checkoutInput())

	orders := svc.Orders()
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Error("orders must be listed newest first")
	}
}

func TestCartService_CreateOrder_NavigatesToOrders(t *testing.T) {
	nav := &stubNavigator{}
	svc := NewCartService(context.Background(), newStubStore(), newStubWriter(), nav, discardLogger)

	svc.AddItem(material("a", 100), "1", 1)
	if _, err := svc.CreateOrder(context.Background(), checkoutInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if nav.last() != ports.RouteOrders {
		t.Errorf("expected navigation to %s, got %q", ports.RouteOrders, nav.last())
	}
}

func TestCartService_UpdateOrderStatus_ForwardOnly(t *testing.T) {
	svc, _ := newCart(t)

	svc.AddItem(material("a", 100), "1", 1)
	order, _ := svc.CreateOrder(context.Background(), checkoutInput())

	for _, status := range []domain.OrderStatus{
		domain.StatusConfirmed,
		domain.StatusPreparing,
		domain.StatusOutForDelivery,
		domain.StatusDelivered,
	} {
		if err := svc.UpdateOrderStatus(order.ID, status); err != nil {
			t.Fatalf("transition to %s: unexpected error: %v", status, err)
		}
	}

	// Delivered is terminal.
	err := svc.UpdateOrderStatus(order.ID, domain.StatusPending)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCartService_UpdateOrderStatus_RejectsSkippingStates(t *testing.T) {
	svc, _ := newCart(t)

	svc.AddItem(material("a", 100), "1", 1)
	order, _ := svc.CreateOrder(context.Background(), checkoutInput())

	err := svc.UpdateOrderStatus(order.ID, domain.StatusDelivered)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	stored, _ := svc.OrderByID(order.ID)
	if stored.Status != domain.StatusPending {
		t.Errorf("rejected transition must not mutate status, got %q", stored.Status)
	}
}

func TestCartService_UpdateOrderStatus_UnknownOrder(t *testing.T) {
	svc, _ := newCart(t)

	err := svc.UpdateOrderStatus("ORD-missing", domain.StatusConfirmed)
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestCartService_OrderBuckets(t *testing.T) {
	svc, _ := newCart(t)

	svc.AddItem(material("a", 100), "1", 1)
	active, _ := svc.CreateOrder(context.Background(), checkoutInput())
	svc.AddItem(material("b", 50), "1", 1)
	done, _ := svc.CreateOrder(context.Background(), checkoutInput())

	if err := svc.UpdateOrderStatus(done.ID, domain.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if got := svc.ActiveOrders(); len(got) != 1 || got[0].ID != active.ID {
		t.Errorf("active bucket wrong: %+v", got)
	}
	if got := svc.CompletedOrders(); len(got) != 1 || got[0].ID != done.ID {
		t.Errorf("completed bucket wrong: %+v", got)
	}
}

// ---------------------------------------------------------------------------
// Persistence round-trip
// ---------------------------------------------------------------------------

func TestCartService_RehydratesFromSnapshots(t *testing.T) {
	writer := newStubWriter()
	svc := NewCartService(context.Background(), newStubStore(), writer, nil, discardLogger)

	svc.AddItem(material("7", 120), "2", 3)
	svc.AddItem(material("8", 60), "2", 1)
	order, _ := svc.CreateOrder(context.Background(), checkoutInput())
	svc.AddItem(material("9", 10), "3", 2)

	// Feed the written snapshots back through a store, as a process restart
	// would.
	store := newStubStore()
	_ = store.Save(context.Background(), ports.SnapshotCart, writer.get(ports.SnapshotCart))
	_ = store.Save(context.Background(), ports.SnapshotOrders, writer.get(ports.SnapshotOrders))

	restored := NewCartService(context.Background(), store, newStubWriter(), nil, discardLogger)

	if got := restored.ItemCount(); got != 2 {
		t.Errorf("restored item count: got %d, want 2", got)
	}
	orders := restored.Orders()
	if len(orders) != 1 {
		t.Fatalf("expected 1 restored order, got %d", len(orders))
	}
	if orders[0].ID != order.ID {
		t.Errorf("restored order id: got %s, want %s", orders[0].ID, order.ID)
	}
	if orders[0].CreatedAt.IsZero() {
		t.Error("restored order timestamp must round-trip")
	}
	if orders[0].Total != 420 {
		t.Errorf("restored order total: got %v, want 420", orders[0].Total)
	}
}

func TestCartService_CorruptSnapshotStartsEmpty(t *testing.T) {
	store := newStubStore()
	_ = store.Save(context.Background(), ports.SnapshotCart, []byte("{not json"))

	svc := NewCartService(context.Background(), store, newStubWriter(), nil, discardLogger)
	if got := len(svc.Items()); got != 0 {
		t.Fatalf("corrupt snapshot must yield empty cart, got %d lines", got)
	}
}
