package sync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tillsync/internal/domain"
)

type fakeOrderBackend struct {
	mu      sync.Mutex
	results []error // nil entry means success
	calls   []domain.OrderDraft
	remote  domain.Order
}

func (f *fakeOrderBackend) CreateOrder(_ context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.calls)
	f.calls = append(f.calls, draft)
	var err error
	if idx < len(f.results) {
		err = f.results[idx]
	}
	if err != nil {
		return nil, err
	}
	remote := f.remote
	return &remote, nil
}

func (f *fakeOrderBackend) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeOrderStore struct {
	mu            sync.Mutex
	orders        []domain.Order
	saveErr       error
	nextID        int64
	statusUpdates map[int64]domain.OrderStatus
	remoteUpdates map[int64]int64
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		statusUpdates: map[int64]domain.OrderStatus{},
		remoteUpdates: map[int64]int64{},
	}
}

func (f *fakeOrderStore) SaveOrder(_ context.Context, order domain.Order) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.nextID++
	order.LocalID = f.nextID
	f.orders = append(f.orders, order)
	return order.LocalID, nil
}

func (f *fakeOrderStore) PendingSyncOrders(_ context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pending []domain.Order
	for _, order := range f.orders {
		status := order.Status
		if updated, ok := f.statusUpdates[order.LocalID]; ok {
			status = updated
		}
		if status == domain.OrderPendingSync {
			pending = append(pending, order)
		}
	}
	return pending, nil
}

func (f *fakeOrderStore) PendingSyncOrderCount(ctx context.Context) (int64, error) {
	pending, err := f.PendingSyncOrders(ctx)
	return int64(len(pending)), err
}

func (f *fakeOrderStore) UpdateOrderStatus(_ context.Context, localID int64, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusUpdates[localID] = status
	return nil
}

func (f *fakeOrderStore) UpdateOrderRemote(_ context.Context, localID, remoteID int64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remoteUpdates[localID] = remoteID
	return nil
}

func (f *fakeOrderStore) statusOf(localID int64) domain.OrderStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusUpdates[localID]
}

func sampleDraft(key string) domain.OrderDraft {
	return domain.OrderDraft{
		LineItems: []domain.LineItem{{
			ProductID:  1,
			Name:       "Widget",
			Quantity:   2,
			UnitPrice:  domain.Money{AmountCents: 1000, Currency: "USD"},
			TotalPrice: domain.Money{AmountCents: 2000, Currency: "USD"},
		}},
		PaymentMethod:  domain.PaymentCash,
		IdempotencyKey: key,
		CouponCodes:    []string{"SAVE10"},
	}
}

func pendingOrder(localID int64, key string, createdAt time.Time) domain.Order {
	return domain.Order{
		LocalID:        localID,
		Status:         domain.OrderPendingSync,
		LineItems:      sampleDraft(key).LineItems,
		Total:          domain.Money{AmountCents: 2000, Currency: "USD"},
		TotalTax:       domain.Zero("USD"),
		PaymentMethod:  domain.PaymentCash,
		IdempotencyKey: key,
		CreatedAt:      createdAt,
	}
}

func TestSubmitOrderSuccessMarksProcessing(t *testing.T) {
	b := &fakeOrderBackend{remote: domain.Order{RemoteID: 500, Number: "WC-500"}}
	s := newFakeOrderStore()
	m := NewOrderSyncManager(b, s, nil)

	localID, err := m.SubmitOrder(context.Background(), sampleDraft("key-1"), "USD")
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if localID != 1 {
		t.Fatalf("expected local id 1, got %d", localID)
	}
	if s.remoteUpdates[1] != 500 {
		t.Fatalf("expected remote id recorded, got %v", s.remoteUpdates)
	}
	if s.statusUpdates[1] != domain.OrderProcessing {
		t.Fatalf("expected PROCESSING, got %v", s.statusUpdates[1])
	}
}

func TestSubmitOrderComputesTotalFromLines(t *testing.T) {
	b := &fakeOrderBackend{results: []error{errors.New("offline")}}
	s := newFakeOrderStore()
	m := NewOrderSyncManager(b, s, nil)

	if _, err := m.SubmitOrder(context.Background(), sampleDraft("key-1"), "USD"); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	saved := s.orders[0]
	if saved.Total.AmountCents != 2000 || saved.Total.Currency != "USD" {
		t.Fatalf("unexpected total %+v", saved.Total)
	}
	if saved.TotalTax.AmountCents != 0 {
		t.Fatalf("local tax must stay zero, got %+v", saved.TotalTax)
	}
}

func TestSubmitOrderBackendFailureKeepsPendingSync(t *testing.T) {
	b := &fakeOrderBackend{results: []error{errors.New("network down")}}
	s := newFakeOrderStore()
	m := NewOrderSyncManager(b, s, nil)

	localID, err := m.SubmitOrder(context.Background(), sampleDraft("key-1"), "USD")
	if err != nil {
		t.Fatalf("network failure must not surface: %v", err)
	}
	if localID != 1 {
		t.Fatalf("expected valid local id, got %d", localID)
	}
	if len(s.orders) != 1 || s.orders[0].Status != domain.OrderPendingSync {
		t.Fatalf("expected one PENDING_SYNC order, got %+v", s.orders)
	}
	if s.orders[0].IdempotencyKey != "key-1" {
		t.Fatalf("idempotency key must be stored unchanged")
	}
	if len(s.statusUpdates) != 0 || len(s.remoteUpdates) != 0 {
		t.Fatalf("no updates expected after failed push")
	}
	if m.PendingOrderCount() != 1 {
		t.Fatalf("expected pending count 1, got %d", m.PendingOrderCount())
	}
}

func TestSubmitOrderSaveFailurePropagates(t *testing.T) {
	b := &fakeOrderBackend{}
	s := newFakeOrderStore()
	s.saveErr = errors.New("disk full")
	m := NewOrderSyncManager(b, s, nil)

	if _, err := m.SubmitOrder(context.Background(), sampleDraft("key-1"), "USD"); err == nil {
		t.Fatalf("expected save error to propagate")
	}
	if len(b.calls) != 0 {
		t.Fatalf("no push may happen when the local save fails")
	}
}

func TestDrainEmptyQueueDoesNothing(t *testing.T) {
	b := &fakeOrderBackend{}
	s := newFakeOrderStore()
	m := NewOrderSyncManager(b, s, nil)

	if err := m.DrainPendingOrders(context.Background()); err != nil {
		t.Fatalf("DrainPendingOrders: %v", err)
	}
	if len(b.calls) != 0 {
		t.Fatalf("expected no pushes for empty queue")
	}
}

func TestDrainPushesFIFOWithStoredKeys(t *testing.T) {
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	s := newFakeOrderStore()
	s.orders = []domain.Order{
		pendingOrder(1, "key-1", base),
		pendingOrder(2, "key-2", base.Add(time.Minute)),
	}
	s.nextID = 2
	b := &fakeOrderBackend{remote: domain.Order{RemoteID: 500, Number: "WC-500"}}
	m := NewOrderSyncManager(b, s, nil)

	if err := m.DrainPendingOrders(context.Background()); err != nil {
		t.Fatalf("DrainPendingOrders: %v", err)
	}
	if len(b.calls) != 2 {
		t.Fatalf("expected 2 pushes, got %d", len(b.calls))
	}
	if b.calls[0].IdempotencyKey != "key-1" || b.calls[1].IdempotencyKey != "key-2" {
		t.Fatalf("drain must reuse stored keys in FIFO order, got %+v", b.calls)
	}
	if s.statusUpdates[1] != domain.OrderProcessing || s.statusUpdates[2] != domain.OrderProcessing {
		t.Fatalf("expected both orders PROCESSING, got %v", s.statusUpdates)
	}
	if m.PendingOrderCount() != 0 {
		t.Fatalf("expected drained queue, count %d", m.PendingOrderCount())
	}
}

func TestDrainStopsOnFirstFailureWithoutSkipping(t *testing.T) {
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	s := newFakeOrderStore()
	s.orders = []domain.Order{
		pendingOrder(1, "key-1", base),
		pendingOrder(2, "key-2", base.Add(time.Minute)),
		pendingOrder(3, "key-3", base.Add(2*time.Minute)),
	}
	s.nextID = 3
	b := &fakeOrderBackend{
		remote:  domain.Order{RemoteID: 500, Number: "WC-500"},
		results: []error{nil, errors.New("server error")},
	}
	m := NewOrderSyncManager(b, s, nil)

	if err := m.DrainPendingOrders(context.Background()); err == nil {
		t.Fatalf("expected drain to report the failure")
	}
	if len(b.calls) != 2 {
		t.Fatalf("drain must stop at the failed order, got %d pushes", len(b.calls))
	}
	if s.statusUpdates[1] != domain.OrderProcessing {
		t.Fatalf("first order should be PROCESSING")
	}
	if _, ok := s.statusUpdates[2]; ok {
		t.Fatalf("failed order must stay PENDING_SYNC")
	}
	if _, ok := s.statusUpdates[3]; ok {
		t.Fatalf("orders behind the failure must not be skipped ahead")
	}
	if m.PendingOrderCount() != 2 {
		t.Fatalf("expected 2 still pending, got %d", m.PendingOrderCount())
	}
}
