package sync

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"tillsync/internal/domain"
	"tillsync/internal/observe"
)

type orderBackend interface {
	CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error)
}

type orderStore interface {
	SaveOrder(ctx context.Context, order domain.Order) (int64, error)
	PendingSyncOrders(ctx context.Context) ([]domain.Order, error)
	PendingSyncOrderCount(ctx context.Context) (int64, error)
	UpdateOrderStatus(ctx context.Context, localID int64, status domain.OrderStatus) error
	UpdateOrderRemote(ctx context.Context, localID, remoteID int64, number string) error
}

// OrderSyncManager persists orders locally first and owns the durable
// pending-order queue.
type OrderSyncManager struct {
	backend orderBackend
	store   orderStore
	logger  *log.Logger
	pending *observe.Value[int64]
}

func NewOrderSyncManager(b orderBackend, store orderStore, logger *log.Logger) *OrderSyncManager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &OrderSyncManager{
		backend: b,
		store:   store,
		logger:  logger,
		pending: observe.NewValue(int64(0)),
	}
}

// PendingOrderCount returns the latest published count of unsynced orders.
func (m *OrderSyncManager) PendingOrderCount() int64 {
	return m.pending.Get()
}

// ObservePendingOrderCount subscribes to the pending count; it drives the
// unsynced badge in the till UI.
func (m *OrderSyncManager) ObservePendingOrderCount(fn func(int64)) func() {
	return m.pending.Subscribe(fn)
}

// SubmitOrder durably records the order locally, then attempts an immediate
// push. The local save must succeed before any network attempt: if it fails,
// the error propagates and no push happens. A failed push is logged only: the
// order stays PENDING_SYNC and the local id is still returned, because the
// sale is already recorded.
func (m *OrderSyncManager) SubmitOrder(ctx context.Context, draft domain.OrderDraft, currency string) (int64, error) {
	total := domain.Zero(currency)
	for _, line := range draft.LineItems {
		total = total.Add(line.TotalPrice)
	}

	localOrder := domain.Order{
		Status:         domain.OrderPendingSync,
		LineItems:      draft.LineItems,
		CustomerID:     draft.CustomerID,
		Total:          total,
		TotalTax:       domain.Zero(currency), // backend fills in the real tax
		PaymentMethod:  draft.PaymentMethod,
		IdempotencyKey: draft.IdempotencyKey,
		Note:           draft.Note,
		CouponCodes:    draft.CouponCodes,
		CreatedAt:      time.Now().UTC(),
	}

	localID, err := m.store.SaveOrder(ctx, localOrder)
	if err != nil {
		return 0, fmt.Errorf("save order: %w", err)
	}
	m.logger.Printf("sync: order saved locally id=%d key=%s", localID, draft.IdempotencyKey)
	m.refreshPendingCount(ctx)

	remote, err := m.backend.CreateOrder(ctx, draft)
	if err != nil {
		m.logger.Printf("sync: order push failed (will retry): %v", err)
		return localID, nil
	}
	if err := m.markSynced(ctx, localID, remote); err != nil {
		m.logger.Printf("sync: order %d pushed but local update failed: %v", localID, err)
		return localID, nil
	}
	m.refreshPendingCount(ctx)

	return localID, nil
}

// DrainPendingOrders pushes the backlog strictly FIFO by creation time,
// reusing each order's stored idempotency key so the backend can deduplicate
// retries. The first failure stops the drain; nothing is skipped or
// reordered around a stuck order.
func (m *OrderSyncManager) DrainPendingOrders(ctx context.Context) error {
	pending, err := m.store.PendingSyncOrders(ctx)
	if err != nil {
		return fmt.Errorf("load pending orders: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}
	m.logger.Printf("sync: draining %d pending orders", len(pending))

	for _, order := range pending {
		remote, err := m.backend.CreateOrder(ctx, draftFromOrder(order))
		if err != nil {
			m.logger.Printf("sync: drain stopped at order %d: %v", order.LocalID, err)
			m.refreshPendingCount(ctx)
			return fmt.Errorf("push order %d: %w", order.LocalID, err)
		}
		if err := m.markSynced(ctx, order.LocalID, remote); err != nil {
			m.refreshPendingCount(ctx)
			return err
		}
		m.logger.Printf("sync: pending order synced local=%d remote=%d", order.LocalID, remote.RemoteID)
	}
	m.refreshPendingCount(ctx)
	return nil
}

func (m *OrderSyncManager) markSynced(ctx context.Context, localID int64, remote *domain.Order) error {
	if err := m.store.UpdateOrderRemote(ctx, localID, remote.RemoteID, remote.Number); err != nil {
		return fmt.Errorf("update order %d remote id: %w", localID, err)
	}
	if err := m.store.UpdateOrderStatus(ctx, localID, domain.OrderProcessing); err != nil {
		return fmt.Errorf("update order %d status: %w", localID, err)
	}
	return nil
}

func (m *OrderSyncManager) refreshPendingCount(ctx context.Context) {
	count, err := m.store.PendingSyncOrderCount(ctx)
	if err != nil {
		m.logger.Printf("sync: pending count refresh failed: %v", err)
		return
	}
	m.pending.Set(count)
}

func draftFromOrder(order domain.Order) domain.OrderDraft {
	return domain.OrderDraft{
		LineItems:      order.LineItems,
		CustomerID:     order.CustomerID,
		PaymentMethod:  order.PaymentMethod,
		IdempotencyKey: order.IdempotencyKey,
		Note:           order.Note,
		CouponCodes:    order.CouponCodes,
	}
}
