package cart

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tillsync/internal/domain"
	"tillsync/internal/observe"
)

type taxRateSource interface {
	TaxRates(ctx context.Context) ([]domain.TaxRate, error)
}

// Manager owns the in-memory cart for one till. Every mutation recomputes the
// full State from current fields and publishes it synchronously before the
// call returns; there is no incremental update path.
type Manager struct {
	rates    taxRateSource
	currency string
	logger   *log.Logger

	mu          sync.Mutex
	items       []Item
	couponCodes []string
	customerID  *int64
	note        *string
	cachedRates []domain.TaxRate

	state *observe.Value[State]
}

// NewManager builds a Manager and loads the cached tax rates from the local
// store. A failed initial load is logged and leaves the estimate at zero
// until the next RefreshTaxRates.
func NewManager(ctx context.Context, rates taxRateSource, currency string, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	m := &Manager{
		rates:    rates,
		currency: currency,
		logger:   logger,
		state:    observe.NewValue(emptyState(currency)),
	}
	if err := m.RefreshTaxRates(ctx); err != nil {
		logger.Printf("cart: initial tax rate load failed: %v", err)
	}
	return m
}

// State returns the latest published snapshot.
func (m *Manager) State() State {
	return m.state.Get()
}

// Observe subscribes to state snapshots. The current state is delivered
// immediately; the returned func cancels the subscription.
func (m *Manager) Observe(fn func(State)) func() {
	return m.state.Subscribe(fn)
}

// AddProduct adds one unit of the product (or one of its variants) to the
// cart, merging into an existing line with the same (product, variant) key.
func (m *Manager) AddProduct(product domain.Product, variant *domain.ProductVariant) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var newItem Item
	if variant != nil {
		newItem = itemFromVariant(product, *variant)
	} else {
		newItem = itemFromProduct(product)
	}

	for i, existing := range m.items {
		if existing.matches(newItem.ProductID, newItem.VariantID) {
			m.items[i].Quantity++
			m.publishLocked()
			return
		}
	}
	m.items = append(m.items, newItem)
	m.publishLocked()
}

// RemoveItem drops all lines matching the (product, variant) key.
func (m *Manager) RemoveItem(productID int64, variantID *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(productID, variantID)
	m.publishLocked()
}

// UpdateQuantity sets a line's quantity in place; a quantity of zero or less
// removes the line.
func (m *Manager) UpdateQuantity(productID int64, variantID *int64, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if quantity <= 0 {
		m.removeLocked(productID, variantID)
		m.publishLocked()
		return
	}
	for i, item := range m.items {
		if item.matches(productID, variantID) {
			m.items[i].Quantity = quantity
			m.publishLocked()
			return
		}
	}
}

// ApplyCoupon normalizes and appends a coupon code. Blank codes and
// case-insensitive duplicates are no-ops.
func (m *Manager) ApplyCoupon(code string) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.couponCodes {
		if strings.EqualFold(existing, normalized) {
			return
		}
	}
	m.couponCodes = append(m.couponCodes, normalized)
	m.publishLocked()
}

// RemoveCoupon removes a coupon by case-insensitive match.
func (m *Manager) RemoveCoupon(code string) {
	trimmed := strings.TrimSpace(code)

	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.couponCodes[:0]
	for _, existing := range m.couponCodes {
		if !strings.EqualFold(existing, trimmed) {
			kept = append(kept, existing)
		}
	}
	m.couponCodes = kept
	m.publishLocked()
}

func (m *Manager) SetCustomer(customerID *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customerID = customerID
	m.publishLocked()
}

// SetNote stores the order note; blank input clears it.
func (m *Manager) SetNote(note string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		m.note = nil
	} else {
		m.note = &note
	}
	m.publishLocked()
}

// Clear empties items, coupons, customer and note.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.couponCodes = nil
	m.customerID = nil
	m.note = nil
	m.publishLocked()
}

// BuildOrderDraft snapshots the cart as an immutable draft with a fresh
// idempotency key. Call it exactly once per checkout attempt: a second call
// gets a different key and the backend would see two distinct orders.
func (m *Manager) BuildOrderDraft(method domain.PaymentMethod) domain.OrderDraft {
	m.mu.Lock()
	defer m.mu.Unlock()

	lineItems := make([]domain.LineItem, 0, len(m.items))
	for _, item := range m.items {
		lineItems = append(lineItems, item.toLineItem())
	}
	return domain.OrderDraft{
		LineItems:      lineItems,
		CustomerID:     m.customerID,
		PaymentMethod:  method,
		IdempotencyKey: uuid.NewString(),
		Note:           m.note,
		CouponCodes:    append([]string(nil), m.couponCodes...),
	}
}

// RefreshTaxRates reloads the cached rates from the local store and
// republishes state with the new estimate.
func (m *Manager) RefreshTaxRates(ctx context.Context) error {
	rates, err := m.rates.TaxRates(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cachedRates = rates
	m.publishLocked()
	return nil
}

func (m *Manager) removeLocked(productID int64, variantID *int64) {
	kept := m.items[:0]
	for _, item := range m.items {
		if !item.matches(productID, variantID) {
			kept = append(kept, item)
		}
	}
	m.items = kept
}

func (m *Manager) publishLocked() {
	subtotal := domain.Zero(m.currency)
	itemCount := 0
	for _, item := range m.items {
		subtotal = subtotal.Add(item.TotalPrice())
		itemCount += item.Quantity
	}
	estimatedTax := EstimateTax(subtotal, m.cachedRates)

	m.state.Set(State{
		Items:          append([]Item{}, m.items...),
		CouponCodes:    append([]string{}, m.couponCodes...),
		CustomerID:     m.customerID,
		Note:           m.note,
		Currency:       m.currency,
		Subtotal:       subtotal,
		EstimatedTax:   estimatedTax,
		EstimatedTotal: subtotal.Add(estimatedTax),
		ItemCount:      itemCount,
	})
}
