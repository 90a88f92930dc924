// Package backend defines the remote commerce contract. The rest of the core
// never knows which platform is behind it; adapters must not leak
// platform-specific concepts above this boundary.
package backend

import (
	"context"
	"time"

	"tillsync/internal/domain"
)

type Backend interface {
	// Catalog
	FetchProducts(ctx context.Context, page, perPage int) ([]domain.Product, error)
	FetchProductsSince(ctx context.Context, modifiedAfter time.Time) ([]domain.Product, error)
	FetchProduct(ctx context.Context, id int64) (*domain.Product, error)

	// Orders. CreateOrder must be idempotent keyed by the draft's
	// idempotency key; retries of the same draft yield one remote order.
	CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id int64, update domain.OrderUpdate) (*domain.Order, error)
	RefundOrder(ctx context.Context, id, amountCents int64) (*domain.Refund, error)

	// Inventory
	UpdateStock(ctx context.Context, productID int64, quantity int) (*domain.Product, error)

	// Customers
	SearchCustomers(ctx context.Context, query string) ([]domain.Customer, error)
	CreateCustomer(ctx context.Context, draft domain.CustomerDraft) (*domain.Customer, error)

	// Settings
	FetchTaxRates(ctx context.Context) ([]domain.TaxRate, error)
	FetchStoreCurrency(ctx context.Context) (string, error)

	// Auth
	ValidateConnection(ctx context.Context) ConnectionStatus
}

type ConnectionState string

const (
	StateConnected          ConnectionState = "connected"
	StateInvalidCredentials ConnectionState = "invalid_credentials"
	StateStoreNotFound      ConnectionState = "store_not_found"
	StateNetworkError       ConnectionState = "network_error"
)

// ConnectionStatus is the outcome of a credential/connection check.
type ConnectionStatus struct {
	State     ConnectionState `json:"state"`
	StoreName string          `json:"storeName,omitempty"`
	Message   string          `json:"message,omitempty"`
}

func Connected(storeName string) ConnectionStatus {
	return ConnectionStatus{State: StateConnected, StoreName: storeName}
}

func InvalidCredentials() ConnectionStatus {
	return ConnectionStatus{State: StateInvalidCredentials}
}

func StoreNotFound() ConnectionStatus {
	return ConnectionStatus{State: StateStoreNotFound}
}

func NetworkError(message string) ConnectionStatus {
	return ConnectionStatus{State: StateNetworkError, Message: message}
}
