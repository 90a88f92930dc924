// Package local defines the persistence port for the till: products, orders,
// tax rates, sync checkpoints and the store configuration. The sync engine
// and cart only ever see this interface.
package local

import (
	"context"
	"time"

	"tillsync/internal/domain"
)

type Store interface {
	// Products
	Products(ctx context.Context) ([]domain.Product, error)
	ProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	ProductCount(ctx context.Context) (int64, error)
	SaveProduct(ctx context.Context, product domain.Product) error
	SaveProducts(ctx context.Context, products []domain.Product) error
	DeleteAllProducts(ctx context.Context) error

	// Orders. SaveOrder returns the stable local id; orders are never
	// deleted, only moved through statuses.
	SaveOrder(ctx context.Context, order domain.Order) (int64, error)
	PendingSyncOrders(ctx context.Context) ([]domain.Order, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.Order, error)
	PendingSyncOrderCount(ctx context.Context) (int64, error)
	UpdateOrderStatus(ctx context.Context, localID int64, status domain.OrderStatus) error
	UpdateOrderRemote(ctx context.Context, localID, remoteID int64, number string) error
	UpdateOrderTransactionID(ctx context.Context, localID int64, transactionID string) error

	// Tax rates (replace-all semantics)
	ReplaceTaxRates(ctx context.Context, rates []domain.TaxRate) error
	TaxRates(ctx context.Context) ([]domain.TaxRate, error)

	// Sync checkpoints, keyed by entity type ("products", ...)
	LastSyncedAt(ctx context.Context, entityType string) (*time.Time, error)
	SetLastSyncedAt(ctx context.Context, entityType string, t time.Time) error

	// Store configuration (single record)
	StoreConfig(ctx context.Context) (*domain.StoreConfig, error)
	SaveStoreConfig(ctx context.Context, config domain.StoreConfig) error
	DeleteStoreConfig(ctx context.Context) error
}
