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

const productsEntityType = "products"

// DefaultPageSize is the catalog page size used when the config leaves it unset.
const DefaultPageSize = 20

type catalogBackend interface {
	FetchProducts(ctx context.Context, page, perPage int) ([]domain.Product, error)
	FetchProductsSince(ctx context.Context, modifiedAfter time.Time) ([]domain.Product, error)
	FetchTaxRates(ctx context.Context) ([]domain.TaxRate, error)
}

type catalogStore interface {
	SaveProducts(ctx context.Context, products []domain.Product) error
	ReplaceTaxRates(ctx context.Context, rates []domain.TaxRate) error
	LastSyncedAt(ctx context.Context, entityType string) (*time.Time, error)
	SetLastSyncedAt(ctx context.Context, entityType string, t time.Time) error
}

// ProductSyncManager pulls the remote catalog into the local store and tracks
// the "products" checkpoint.
type ProductSyncManager struct {
	backend  catalogBackend
	store    catalogStore
	pageSize int
	logger   *log.Logger
	progress *observe.Value[Progress]
}

func NewProductSyncManager(b catalogBackend, store catalogStore, pageSize int, logger *log.Logger) *ProductSyncManager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ProductSyncManager{
		backend:  b,
		store:    store,
		pageSize: pageSize,
		logger:   logger,
		progress: observe.NewValue(Progress{}),
	}
}

// Progress returns the latest progress snapshot.
func (m *ProductSyncManager) Progress() Progress {
	return m.progress.Get()
}

// ObserveProgress subscribes to progress snapshots.
func (m *ProductSyncManager) ObserveProgress(fn func(Progress)) func() {
	return m.progress.Subscribe(fn)
}

// InitialSync pages through the full remote catalog and saves every page to
// the local store. Pages already saved stay saved if a later page fails; the
// checkpoint only advances on full success. Tax rates are synced afterwards
// and a tax-rate failure does not fail the initial sync.
func (m *ProductSyncManager) InitialSync(ctx context.Context) error {
	page := 1
	totalLoaded := 0
	m.progress.Set(Progress{})

	for {
		products, err := m.backend.FetchProducts(ctx, page, m.pageSize)
		if err != nil {
			m.logger.Printf("sync: initial sync failed on page %d: %v", page, err)
			return fmt.Errorf("fetch products page %d: %w", page, err)
		}
		if len(products) == 0 {
			break
		}

		if err := m.store.SaveProducts(ctx, products); err != nil {
			return fmt.Errorf("save products page %d: %w", page, err)
		}
		totalLoaded += len(products)
		m.progress.Set(Progress{CurrentPage: page, TotalProducts: totalLoaded})
		m.logger.Printf("sync: initial sync page %d loaded, %d products total", page, totalLoaded)

		if len(products) < m.pageSize {
			break
		}
		page++
	}

	if err := m.store.SetLastSyncedAt(ctx, productsEntityType, time.Now().UTC()); err != nil {
		return fmt.Errorf("save products checkpoint: %w", err)
	}
	m.progress.Set(Progress{CurrentPage: m.progress.Get().CurrentPage, TotalProducts: totalLoaded, Complete: true})
	m.logger.Printf("sync: initial sync complete, %d products", totalLoaded)

	// Tax rates ride along with the catalog because the cart needs them for local
	// estimation, but a failure here must not undo a successful catalog sync.
	if err := m.SyncTaxRates(ctx); err != nil {
		m.logger.Printf("sync: tax rate sync failed: %v", err)
	}

	return nil
}

// SyncTaxRates fetches the remote tax table and replaces the local cache.
func (m *ProductSyncManager) SyncTaxRates(ctx context.Context) error {
	rates, err := m.backend.FetchTaxRates(ctx)
	if err != nil {
		return fmt.Errorf("fetch tax rates: %w", err)
	}
	if err := m.store.ReplaceTaxRates(ctx, rates); err != nil {
		return fmt.Errorf("save tax rates: %w", err)
	}
	m.logger.Printf("sync: %d tax rates synced", len(rates))
	return nil
}

// DeltaSync fetches only products modified after the stored checkpoint and
// advances the checkpoint on success. Without a checkpoint it falls back to a
// full InitialSync, which also heals a wiped or corrupted sync state.
func (m *ProductSyncManager) DeltaSync(ctx context.Context) error {
	lastSynced, err := m.store.LastSyncedAt(ctx, productsEntityType)
	if err != nil {
		return fmt.Errorf("load products checkpoint: %w", err)
	}
	if lastSynced == nil {
		return m.InitialSync(ctx)
	}

	products, err := m.backend.FetchProductsSince(ctx, *lastSynced)
	if err != nil {
		m.logger.Printf("sync: delta sync failed: %v", err)
		// Checkpoint stays put; the next cycle retries the same window.
		return fmt.Errorf("fetch products since %s: %w", lastSynced.Format(time.RFC3339), err)
	}

	if len(products) > 0 {
		if err := m.store.SaveProducts(ctx, products); err != nil {
			return fmt.Errorf("save delta products: %w", err)
		}
		m.logger.Printf("sync: delta sync updated %d products", len(products))
	}

	if err := m.store.SetLastSyncedAt(ctx, productsEntityType, time.Now().UTC()); err != nil {
		return fmt.Errorf("advance products checkpoint: %w", err)
	}
	return nil
}
