package main

import (
	"context"
	"log"
	"os"

	"tillsync/internal/backend/woo"
	"tillsync/internal/config"
	"tillsync/internal/db"
	"tillsync/internal/domain"
	"tillsync/internal/repository/local"
	"tillsync/internal/sync"
)

// One-shot full catalog sync. Useful for provisioning a till from the command
// line and for re-pulling the catalog after a store-side bulk edit.
func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[sync] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	store := local.NewPostgres(pool, logger)

	storeCfg, err := store.StoreConfig(ctx)
	if err != nil {
		if !cfg.EnvStoreConfigured() {
			logger.Fatalf("no store configured: run setup or set STORE_URL, STORE_CONSUMER_KEY and STORE_CONSUMER_SECRET")
		}
		storeCfg = &domain.StoreConfig{
			SiteURL:        cfg.StoreURL,
			ConsumerKey:    cfg.ConsumerKey,
			ConsumerSecret: cfg.ConsumerSecret,
			Currency:       cfg.Currency,
		}
	}

	remote := woo.New(*storeCfg)
	products := sync.NewProductSyncManager(remote, store, cfg.CatalogPageSize, logger)

	if err := products.InitialSync(ctx); err != nil {
		logger.Fatalf("initial sync: %v", err)
	}

	progress := products.Progress()
	logger.Printf("catalog synced: %d products", progress.TotalProducts)
}
