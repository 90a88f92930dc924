package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"tillsync/internal/backend"
	"tillsync/internal/backend/woo"
	"tillsync/internal/cart"
	"tillsync/internal/config"
	"tillsync/internal/db"
	"tillsync/internal/domain"
	"tillsync/internal/httpserver"
	"tillsync/internal/repository/local"
	"tillsync/internal/setup"
	"tillsync/internal/sync"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	store := local.NewPostgres(dbpool, logger)
	storeCfg := resolveStoreConfig(ctx, cfg, store, logger)
	remote := woo.New(storeCfg)

	cartMgr := cart.NewManager(ctx, store, storeCfg.Currency, logger)
	orders := sync.NewOrderSyncManager(remote, store, logger)
	products := sync.NewProductSyncManager(remote, store, cfg.CatalogPageSize, logger)

	probeCtx, stopProbe := context.WithCancel(ctx)
	defer stopProbe()
	conn := newConnectivity(probeCtx, storeCfg.SiteURL, cfg, logger)

	orch := sync.NewOrchestrator(products, orders, conn, cfg.SyncInterval, logger)
	if storeCfg.SiteURL != "" {
		orch.Start()
		defer orch.Stop()
	} else {
		logger.Printf("store not configured, background sync disabled until setup completes")
	}

	setupMgr := setup.NewManager(store, func(c domain.StoreConfig) backend.Backend {
		return woo.New(c)
	}, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Cart:   cartMgr,
		Orders: orders,
		Sync:   orch,
		Setup:  setupMgr,
		Store:  store,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// resolveStoreConfig prefers the configuration saved through the setup flow;
// environment credentials are the fallback so a till can be provisioned
// without ever running the wizard.
func resolveStoreConfig(ctx context.Context, cfg config.Config, store local.Store, logger *log.Logger) domain.StoreConfig {
	saved, err := store.StoreConfig(ctx)
	if err == nil {
		return *saved
	}
	if !errors.Is(err, domain.ErrNotFound) {
		logger.Fatalf("load store config: %v", err)
	}
	if cfg.EnvStoreConfigured() {
		return domain.StoreConfig{
			SiteURL:        cfg.StoreURL,
			ConsumerKey:    cfg.ConsumerKey,
			ConsumerSecret: cfg.ConsumerSecret,
			Currency:       cfg.Currency,
		}
	}
	return domain.StoreConfig{Currency: cfg.Currency}
}

func newConnectivity(ctx context.Context, siteURL string, cfg config.Config, logger *log.Logger) sync.Connectivity {
	if siteURL == "" {
		return sync.NewManualConnectivity(false)
	}
	prober := sync.NewProber(siteURL, cfg.ProbeInterval)
	go prober.Run(ctx)
	logger.Printf("probing %s every %s", siteURL, cfg.ProbeInterval)
	return prober
}
