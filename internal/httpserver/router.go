package httpserver

import (
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"tillsync/internal/cart"
	"tillsync/internal/repository/local"
	"tillsync/internal/setup"
	"tillsync/internal/sync"
)

// Deps carries the wired core components the handlers delegate to.
type Deps struct {
	Cart   *cart.Manager
	Orders *sync.OrderSyncManager
	Sync   *sync.Orchestrator
	Setup  *setup.Manager
	Store  local.Store
}

// buildRouter wires routes for the till API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Cart == nil || deps.Orders == nil || deps.Sync == nil || deps.Setup == nil || deps.Store == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/cart", cartStateHandler(deps.Cart))
	router.POST("/cart/items", addCartItemHandler(deps.Cart, deps.Store))
	router.PATCH("/cart/items", updateCartItemHandler(deps.Cart))
	router.DELETE("/cart/items", removeCartItemHandler(deps.Cart))
	router.POST("/cart/coupons", applyCouponHandler(deps.Cart))
	router.DELETE("/cart/coupons/:code", removeCouponHandler(deps.Cart))
	router.PUT("/cart/customer", setCustomerHandler(deps.Cart))
	router.PUT("/cart/note", setNoteHandler(deps.Cart))
	router.DELETE("/cart", clearCartHandler(deps.Cart))

	router.POST("/checkout", checkoutHandler(deps.Cart, deps.Orders))

	router.GET("/products", listProductsHandler(deps.Store))
	router.GET("/products/:id", getProductHandler(deps.Store))
	router.GET("/products/barcode/:code", productByBarcodeHandler(deps.Store))

	router.GET("/orders/recent", recentOrdersHandler(deps.Store))

	router.GET("/sync/status", syncStatusHandler(deps.Sync))
	router.POST("/sync/initial", initialSyncHandler(deps.Sync))

	router.GET("/setup/status", setupStatusHandler(deps.Setup))
	router.POST("/setup/validate", validateSetupHandler(deps.Setup))
	router.POST("/setup/save", saveSetupHandler(deps.Setup))

	return router, nil
}
