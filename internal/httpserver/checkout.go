package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tillsync/internal/cart"
	"tillsync/internal/domain"
	"tillsync/internal/sync"
)

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

type checkoutResponse struct {
	LocalID int64 `json:"localId"`
	Pending bool  `json:"pending"`
}

// checkoutHandler turns the current cart into an order. The order is durable
// the moment this returns; Pending reports whether it still awaits a push to
// the backend.
func checkoutHandler(m *cart.Manager, orders *sync.OrderSyncManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var method domain.PaymentMethod
		switch req.PaymentMethod {
		case string(domain.PaymentCard):
			method = domain.PaymentCard
		case string(domain.PaymentCash):
			method = domain.PaymentCash
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment method"})
			return
		}

		state := m.State()
		if len(state.Items) == 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cart is empty"})
			return
		}

		draft := m.BuildOrderDraft(method)
		localID, err := orders.SubmitOrder(c.Request.Context(), draft, state.Currency)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		m.Clear()

		c.JSON(http.StatusCreated, checkoutResponse{
			LocalID: localID,
			Pending: orders.PendingOrderCount() > 0,
		})
	}
}
