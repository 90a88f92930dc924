package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tillsync/internal/sync"
)

type syncStatusResponse struct {
	Status        sync.Status   `json:"status"`
	Progress      sync.Progress `json:"progress"`
	PendingOrders int64         `json:"pendingOrders"`
	Online        bool          `json:"online"`
}

func syncStatusHandler(o *sync.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, syncStatusResponse{
			Status:        o.Status(),
			Progress:      o.Progress(),
			PendingOrders: o.PendingOrderCount(),
			Online:        o.Online(),
		})
	}
}

// initialSyncHandler runs a full catalog sync within the request. It is only
// called from the setup wizard, where the UI shows progress while waiting.
func initialSyncHandler(o *sync.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := o.InitialSync(c.Request.Context()); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "progress": o.Progress()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"progress": o.Progress()})
	}
}
