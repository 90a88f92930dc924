package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tillsync/internal/setup"
)

type validateSetupRequest struct {
	SiteURL        string `json:"siteUrl" binding:"required"`
	ConsumerKey    string `json:"consumerKey" binding:"required"`
	ConsumerSecret string `json:"consumerSecret" binding:"required"`
}

func setupStatusHandler(m *setup.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		complete, err := m.IsSetupComplete(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"complete": complete, "state": m.State()})
	}
}

func validateSetupHandler(m *setup.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateSetupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status, err := m.ValidateCredentials(c.Request.Context(), req.SiteURL, req.ConsumerKey, req.ConsumerSecret)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "connection": status})
			return
		}
		c.JSON(http.StatusOK, gin.H{"connection": status, "state": m.State()})
	}
}

func saveSetupHandler(m *setup.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := m.SaveConfiguration(c.Request.Context())
		if err != nil {
			if errors.Is(err, setup.ErrNotValidated) {
				c.JSON(http.StatusConflict, gin.H{"error": "credentials have not been validated"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// The consumer secret never leaves the server once stored.
		c.JSON(http.StatusOK, gin.H{"siteUrl": cfg.SiteURL, "currency": cfg.Currency})
	}
}
