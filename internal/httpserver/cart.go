package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tillsync/internal/cart"
	"tillsync/internal/domain"
	"tillsync/internal/repository/local"
)

type cartItemRequest struct {
	ProductID int64  `json:"productId" binding:"required"`
	VariantID *int64 `json:"variantId"`
}

type updateQuantityRequest struct {
	ProductID int64  `json:"productId" binding:"required"`
	VariantID *int64 `json:"variantId"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

type couponRequest struct {
	Code string `json:"code" binding:"required"`
}

type customerRequest struct {
	CustomerID *int64 `json:"customerId"`
}

type noteRequest struct {
	Note string `json:"note"`
}

func cartStateHandler(m *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, m.State())
	}
}

func addCartItemHandler(m *cart.Manager, store local.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product, err := store.ProductByID(c.Request.Context(), req.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var variant *domain.ProductVariant
		if req.VariantID != nil {
			for i := range product.Variants {
				if product.Variants[i].ID == *req.VariantID {
					variant = &product.Variants[i]
					break
				}
			}
			if variant == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "variant not found"})
				return
			}
		}

		m.AddProduct(*product, variant)
		c.JSON(http.StatusOK, m.State())
	}
}

func updateCartItemHandler(m *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		m.UpdateQuantity(req.ProductID, req.VariantID, *req.Quantity)
		c.JSON(http.StatusOK, m.State())
	}
}

func removeCartItemHandler(m *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		m.RemoveItem(req.ProductID, req.VariantID)
		c.JSON(http.StatusOK, m.State())
	}
}

func applyCouponHandler(m *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		m.ApplyCoupon(req.Code)
		c.JSON(http.StatusOK, m.State())
	}
}

func removeCouponHandler(m *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.RemoveCoupon(c.Param("code"))
		c.JSON(http.StatusOK, m.State())
	}
}

func setCustomerHandler(m *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		m.SetCustomer(req.CustomerID)
		c.JSON(http.StatusOK, m.State())
	}
}

func setNoteHandler(m *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req noteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		m.SetNote(req.Note)
		c.JSON(http.StatusOK, m.State())
	}
}

func clearCartHandler(m *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.Clear()
		c.JSON(http.StatusOK, m.State())
	}
}
