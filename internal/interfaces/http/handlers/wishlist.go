// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/bv-cosmetics/storefront/internal/domain/wishlist"
	"github.com/bv-cosmetics/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// WishlistItemRequest is the body of POST /wishlist/items
type WishlistItemRequest struct {
	ProductID     string `json:"productId" binding:"required"`
	ProductHandle string `json:"productHandle"`
	Title         string `json:"title"`
	ImageURL      string `json:"imageUrl"`
	Price         string `json:"price"`
	CurrencyCode  string `json:"currencyCode"`
}

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlists *wishlist.Service
	log       *logrus.Entry
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlists *wishlist.Service, log *logrus.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlists: wishlists,
		log:       log.WithField("handler", "wishlist"),
	}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	w, ok := h.wishlist(c)
	if !ok {
		return
	}

	items := w.Items()
	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist retrieved successfully",
		"data": gin.H{
			"items": items,
			"count": len(items),
		},
	})
}

// AddItem handles POST /wishlist/items
func (h *WishlistHandler) AddItem(c *gin.Context) {
	var req WishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	w, ok := h.wishlist(c)
	if !ok {
		return
	}

	err := w.Add(c.Request.Context(), wishlist.Item{
		ProductID:     req.ProductID,
		ProductHandle: req.ProductHandle,
		Title:         req.Title,
		ImageURL:      req.ImageURL,
		Price:         req.Price,
		CurrencyCode:  req.CurrencyCode,
	})
	if err != nil {
		h.mutationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": middleware.GetResolver(c).Translate("wishlist.added"),
		"data":    gin.H{"items": w.Items()},
	})
}

// RemoveItem handles DELETE /wishlist/items/:productId
func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	w, ok := h.wishlist(c)
	if !ok {
		return
	}

	if err := w.Remove(c.Request.Context(), c.Param("productId")); err != nil {
		h.mutationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": middleware.GetResolver(c).Translate("wishlist.removed"),
		"data":    gin.H{"items": w.Items()},
	})
}

// CheckItem handles GET /wishlist/items/:productId
func (h *WishlistHandler) CheckItem(c *gin.Context) {
	w, ok := h.wishlist(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist status retrieved successfully",
		"data":    gin.H{"inWishlist": w.Contains(c.Param("productId"))},
	})
}

// ClearWishlist handles DELETE /wishlist
func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	w, ok := h.wishlist(c)
	if !ok {
		return
	}

	if err := w.Clear(c.Request.Context()); err != nil {
		h.mutationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist cleared successfully",
		"data":    gin.H{"items": []wishlist.Item{}},
	})
}

func (h *WishlistHandler) wishlist(c *gin.Context) (*wishlist.Store, bool) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Session not initialized",
		})
		return nil, false
	}

	w, err := h.wishlists.Wishlist(c.Request.Context(), sessionID)
	if err != nil {
		h.log.WithError(err).WithField("session_id", sessionID).Error("Failed to load wishlist")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Failed to retrieve wishlist",
		})
		return nil, false
	}
	return w, true
}

func (h *WishlistHandler) mutationFailed(c *gin.Context, err error) {
	if errors.Is(err, wishlist.ErrInvalidItem) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.log.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Error("Failed to update wishlist")
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": "Failed to update wishlist",
	})
}
