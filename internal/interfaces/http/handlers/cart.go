// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bv-cosmetics/storefront/internal/domain/cart"
	"github.com/bv-cosmetics/storefront/internal/domain/catalog"
	"github.com/bv-cosmetics/storefront/internal/interfaces/http/middleware"
	"github.com/bv-cosmetics/storefront/internal/pkg/money"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AddItemRequest is the body of POST /cart/items
type AddItemRequest struct {
	VariantID       string                `json:"variantId" binding:"required"`
	VariantTitle    string                `json:"variantTitle"`
	Price           money.Money           `json:"price"`
	Quantity        int                   `json:"quantity"`
	SelectedOptions []cart.SelectedOption `json:"selectedOptions"`
	Product         json.RawMessage       `json:"product"`
}

// UpdateItemRequest is the body of PUT /cart/items/:variantId
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartHandler handles cart endpoints
type CartHandler struct {
	carts   *cart.Service
	catalog *catalog.Service
	log     *logrus.Entry
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Service, catalogService *catalog.Service, log *logrus.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalogService,
		log:     log.WithField("handler", "cart"),
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    store.Summary(),
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data":    gin.H{"count": store.TotalItems()},
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if req.Price.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Price cannot be negative",
		})
		return
	}

	store, ok := h.store(c)
	if !ok {
		return
	}

	item := cart.LineItem{
		VariantID:       req.VariantID,
		Product:         req.Product,
		VariantTitle:    req.VariantTitle,
		UnitPrice:       money.New(req.Price.Amount, req.Price.CurrencyCode),
		Quantity:        req.Quantity,
		SelectedOptions: req.SelectedOptions,
	}
	if err := store.AddItem(c.Request.Context(), item); err != nil {
		h.mutationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": middleware.GetResolver(c).Translate("common.addedToCart"),
		"data":    store.Summary(),
	})
}

// UpdateItem handles PUT /cart/items/:variantId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	store, ok := h.store(c)
	if !ok {
		return
	}

	if err := store.UpdateQuantity(c.Request.Context(), c.Param("variantId"), *req.Quantity); err != nil {
		h.mutationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    store.Summary(),
	})
}

// RemoveItem handles DELETE /cart/items/:variantId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	if err := store.RemoveItem(c.Request.Context(), c.Param("variantId")); err != nil {
		h.mutationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    store.Summary(),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	if err := store.Clear(c.Request.Context()); err != nil {
		h.mutationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    store.Summary(),
	})
}

// AddBundle handles POST /cart/bundles/:slug. The default variant of every
// bundle product is added once at its regular price.
func (h *CartHandler) AddBundle(c *gin.Context) {
	ctx := c.Request.Context()
	r := middleware.GetResolver(c)

	offer, err := h.catalog.Bundle(ctx, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Bundle not found",
		})
		return
	}
	if len(offer.Products) == 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error": r.Translate("bundle.unavailable"),
		})
		return
	}

	store, ok := h.store(c)
	if !ok {
		return
	}

	added := 0
	for i := range offer.Products {
		p := &offer.Products[i]
		variant, ok := p.FirstVariant()
		if !ok {
			continue
		}

		payload, err := json.Marshal(p)
		if err != nil {
			h.log.WithError(err).WithField("handle", p.Handle).Warn("Failed to encode bundle product")
			continue
		}

		options := make([]cart.SelectedOption, 0, len(variant.SelectedOptions))
		for _, so := range variant.SelectedOptions {
			options = append(options, cart.SelectedOption{Name: so.Name, Value: so.Value})
		}

		err = store.AddItem(ctx, cart.LineItem{
			VariantID:       variant.ID,
			Product:         payload,
			VariantTitle:    variant.Title,
			UnitPrice:       variant.Price,
			Quantity:        1,
			SelectedOptions: options,
		})
		if err != nil {
			h.mutationFailed(c, err)
			return
		}
		added++
	}

	c.JSON(http.StatusOK, gin.H{
		"message": r.Translate("common.addedToCart"),
		"data": gin.H{
			"added": added,
			"cart":  store.Summary(),
		},
	})
}

// store loads the session's cart and answers the request itself on failure
func (h *CartHandler) store(c *gin.Context) (*cart.Store, bool) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Session not initialized",
		})
		return nil, false
	}

	store, err := h.carts.Cart(c.Request.Context(), sessionID)
	if err != nil {
		h.log.WithError(err).WithField("session_id", sessionID).Error("Failed to load cart")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Failed to retrieve cart",
		})
		return nil, false
	}
	return store, true
}

func (h *CartHandler) mutationFailed(c *gin.Context, err error) {
	if errors.Is(err, cart.ErrInvalidItem) || errors.Is(err, cart.ErrCurrencyMismatch) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.log.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Error("Failed to update cart")
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": "Failed to update cart",
	})
}
