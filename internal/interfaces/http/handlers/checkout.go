// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/bv-cosmetics/storefront/internal/domain/cart"
	"github.com/bv-cosmetics/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CreateCheckout handles POST /cart/checkout. It opens a remote cart with
// the current lines and returns the URL to send the shopper to; the local
// cart is left as it is.
func (h *CartHandler) CreateCheckout(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	r := middleware.GetResolver(c)
	checkoutURL, err := store.CreateCheckout(c.Request.Context())
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Checkout created successfully",
			"data":    gin.H{"checkoutUrl": checkoutURL},
		})
		return
	}

	var validation *cart.ValidationError
	var transport *cart.TransportError

	switch {
	case errors.Is(err, cart.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": r.Translate("cart.empty"),
		})
	case errors.Is(err, cart.ErrCheckoutInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": r.Translate("cart.checkoutInProgress"),
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   r.Translate("cart.checkoutRejected"),
			"details": validation.Messages(),
		})
	case errors.As(err, &transport):
		h.log.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Warn("Checkout failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": r.Translate("cart.checkoutFailed"),
		})
	default:
		h.log.WithError(err).Error("Unexpected checkout failure")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": r.Translate("cart.checkoutFailed"),
		})
	}
}
