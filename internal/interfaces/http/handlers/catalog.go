// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bv-cosmetics/storefront/internal/domain/catalog"
	"github.com/gin-gonic/gin"
)

// CatalogHandler handles product, collection and bundle endpoints
type CatalogHandler struct {
	catalog *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// GetProducts handles GET /products?first=&query=
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	products, err := h.catalog.Products(c.Request.Context(), pageSize(c, catalog.DefaultPageSize), c.Query("query"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetProduct handles GET /products/:handle
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.Product(c.Request.Context(), c.Param("handle"))
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, catalog.ErrInvalidHandle) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    product,
	})
}

// GetCategoryProducts handles GET /categories/:slug/products
func (h *CatalogHandler) GetCategoryProducts(c *gin.Context) {
	products, err := h.catalog.ProductsByCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category products retrieved successfully",
		"data":    products,
	})
}

// GetCollections handles GET /collections?first=
func (h *CatalogHandler) GetCollections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Collections retrieved successfully",
		"data":    h.catalog.Collections(c.Request.Context(), pageSize(c, 20)),
	})
}

// GetBundles handles GET /bundles
func (h *CatalogHandler) GetBundles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Bundles retrieved successfully",
		"data":    h.catalog.Bundles(),
	})
}

// GetBundle handles GET /bundles/:slug
func (h *CatalogHandler) GetBundle(c *gin.Context) {
	offer, err := h.catalog.Bundle(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bundle retrieved successfully",
		"data":    offer,
	})
}

// pageSize reads ?first=, falling back to def when absent or malformed
func pageSize(c *gin.Context, def int) int {
	if v := c.Query("first"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
