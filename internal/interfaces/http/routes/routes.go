// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/bv-cosmetics/storefront/internal/config"
	"github.com/bv-cosmetics/storefront/internal/domain/cart"
	"github.com/bv-cosmetics/storefront/internal/domain/catalog"
	"github.com/bv-cosmetics/storefront/internal/domain/i18n"
	"github.com/bv-cosmetics/storefront/internal/domain/wishlist"
	"github.com/bv-cosmetics/storefront/internal/interfaces/http/handlers"
	"github.com/bv-cosmetics/storefront/internal/interfaces/http/middleware"
	"github.com/bv-cosmetics/storefront/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Dependencies are the services the API routes are served by
type Dependencies struct {
	Carts        *cart.Service
	Wishlists    *wishlist.Service
	Catalog      *catalog.Service
	Translations *i18n.Catalog
	Sessions     *session.Manager
	Logger       *logrus.Logger
}

// SetupRoutes registers every API route on rg
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies, cfg *config.Config) {
	rg.Use(middleware.Language(deps.Translations, cfg, deps.Logger))

	SetupCatalogRoutes(rg, deps)
	SetupI18nRoutes(rg, deps, cfg)

	guest := rg.Group("")
	guest.Use(middleware.Session(deps.Sessions, cfg, deps.Logger))
	SetupCartRoutes(guest, deps)
	SetupWishlistRoutes(guest, deps)
}

// SetupCartRoutes sets up cart and checkout routes
func SetupCartRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Carts, deps.Catalog, deps.Logger)

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:variantId", cartHandler.UpdateItem)
		cart.DELETE("/items/:variantId", cartHandler.RemoveItem)
		cart.POST("/bundles/:slug", cartHandler.AddBundle)
		cart.POST("/checkout", cartHandler.CreateCheckout)
	}
}

// SetupWishlistRoutes sets up wishlist routes
func SetupWishlistRoutes(rg *gin.RouterGroup, deps Dependencies) {
	wishlistHandler := handlers.NewWishlistHandler(deps.Wishlists, deps.Logger)

	wishlist := rg.Group("/wishlist")
	{
		wishlist.GET("", wishlistHandler.GetWishlist)
		wishlist.DELETE("", wishlistHandler.ClearWishlist)
		wishlist.POST("/items", wishlistHandler.AddItem)
		wishlist.GET("/items/:productId", wishlistHandler.CheckItem)
		wishlist.DELETE("/items/:productId", wishlistHandler.RemoveItem)
	}
}

// SetupCatalogRoutes sets up product, collection and bundle routes
func SetupCatalogRoutes(rg *gin.RouterGroup, deps Dependencies) {
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)

	rg.GET("/products", catalogHandler.GetProducts)
	rg.GET("/products/:handle", catalogHandler.GetProduct)
	rg.GET("/categories/:slug/products", catalogHandler.GetCategoryProducts)
	rg.GET("/collections", catalogHandler.GetCollections)
	rg.GET("/bundles", catalogHandler.GetBundles)
	rg.GET("/bundles/:slug", catalogHandler.GetBundle)
}

// SetupI18nRoutes sets up localization routes
func SetupI18nRoutes(rg *gin.RouterGroup, deps Dependencies, cfg *config.Config) {
	i18nHandler := handlers.NewI18nHandler(deps.Translations, cfg)

	i18n := rg.Group("/i18n")
	{
		i18n.GET("", i18nHandler.GetLanguage)
		i18n.PUT("/language", i18nHandler.SetLanguage)
		i18n.GET("/translate", i18nHandler.Translate)
		i18n.GET("/messages", i18nHandler.GetMessages)
	}
}
