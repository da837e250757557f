// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bv-cosmetics/storefront/internal/config"
	"github.com/bv-cosmetics/storefront/internal/domain/cart"
	"github.com/bv-cosmetics/storefront/internal/domain/catalog"
	"github.com/bv-cosmetics/storefront/internal/domain/i18n"
	"github.com/bv-cosmetics/storefront/internal/domain/wishlist"
	"github.com/bv-cosmetics/storefront/internal/infrastructure/commerce/shopify"
	"github.com/bv-cosmetics/storefront/internal/infrastructure/database/postgres"
	"github.com/bv-cosmetics/storefront/internal/infrastructure/database/redis"
	"github.com/bv-cosmetics/storefront/internal/infrastructure/storage"
	"github.com/bv-cosmetics/storefront/internal/interfaces/http"
	"github.com/bv-cosmetics/storefront/internal/interfaces/http/routes"
	"github.com/bv-cosmetics/storefront/internal/pkg/logger"
	"github.com/bv-cosmetics/storefront/internal/pkg/session"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// backends holds the storage chosen by STORAGE_DRIVER
type backends struct {
	kv      storage.KV
	redis   *goredis.Client
	checks  map[string]http.HealthChecker
	closers []func() error
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg)
	appLog.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"storage":     cfg.Storage.Driver,
		"catalog":     cfg.Commerce.Source,
	}).Infof("Starting %s", cfg.App.Name)

	store, err := openStorage(cfg, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize storage")
	}
	defer func() {
		for _, closeFn := range store.closers {
			if err := closeFn(); err != nil {
				appLog.WithError(err).Warn("Failed to close storage backend")
			}
		}
	}()

	source, checkout, err := openCommerce(cfg, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize commerce client")
	}

	translations, err := i18n.LoadCatalog(cfg.Locale.Dir)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load translations")
	}

	carts, err := cart.NewService(store.kv, checkout, cart.Options{
		CheckoutTimeout: cfg.Checkout.Timeout,
		Channel:         cfg.Checkout.Channel,
	}, cfg.Storage.SessionCache, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create cart service")
	}

	wishlists, err := wishlist.NewService(store.kv, cfg.Storage.SessionCache, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create wishlist service")
	}

	server := http.NewServer(cfg, routes.Dependencies{
		Carts:        carts,
		Wishlists:    wishlists,
		Catalog:      catalog.NewService(source, appLog),
		Translations: translations,
		Sessions:     session.NewManager(cfg),
		Logger:       appLog,
	}, store.redis, store.checks)

	if !cfg.UsesRedis() {
		appLog.Info("Rate limiting disabled; it requires the redis storage driver")
	}

	appLog.Info("All systems operational")

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLog.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	appLog.Info("Server shutdown completed")
}

func openStorage(cfg *config.Config, appLog *logrus.Logger) (*backends, error) {
	b := &backends{checks: map[string]http.HealthChecker{}}

	switch cfg.Storage.Driver {
	case "memory":
		appLog.Warn("Using in-memory storage; carts are lost on restart")
		b.kv = storage.NewMemory()

	case "redis":
		client, err := redis.NewConnection(cfg, appLog)
		if err != nil {
			return nil, err
		}
		b.kv = client
		b.redis = client.GetClient()
		b.checks["redis"] = client
		b.closers = append(b.closers, client.Close)

	case "postgres":
		db, err := postgres.NewConnection(cfg, appLog)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Close)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Health(ctx); err != nil {
			return nil, fmt.Errorf("database health check failed: %w", err)
		}

		migration := postgres.NewMigration(db.GetDB(), appLog)
		if err := migration.RunAutoMigrations(); err != nil {
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			appLog.WithError(err).Warn("Index creation failed")
		}

		b.kv = postgres.NewKV(db.GetDB())
		b.checks["postgres"] = db

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	return b, nil
}

func openCommerce(cfg *config.Config, appLog *logrus.Logger) (catalog.Source, cart.CheckoutClient, error) {
	if cfg.Commerce.Source != "shopify" {
		appLog.Warn("Serving the built-in catalog; checkout is unavailable without a Shopify store")
		return catalog.NewLocalSource(), nil, nil
	}

	client, err := shopify.NewClient(shopify.Config{
		Endpoint: cfg.GetStorefrontURL(),
		Token:    cfg.Commerce.StorefrontToken,
		Timeout:  cfg.Commerce.Timeout,
	}, appLog)
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}
