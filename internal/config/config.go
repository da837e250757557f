// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront backend
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Security SecurityConfig
	Commerce CommerceConfig
	Checkout CheckoutConfig
	Locale   LocaleConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// StorageConfig selects where cart and wishlist state is persisted
type StorageConfig struct {
	Driver       string // memory, redis or postgres
	StateTTL     time.Duration
	SessionCache int // number of per-session stores kept in memory
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// SessionConfig contains guest session token configuration
type SessionConfig struct {
	Secret     string
	CookieName string
	Expiry     time.Duration
	Secure     bool
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// CommerceConfig contains the remote storefront API configuration
type CommerceConfig struct {
	Source          string // local or shopify
	StoreDomain     string
	APIVersion      string
	StorefrontToken string
	Timeout         time.Duration
}

// CheckoutConfig contains checkout hand-off configuration
type CheckoutConfig struct {
	Timeout time.Duration // 0 waits for the commerce API indefinitely
	Channel string
}

// LocaleConfig contains localization configuration
type LocaleConfig struct {
	Default    string
	Dir        string // empty uses the embedded dictionaries
	CookieName string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "BV Cosmetics Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 45*time.Second),
		},
		Storage: StorageConfig{
			Driver:       getEnv("STORAGE_DRIVER", "memory"),
			StateTTL:     getEnvAsDuration("STATE_TTL", 30*24*time.Hour),
			SessionCache: getEnvAsInt("SESSION_CACHE_SIZE", 4096),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "storefront_db"),
			User:         getEnv("DB_USER", "storefront_user"),
			Password:     getEnv("DB_PASSWORD", "storefront_password"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "change-me-session-secret-at-least-32-chars"),
			CookieName: getEnv("SESSION_COOKIE", "bv_session"),
			Expiry:     getEnvAsDuration("SESSION_EXPIRE", 30*24*time.Hour),
			Secure:     getEnvAsBool("SESSION_SECURE", false),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Accept-Language"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Commerce: CommerceConfig{
			Source:          getEnv("CATALOG_SOURCE", "local"),
			StoreDomain:     getEnv("SHOPIFY_STORE_DOMAIN", ""),
			APIVersion:      getEnv("SHOPIFY_API_VERSION", "2025-07"),
			StorefrontToken: getEnv("SHOPIFY_STOREFRONT_TOKEN", ""),
			Timeout:         getEnvAsDuration("SHOPIFY_TIMEOUT", 20*time.Second),
		},
		Checkout: CheckoutConfig{
			Timeout: getEnvAsDuration("CHECKOUT_TIMEOUT", 30*time.Second),
			Channel: getEnv("CHECKOUT_CHANNEL", "online_store"),
		},
		Locale: LocaleConfig{
			Default:    getEnv("DEFAULT_LANGUAGE", "ar"),
			Dir:        getEnv("LOCALES_DIR", ""),
			CookieName: getEnv("LANGUAGE_COOKIE", "bv_lang"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}

	switch c.Storage.Driver {
	case "memory":
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required when STORAGE_DRIVER=redis")
		}
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			return fmt.Errorf("DB_HOST, DB_NAME and DB_USER are required when STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Commerce.Source {
	case "local":
	case "shopify":
		if c.Commerce.StoreDomain == "" {
			return fmt.Errorf("SHOPIFY_STORE_DOMAIN is required when CATALOG_SOURCE=shopify")
		}
		if c.Commerce.StorefrontToken == "" {
			return fmt.Errorf("SHOPIFY_STOREFRONT_TOKEN is required when CATALOG_SOURCE=shopify")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.Commerce.Source)
	}

	if c.Locale.Default != "ar" && c.Locale.Default != "en" {
		return fmt.Errorf("DEFAULT_LANGUAGE must be ar or en")
	}

	if c.Checkout.Timeout < 0 {
		return fmt.Errorf("CHECKOUT_TIMEOUT cannot be negative")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesRedis reports whether Redis backs persisted state
func (c *Config) UsesRedis() bool {
	return c.Storage.Driver == "redis"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetStorefrontURL returns the GraphQL endpoint of the remote storefront
func (c *Config) GetStorefrontURL() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.Commerce.StoreDomain, c.Commerce.APIVersion)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
