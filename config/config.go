// Package config provides configuration management for the REAL8 price updater
package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration
type Config struct {
	HorizonURL    string        `envconfig:"HORIZON_URL" default:"https://horizon.stellar.org"`                                       // Stellar Horizon base URL
	AssetCode     string        `envconfig:"ASSET_CODE" default:"REAL8"`                                                              // Tracked asset code (alphanum4)
	AssetIssuer   string        `envconfig:"ASSET_ISSUER" default:"GBVYYQ7XXRZW6ZCNNCL2X2THNPQ6IM4O47HAA25JTAG7Z3CXJCQ3W4CD"`         // Issuer account ID
	GeckoURL      string        `envconfig:"GECKO_URL" default:"https://api.coingecko.com/api/v3/simple/price"`                       // CoinGecko simple price endpoint
	ProductID     string        `envconfig:"PRODUCT_ID"`                                                                              // Catalog product to reprice, may be unset
	DatabaseDSN   string        `envconfig:"DATABASE_DSN" required:"true"`                                                            // Postgres DSN for the product catalog
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`                                                     // Redis host:port for the display cache
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB"`
	Interval      time.Duration `envconfig:"UPDATE_INTERVAL" default:"1h"`  // Pipeline trigger interval
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"1h"`        // Display snapshot lifetime
	ShowXLMPrice  bool          `envconfig:"SHOW_XLM_PRICE" default:"true"` // Include the XLM price in display responses
	ListenAddr    string        `envconfig:"LISTEN_ADDR" default:":8080"`   // Display API listen address
}

// Option is a function that modifies Config
type Option func(*Config) error

// WithEnvFile loads configuration from a .env file
func WithEnvFile(path string) Option {
	return func(c *Config) error {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
		return nil
	}
}

// WithProductID sets the target catalog product
func WithProductID(id string) Option {
	return func(c *Config) error {
		c.ProductID = id
		return nil
	}
}

// validate performs validation on the config values
func (c *Config) validate() error {
	// Validate URLs
	for name, urlStr := range map[string]string{
		"Horizon":   c.HorizonURL,
		"CoinGecko": c.GeckoURL,
	} {
		if urlStr == "" {
			return fmt.Errorf("%s URL is required", name)
		}
		if _, err := url.ParseRequestURI(urlStr); err != nil {
			return fmt.Errorf("invalid %s URL: %s", name, urlStr)
		}
	}

	// Stellar asset codes are 1 to 12 alphanumeric characters
	if c.AssetCode == "" || len(c.AssetCode) > 12 {
		return fmt.Errorf("invalid asset code: %q", c.AssetCode)
	}
	for _, r := range c.AssetCode {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return fmt.Errorf("invalid asset code: %q", c.AssetCode)
		}
	}

	// Validate Stellar issuer account ID (G followed by 55 base32 characters)
	if len(c.AssetIssuer) != 56 || !strings.HasPrefix(c.AssetIssuer, "G") || !isBase32(c.AssetIssuer) {
		return fmt.Errorf("invalid issuer account: %s", c.AssetIssuer)
	}

	if c.DatabaseDSN == "" {
		return fmt.Errorf("database DSN is required")
	}

	if c.Interval <= 0 {
		return fmt.Errorf("update interval must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}

	return nil
}

// isBase32 checks if a string uses the RFC 4648 base32 alphabet
func isBase32(s string) bool {
	for _, c := range s {
		if !((c >= 'A' && c <= 'Z') || (c >= '2' && c <= '7')) {
			return false
		}
	}
	return true
}

// NewConfig creates a new validated Config instance
func NewConfig(opts ...Option) (*Config, error) {
	var cfg Config

	// Process environment variables first
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	// Apply user options last so they take precedence
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			log.Printf("⚠️ Warning: option application failed: %v", err)
		}
	}

	// Validate the configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
