// Package catalog persists prices to the commerce product store
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/real8co/real8-price-updater/config"
	"github.com/real8co/real8-price-updater/pricefeed"
)

// Store writes product prices to a PostgreSQL backed catalog
type Store struct {
	db *sql.DB
}

// New opens the catalog database and verifies the connection
func New(cfg config.Config) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an existing database handle
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpdatePrice overwrites the regular price of the given product, rounded to
// cents. The write is idempotent: repeating it with the same price leaves the
// stored state unchanged. An unset product ID or a missing product row is
// logged and reported without touching the catalog.
func (s *Store) UpdatePrice(ctx context.Context, productID string, priceUSD float64) error {
	if strings.TrimSpace(productID) == "" {
		log.Println("⚠️ product ID not set in settings, skipping price update")

		return pricefeed.ErrProductNotConfigured
	}

	var id string

	err := s.db.QueryRowContext(ctx, `SELECT id FROM products WHERE id = $1`, productID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("❌ product not found for ID %s", productID)

		return fmt.Errorf("%w: %s", pricefeed.ErrProductNotFound, productID)
	}
	if err != nil {
		return fmt.Errorf("failed to look up product %s: %w", productID, err)
	}

	price := pricefeed.RoundUSD(priceUSD)

	_, err = s.db.ExecContext(ctx,
		`UPDATE products SET regular_price = $2, updated_at = NOW() WHERE id = $1`,
		productID, price)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", productID, err)
	}

	log.Printf("✅ updated product %s regular price to %.2f USD", productID, price)

	return nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	return s.db.Close()
}
