// Package pricefeed provides price data structures and interfaces for the REAL8 price updater
package pricefeed

import (
	"context"
)

// QuoteSource fetches the latest REAL8/XLM quote from the ledger
type QuoteSource interface {
	// FetchQuote returns the most recent trade price, falling back to the
	// best order book ask when no trade exists
	FetchQuote(ctx context.Context) (*Quote, error)
}

// RateConverter converts an XLM denominated price into USD
type RateConverter interface {
	// Convert multiplies the given XLM price by the current XLM/USD rate
	Convert(ctx context.Context, priceXLM float64) (float64, error)
}

// SnapshotCache stores the last computed price snapshot for display
type SnapshotCache interface {
	// Store writes a snapshot stamped with the current time
	Store(ctx context.Context, priceXLM, priceUSD float64) error

	// Load returns the snapshot if present and unexpired
	Load(ctx context.Context) (*Snapshot, bool)

	// Clear drops the cached snapshot
	Clear(ctx context.Context) error
}

// PriceWriter persists a USD price to the product catalog
type PriceWriter interface {
	// UpdatePrice overwrites the regular price of the given product
	UpdatePrice(ctx context.Context, productID string, priceUSD float64) error
}
