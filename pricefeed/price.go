// Package pricefeed provides price data structures and interfaces for the REAL8 price updater
package pricefeed

import (
	"errors"
	"math"
	"time"
)

// Quote sources, recorded so callers can tell a settled trade price from an
// order book estimate.
const (
	SourceTrade     = "trade"
	SourceOrderBook = "orderbook"
)

var (
	// ErrNoPriceData indicates neither recent trades nor the order book
	// produced a usable price.
	ErrNoPriceData = errors.New("no recent trades found")

	// ErrProductNotConfigured indicates the target product ID setting is unset.
	ErrProductNotConfigured = errors.New("product not configured")

	// ErrProductNotFound indicates the configured product ID does not resolve.
	ErrProductNotFound = errors.New("product not found")
)

// Quote is the latest REAL8 price denominated in lumens
type Quote struct {
	XLM    float64 // Price of one REAL8 in XLM
	Source string  // "trade" or "orderbook"
}

// Snapshot holds the last computed price pair for display purposes
type Snapshot struct {
	PriceXLM  float64   `json:"price_in_xlm"`
	PriceUSD  float64   `json:"price_in_usd"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoundUSD rounds a USD amount to cents, half away from zero.
func RoundUSD(price float64) float64 {
	return math.Round(price*100) / 100
}
