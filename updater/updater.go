// Package updater runs the recurring REAL8 price update pipeline
package updater

import (
	"context"
	"log"

	"github.com/real8co/real8-price-updater/pricefeed"
)

// Updater orchestrates one fetch → convert → persist cycle
type Updater struct {
	source    pricefeed.QuoteSource
	converter pricefeed.RateConverter
	cache     pricefeed.SnapshotCache
	writer    pricefeed.PriceWriter
	productID string
}

// New creates a new Updater writing to the given product
func New(source pricefeed.QuoteSource, converter pricefeed.RateConverter,
	cache pricefeed.SnapshotCache, writer pricefeed.PriceWriter, productID string) *Updater {
	return &Updater{
		source:    source,
		converter: converter,
		cache:     cache,
		writer:    writer,
		productID: productID,
	}
}

// Run executes a single update. A failed stage ends the run; no price is
// persisted unless both a quote and a rate were obtained in this run. The
// next scheduled tick is the only retry mechanism.
func (u *Updater) Run(ctx context.Context) {
	quote, err := u.source.FetchQuote(ctx)
	if err != nil {
		log.Printf("❌ no REAL8 price available: %v", err)

		return
	}

	log.Printf("📥 fetched REAL8 quote: %f XLM (%s)", quote.XLM, quote.Source)

	priceUSD, err := u.converter.Convert(ctx, quote.XLM)
	if err != nil {
		log.Printf("❌ failed to fetch XLM to USD conversion rate: %v", err)

		return
	}

	priceUSD = pricefeed.RoundUSD(priceUSD)

	// The display snapshot is written as soon as both values are known,
	// independent of the catalog write outcome.
	if err := u.cache.Store(ctx, quote.XLM, priceUSD); err != nil {
		log.Printf("⚠️ failed to cache price snapshot: %v", err)
	}

	if err := u.writer.UpdatePrice(ctx, u.productID, priceUSD); err != nil {
		log.Printf("⚠️ catalog price not updated: %v", err)

		return
	}

	log.Printf("✅ REAL8 price updated: %.2f USD", priceUSD)
}
