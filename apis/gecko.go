// Package apis provides external fiat rate integrations
package apis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/real8co/real8-price-updater/config"
)

// CoinGecko asset identifier for Stellar lumens
const assetID = "stellar"

// CoinGecko implements the XLM to USD rate lookup using the CoinGecko API
type CoinGecko struct {
	cfg    config.Config
	client *http.Client
}

// CurrencyPrice represents the price response structure from CoinGecko.
// The field is a pointer so a missing rate is distinguishable from zero.
type CurrencyPrice struct {
	USD *float64 `json:"usd"`
}

// NewCoinGecko creates a new CoinGecko rate converter instance
func NewCoinGecko(cfg config.Config) *CoinGecko {
	return &CoinGecko{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// usdRate fetches the current XLM/USD exchange rate from the CoinGecko API
func (g *CoinGecko) usdRate(ctx context.Context) (float64, error) {
	params := url.Values{}
	params.Add("ids", assetID)
	params.Add("vs_currencies", "usd")

	fullURL := fmt.Sprintf("%s?%s", g.cfg.GeckoURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch rate: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("API returned non-200 status: %d", resp.StatusCode)
	}

	var raw map[string]CurrencyPrice
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	rate, ok := raw[assetID]
	if !ok || rate.USD == nil {
		return 0, fmt.Errorf("response missing %s/usd rate", assetID)
	}

	return *rate.USD, nil
}

// Convert turns an XLM denominated price into USD using the current rate.
// A single attempt is made per call; the caller retries on the next run.
func (g *CoinGecko) Convert(ctx context.Context, priceXLM float64) (float64, error) {
	rate, err := g.usdRate(ctx)
	if err != nil {
		return 0, err
	}

	return priceXLM * rate, nil
}
