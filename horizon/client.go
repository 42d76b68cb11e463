// Package horizon queries the Stellar Horizon API for REAL8 trade data
package horizon

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/real8co/real8-price-updater/config"
	"github.com/real8co/real8-price-updater/pricefeed"
)

// Horizon's asset type discriminators for the tracked pair
const (
	assetTypeAlphanum4 = "credit_alphanum4"
	assetTypeNative    = "native"
)

// Client fetches trade and order book data for the REAL8/XLM pair
type Client struct {
	baseURL     string
	assetCode   string
	assetIssuer string
	client      *http.Client
}

// tradePrice is Horizon's rational price representation
type tradePrice struct {
	N string `json:"n"`
	D string `json:"d"`
}

type tradeRecord struct {
	Price tradePrice `json:"price"`
}

type tradesPage struct {
	Embedded struct {
		Records []tradeRecord `json:"records"`
	} `json:"_embedded"`
}

type orderBookEntry struct {
	Price  string `json:"price"`
	Amount string `json:"amount"`
}

type orderBook struct {
	Asks []orderBookEntry `json:"asks"`
	Bids []orderBookEntry `json:"bids"`
}

// NewClient creates a new Horizon client for the configured asset pair
func NewClient(cfg config.Config) *Client {
	return &Client{
		baseURL:     cfg.HorizonURL,
		assetCode:   cfg.AssetCode,
		assetIssuer: cfg.AssetIssuer,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchQuote returns the most recent REAL8/XLM trade price. When no trade
// exists it falls back to the best order book ask. Both sources empty yields
// pricefeed.ErrNoPriceData.
func (c *Client) FetchQuote(ctx context.Context) (*pricefeed.Quote, error) {
	quote, err := c.latestTrade(ctx)
	if err != nil {
		return nil, err
	}
	if quote != nil {
		return quote, nil
	}

	log.Printf("ℹ️ no recent %s trades, falling back to order book", c.assetCode)

	quote, err = c.bestAsk(ctx)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, pricefeed.ErrNoPriceData
	}

	return quote, nil
}

// pairParams identifies the REAL8 (selling) vs XLM (buying) market
func (c *Client) pairParams() url.Values {
	params := url.Values{}
	params.Add("selling_asset_type", assetTypeAlphanum4)
	params.Add("selling_asset_code", c.assetCode)
	params.Add("selling_asset_issuer", c.assetIssuer)
	params.Add("buying_asset_type", assetTypeNative)

	return params
}

// latestTrade fetches the newest settled trade for the pair, or nil when none exists
func (c *Client) latestTrade(ctx context.Context) (*pricefeed.Quote, error) {
	params := c.pairParams()
	params.Add("limit", "1")
	params.Add("order", "desc")

	var page tradesPage
	if err := c.getJSON(ctx, "/trades", params, &page); err != nil {
		return nil, err
	}

	records := page.Embedded.Records
	if len(records) == 0 {
		return nil, nil
	}

	price, err := records[0].Price.value()
	if err != nil {
		return nil, fmt.Errorf("malformed trade price: %w", err)
	}

	return &pricefeed.Quote{XLM: price, Source: pricefeed.SourceTrade}, nil
}

// bestAsk fetches the live order book and takes the first ask, or nil when the book is empty
func (c *Client) bestAsk(ctx context.Context) (*pricefeed.Quote, error) {
	var book orderBook
	if err := c.getJSON(ctx, "/order_book", c.pairParams(), &book); err != nil {
		return nil, err
	}

	if len(book.Asks) == 0 {
		return nil, nil
	}

	price, err := strconv.ParseFloat(book.Asks[0].Price, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed ask price %q: %w", book.Asks[0].Price, err)
	}
	if price <= 0 {
		return nil, fmt.Errorf("non-positive ask price %q", book.Asks[0].Price)
	}

	return &pricefeed.Quote{XLM: price, Source: pricefeed.SourceOrderBook}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query Horizon: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Horizon returned non-200 status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// value derives the decimal price from the exact fraction
func (p tradePrice) value() (float64, error) {
	n, err := strconv.ParseInt(p.N, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("numerator %q: %w", p.N, err)
	}

	d, err := strconv.ParseInt(p.D, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("denominator %q: %w", p.D, err)
	}
	if d == 0 {
		return 0, fmt.Errorf("zero denominator")
	}

	price := float64(n) / float64(d)
	if price <= 0 {
		return 0, fmt.Errorf("non-positive price %d/%d", n, d)
	}

	return price, nil
}
