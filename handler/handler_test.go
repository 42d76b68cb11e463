package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/real8co/real8-price-updater/pricefeed"
)

// stubCache is a fixed-content pricefeed.SnapshotCache
type stubCache struct {
	snap *pricefeed.Snapshot
}

func (c *stubCache) Store(ctx context.Context, priceXLM, priceUSD float64) error { return nil }

func (c *stubCache) Load(ctx context.Context) (*pricefeed.Snapshot, bool) {
	return c.snap, c.snap != nil
}

func (c *stubCache) Clear(ctx context.Context) error { return nil }

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	return rec
}

func TestGetPrice(t *testing.T) {
	snap := &pricefeed.Snapshot{
		PriceXLM:  2.5,
		PriceUSD:  0.24,
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	rec := get(t, NewServer(&stubCache{snap: snap}, true), "/api/v1/price")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2.5, resp["price_in_xlm"])
	assert.Equal(t, 0.24, resp["price_in_usd"])
}

func TestGetPrice_XLMHidden(t *testing.T) {
	snap := &pricefeed.Snapshot{PriceXLM: 2.5, PriceUSD: 0.24, UpdatedAt: time.Now()}

	rec := get(t, NewServer(&stubCache{snap: snap}, false), "/api/v1/price")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotContains(t, resp, "price_in_xlm")
	assert.Equal(t, 0.24, resp["price_in_usd"])
}

func TestGetPrice_Unavailable(t *testing.T) {
	rec := get(t, NewServer(&stubCache{}, true), "/api/v1/price")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]ApiError
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "PRICE_UNAVAILABLE", resp["error"].Code)
}

func TestHealth(t *testing.T) {
	rec := get(t, NewServer(&stubCache{}, true), "/api/v1/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
