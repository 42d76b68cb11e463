// Package handler serves the cached REAL8 price for storefront display
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/real8co/real8-price-updater/pricefeed"
)

// ApiError defines the structure for standard JSON error responses
type ApiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const errCodePriceUnavailable = "PRICE_UNAVAILABLE"

// priceResponse is the display payload. The XLM price is included only when
// the display toggle is enabled.
type priceResponse struct {
	PriceXLM  *float64  `json:"price_in_xlm,omitempty"`
	PriceUSD  float64   `json:"price_in_usd"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Server exposes the read-side price API
type Server struct {
	router  *mux.Router
	cache   pricefeed.SnapshotCache
	showXLM bool
}

// NewServer creates the display API over the given snapshot cache
func NewServer(cache pricefeed.SnapshotCache, showXLM bool) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		cache:   cache,
		showXLM: showXLM,
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/api/v1/price", s.handleGetPrice()).Methods("GET")
	s.router.HandleFunc("/api/v1/health", s.handleHealth()).Methods("GET")
}

// Handler returns the router wrapped with CORS for storefront use
func (s *Server) Handler() http.Handler {
	return cors.Default().Handler(s.router)
}

// writeJsonError is a helper to write standardized JSON errors
func writeJsonError(w http.ResponseWriter, statusCode int, errCode string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]ApiError{"error": {Code: errCode, Message: message}})
}

// handleGetPrice serves the cached snapshot. An absent or expired snapshot
// means the price is unavailable, not that anything failed.
func (s *Server) handleGetPrice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := s.cache.Load(r.Context())
		if !ok {
			writeJsonError(w, http.StatusNotFound, errCodePriceUnavailable, "price unavailable")

			return
		}

		resp := priceResponse{
			PriceUSD:  snap.PriceUSD,
			UpdatedAt: snap.UpdatedAt,
		}
		if s.showXLM {
			resp.PriceXLM = &snap.PriceXLM
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
