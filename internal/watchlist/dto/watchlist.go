package dto

import (
	"time"

	"golang-stock-watchlist/internal/entity"
)

// AddTickerRequest is the add/update form input. Targets arrive as text and
// are validated by the engine.
type AddTickerRequest struct {
	Symbol     string `json:"symbol"`
	BuyTarget  string `json:"buy_target"`
	SellTarget string `json:"sell_target"`
}

// EntryResponse is one rendered watchlist row.
type EntryResponse struct {
	Symbol        string                `json:"symbol"`
	CompanyName   string                `json:"company_name"`
	Price         *float64              `json:"price"`
	PriceChange   *float64              `json:"price_change"`
	PercentChange *float64              `json:"percent_change"`
	BuyTarget     float64               `json:"buy_target"`
	SellTarget    float64               `json:"sell_target"`
	Currency      *string               `json:"currency"`
	LastUpdate    string                `json:"last_update"`
	Highlight     entity.HighlightClass `json:"highlight,omitempty"`
}

// WatchlistResponse is the full table for one tenant.
type WatchlistResponse struct {
	Tenant  string          `json:"tenant"`
	Entries []EntryResponse `json:"entries"`
}

// AlertsResponse carries both alert lists for the current tolerances.
type AlertsResponse struct {
	BuyAlerts  []entity.Alert `json:"buy_alerts"`
	SellAlerts []entity.Alert `json:"sell_alerts"`
}

// TenantsResponse lists every tenant known to the store.
type TenantsResponse struct {
	Tenants []string `json:"tenants"`
}

// LookupResponse is the live-lookup snapshot for one symbol, independent of
// any stored watchlist.
type LookupResponse struct {
	Symbol         string    `json:"symbol"`
	CompanyName    string    `json:"company_name"`
	Price          *float64  `json:"price"`
	PriceChange    *float64  `json:"price_change"`
	PercentChange  *float64  `json:"percent_change"`
	Currency       *string   `json:"currency"`
	CurrencySymbol string    `json:"currency_symbol"`
	LastUpdate     time.Time `json:"last_update"`
}

// HistoryResponse is the historical series for the lookup chart.
type HistoryResponse struct {
	Symbol   string       `json:"symbol"`
	Interval string       `json:"interval"`
	Bars     []HistoryBar `json:"bars"`
}
