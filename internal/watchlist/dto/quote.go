package dto

import (
	"time"

	"golang-stock-watchlist/internal/entity"
)

// YahooQuoteResponse mirrors the v7 quote endpoint envelope.
type YahooQuoteResponse struct {
	QuoteResponse struct {
		Result []YahooQuote `json:"result"`
	} `json:"quoteResponse"`
}

// YahooQuote is one quote result. Fields the upstream omits stay nil.
type YahooQuote struct {
	Symbol                     string   `json:"symbol"`
	DisplayName                *string  `json:"displayName"`
	ShortName                  *string  `json:"shortName"`
	Currency                   *string  `json:"currency"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChange        *float64 `json:"regularMarketChange"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
}

// GetHistoryParam identifies one historical price download.
type GetHistoryParam struct {
	Symbol   string
	Interval entity.HistoryInterval
	Start    time.Time
	End      time.Time
}

// HistoryBar is one bar of price history. Return is the derived day-over-day
// return close[i]/close[i-1]-1, nil for the first bar.
type HistoryBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
	Return *float64  `json:"return"`
}
