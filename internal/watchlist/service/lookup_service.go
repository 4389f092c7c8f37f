package service

import (
	"context"
	"fmt"
	"time"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/internal/watchlist/dto"
	"golang-stock-watchlist/internal/watchlist/engine"
	"golang-stock-watchlist/internal/watchlist/repository"
	"golang-stock-watchlist/pkg/logger"
)

// currencySymbols maps quote currencies to display symbols.
var currencySymbols = map[string]string{
	"GBp": "GBp",
	"USD": "US$",
	"CAD": "C$",
	"JPY": "¥",
}

// LookupService serves the live-lookup view: a pricing snapshot and a
// historical series for any symbol, independent of stored watchlists.
type LookupService interface {
	Snapshot(ctx context.Context, symbol string) (*dto.LookupResponse, error)
	History(ctx context.Context, symbol string, interval entity.HistoryInterval, start, end time.Time) (*dto.HistoryResponse, error)
}

// NewLookupService creates a lookup service.
func NewLookupService(eng *engine.Engine, quotes repository.YahooFinanceRepository, log *logger.Logger) LookupService {
	return &lookupService{engine: eng, quotes: quotes, logger: log}
}

type lookupService struct {
	engine *engine.Engine
	quotes repository.YahooFinanceRepository
	logger *logger.Logger
}

// Snapshot fetches live pricing for a symbol.
func (s *lookupService) Snapshot(ctx context.Context, symbol string) (*dto.LookupResponse, error) {
	entry, err := s.engine.FetchPricing(ctx, symbol)
	if err != nil {
		return nil, err
	}

	resp := &dto.LookupResponse{
		Symbol:        entry.Symbol,
		CompanyName:   entry.CompanyName,
		Price:         entry.Price,
		PriceChange:   entry.PriceChange,
		PercentChange: entry.PercentChange,
		Currency:      entry.Currency,
		LastUpdate:    entry.LastUpdate,
	}
	if entry.Currency != nil {
		if sym, ok := currencySymbols[*entry.Currency]; ok {
			resp.CurrencySymbol = sym
		} else {
			resp.CurrencySymbol = *entry.Currency
		}
	}
	return resp, nil
}

// History fetches the historical series for the lookup chart.
func (s *lookupService) History(ctx context.Context, symbol string, interval entity.HistoryInterval, start, end time.Time) (*dto.HistoryResponse, error) {
	switch interval {
	case entity.HistoryIntervalDaily, entity.HistoryIntervalWeekly, entity.HistoryIntervalMonthly:
	default:
		return nil, fmt.Errorf("%w: interval %q", engine.ErrInvalidInput, interval)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end date must be after start date", engine.ErrInvalidInput)
	}

	bars, err := s.quotes.GetHistory(ctx, dto.GetHistoryParam{
		Symbol:   symbol,
		Interval: interval,
		Start:    start,
		End:      end,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch price history",
			logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, err
	}

	return &dto.HistoryResponse{
		Symbol:   symbol,
		Interval: string(interval),
		Bars:     bars,
	}, nil
}
