package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/pkg/logger"
)

// QuoteSource supplies scalar market-data fields for a symbol. A missing
// field comes back as an invalid QuoteValue; an error means the source
// itself could not be reached.
type QuoteSource interface {
	GetField(ctx context.Context, symbol string, field entity.QuoteField) (entity.QuoteValue, error)
}

// Engine applies watchlist mutations. The watchlist itself is owned by the
// caller and passed into every operation; the engine holds no list state.
type Engine struct {
	quotes QuoteSource
	log    *logger.Logger
}

// New creates an engine backed by the given quote source.
func New(quotes QuoteSource, log *logger.Logger) *Engine {
	return &Engine{quotes: quotes, log: log}
}

// AddOrUpdate writes the entry for symbol with freshly fetched pricing and
// the submitted targets. An existing entry is fully overwritten, previously
// set targets included. Missing quote fields degrade to unset values and
// never fail the operation.
func (e *Engine) AddOrUpdate(ctx context.Context, wl *entity.Watchlist, symbol, buyTarget, sellTarget string) (*entity.TickerEntry, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidInput)
	}

	buy, err := parseTarget(buyTarget)
	if err != nil {
		return nil, fmt.Errorf("%w: buy target %q", ErrInvalidInput, buyTarget)
	}
	sell, err := parseTarget(sellTarget)
	if err != nil {
		return nil, fmt.Errorf("%w: sell target %q", ErrInvalidInput, sellTarget)
	}

	entry := e.fetchEntry(ctx, symbol)
	entry.BuyTarget = buy
	entry.SellTarget = sell

	wl.Put(entry)
	return entry, nil
}

// Delete removes the entry for symbol. Deleting an absent symbol reports
// ErrNotFound and leaves the watchlist unchanged.
func (e *Engine) Delete(wl *entity.Watchlist, symbol string) error {
	if !wl.Remove(strings.TrimSpace(symbol)) {
		return fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	return nil
}

// RefreshPricing re-fetches pricing for an existing entry without touching
// its targets.
func (e *Engine) RefreshPricing(ctx context.Context, wl *entity.Watchlist, symbol string) (*entity.TickerEntry, error) {
	entry, ok := wl.Get(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}

	fresh := e.fetchEntry(ctx, symbol)
	entry.CompanyName = fresh.CompanyName
	entry.Price = fresh.Price
	entry.PriceChange = fresh.PriceChange
	entry.PercentChange = fresh.PercentChange
	entry.Currency = fresh.Currency
	entry.LastUpdate = fresh.LastUpdate
	return entry, nil
}

// RefreshAll re-fetches pricing for every entry in the watchlist.
func (e *Engine) RefreshAll(ctx context.Context, wl *entity.Watchlist) error {
	for _, entry := range wl.Entries() {
		if _, err := e.RefreshPricing(ctx, wl, entry.Symbol); err != nil {
			return err
		}
	}
	return nil
}

// FetchPricing builds a standalone entry with live pricing and no targets,
// for the lookup view that runs independently of any stored watchlist.
func (e *Engine) FetchPricing(ctx context.Context, symbol string) (*entity.TickerEntry, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidInput)
	}
	return e.fetchEntry(ctx, symbol), nil
}

func (e *Engine) fetchEntry(ctx context.Context, symbol string) *entity.TickerEntry {
	name := entity.CompanyNameUnknown
	if v := e.getField(ctx, symbol, entity.QuoteFieldDisplayName); v.Valid {
		name = v.Text
	} else if v := e.getField(ctx, symbol, entity.QuoteFieldShortName); v.Valid {
		name = v.Text
	}

	entry := &entity.TickerEntry{
		Symbol:      symbol,
		CompanyName: name,
		LastUpdate:  time.Now(),
	}

	if v := e.getField(ctx, symbol, entity.QuoteFieldMarketPrice); v.Valid {
		entry.Price = &v.Number
	}
	if v := e.getField(ctx, symbol, entity.QuoteFieldMarketChange); v.Valid {
		entry.PriceChange = &v.Number
	}
	if v := e.getField(ctx, symbol, entity.QuoteFieldMarketChangePercent); v.Valid {
		entry.PercentChange = &v.Number
	}
	if v := e.getField(ctx, symbol, entity.QuoteFieldCurrency); v.Valid {
		entry.Currency = &v.Text
	}

	return entry
}

func (e *Engine) getField(ctx context.Context, symbol string, field entity.QuoteField) entity.QuoteValue {
	v, err := e.quotes.GetField(ctx, symbol, field)
	if err != nil {
		if e.log != nil {
			e.log.ErrorContext(ctx, "Quote field unavailable",
				logger.ErrorField(err),
				logger.StringField("symbol", symbol),
				logger.StringField("field", string(field)))
		}
		return entity.QuoteValue{}
	}
	return v
}

func parseTarget(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("not a non-negative decimal: %q", s)
	}
	return v, nil
}
