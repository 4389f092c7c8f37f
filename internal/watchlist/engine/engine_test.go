package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-watchlist/internal/entity"
)

type fakeQuoteSource struct {
	fields map[string]map[entity.QuoteField]entity.QuoteValue
	err    error
}

func (f *fakeQuoteSource) GetField(_ context.Context, symbol string, field entity.QuoteField) (entity.QuoteValue, error) {
	if f.err != nil {
		return entity.QuoteValue{}, f.err
	}
	if v, ok := f.fields[symbol][field]; ok {
		return v, nil
	}
	return entity.QuoteValue{}, nil
}

func quotesFor(symbol, name string, price, change, pct float64, currency string) *fakeQuoteSource {
	return &fakeQuoteSource{fields: map[string]map[entity.QuoteField]entity.QuoteValue{
		symbol: {
			entity.QuoteFieldDisplayName:         entity.TextValue(name),
			entity.QuoteFieldMarketPrice:         entity.NumberValue(price),
			entity.QuoteFieldMarketChange:        entity.NumberValue(change),
			entity.QuoteFieldMarketChangePercent: entity.NumberValue(pct),
			entity.QuoteFieldCurrency:            entity.TextValue(currency),
		},
	}}
}

func TestAddOrUpdateFetchesPricing(t *testing.T) {
	e := New(quotesFor("AAPL", "Apple", 150.25, -1.5, -0.99, "USD"), nil)
	wl := entity.NewWatchlist()

	entry, err := e.AddOrUpdate(context.Background(), wl, "AAPL", "140", "180")
	require.NoError(t, err)

	got, ok := wl.Get("AAPL")
	require.True(t, ok)
	assert.Same(t, entry, got)
	assert.Equal(t, "Apple", got.CompanyName)
	require.NotNil(t, got.Price)
	assert.Equal(t, 150.25, *got.Price)
	require.NotNil(t, got.PriceChange)
	assert.Equal(t, -1.5, *got.PriceChange)
	require.NotNil(t, got.Currency)
	assert.Equal(t, "USD", *got.Currency)
	assert.Equal(t, 140.0, got.BuyTarget)
	assert.Equal(t, 180.0, got.SellTarget)
	assert.False(t, got.LastUpdate.IsZero())
}

func TestAddOrUpdateNameFallback(t *testing.T) {
	src := &fakeQuoteSource{fields: map[string]map[entity.QuoteField]entity.QuoteValue{
		"XYZ.TO": {
			entity.QuoteFieldShortName:   entity.TextValue("XYZ Corp"),
			entity.QuoteFieldMarketPrice: entity.NumberValue(10),
		},
	}}
	e := New(src, nil)
	wl := entity.NewWatchlist()

	entry, err := e.AddOrUpdate(context.Background(), wl, "XYZ.TO", "0", "0")
	require.NoError(t, err)
	assert.Equal(t, "XYZ Corp", entry.CompanyName)

	delete(src.fields["XYZ.TO"], entity.QuoteFieldShortName)
	entry, err = e.AddOrUpdate(context.Background(), wl, "XYZ.TO", "0", "0")
	require.NoError(t, err)
	assert.Equal(t, entity.CompanyNameUnknown, entry.CompanyName)
}

func TestAddOrUpdateOverwritesExistingEntry(t *testing.T) {
	e := New(quotesFor("AAPL", "Apple", 150, 0, 0, "USD"), nil)
	wl := entity.NewWatchlist()

	_, err := e.AddOrUpdate(context.Background(), wl, "AAPL", "140", "180")
	require.NoError(t, err)

	// Resubmitting the same symbol replaces every field, targets included.
	entry, err := e.AddOrUpdate(context.Background(), wl, "AAPL", "100", "")
	require.NoError(t, err)
	assert.Equal(t, 100.0, entry.BuyTarget)
	assert.Equal(t, 0.0, entry.SellTarget)
	assert.Equal(t, 1, wl.Len())
}

func TestAddOrUpdateInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		buy    string
		sell   string
	}{
		{"empty symbol", "", "100", "120"},
		{"blank symbol", "   ", "100", "120"},
		{"non-numeric buy target", "AAPL", "abc", "120"},
		{"negative buy target", "AAPL", "-5", "120"},
		{"non-numeric sell target", "AAPL", "100", "12x"},
		{"negative sell target", "AAPL", "100", "-1"},
	}

	e := New(quotesFor("AAPL", "Apple", 150, 0, 0, "USD"), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wl := entity.NewWatchlist()
			_, err := e.AddOrUpdate(context.Background(), wl, tt.symbol, tt.buy, tt.sell)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, wl.Len())
		})
	}
}

func TestAddOrUpdateQuoteSourceDown(t *testing.T) {
	e := New(&fakeQuoteSource{err: errors.New("connection refused")}, nil)
	wl := entity.NewWatchlist()

	entry, err := e.AddOrUpdate(context.Background(), wl, "AAPL", "140", "180")
	require.NoError(t, err)
	assert.Equal(t, entity.CompanyNameUnknown, entry.CompanyName)
	assert.Nil(t, entry.Price)
	assert.Nil(t, entry.Currency)
	assert.Equal(t, 140.0, entry.BuyTarget)
}

func TestDelete(t *testing.T) {
	e := New(quotesFor("AAPL", "Apple", 150, 0, 0, "USD"), nil)
	wl := entity.NewWatchlist()
	_, err := e.AddOrUpdate(context.Background(), wl, "AAPL", "0", "0")
	require.NoError(t, err)

	require.NoError(t, e.Delete(wl, "AAPL"))
	_, ok := wl.Get("AAPL")
	assert.False(t, ok)

	err = e.Delete(wl, "AAPL")
	assert.ErrorIs(t, err, ErrNotFound)

	err = e.Delete(wl, "NEVER")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, wl.Len())
}

func TestRefreshPricingKeepsTargets(t *testing.T) {
	src := quotesFor("AAPL", "Apple", 150, 0, 0, "USD")
	e := New(src, nil)
	wl := entity.NewWatchlist()
	_, err := e.AddOrUpdate(context.Background(), wl, "AAPL", "140", "180")
	require.NoError(t, err)

	src.fields["AAPL"][entity.QuoteFieldMarketPrice] = entity.NumberValue(142.5)
	entry, err := e.RefreshPricing(context.Background(), wl, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, entry.Price)
	assert.Equal(t, 142.5, *entry.Price)
	assert.Equal(t, 140.0, entry.BuyTarget)
	assert.Equal(t, 180.0, entry.SellTarget)
}

func TestRefreshPricingNotFound(t *testing.T) {
	e := New(quotesFor("AAPL", "Apple", 150, 0, 0, "USD"), nil)
	_, err := e.RefreshPricing(context.Background(), entity.NewWatchlist(), "MSFT")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchPricingStandalone(t *testing.T) {
	e := New(quotesFor("DIS", "Disney", 95.5, 1.2, 1.3, "USD"), nil)

	entry, err := e.FetchPricing(context.Background(), "DIS")
	require.NoError(t, err)
	assert.Equal(t, "Disney", entry.CompanyName)
	require.NotNil(t, entry.Price)
	assert.Equal(t, 95.5, *entry.Price)
	assert.Equal(t, 0.0, entry.BuyTarget)

	_, err = e.FetchPricing(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestIndependentWatchlists(t *testing.T) {
	e := New(quotesFor("AAPL", "Apple", 150, 0, 0, "USD"), nil)
	first := entity.NewWatchlist()
	second := entity.NewWatchlist()

	_, err := e.AddOrUpdate(context.Background(), first, "AAPL", "140", "0")
	require.NoError(t, err)

	assert.Equal(t, 0, second.Len())
	_, ok := second.Get("AAPL")
	assert.False(t, ok)
}
