package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/internal/watchlist/dto"
	"golang-stock-watchlist/internal/watchlist/engine"
	"golang-stock-watchlist/pkg/utils"
)

func newLookupService(t *testing.T, quotes *fakeQuotes) LookupService {
	t.Helper()
	log := testLogger(t)
	return NewLookupService(engine.New(quotes, log), quotes, log)
}

func TestSnapshotMapsCurrencySymbol(t *testing.T) {
	tests := []struct {
		currency string
		want     string
	}{
		{"USD", "US$"},
		{"CAD", "C$"},
		{"JPY", "¥"},
		{"GBp", "GBp"},
		{"EUR", "EUR"}, // unmapped currencies pass through
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			svc := newLookupService(t, quotesFor("AAPL", "Apple", 150.5, tt.currency))

			snap, err := svc.Snapshot(context.Background(), "AAPL")
			require.NoError(t, err)
			assert.Equal(t, tt.want, snap.CurrencySymbol)
		})
	}
}

func TestSnapshotCarriesPricing(t *testing.T) {
	svc := newLookupService(t, quotesFor("AAPL", "Apple", 150.5, "USD"))

	snap, err := svc.Snapshot(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", snap.Symbol)
	assert.Equal(t, "Apple", snap.CompanyName)
	require.NotNil(t, snap.Price)
	assert.Equal(t, 150.5, *snap.Price)
	assert.False(t, snap.LastUpdate.IsZero())
}

func TestHistoryRejectsInvalidInterval(t *testing.T) {
	svc := newLookupService(t, &fakeQuotes{})

	_, err := svc.History(context.Background(), "AAPL", entity.HistoryInterval("1h"),
		time.Now().AddDate(0, -1, 0), time.Now())
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestHistoryRejectsInvertedRange(t *testing.T) {
	svc := newLookupService(t, &fakeQuotes{})

	end := time.Now()
	_, err := svc.History(context.Background(), "AAPL", entity.HistoryIntervalDaily, end, end.AddDate(0, -1, 0))
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestHistoryPassesRangeThrough(t *testing.T) {
	quotes := &fakeQuotes{bars: []dto.HistoryBar{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1000},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Open: 100.5, High: 102, Low: 100, Close: 101.5, Volume: 1200, Return: utils.ToPointer(101.5/100.5 - 1)},
	}}
	svc := newLookupService(t, quotes)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	resp, err := svc.History(context.Background(), "AAPL", entity.HistoryIntervalWeekly, start, end)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", quotes.lastParam.Symbol)
	assert.Equal(t, entity.HistoryIntervalWeekly, quotes.lastParam.Interval)
	assert.Equal(t, start, quotes.lastParam.Start)
	assert.Equal(t, end, quotes.lastParam.End)

	assert.Equal(t, "1wk", resp.Interval)
	require.Len(t, resp.Bars, 2)
	assert.Nil(t, resp.Bars[0].Return)
	require.NotNil(t, resp.Bars[1].Return)
}
