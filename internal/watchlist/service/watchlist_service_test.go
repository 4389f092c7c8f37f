package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/internal/watchlist/dto"
	"golang-stock-watchlist/internal/watchlist/engine"
	"golang-stock-watchlist/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

type fakeStore struct {
	tenants []string
	rows    map[string][]entity.WatchlistRow
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string][]entity.WatchlistRow)}
}

func (f *fakeStore) ListTenants(context.Context) ([]string, error) {
	return f.tenants, f.err
}

func (f *fakeStore) TenantExists(_ context.Context, tenant string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, t := range f.tenants {
		if t == tenant {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateTenant(_ context.Context, tenant string) error {
	if f.err != nil {
		return f.err
	}
	f.tenants = append(f.tenants, tenant)
	return nil
}

func (f *fakeStore) ReadAll(_ context.Context, tenant string) ([]entity.WatchlistRow, error) {
	return f.rows[tenant], f.err
}

func (f *fakeStore) AppendRows(_ context.Context, tenant string, rows []entity.WatchlistRow) error {
	if f.err != nil {
		return f.err
	}
	f.rows[tenant] = append(f.rows[tenant], rows...)
	return nil
}

func (f *fakeStore) ClearAll(_ context.Context, tenant string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.rows, tenant)
	return nil
}

func (f *fakeStore) ReplaceAll(_ context.Context, tenant string, rows []entity.WatchlistRow) error {
	if f.err != nil {
		return f.err
	}
	f.rows[tenant] = rows
	return nil
}

type fakeQuotes struct {
	fields      map[string]map[entity.QuoteField]entity.QuoteValue
	bars        []dto.HistoryBar
	historyErr  error
	lastParam   dto.GetHistoryParam
	invalidated []string
}

func (f *fakeQuotes) GetField(_ context.Context, symbol string, field entity.QuoteField) (entity.QuoteValue, error) {
	return f.fields[symbol][field], nil
}

func (f *fakeQuotes) GetHistory(_ context.Context, param dto.GetHistoryParam) ([]dto.HistoryBar, error) {
	f.lastParam = param
	return f.bars, f.historyErr
}

func (f *fakeQuotes) Invalidate(symbol string) {
	f.invalidated = append(f.invalidated, symbol)
}

func quotesFor(symbol, name string, price float64, currency string) *fakeQuotes {
	return &fakeQuotes{fields: map[string]map[entity.QuoteField]entity.QuoteValue{
		symbol: {
			entity.QuoteFieldDisplayName: entity.TextValue(name),
			entity.QuoteFieldMarketPrice: entity.NumberValue(price),
			entity.QuoteFieldCurrency:    entity.TextValue(currency),
		},
	}}
}

func newService(t *testing.T, store *fakeStore, quotes *fakeQuotes) WatchlistService {
	t.Helper()
	log := testLogger(t)
	return NewWatchlistService(engine.New(quotes, log), store, quotes, log)
}

func TestSaveCreatesTenantPartition(t *testing.T) {
	store := newFakeStore()
	svc := newService(t, store, quotesFor("AAPL", "Apple", 150.5, "USD"))
	ctx := context.Background()

	_, err := svc.AddTicker(ctx, "alice@example.com", "AAPL", "140", "180")
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, "alice@example.com"))

	assert.Equal(t, []string{"alice@example.com"}, store.tenants)
	rows := store.rows["alice@example.com"]
	require.Len(t, rows, 1)
	assert.Equal(t, "AAPL", rows[0].Index)
	assert.Equal(t, "Apple", rows[0].Company)
	assert.Equal(t, "150.5", rows[0].Price)
	assert.Equal(t, "140", rows[0].BuyTarget)
	assert.Equal(t, "180", rows[0].SellTarget)
}

func TestSaveOverwritesPreviousRows(t *testing.T) {
	store := newFakeStore()
	store.tenants = []string{"alice@example.com"}
	store.rows["alice@example.com"] = []entity.WatchlistRow{
		{Index: "MSFT", BuyTarget: "300", SellTarget: "400"},
	}
	svc := newService(t, store, quotesFor("AAPL", "Apple", 150.5, "USD"))
	ctx := context.Background()

	_, err := svc.AddTicker(ctx, "alice@example.com", "AAPL", "140", "180")
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, "alice@example.com"))

	rows := store.rows["alice@example.com"]
	require.Len(t, rows, 1)
	assert.Equal(t, "AAPL", rows[0].Index)
}

func TestLoadFirstTimeTenantCreatesEmptyPartition(t *testing.T) {
	store := newFakeStore()
	svc := newService(t, store, &fakeQuotes{})

	wl, err := svc.Load(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, wl.Len())
	assert.Equal(t, []string{"bob@example.com"}, store.tenants)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := newService(t, store, quotesFor("AAPL", "Apple", 150.5, "USD"))
	ctx := context.Background()

	_, err := svc.AddTicker(ctx, "alice@example.com", "AAPL", "140", "180")
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, "alice@example.com"))

	// Drop the session copy and reload from the store.
	wl, err := newService(t, store, &fakeQuotes{}).Load(ctx, "alice@example.com")
	require.NoError(t, err)

	entry, ok := wl.Get("AAPL")
	require.True(t, ok)
	assert.Equal(t, "Apple", entry.CompanyName)
	require.NotNil(t, entry.Price)
	assert.Equal(t, 150.5, *entry.Price)
	assert.Equal(t, 140.0, entry.BuyTarget)
	assert.Equal(t, 180.0, entry.SellTarget)
}

func TestLoadKeepsSessionOnBadRows(t *testing.T) {
	store := newFakeStore()
	store.tenants = []string{"alice@example.com"}
	store.rows["alice@example.com"] = []entity.WatchlistRow{
		{Index: "AAPL", Price: "not-a-number", BuyTarget: "140", SellTarget: "180"},
	}
	svc := newService(t, store, quotesFor("MSFT", "Microsoft", 310, "USD"))
	ctx := context.Background()

	_, err := svc.AddTicker(ctx, "alice@example.com", "MSFT", "300", "400")
	require.NoError(t, err)

	_, err = svc.Load(ctx, "alice@example.com")
	require.ErrorIs(t, err, engine.ErrInvalidInput)

	// The working watchlist is untouched by the failed load.
	wl := svc.Watchlist("alice@example.com")
	_, ok := wl.Get("MSFT")
	assert.True(t, ok)
}

func TestRefreshInvalidatesMemoizedQuotes(t *testing.T) {
	store := newFakeStore()
	quotes := quotesFor("AAPL", "Apple", 150.5, "USD")
	svc := newService(t, store, quotes)
	ctx := context.Background()

	_, err := svc.AddTicker(ctx, "alice@example.com", "AAPL", "140", "180")
	require.NoError(t, err)

	quotes.fields["AAPL"][entity.QuoteFieldMarketPrice] = entity.NumberValue(151.25)
	wl, err := svc.Refresh(ctx, "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL"}, quotes.invalidated)
	entry, _ := wl.Get("AAPL")
	require.NotNil(t, entry.Price)
	assert.Equal(t, 151.25, *entry.Price)
}

func TestExportCSV(t *testing.T) {
	store := newFakeStore()
	svc := newService(t, store, quotesFor("AAPL", "Apple", 150.5, "USD"))
	ctx := context.Background()

	_, err := svc.AddTicker(ctx, "alice@example.com", "AAPL", "140", "180")
	require.NoError(t, err)

	data, err := svc.ExportCSV("alice@example.com")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "index,company,price,price_change,percent_change,buy_target,sell_target,currency,last_update", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "AAPL,Apple,150.5,"))
}

func TestStoredWatchlistUnknownTenant(t *testing.T) {
	svc := newService(t, newFakeStore(), &fakeQuotes{})

	_, err := svc.StoredWatchlist(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestStoredWatchlistDoesNotTouchSession(t *testing.T) {
	store := newFakeStore()
	store.tenants = []string{"alice@example.com"}
	store.rows["alice@example.com"] = []entity.WatchlistRow{
		{Index: "AAPL", BuyTarget: "140", SellTarget: "180"},
	}
	svc := newService(t, store, &fakeQuotes{})

	wl, err := svc.StoredWatchlist(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, wl.Len())

	// The compare view must not seed a working session for the other tenant.
	assert.Equal(t, 0, svc.Watchlist("alice@example.com").Len())
}

func TestStoreErrorsWrapStoreUnavailable(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection refused")
	svc := newService(t, store, &fakeQuotes{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.Save(ctx, "alice@example.com"), ErrStoreUnavailable)

	_, err := svc.Load(ctx, "alice@example.com")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = svc.Tenants(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = svc.StoredWatchlist(ctx, "alice@example.com")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestTenantsListsStoreTenants(t *testing.T) {
	store := newFakeStore()
	store.tenants = []string{"alice@example.com", "bob@example.com"}
	svc := newService(t, store, &fakeQuotes{})

	tenants, err := svc.Tenants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, tenants)
}

func TestDeleteTickerNotFound(t *testing.T) {
	svc := newService(t, newFakeStore(), &fakeQuotes{})

	err := svc.DeleteTicker("alice@example.com", "AAPL")
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestAlertsUseWorkingWatchlist(t *testing.T) {
	store := newFakeStore()
	svc := newService(t, store, quotesFor("AAPL", "Apple", 139, "USD"))
	ctx := context.Background()

	_, err := svc.AddTicker(ctx, "alice@example.com", "AAPL", "140", "180")
	require.NoError(t, err)

	buy, sell := svc.Alerts("alice@example.com", 0, 0)
	require.Len(t, buy, 1)
	assert.Empty(t, sell)
	assert.Equal(t, "AAPL", buy[0].Symbol)
	assert.Equal(t, entity.AlertSideBuy, buy[0].Side)
}
