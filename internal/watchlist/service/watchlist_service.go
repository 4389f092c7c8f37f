package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/internal/watchlist/engine"
	"golang-stock-watchlist/internal/watchlist/repository"
	"golang-stock-watchlist/pkg/logger"
)

// WatchlistService drives a tenant's working watchlist: engine operations on
// the session copy, explicit save/load against the store, and tabular export.
type WatchlistService interface {
	Watchlist(tenant string) *entity.Watchlist
	AddTicker(ctx context.Context, tenant, symbol, buyTarget, sellTarget string) (*entity.TickerEntry, error)
	DeleteTicker(tenant, symbol string) error
	Refresh(ctx context.Context, tenant string) (*entity.Watchlist, error)
	Alerts(tenant string, buyTolerancePct, sellTolerancePct float64) (buy, sell []entity.Alert)
	Save(ctx context.Context, tenant string) error
	Load(ctx context.Context, tenant string) (*entity.Watchlist, error)
	ExportCSV(tenant string) ([]byte, error)
	Tenants(ctx context.Context) ([]string, error)
	StoredWatchlist(ctx context.Context, tenant string) (*entity.Watchlist, error)
}

// NewWatchlistService creates a watchlist service.
func NewWatchlistService(eng *engine.Engine, store repository.WatchlistStoreRepository, quotes repository.YahooFinanceRepository, log *logger.Logger) WatchlistService {
	return &watchlistService{
		sessions: NewSessions(),
		engine:   eng,
		store:    store,
		quotes:   quotes,
		logger:   log,
	}
}

type watchlistService struct {
	sessions *Sessions
	engine   *engine.Engine
	store    repository.WatchlistStoreRepository
	quotes   repository.YahooFinanceRepository
	logger   *logger.Logger
}

// Watchlist returns the tenant's working watchlist.
func (s *watchlistService) Watchlist(tenant string) *entity.Watchlist {
	return s.sessions.Get(tenant)
}

// AddTicker adds or fully overwrites one entry with live pricing.
func (s *watchlistService) AddTicker(ctx context.Context, tenant, symbol, buyTarget, sellTarget string) (*entity.TickerEntry, error) {
	return s.engine.AddOrUpdate(ctx, s.sessions.Get(tenant), symbol, buyTarget, sellTarget)
}

// DeleteTicker removes one entry from the working watchlist.
func (s *watchlistService) DeleteTicker(tenant, symbol string) error {
	return s.engine.Delete(s.sessions.Get(tenant), symbol)
}

// Refresh invalidates the memoized quotes for every entry and re-fetches
// pricing.
func (s *watchlistService) Refresh(ctx context.Context, tenant string) (*entity.Watchlist, error) {
	wl := s.sessions.Get(tenant)
	for _, entry := range wl.Entries() {
		s.quotes.Invalidate(entry.Symbol)
	}
	if err := s.engine.RefreshAll(ctx, wl); err != nil {
		return nil, err
	}
	return wl, nil
}

// Alerts evaluates buy and sell alerts against the working watchlist.
func (s *watchlistService) Alerts(tenant string, buyTolerancePct, sellTolerancePct float64) ([]entity.Alert, []entity.Alert) {
	return engine.EvaluateAlerts(s.sessions.Get(tenant), buyTolerancePct, sellTolerancePct)
}

// Save flattens the working watchlist and overwrites the tenant's store
// partition, creating the partition for a first-time tenant.
func (s *watchlistService) Save(ctx context.Context, tenant string) error {
	rows := engine.ToRows(s.sessions.Get(tenant))

	exists, err := s.store.TenantExists(ctx, tenant)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !exists {
		if err := s.store.CreateTenant(ctx, tenant); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		s.logger.InfoContext(ctx, "Created store partition for new tenant", logger.StringField("tenant", tenant))
	}

	if err := s.store.ReplaceAll(ctx, tenant, rows); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.InfoContext(ctx, "Saved watchlist", logger.StringField("tenant", tenant), logger.IntField("rows", len(rows)))
	return nil
}

// Load replaces the working watchlist with the tenant's stored rows. A
// first-time tenant gets a partition created and an empty list; the session
// copy is only replaced once the store read and parse both succeed.
func (s *watchlistService) Load(ctx context.Context, tenant string) (*entity.Watchlist, error) {
	exists, err := s.store.TenantExists(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !exists {
		if err := s.store.CreateTenant(ctx, tenant); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		s.logger.InfoContext(ctx, "No saved watchlist, created store partition", logger.StringField("tenant", tenant))
		wl := entity.NewWatchlist()
		s.sessions.Set(tenant, wl)
		return wl, nil
	}

	rows, err := s.store.ReadAll(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	wl, err := engine.FromRows(rows)
	if err != nil {
		return nil, err
	}

	s.sessions.Set(tenant, wl)
	return wl, nil
}

// ExportCSV renders the working watchlist as a spreadsheet-compatible CSV
// with a header row.
func (s *watchlistService) ExportCSV(tenant string) ([]byte, error) {
	rows := engine.ToRows(s.sessions.Get(tenant))

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(entity.WatchlistRow{}.ColumnNames()); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row.Values()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Tenants lists every tenant known to the store, for the compare view.
func (s *watchlistService) Tenants(ctx context.Context) ([]string, error) {
	tenants, err := s.store.ListTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return tenants, nil
}

// StoredWatchlist reads another tenant's saved watchlist without touching
// any session state.
func (s *watchlistService) StoredWatchlist(ctx context.Context, tenant string) (*entity.Watchlist, error) {
	exists, err := s.store.TenantExists(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTenantNotFound, tenant)
	}

	rows, err := s.store.ReadAll(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return engine.FromRows(rows)
}
