package service

import (
	"context"
	"math"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/internal/watchlist/config"
	"golang-stock-watchlist/internal/watchlist/engine"
	"golang-stock-watchlist/internal/watchlist/repository"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/telegram"

	"github.com/robfig/cron/v3"
)

// AlertWatcherService periodically refreshes every saved watchlist and sends
// Telegram alerts for entries that crossed their targets. Resends for the
// same symbol and side are throttled until the price moves by the configured
// threshold percent.
type AlertWatcherService struct {
	cfg        *config.Config
	logger     *logger.Logger
	store      repository.WatchlistStoreRepository
	alertState repository.AlertStateRepository
	engine     *engine.Engine
	notifier   telegram.Notifier
	cron       *cron.Cron
}

// NewAlertWatcherService creates the background watcher.
func NewAlertWatcherService(cfg *config.Config, log *logger.Logger, store repository.WatchlistStoreRepository, alertState repository.AlertStateRepository, eng *engine.Engine, notifier telegram.Notifier) *AlertWatcherService {
	return &AlertWatcherService{
		cfg:        cfg,
		logger:     log,
		store:      store,
		alertState: alertState,
		engine:     eng,
		notifier:   notifier,
	}
}

// Start registers the cron schedule and begins watching.
func (s *AlertWatcherService) Start(ctx context.Context) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.cfg.Watcher.Schedule, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Alert watcher started", logger.StringField("schedule", s.cfg.Watcher.Schedule))
	return nil
}

// Stop stops the cron scheduler and waits for a running pass to finish.
func (s *AlertWatcherService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *AlertWatcherService) runOnce(ctx context.Context) {
	tenants, err := s.store.ListTenants(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Watcher failed to list tenants", logger.ErrorField(err))
		return
	}

	for _, tenant := range tenants {
		if err := s.checkTenant(ctx, tenant); err != nil {
			s.logger.ErrorContext(ctx, "Watcher failed for tenant",
				logger.ErrorField(err), logger.StringField("tenant", tenant))
		}
	}
}

func (s *AlertWatcherService) checkTenant(ctx context.Context, tenant string) error {
	rows, err := s.store.ReadAll(ctx, tenant)
	if err != nil {
		return err
	}
	wl, err := engine.FromRows(rows)
	if err != nil {
		return err
	}
	if wl.Len() == 0 {
		return nil
	}

	if err := s.engine.RefreshAll(ctx, wl); err != nil {
		return err
	}

	for _, entry := range wl.Entries() {
		if entry.Price == nil {
			continue
		}
		if err := s.alertState.SetLastPrice(ctx, entry.Symbol, *entry.Price, s.cfg.Watcher.AlertCacheDuration); err != nil {
			s.logger.ErrorContext(ctx, "Failed to mirror last price",
				logger.ErrorField(err), logger.StringField("symbol", entry.Symbol))
		}
	}

	buyAlerts, sellAlerts := engine.EvaluateAlerts(wl, s.cfg.Watcher.BuyTolerancePct, s.cfg.Watcher.SellTolerancePct)
	buyAlerts = s.filterResends(ctx, buyAlerts)
	sellAlerts = s.filterResends(ctx, sellAlerts)

	message := telegram.FormatTargetAlerts(tenant, buyAlerts, sellAlerts)
	if message == "" {
		return nil
	}
	if err := s.notifier.SendMessage(message); err != nil {
		return err
	}

	for _, a := range append(buyAlerts, sellAlerts...) {
		if err := s.alertState.SetLastAlertPrice(ctx, a.Side, a.Symbol, a.Price, s.cfg.Watcher.AlertCacheDuration); err != nil {
			s.logger.ErrorContext(ctx, "Failed to record alert price",
				logger.ErrorField(err), logger.StringField("symbol", a.Symbol))
		}
	}

	s.logger.InfoContext(ctx, "Sent watchlist alerts",
		logger.StringField("tenant", tenant),
		logger.IntField("buy_alerts", len(buyAlerts)),
		logger.IntField("sell_alerts", len(sellAlerts)))
	return nil
}

// filterResends drops alerts whose price has not moved enough since the
// last send for the same symbol and side.
func (s *AlertWatcherService) filterResends(ctx context.Context, alerts []entity.Alert) []entity.Alert {
	var out []entity.Alert
	for _, a := range alerts {
		lastPrice, err := s.alertState.LastAlertPrice(ctx, a.Side, a.Symbol)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to read last alert price",
				logger.ErrorField(err), logger.StringField("symbol", a.Symbol))
			continue
		}
		if lastPrice != 0 {
			percentChange := math.Abs(a.Price-lastPrice) / lastPrice * 100
			if percentChange < s.cfg.Watcher.AlertResendThresholdPercent {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}
