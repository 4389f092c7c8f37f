package config

import (
	"time"

	"golang-stock-watchlist/pkg/config"
)

// YahooFinance holds the configuration for the Yahoo Finance quote source.
type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	PageURL             string        `mapstructure:"page_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	QuoteCacheTTL       time.Duration `mapstructure:"quote_cache_ttl"`
	HistoryCacheTTL     time.Duration `mapstructure:"history_cache_ttl"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Watcher holds configuration for the background alert watcher.
type Watcher struct {
	Enabled                     bool          `mapstructure:"enabled"`
	Schedule                    string        `mapstructure:"schedule"`
	BuyTolerancePct             float64       `mapstructure:"buy_tolerance_pct"`
	SellTolerancePct            float64       `mapstructure:"sell_tolerance_pct"`
	AlertCacheDuration          time.Duration `mapstructure:"alert_cache_duration"`
	AlertResendThresholdPercent float64       `mapstructure:"alert_resend_threshold_percent"`
}

// Auth holds the externally supplied identity settings.
type Auth struct {
	IdentityHeader string `mapstructure:"identity_header"`
}

// Config holds the full configuration for the dashboard service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	Telegram     Telegram        `mapstructure:"telegram"`
	Watcher      Watcher         `mapstructure:"watcher"`
	Auth         Auth            `mapstructure:"auth"`
}

// Load loads the dashboard configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
