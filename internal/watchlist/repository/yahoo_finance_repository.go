package repository

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/internal/watchlist/config"
	"golang-stock-watchlist/internal/watchlist/dto"
	"golang-stock-watchlist/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var crumbPattern = regexp.MustCompile(`"CrumbStore":{"crumb":"(.+?)"}`)

// YahooFinanceRepository is the quote source: scalar market-data fields and
// historical price downloads. Results are memoized per symbol until
// Invalidate is called.
type YahooFinanceRepository interface {
	GetField(ctx context.Context, symbol string, field entity.QuoteField) (entity.QuoteValue, error)
	GetHistory(ctx context.Context, param dto.GetHistoryParam) ([]dto.HistoryBar, error)
	Invalidate(symbol string)
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	quoteCache     *cache.Cache
	historyCache   *cache.Cache

	mu      sync.Mutex
	crumb   string
	cookies []*http.Cookie
}

// NewYahooFinanceRepository creates a rate-limited Yahoo Finance client.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) (YahooFinanceRepository, error) {
	if cfg.YahooFinance.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("yahoo_finance.max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: requestLimiterOrDefault(secondsPerRequest),
		quoteCache:     cache.New(cfg.YahooFinance.QuoteCacheTTL, 10*time.Minute),
		historyCache:   cache.New(cfg.YahooFinance.HistoryCacheTTL, 10*time.Minute),
	}, nil
}

func requestLimiterOrDefault(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		interval = time.Second
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// GetField returns a typed optional field from the memoized quote for
// symbol. A field missing upstream yields an invalid value, not an error.
func (r *yahooFinanceRepository) GetField(ctx context.Context, symbol string, field entity.QuoteField) (entity.QuoteValue, error) {
	quote, err := r.getQuote(ctx, symbol)
	if err != nil {
		return entity.QuoteValue{}, err
	}

	switch field {
	case entity.QuoteFieldDisplayName:
		return textOrInvalid(quote.DisplayName), nil
	case entity.QuoteFieldShortName:
		return textOrInvalid(quote.ShortName), nil
	case entity.QuoteFieldCurrency:
		return textOrInvalid(quote.Currency), nil
	case entity.QuoteFieldMarketPrice:
		return numberOrInvalid(quote.RegularMarketPrice), nil
	case entity.QuoteFieldMarketChange:
		return numberOrInvalid(quote.RegularMarketChange), nil
	case entity.QuoteFieldMarketChangePercent:
		return numberOrInvalid(quote.RegularMarketChangePercent), nil
	default:
		return entity.QuoteValue{}, fmt.Errorf("unknown quote field: %s", field)
	}
}

// Invalidate drops the memoized quote and history for symbol so the next
// read fetches fresh data.
func (r *yahooFinanceRepository) Invalidate(symbol string) {
	r.quoteCache.Delete(symbol)
	for key := range r.historyCache.Items() {
		if strings.HasPrefix(key, symbol+"|") {
			r.historyCache.Delete(key)
		}
	}
}

func (r *yahooFinanceRepository) getQuote(ctx context.Context, symbol string) (*dto.YahooQuote, error) {
	if cached, ok := r.quoteCache.Get(symbol); ok {
		return cached.(*dto.YahooQuote), nil
	}

	reqURL := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", r.cfg.YahooFinance.BaseURL, url.QueryEscape(symbol))
	body, err := r.sendRequest(ctx, reqURL, nil)
	if err != nil {
		return nil, err
	}

	var response dto.YahooQuoteResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	if len(response.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote result for %s", symbol)
	}

	quote := &response.QuoteResponse.Result[0]
	r.quoteCache.Set(symbol, quote, cache.DefaultExpiration)
	return quote, nil
}

// GetHistory downloads the historical CSV for the requested range, deriving
// the per-bar return from consecutive closes.
func (r *yahooFinanceRepository) GetHistory(ctx context.Context, param dto.GetHistoryParam) ([]dto.HistoryBar, error) {
	key := fmt.Sprintf("%s|%s|%d|%d", param.Symbol, param.Interval, param.Start.Unix(), param.End.Unix())
	if cached, ok := r.historyCache.Get(key); ok {
		return cached.([]dto.HistoryBar), nil
	}

	crumb, cookies, err := r.crumbAndCookies(ctx, param.Symbol)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/v7/finance/download/%s?period1=%d&period2=%d&interval=%s&events=history&crumb=%s",
		r.cfg.YahooFinance.BaseURL,
		url.PathEscape(param.Symbol),
		param.Start.Unix(),
		param.End.Unix(),
		param.Interval,
		url.QueryEscape(crumb),
	)
	body, err := r.sendRequest(ctx, reqURL, cookies)
	if err != nil {
		return nil, err
	}

	bars, err := parseHistoryCSV(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse history for %s: %w", param.Symbol, err)
	}

	r.historyCache.Set(key, bars, cache.DefaultExpiration)
	return bars, nil
}

// crumbAndCookies scrapes the download token from the quote history page.
// The token is tied to the session cookies and reused until a request fails.
func (r *yahooFinanceRepository) crumbAndCookies(ctx context.Context, symbol string) (string, []*http.Cookie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.crumb != "" {
		return r.crumb, r.cookies, nil
	}

	pageURL := fmt.Sprintf("%s/quote/%s/history", r.cfg.YahooFinance.PageURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch history page: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse history page: %w", err)
	}

	var crumb string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := crumbPattern.FindStringSubmatch(s.Text()); m != nil {
			crumb = m[1]
			return false
		}
		return true
	})
	if crumb == "" {
		return "", nil, fmt.Errorf("no crumb found on history page for %s", symbol)
	}

	r.crumb = crumb
	r.cookies = resp.Cookies()
	r.log.DebugContext(ctx, "Fetched Yahoo Finance crumb", logger.StringField("symbol", symbol))
	return r.crumb, r.cookies, nil
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, reqURL string, cookies []*http.Cookie) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Yahoo Finance",
			logger.ErrorField(err), logger.StringField("url", reqURL))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from Yahoo Finance",
			logger.IntField("status_code", resp.StatusCode), logger.StringField("url", reqURL))
		return nil, fmt.Errorf("yahoo finance returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func parseHistoryCSV(body []byte) ([]dto.HistoryBar, error) {
	records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("empty history download")
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, required := range []string{"Date", "Open", "High", "Low", "Close", "Volume"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("history download missing column %q", required)
		}
	}

	var bars []dto.HistoryBar
	var prevClose float64
	for _, rec := range records[1:] {
		date, err := time.Parse("2006-01-02", rec[col["Date"]])
		if err != nil {
			return nil, err
		}

		bar := dto.HistoryBar{Date: date}
		if bar.Open, err = strconv.ParseFloat(rec[col["Open"]], 64); err != nil {
			continue // rows with "null" prices happen on non-trading days
		}
		bar.High, _ = strconv.ParseFloat(rec[col["High"]], 64)
		bar.Low, _ = strconv.ParseFloat(rec[col["Low"]], 64)
		if bar.Close, err = strconv.ParseFloat(rec[col["Close"]], 64); err != nil {
			continue
		}
		bar.Volume, _ = strconv.ParseInt(rec[col["Volume"]], 10, 64)

		if prevClose != 0 {
			ret := bar.Close/prevClose - 1
			bar.Return = &ret
		}
		prevClose = bar.Close

		bars = append(bars, bar)
	}

	return bars, nil
}

func textOrInvalid(s *string) entity.QuoteValue {
	if s == nil || *s == "" {
		return entity.QuoteValue{}
	}
	return entity.TextValue(*s)
}

func numberOrInvalid(f *float64) entity.QuoteValue {
	if f == nil {
		return entity.QuoteValue{}
	}
	return entity.NumberValue(*f)
}
