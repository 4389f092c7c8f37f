package http

import (
	"errors"
	"net/http"
	"time"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/internal/watchlist/engine"
	"golang-stock-watchlist/internal/watchlist/service"
	"golang-stock-watchlist/pkg/logger"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

var historyIntervals = map[string]entity.HistoryInterval{
	"daily":   entity.HistoryIntervalDaily,
	"weekly":  entity.HistoryIntervalWeekly,
	"monthly": entity.HistoryIntervalMonthly,
}

// LookupHandler handles HTTP requests for the live-lookup view.
type LookupHandler struct {
	lookupService service.LookupService
	logger        *logger.Logger
}

// NewLookupHandler creates a new LookupHandler.
func NewLookupHandler(lookupService service.LookupService, logger *logger.Logger) *LookupHandler {
	return &LookupHandler{lookupService: lookupService, logger: logger}
}

// RegisterRoutes registers the lookup routes to the Echo group.
func (h *LookupHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:symbol", h.GetSnapshot)
	g.GET("/:symbol/history", h.GetHistory)
}

// GetSnapshot godoc
// @Summary Live pricing snapshot
// @Description Fetches live pricing for a symbol, independent of any stored watchlist
// @Tags lookup
// @Produce json
// @Param symbol path string true "Ticker symbol"
// @Success 200 {object} dto.LookupResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /lookup/{symbol} [get]
func (h *LookupHandler) GetSnapshot(c echo.Context) error {
	snapshot, err := h.lookupService.Snapshot(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to fetch lookup snapshot", logger.ErrorField(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Quote source unavailable"})
	}
	return c.JSON(http.StatusOK, snapshot)
}

// GetHistory godoc
// @Summary Historical prices
// @Description Fetches a historical price series with derived per-bar returns
// @Tags lookup
// @Produce json
// @Param symbol path string true "Ticker symbol"
// @Param interval query string false "daily, weekly or monthly" default(daily)
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /lookup/{symbol}/history [get]
func (h *LookupHandler) GetHistory(c echo.Context) error {
	interval := entity.HistoryIntervalDaily
	if raw := c.QueryParam("interval"); raw != "" {
		var ok bool
		if interval, ok = historyIntervals[raw]; !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "interval must be daily, weekly or monthly"})
		}
	}

	end := time.Now()
	if raw := c.QueryParam("end"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end date"})
		}
		end = parsed
	}

	start := end.AddDate(-1, 0, 0)
	if raw := c.QueryParam("start"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start date"})
		}
		start = parsed
	}

	history, err := h.lookupService.History(c.Request().Context(), c.Param("symbol"), interval, start, end)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to fetch price history", logger.ErrorField(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Quote source unavailable"})
	}
	return c.JSON(http.StatusOK, history)
}
