package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/internal/watchlist/dto"
	"golang-stock-watchlist/internal/watchlist/engine"
	"golang-stock-watchlist/internal/watchlist/service"
	"golang-stock-watchlist/pkg/logger"
	"golang-stock-watchlist/pkg/utils"

	"github.com/labstack/echo/v4"
)

// WatchlistHandler handles HTTP requests for the authenticated tenant's
// watchlist.
type WatchlistHandler struct {
	watchlistService service.WatchlistService
	logger           *logger.Logger
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlistService service.WatchlistService, logger *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService, logger: logger}
}

// RegisterRoutes registers the watchlist routes to the Echo group.
func (h *WatchlistHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetWatchlist)
	g.POST("/tickers", h.AddTicker)
	g.DELETE("/tickers/:symbol", h.DeleteTicker)
	g.POST("/refresh", h.Refresh)
	g.GET("/alerts", h.GetAlerts)
	g.POST("/save", h.Save)
	g.POST("/load", h.Load)
	g.GET("/export", h.Export)
}

// RegisterTenantRoutes registers the tenant listing and compare-view routes.
func (h *WatchlistHandler) RegisterTenantRoutes(g *echo.Group) {
	g.GET("", h.ListTenants)
	g.GET("/:tenant/watchlist", h.GetTenantWatchlist)
}

// GetWatchlist godoc
// @Summary Get the working watchlist
// @Description Returns the tenant's working watchlist; with tolerance query parameters each row also carries its highlight class
// @Tags watchlist
// @Produce json
// @Param buy_tolerance_pct query number false "Buy tolerance percent"
// @Param sell_tolerance_pct query number false "Sell tolerance percent"
// @Success 200 {object} dto.WatchlistResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /watchlist [get]
func (h *WatchlistHandler) GetWatchlist(c echo.Context) error {
	buyTol, sellTol, withHighlight, err := toleranceParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	tenant := tenantFrom(c)
	wl := h.watchlistService.Watchlist(tenant)
	return c.JSON(http.StatusOK, toWatchlistResponse(tenant, wl, withHighlight, buyTol, sellTol))
}

// AddTicker godoc
// @Summary Add or update a ticker
// @Description Adds a ticker with buy/sell targets, fetching live pricing; an existing entry is fully overwritten
// @Tags watchlist
// @Accept json
// @Produce json
// @Param ticker body dto.AddTickerRequest true "Ticker to add"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /watchlist/tickers [post]
func (h *WatchlistHandler) AddTicker(c echo.Context) error {
	var req dto.AddTickerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	entry, err := h.watchlistService.AddTicker(c.Request().Context(), tenantFrom(c), req.Symbol, req.BuyTarget, req.SellTarget)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toEntryResponse(entry))
}

// DeleteTicker godoc
// @Summary Delete a ticker
// @Description Removes one ticker from the working watchlist
// @Tags watchlist
// @Produce json
// @Param symbol path string true "Ticker symbol"
// @Success 204 {object} nil
// @Failure 404 {object} dto.ErrorResponse
// @Router /watchlist/tickers/{symbol} [delete]
func (h *WatchlistHandler) DeleteTicker(c echo.Context) error {
	if err := h.watchlistService.DeleteTicker(tenantFrom(c), c.Param("symbol")); err != nil {
		return h.errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Refresh godoc
// @Summary Refresh pricing
// @Description Invalidates memoized quotes and re-fetches pricing for every entry
// @Tags watchlist
// @Produce json
// @Success 200 {object} dto.WatchlistResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /watchlist/refresh [post]
func (h *WatchlistHandler) Refresh(c echo.Context) error {
	tenant := tenantFrom(c)
	wl, err := h.watchlistService.Refresh(c.Request().Context(), tenant)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toWatchlistResponse(tenant, wl, false, 0, 0))
}

// GetAlerts godoc
// @Summary Evaluate alerts
// @Description Returns buy and sell alerts for the working watchlist at the given tolerances
// @Tags watchlist
// @Produce json
// @Param buy_tolerance_pct query number false "Buy tolerance percent"
// @Param sell_tolerance_pct query number false "Sell tolerance percent"
// @Success 200 {object} dto.AlertsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /watchlist/alerts [get]
func (h *WatchlistHandler) GetAlerts(c echo.Context) error {
	buyTol, sellTol, _, err := toleranceParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	buy, sell := h.watchlistService.Alerts(tenantFrom(c), buyTol, sellTol)
	return c.JSON(http.StatusOK, dto.AlertsResponse{BuyAlerts: buy, SellAlerts: sell})
}

// Save godoc
// @Summary Save the watchlist
// @Description Overwrites the tenant's store partition with the working watchlist
// @Tags watchlist
// @Produce json
// @Success 204 {object} nil
// @Failure 503 {object} dto.ErrorResponse
// @Router /watchlist/save [post]
func (h *WatchlistHandler) Save(c echo.Context) error {
	if err := h.watchlistService.Save(c.Request().Context(), tenantFrom(c)); err != nil {
		return h.errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Load godoc
// @Summary Load the saved watchlist
// @Description Replaces the working watchlist with the tenant's stored rows, creating an empty partition for a first-time tenant
// @Tags watchlist
// @Produce json
// @Success 200 {object} dto.WatchlistResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /watchlist/load [post]
func (h *WatchlistHandler) Load(c echo.Context) error {
	tenant := tenantFrom(c)
	wl, err := h.watchlistService.Load(c.Request().Context(), tenant)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toWatchlistResponse(tenant, wl, false, 0, 0))
}

// Export godoc
// @Summary Export the watchlist
// @Description Downloads the working watchlist as a CSV file with a header row
// @Tags watchlist
// @Produce text/csv
// @Success 200 {string} string
// @Router /watchlist/export [get]
func (h *WatchlistHandler) Export(c echo.Context) error {
	data, err := h.watchlistService.ExportCSV(tenantFrom(c))
	if err != nil {
		h.logger.Error("Failed to export watchlist", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to export watchlist"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="watchlist.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

// ListTenants godoc
// @Summary List tenants
// @Description Lists every tenant with a saved watchlist
// @Tags tenants
// @Produce json
// @Success 200 {object} dto.TenantsResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /tenants [get]
func (h *WatchlistHandler) ListTenants(c echo.Context) error {
	tenants, err := h.watchlistService.Tenants(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.TenantsResponse{Tenants: tenants})
}

// GetTenantWatchlist godoc
// @Summary Get another tenant's saved watchlist
// @Description Read-only view of another tenant's stored rows, for the compare view
// @Tags tenants
// @Produce json
// @Param tenant path string true "Tenant name"
// @Success 200 {object} dto.WatchlistResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tenants/{tenant}/watchlist [get]
func (h *WatchlistHandler) GetTenantWatchlist(c echo.Context) error {
	tenant := c.Param("tenant")
	wl, err := h.watchlistService.StoredWatchlist(c.Request().Context(), tenant)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toWatchlistResponse(tenant, wl, false, 0, 0))
}

func (h *WatchlistHandler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrNotFound), errors.Is(err, service.ErrTenantNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrStoreUnavailable):
		h.logger.Error("Watchlist store unavailable", logger.ErrorField(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Watchlist store unavailable"})
	default:
		h.logger.Error("Watchlist operation failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal error"})
	}
}

func toleranceParams(c echo.Context) (buyTol, sellTol float64, present bool, err error) {
	if raw := c.QueryParam("buy_tolerance_pct"); raw != "" {
		present = true
		if buyTol, err = strconv.ParseFloat(raw, 64); err != nil || buyTol < 0 {
			return 0, 0, false, errors.New("invalid buy_tolerance_pct")
		}
	}
	if raw := c.QueryParam("sell_tolerance_pct"); raw != "" {
		present = true
		if sellTol, err = strconv.ParseFloat(raw, 64); err != nil || sellTol < 0 {
			return 0, 0, false, errors.New("invalid sell_tolerance_pct")
		}
	}
	return buyTol, sellTol, present, nil
}

func toEntryResponse(e *entity.TickerEntry) dto.EntryResponse {
	resp := dto.EntryResponse{
		Symbol:        e.Symbol,
		CompanyName:   e.CompanyName,
		Price:         e.Price,
		PriceChange:   e.PriceChange,
		PercentChange: e.PercentChange,
		BuyTarget:     e.BuyTarget,
		SellTarget:    e.SellTarget,
		Currency:      e.Currency,
	}
	if !e.LastUpdate.IsZero() {
		resp.LastUpdate = utils.FormatTimestamp(e.LastUpdate)
	}
	return resp
}

func toWatchlistResponse(tenant string, wl *entity.Watchlist, withHighlight bool, buyTol, sellTol float64) dto.WatchlistResponse {
	resp := dto.WatchlistResponse{Tenant: tenant, Entries: []dto.EntryResponse{}}
	for _, e := range wl.Entries() {
		entry := toEntryResponse(e)
		if withHighlight {
			entry.Highlight = engine.ClassifyForHighlight(e, buyTol, sellTol)
		}
		resp.Entries = append(resp.Entries, entry)
	}
	return resp
}
