package engine

import (
	"fmt"
	"strconv"

	"golang-stock-watchlist/internal/entity"
	"golang-stock-watchlist/pkg/utils"
)

// ToRows flattens the watchlist to stored rows in iteration order. The
// symbol travels in the index column; numeric fields are formatted with the
// shortest representation that parses back to the same value.
func ToRows(wl *entity.Watchlist) []entity.WatchlistRow {
	entries := wl.Entries()
	rows := make([]entity.WatchlistRow, 0, len(entries))
	for i, e := range entries {
		row := entity.WatchlistRow{
			Position:      i,
			Index:         e.Symbol,
			Company:       e.CompanyName,
			Price:         formatOptional(e.Price),
			PriceChange:   formatOptional(e.PriceChange),
			PercentChange: formatOptional(e.PercentChange),
			BuyTarget:     formatFloat(e.BuyTarget),
			SellTarget:    formatFloat(e.SellTarget),
		}
		if e.Currency != nil {
			row.Currency = *e.Currency
		}
		if !e.LastUpdate.IsZero() {
			row.LastUpdate = utils.FormatTimestamp(e.LastUpdate)
		}
		rows = append(rows, row)
	}
	return rows
}

// FromRows parses stored rows back into a watchlist, coercing numeric text
// columns. A row with an empty index or an unparseable numeric field fails
// with ErrInvalidInput.
func FromRows(rows []entity.WatchlistRow) (*entity.Watchlist, error) {
	wl := entity.NewWatchlist()
	for _, row := range rows {
		if row.Index == "" {
			return nil, fmt.Errorf("%w: row without symbol in index column", ErrInvalidInput)
		}

		entry := &entity.TickerEntry{
			Symbol:      row.Index,
			CompanyName: row.Company,
			LastUpdate:  utils.ParseTimestamp(row.LastUpdate),
		}

		var err error
		if entry.Price, err = parseOptional(row.Price); err != nil {
			return nil, fmt.Errorf("%w: price %q for %s", ErrInvalidInput, row.Price, row.Index)
		}
		if entry.PriceChange, err = parseOptional(row.PriceChange); err != nil {
			return nil, fmt.Errorf("%w: price change %q for %s", ErrInvalidInput, row.PriceChange, row.Index)
		}
		if entry.PercentChange, err = parseOptional(row.PercentChange); err != nil {
			return nil, fmt.Errorf("%w: percent change %q for %s", ErrInvalidInput, row.PercentChange, row.Index)
		}
		if entry.BuyTarget, err = parseRequired(row.BuyTarget); err != nil {
			return nil, fmt.Errorf("%w: buy target %q for %s", ErrInvalidInput, row.BuyTarget, row.Index)
		}
		if entry.SellTarget, err = parseRequired(row.SellTarget); err != nil {
			return nil, fmt.Errorf("%w: sell target %q for %s", ErrInvalidInput, row.SellTarget, row.Index)
		}
		if row.Currency != "" {
			currency := row.Currency
			entry.Currency = &currency
		}

		wl.Put(entry)
	}
	return wl, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func parseOptional(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseRequired(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
