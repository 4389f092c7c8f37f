package entity

import "time"

// CompanyNameUnknown marks an entry whose company name could not be resolved
// from the quote source. The symbol is never reused as a display name.
const CompanyNameUnknown = "Unknown"

// TickerEntry is one row of a user's watchlist. Pricing fields are nil until
// a fetch succeeds; a target of 0 means no target set.
type TickerEntry struct {
	Symbol        string    `json:"symbol"`
	CompanyName   string    `json:"company_name"`
	Price         *float64  `json:"price"`
	PriceChange   *float64  `json:"price_change"`
	PercentChange *float64  `json:"percent_change"`
	BuyTarget     float64   `json:"buy_target"`
	SellTarget    float64   `json:"sell_target"`
	Currency      *string   `json:"currency"`
	LastUpdate    time.Time `json:"last_update"`
}

// Watchlist maps symbols to ticker entries. Iteration order is insertion
// order so that repeated renders and alert evaluations are stable.
type Watchlist struct {
	entries map[string]*TickerEntry
	order   []string
}

// NewWatchlist creates an empty watchlist.
func NewWatchlist() *Watchlist {
	return &Watchlist{entries: make(map[string]*TickerEntry)}
}

// Put inserts or replaces the entry for its symbol.
func (w *Watchlist) Put(e *TickerEntry) {
	if _, ok := w.entries[e.Symbol]; !ok {
		w.order = append(w.order, e.Symbol)
	}
	w.entries[e.Symbol] = e
}

// Get returns the entry for symbol.
func (w *Watchlist) Get(symbol string) (*TickerEntry, bool) {
	e, ok := w.entries[symbol]
	return e, ok
}

// Remove deletes the entry for symbol and reports whether it existed.
func (w *Watchlist) Remove(symbol string) bool {
	if _, ok := w.entries[symbol]; !ok {
		return false
	}
	delete(w.entries, symbol)
	for i, s := range w.order {
		if s == symbol {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

// Entries returns the entries in insertion order.
func (w *Watchlist) Entries() []*TickerEntry {
	out := make([]*TickerEntry, 0, len(w.order))
	for _, s := range w.order {
		out = append(out, w.entries[s])
	}
	return out
}

// Len returns the number of entries.
func (w *Watchlist) Len() int {
	return len(w.entries)
}
