package entity

import "time"

// WatchlistTenant is one user's isolated partition in the backing store,
// keyed by the authenticated identity.
type WatchlistTenant struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the GORM table name.
func (WatchlistTenant) TableName() string {
	return "watchlist_tenants"
}

// WatchlistRow is one flat stored record of a tenant's watchlist. Data
// columns are text, sheet-style: numeric fields are coerced on load and
// formatted on save.
type WatchlistRow struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	Tenant   string `gorm:"index;not null" json:"-"`
	Position int    `gorm:"not null" json:"-"`

	Index         string `gorm:"column:index;not null" json:"index"`
	Company       string `json:"company"`
	Price         string `json:"price"`
	PriceChange   string `json:"price_change"`
	PercentChange string `json:"percent_change"`
	BuyTarget     string `json:"buy_target"`
	SellTarget    string `json:"sell_target"`
	Currency      string `json:"currency"`
	LastUpdate    string `json:"last_update"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

// TableName overrides the GORM table name.
func (WatchlistRow) TableName() string {
	return "watchlist_rows"
}

// ColumnNames is the header row for tabular exports, index column first.
func (WatchlistRow) ColumnNames() []string {
	return []string{"index", "company", "price", "price_change", "percent_change", "buy_target", "sell_target", "currency", "last_update"}
}

// Values returns the row values in ColumnNames order.
func (r WatchlistRow) Values() []string {
	return []string{r.Index, r.Company, r.Price, r.PriceChange, r.PercentChange, r.BuyTarget, r.SellTarget, r.Currency, r.LastUpdate}
}
