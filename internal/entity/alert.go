package entity

// AlertSide distinguishes buy-target from sell-target alerts.
type AlertSide string

const (
	AlertSideBuy  AlertSide = "buy"
	AlertSideSell AlertSide = "sell"
)

// Alert is a derived condition, recomputed on every evaluation and never
// persisted.
type Alert struct {
	Symbol string    `json:"symbol"`
	Side   AlertSide `json:"side"`
	Price  float64   `json:"price"`
	Target float64   `json:"target"`
	// PercentFromTarget is (price/target - 1) * -1 for buy alerts and
	// price/target - 1 for sell alerts: a positive fraction when the price
	// has crossed the target.
	PercentFromTarget float64 `json:"percent_from_target"`
}

// HighlightClass is the visual classification of a single watchlist row.
type HighlightClass string

const (
	HighlightNeutral  HighlightClass = "neutral"
	HighlightNearBuy  HighlightClass = "near_buy"
	HighlightNearSell HighlightClass = "near_sell"
)
