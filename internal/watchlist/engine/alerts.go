package engine

import "golang-stock-watchlist/internal/entity"

// EvaluateAlerts scans the watchlist in iteration order and returns the buy
// and sell alerts for the given tolerance percentages. An entry may appear
// in both lists when it satisfies both predicates. Tolerance 0 means exact
// or better than target.
func EvaluateAlerts(wl *entity.Watchlist, buyTolerancePct, sellTolerancePct float64) (buy, sell []entity.Alert) {
	for _, e := range wl.Entries() {
		if e.Price == nil {
			continue
		}
		price := *e.Price

		if withinBuyTarget(price, e.BuyTarget, buyTolerancePct) {
			buy = append(buy, entity.Alert{
				Symbol:            e.Symbol,
				Side:              entity.AlertSideBuy,
				Price:             price,
				Target:            e.BuyTarget,
				PercentFromTarget: (price/e.BuyTarget - 1) * -1,
			})
		}
		if withinSellTarget(price, e.SellTarget, sellTolerancePct) {
			sell = append(sell, entity.Alert{
				Symbol:            e.Symbol,
				Side:              entity.AlertSideSell,
				Price:             price,
				Target:            e.SellTarget,
				PercentFromTarget: price/e.SellTarget - 1,
			})
		}
	}
	return buy, sell
}

// ClassifyForHighlight classifies a single row for conditional formatting.
// The buy predicate is checked first and wins when both hold.
func ClassifyForHighlight(e *entity.TickerEntry, buyTolerancePct, sellTolerancePct float64) entity.HighlightClass {
	if e.Price == nil {
		return entity.HighlightNeutral
	}
	if withinBuyTarget(*e.Price, e.BuyTarget, buyTolerancePct) {
		return entity.HighlightNearBuy
	}
	if withinSellTarget(*e.Price, e.SellTarget, sellTolerancePct) {
		return entity.HighlightNearSell
	}
	return entity.HighlightNeutral
}

func withinBuyTarget(price, target, tolerancePct float64) bool {
	return target > 0 && price <= target*(1+tolerancePct/100)
}

func withinSellTarget(price, target, tolerancePct float64) bool {
	return target > 0 && price >= target*(1-tolerancePct/100)
}
