package telegram

import (
	"fmt"
	"strings"

	"golang-stock-watchlist/internal/entity"
)

// FormatTargetAlerts formats buy and sell target alerts for one tenant into
// a single Markdown message. Returns "" when there is nothing to report.
func FormatTargetAlerts(tenant string, buyAlerts, sellAlerts []entity.Alert) string {
	if len(buyAlerts) == 0 && len(sellAlerts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 *Watchlist alerts for %s*\n\n", tenant))

	if len(sellAlerts) > 0 {
		b.WriteString("🟢 *Sell targets met*\n")
		for _, a := range sellAlerts {
			b.WriteString(fmt.Sprintf("*%s*: current price of *%.2f* is *%.1f%%* higher than sell target of *%.2f*\n",
				a.Symbol, a.Price, a.PercentFromTarget*100, a.Target))
		}
		b.WriteString("\n")
	}

	if len(buyAlerts) > 0 {
		b.WriteString("🔴 *Buy targets met*\n")
		for _, a := range buyAlerts {
			b.WriteString(fmt.Sprintf("*%s*: current price of *%.2f* is *%.1f%%* lower than buy target of *%.2f*\n",
				a.Symbol, a.Price, a.PercentFromTarget*100, a.Target))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
