package entity

// QuoteField identifies a scalar market-data field on the quote source.
type QuoteField string

const (
	QuoteFieldDisplayName         QuoteField = "displayName"
	QuoteFieldShortName           QuoteField = "shortName"
	QuoteFieldMarketPrice         QuoteField = "regularMarketPrice"
	QuoteFieldMarketChange        QuoteField = "regularMarketChange"
	QuoteFieldMarketChangePercent QuoteField = "regularMarketChangePercent"
	QuoteFieldCurrency            QuoteField = "currency"
)

// QuoteValue is a typed optional scalar from the quote source. Valid is
// false when the upstream field is missing.
type QuoteValue struct {
	Text   string
	Number float64
	Valid  bool
}

// TextValue wraps a present string field.
func TextValue(s string) QuoteValue {
	return QuoteValue{Text: s, Valid: true}
}

// NumberValue wraps a present numeric field.
func NumberValue(f float64) QuoteValue {
	return QuoteValue{Number: f, Valid: true}
}

// HistoryInterval is the sampling interval for price history.
type HistoryInterval string

const (
	HistoryIntervalDaily   HistoryInterval = "1d"
	HistoryIntervalWeekly  HistoryInterval = "1wk"
	HistoryIntervalMonthly HistoryInterval = "1mo"
)
