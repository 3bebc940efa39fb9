package papertrade

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote holds one symbol's prices for a single trading day.
type Quote struct {
	Open  decimal.Decimal
	Close decimal.Decimal
}

// Bar is one day of raw market data as returned by a provider, before it is
// stored locally. Prices are kept as decimals end to end.
type Bar struct {
	Day    Date
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// PriceSource supplies real market prices. The engine treats it as a
// synchronous collaborator: no retry policy lives here, and a failure aborts
// the cycle without touching the ledger.
type PriceSource interface {
	// LatestTradingDay returns the most recent trading day for which the
	// source has a daily quote for symbol.
	LatestTradingDay(ctx context.Context, symbol string) (Date, error)

	// DailyQuote returns the open and close prices of symbol on a given day.
	// It fails with ErrNotTradingDay when the day has no session, and with
	// ErrPriceUnavailable when the source cannot answer.
	DailyQuote(ctx context.Context, symbol string, on Date) (Quote, error)
}

// DecisionModel predicts the direction of the next day's price movement as a
// (neg, neu, pos) confidence triple, each in [0,1].
type DecisionModel interface {
	Predict(ctx context.Context, symbol string) (Probability, error)
}
