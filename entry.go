package papertrade

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// valuePlaces is the fixed number of fractional digits kept for persisted
// cash, value and probability figures. Changing it breaks historical
// reproducibility.
const valuePlaces = 4

// round4 rounds a decimal to the fixed persisted precision.
func round4(d decimal.Decimal) decimal.Decimal { return d.Round(valuePlaces) }

// LedgerEntry is one row of the portfolio ledger: the state of the fund at
// the close of a single trading day.
//
// An entry is either finalized (real date, prices and derived values set) or
// pending (zero date, shares and cash carried forward from the last finalized
// entry, no prices). A pending entry is the proposed decision for the next
// trading day; it becomes finalized when real prices are known.
type LedgerEntry struct {
	Date   Date             `json:"date,omitzero"`
	Shares map[string]int64 `json:"shares"`

	// Open and Close hold that day's per-symbol prices. Absent on pending entries.
	Open  map[string]decimal.Decimal `json:"open,omitempty"`
	Close map[string]decimal.Decimal `json:"close,omitempty"`

	Cash decimal.Decimal `json:"cash"`

	// TotalValue is cash + Σ shares·close, defined only when finalized.
	TotalValue decimal.Decimal `json:"totalValue,omitzero"`

	// BenchmarkValue is the buy-and-hold valuation of the original
	// allocation at this day's closing prices.
	BenchmarkValue decimal.Decimal `json:"benchmarkValue,omitzero"`
}

// When returns the entry date, zero when pending.
func (e LedgerEntry) When() Date { return e.Date }

// IsPending reports whether the entry is a proposed, not yet confirmed, decision.
func (e LedgerEntry) IsPending() bool { return e.Date.IsZero() }

// derivedTotal recomputes cash + Σ shares·close from the entry itself.
// For a finalized entry it must reproduce TotalValue exactly.
func (e LedgerEntry) derivedTotal() decimal.Decimal {
	total := e.Cash
	for symbol, count := range e.Shares {
		total = total.Add(decimal.NewFromInt(count).Mul(e.Close[symbol]))
	}
	return round4(total)
}

// Probability is the model-predicted chance of the next day's price moving
// down (Neg), sideways (Neu) or up (Pos). The three values are independent
// per-class confidences in [0,1]; they are not required to sum to 1.
type Probability struct {
	Neg decimal.Decimal `json:"neg"`
	Neu decimal.Decimal `json:"neu"`
	Pos decimal.Decimal `json:"pos"`
}

// Round returns the probability with each component rounded to the fixed
// persisted precision.
func (p Probability) Round() Probability {
	return Probability{Neg: round4(p.Neg), Neu: round4(p.Neu), Pos: round4(p.Pos)}
}

// Validate checks that every component is in [0,1].
func (p Probability) Validate() error {
	one := decimal.NewFromInt(1)
	for _, v := range []decimal.Decimal{p.Neg, p.Neu, p.Pos} {
		if v.IsNegative() || v.GreaterThan(one) {
			return fmt.Errorf("probability %s out of [0,1]", v)
		}
	}
	return nil
}

// ProbabilityEntry is one row of the probability journal: the predicted
// probabilities used (or to be used) for the trading decision of one day.
type ProbabilityEntry struct {
	Date  Date                   `json:"date,omitzero"`
	Probs map[string]Probability `json:"probs"`
}

// When returns the entry date, zero when pending.
func (e ProbabilityEntry) When() Date { return e.Date }

// IsPending reports whether the prediction has not been confirmed against a
// real trading day yet.
func (e ProbabilityEntry) IsPending() bool { return e.Date.IsZero() }

// withDate returns a copy of the entry stamped with the trading day it was
// finalized on.
func (e ProbabilityEntry) withDate(on Date) ProbabilityEntry {
	return ProbabilityEntry{Date: on, Probs: e.Probs}
}

// TradeRecord is one immutable audit fact: a share transaction executed while
// finalizing a cycle. One record is written per symbol per finalized cycle,
// even when Delta is zero.
type TradeRecord struct {
	Date        Date            `json:"date"`
	Symbol      string          `json:"symbol"`
	PriorShares int64           `json:"priorShares"`
	Delta       int64           `json:"delta"`
	Price       decimal.Decimal `json:"price"` // execution price: that day's open
}

// When returns the trading day the record was executed on.
func (r TradeRecord) When() Date { return r.Date }

// Holdings is the read-only view of the fund on a given day, exposed to
// presentation layers.
type Holdings struct {
	Date           Date
	Shares         map[string]int64
	Cash           decimal.Decimal
	TotalValue     decimal.Decimal
	BenchmarkValue decimal.Decimal
}
