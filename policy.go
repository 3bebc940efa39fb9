package papertrade

import "github.com/shopspring/decimal"

// The trading policy maps a predicted probability triple to a signed
// share-count delta. It is deliberately simple and, above all, frozen:
// any change to the scoring or rounding below is a breaking change to the
// reproducibility of historical ledgers and must be versioned.

var two = decimal.NewFromInt(2)

// Score reduces a probability triple to a single conviction value in [-1, 1]:
// (pos - neg) / 2. The neutral class does not participate.
func Score(p Probability) decimal.Decimal {
	return p.Pos.Sub(p.Neg).Div(two)
}

// TradeDelta returns the signed number of shares to trade for one symbol.
//
// The sizing base is the bootstrap share count, not the current position, so
// position sizes do not compound with the portfolio. The raw delta is
// initialShares·score rounded half-away-from-zero to a whole share, then
// clamped so the resulting position can never go short.
func TradeDelta(p Probability, initialShares, currentShares int64) int64 {
	raw := decimal.NewFromInt(initialShares).Mul(Score(p)).Round(0).IntPart()
	if currentShares+raw < 0 {
		return -currentShares
	}
	return raw
}
