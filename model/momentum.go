package model

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"papertrade"
)

// CloseSource supplies recent closing prices, most recent first. The price
// database implements it.
type CloseSource interface {
	RecentCloses(ctx context.Context, symbol string, n int) ([]decimal.Decimal, error)
}

// DefaultMomentumWindow is the number of closes the momentum model looks back.
const DefaultMomentumWindow = 10

var (
	half = decimal.RequireFromString("0.5")
	one  = decimal.NewFromInt(1)
	five = decimal.NewFromInt(5)
)

// Momentum is a deterministic model: the direction probabilities follow the
// relative price change over the lookback window. It needs no credentials
// and no network, which makes it the fallback model and the one used in
// tests and dry runs.
type Momentum struct {
	Closes CloseSource
	Window int
}

// NewMomentum returns a momentum model over the default window.
func NewMomentum(closes CloseSource) *Momentum {
	return &Momentum{Closes: closes, Window: DefaultMomentumWindow}
}

// Predict implements papertrade.DecisionModel.
//
// The relative change over the window, amplified and clamped to [-0.5, 0.5],
// becomes the tilt away from an even split: pos = 0.5+tilt, neg = 0.5-tilt.
// Fewer than two closes yield a fully neutral prediction.
func (m *Momentum) Predict(ctx context.Context, symbol string) (papertrade.Probability, error) {
	window := m.Window
	if window <= 0 {
		window = DefaultMomentumWindow
	}
	closes, err := m.Closes.RecentCloses(ctx, symbol, window)
	if err != nil {
		return papertrade.Probability{}, fmt.Errorf("momentum for %q: %w", symbol, err)
	}
	if len(closes) < 2 {
		return papertrade.Probability{Neu: one}, nil
	}

	newest, oldest := closes[0], closes[len(closes)-1]
	if oldest.IsZero() {
		return papertrade.Probability{Neu: one}, nil
	}
	tilt := newest.Sub(oldest).Div(oldest).Mul(five)
	if tilt.GreaterThan(half) {
		tilt = half
	}
	if tilt.LessThan(half.Neg()) {
		tilt = half.Neg()
	}

	return papertrade.Probability{
		Neg: half.Sub(tilt),
		Neu: one.Sub(tilt.Abs().Mul(decimal.NewFromInt(2))),
		Pos: half.Add(tilt),
	}.Round(), nil
}

var _ papertrade.DecisionModel = (*Momentum)(nil)
