package papertrade

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// State describes where the ledger sits in the two-phase trading cycle.
type State int

const (
	// Idle: the last entry is finalized and no decision is pending.
	Idle State = iota
	// AwaitingMarketData: a decision is pending and the market has not
	// produced a new trading day yet.
	AwaitingMarketData
	// ReadyToFinalize: a decision is pending and the price source reports a
	// trading day strictly after the last finalized date.
	ReadyToFinalize
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingMarketData:
		return "awaiting-market-data"
	case ReadyToFinalize:
		return "ready-to-finalize"
	default:
		return "unknown"
	}
}

// Engine drives the two-phase trading cycle: finalize the previous pending
// decision against real prices, then propose the next one. It owns explicit
// references to every collaborator; nothing is ambient.
//
// The engine is single-threaded and non-reentrant: one invocation per
// external trigger, serialized by an advisory lock held by the caller for
// the duration of the cycle.
type Engine struct {
	Ledger *LedgerStore
	Probs  *ProbabilityJournal
	Trades *TradeLog
	Prices PriceSource
	Model  DecisionModel

	// Symbols is the fixed universe the fund trades. The first symbol is the
	// reference for detecting a new trading day.
	Symbols []string
}

// NewEngine wires an engine from its collaborators.
func NewEngine(ledger *LedgerStore, probs *ProbabilityJournal, trades *TradeLog, prices PriceSource, model DecisionModel, symbols []string) (*Engine, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("engine needs at least one symbol")
	}
	return &Engine{
		Ledger:  ledger,
		Probs:   probs,
		Trades:  trades,
		Prices:  prices,
		Model:   model,
		Symbols: symbols,
	}, nil
}

// State resolves the current cycle state from the stores and the price source.
func (e *Engine) State(ctx context.Context) (State, error) {
	if _, err := e.Ledger.Last(); err != nil {
		return Idle, err
	}
	if !e.Probs.HasPending() {
		return Idle, nil
	}
	last, err := e.Ledger.LastFinalized()
	if err != nil {
		return Idle, err
	}
	latest, err := e.Prices.LatestTradingDay(ctx, e.Symbols[0])
	if err != nil {
		return Idle, fmt.Errorf("could not determine latest trading day: %w", err)
	}
	if latest.After(last.Date) {
		return ReadyToFinalize, nil
	}
	return AwaitingMarketData, nil
}

// Run executes one complete cycle: finalize the past, then decide the future.
// Running it repeatedly on the same day is safe; a cycle with no new trading
// day only refreshes the pending prediction.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Finalize(ctx); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	if err := e.Decide(ctx); err != nil {
		return fmt.Errorf("decide: %w", err)
	}
	return nil
}

// Finalize confirms the pending decision against the prices of the newest
// trading day. When no decision is pending, or no new trading day has
// occurred since the last finalized entry, it is a no-op: the ledger is not
// touched and the pending prediction survives for Decide to refresh.
//
// All quotes are fetched before anything is written; a price failure for any
// symbol aborts the whole cycle with the ledger in its pre-transition state.
func (e *Engine) Finalize(ctx context.Context) error {
	if !e.Probs.HasPending() {
		// Already finalized, or never decided. Tolerated so the cycle can be
		// re-run for the same day.
		if e.Ledger.HasPending() {
			log.Warn().Msg("ledger has a pending entry but no prediction is pending; it will be superseded")
		}
		log.Info().Msg("no pending prediction to finalize")
		return nil
	}
	pending, err := e.Probs.Pending()
	if err != nil {
		return err
	}

	last, err := e.Ledger.LastFinalized()
	if err != nil {
		return err
	}
	latest, err := e.Prices.LatestTradingDay(ctx, e.Symbols[0])
	if err != nil {
		return fmt.Errorf("could not determine latest trading day: %w", err)
	}
	log.Info().Stringer("lastFinalized", last.Date).Stringer("latestTradingDay", latest).Msg("finalize")

	if latest.Before(last.Date) {
		log.Warn().Stringer("latestTradingDay", latest).Stringer("lastFinalized", last.Date).
			Msg("price source is behind the ledger")
	}
	if !latest.After(last.Date) {
		log.Info().Msg("no new trading day, decision stays pending")
		return nil
	}

	// New daily prices are available: the pending decision can be confirmed.
	quotes := make(map[string]Quote, len(e.Symbols))
	for _, symbol := range e.Symbols {
		q, err := e.Prices.DailyQuote(ctx, symbol, latest)
		if err != nil {
			return fmt.Errorf("cannot finalize %s, no quote for %s: %w", latest, symbol, err)
		}
		quotes[symbol] = q
	}

	initial, err := e.Ledger.InitialHoldings()
	if err != nil {
		return err
	}

	shares := maps.Clone(last.Shares)
	cash := last.Cash
	open := make(map[string]decimal.Decimal, len(e.Symbols))
	close := make(map[string]decimal.Decimal, len(e.Symbols))
	records := make([]TradeRecord, 0, len(e.Symbols))

	// Trade at the open price, symbol by symbol.
	for _, symbol := range e.Symbols {
		prob, ok := pending.Probs[symbol]
		if !ok {
			return fmt.Errorf("pending prediction has no probabilities for %s", symbol)
		}
		delta := TradeDelta(prob, initial.Shares[symbol], shares[symbol])
		log.Info().Str("symbol", symbol).Int64("prior", shares[symbol]).Int64("delta", delta).
			Str("pos", prob.Pos.String()).Str("neg", prob.Neg.String()).Msg("trading decision")

		records = append(records, TradeRecord{
			Date:        latest,
			Symbol:      symbol,
			PriorShares: shares[symbol],
			Delta:       delta,
			Price:       round4(quotes[symbol].Open),
		})
		shares[symbol] += delta
		cash = cash.Sub(decimal.NewFromInt(delta).Mul(quotes[symbol].Open))
		open[symbol] = quotes[symbol].Open
		close[symbol] = quotes[symbol].Close
	}

	// Value the fund and the buy-and-hold benchmark at the close.
	total := cash
	bench := initial.Cash
	for _, symbol := range e.Symbols {
		total = total.Add(decimal.NewFromInt(shares[symbol]).Mul(close[symbol]))
		bench = bench.Add(decimal.NewFromInt(initial.Shares[symbol]).Mul(close[symbol]))
	}

	entry := LedgerEntry{
		Date:           latest,
		Shares:         shares,
		Open:           open,
		Close:          close,
		Cash:           round4(cash),
		TotalValue:     round4(total),
		BenchmarkValue: round4(bench),
	}

	if e.Ledger.HasPending() {
		if err := e.Ledger.ReplacePendingWithFinalized(entry); err != nil {
			return err
		}
	} else {
		// Journals disagree on pending state; tolerate and repair.
		log.Warn().Msg("no pending ledger entry to replace, appending the finalized entry")
		if err := e.Ledger.Append(entry); err != nil {
			return err
		}
	}
	if err := e.Probs.ReplacePendingWithFinalized(pending.withDate(latest)); err != nil {
		return err
	}
	if err := e.Trades.Append(records...); err != nil {
		return err
	}

	injected, err := e.Ledger.FloorCash()
	if err != nil {
		return err
	}
	if injected.IsPositive() {
		log.Info().Str("amount", injected.String()).Msg("raised initial cash to keep the floor at zero")
	}

	log.Info().Stringer("date", latest).Str("totalValue", entry.TotalValue.String()).Msg("finalized trading day")
	return nil
}

// Decide obtains a fresh prediction for every symbol and records it as the
// next pending decision, superseding any unconfirmed one. The ledger gets a
// matching pending placeholder carrying the current holdings forward.
//
// All predictions are collected before anything is written, so a model
// failure leaves the journals untouched.
func (e *Engine) Decide(ctx context.Context) error {
	probs := make(map[string]Probability, len(e.Symbols))
	for _, symbol := range e.Symbols {
		p, err := e.Model.Predict(ctx, symbol)
		if err != nil {
			return fmt.Errorf("could not predict %s: %w", symbol, err)
		}
		p = p.Round()
		if err := p.Validate(); err != nil {
			return fmt.Errorf("prediction for %s: %w", symbol, err)
		}
		probs[symbol] = p
	}

	// A surviving unconfirmed prediction is superseded by this one.
	if _, err := e.Probs.PopPending(); err != nil && !errors.Is(err, ErrNoPending) {
		return err
	}
	if err := e.Probs.Append(ProbabilityEntry{Probs: probs}); err != nil {
		return err
	}

	last, err := e.Ledger.LastFinalized()
	if err != nil {
		return err
	}
	if _, err := e.Ledger.PopPending(); err != nil && !errors.Is(err, ErrNoPending) {
		return err
	}
	placeholder := LedgerEntry{Shares: maps.Clone(last.Shares), Cash: last.Cash}
	if err := e.Ledger.Append(placeholder); err != nil {
		return err
	}

	log.Info().Int("symbols", len(probs)).Msg("recorded pending prediction for the next trading day")
	return nil
}
