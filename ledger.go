package papertrade

import (
	"fmt"
	"iter"

	"github.com/shopspring/decimal"
)

// LedgerStore is the persisted sequence of daily portfolio snapshots: an
// ordered, append-only history of finalized entries plus at most one trailing
// pending entry.
type LedgerStore struct {
	j *journal[LedgerEntry]
}

// OpenLedger returns a ledger store persisted under dir.
func OpenLedger(dir string) *LedgerStore {
	return &LedgerStore{j: newJournal[LedgerEntry](dir, "ledger")}
}

// Exists reports whether the ledger was ever bootstrapped.
func (s *LedgerStore) Exists() bool { return s.j.Exists() }

// Append adds a new trailing entry. A finalized entry must be strictly newer
// than the last finalized date or the append fails with ErrOrdering.
func (s *LedgerStore) Append(e LedgerEntry) error { return s.j.Append(e) }

// Last returns the most recent entry, pending or finalized. It fails with
// ErrEmptyLedger if the store was never bootstrapped.
func (s *LedgerStore) Last() (LedgerEntry, error) { return s.j.Last() }

// LastFinalized returns the most recent finalized entry.
func (s *LedgerStore) LastFinalized() (LedgerEntry, error) { return s.j.LastFinalized() }

// HasPending reports whether a trailing pending entry exists.
func (s *LedgerStore) HasPending() bool { return s.j.HasPending() }

// Pending returns the trailing pending entry without removing it.
func (s *LedgerStore) Pending() (LedgerEntry, error) { return s.j.Pending() }

// PopPending removes and returns the trailing pending entry, failing with
// ErrNoPending if there is none.
func (s *LedgerStore) PopPending() (LedgerEntry, error) { return s.j.PopPending() }

// ReplacePendingWithFinalized atomically retires the trailing pending entry
// and appends a finalized entry in its place.
func (s *LedgerStore) ReplacePendingWithFinalized(e LedgerEntry) error {
	return s.j.ReplacePendingWithFinalized(e)
}

// History returns a lazy, restartable iterator over finalized entries, oldest first.
func (s *LedgerStore) History() iter.Seq[LedgerEntry] { return s.j.History() }

// Entries reads the full finalized history at once.
func (s *LedgerStore) Entries() ([]LedgerEntry, error) { return s.j.Entries() }

// Bootstrap writes the very first ledger entry from a fixed total fund and a
// fixed per-symbol target value, at the closing prices of the inception day.
// For each symbol it buys as many whole shares as the target value affords;
// the remainder stays in cash. It fails if the ledger already exists.
func (s *LedgerStore) Bootstrap(on Date, fund, perSymbol decimal.Decimal, quotes map[string]Quote) (LedgerEntry, error) {
	if s.Exists() {
		return LedgerEntry{}, fmt.Errorf("ledger already initialized")
	}
	if on.IsZero() {
		return LedgerEntry{}, fmt.Errorf("bootstrap needs a real inception date: %w", ErrOrdering)
	}

	shares := make(map[string]int64, len(quotes))
	open := make(map[string]decimal.Decimal, len(quotes))
	close := make(map[string]decimal.Decimal, len(quotes))
	cash := fund
	for symbol, q := range quotes {
		count := perSymbol.Div(q.Close).IntPart() // whole shares only
		shares[symbol] = count
		open[symbol] = q.Open
		close[symbol] = q.Close
		cash = cash.Sub(decimal.NewFromInt(count).Mul(q.Close))
	}

	entry := LedgerEntry{
		Date:           on,
		Shares:         shares,
		Open:           open,
		Close:          close,
		Cash:           round4(cash),
		TotalValue:     round4(fund),
		BenchmarkValue: round4(fund),
	}
	if err := s.Append(entry); err != nil {
		return LedgerEntry{}, err
	}
	return entry, nil
}

// InitialHoldings returns the bootstrap allocation: the sizing base of the
// trading policy and the basis of the buy-and-hold benchmark.
func (s *LedgerStore) InitialHoldings() (Holdings, error) {
	for e := range s.History() {
		return holdingsOf(e), nil
	}
	return Holdings{}, fmt.Errorf("ledger journal: %w", ErrEmptyLedger)
}

// CurrentHoldings returns the fund state as of the last finalized entry.
func (s *LedgerStore) CurrentHoldings() (Holdings, error) {
	last, err := s.LastFinalized()
	if err != nil {
		return Holdings{}, err
	}
	return holdingsOf(last), nil
}

func holdingsOf(e LedgerEntry) Holdings {
	shares := make(map[string]int64, len(e.Shares))
	for symbol, count := range e.Shares {
		shares[symbol] = count
	}
	return Holdings{
		Date:           e.Date,
		Shares:         shares,
		Cash:           e.Cash,
		TotalValue:     e.TotalValue,
		BenchmarkValue: e.BenchmarkValue,
	}
}

// FloorCash is the cash-floor sweep: if any finalized entry has negative
// cash, every entry's cash, total value and benchmark value are raised by the
// same amount so that the minimum cash becomes exactly zero, a uniform
// retroactive capital injection. The full history is rewritten atomically.
// It returns the injected amount, zero when no repair was needed.
func (s *LedgerStore) FloorCash() (decimal.Decimal, error) {
	entries, err := s.Entries()
	if err != nil {
		return decimal.Zero, err
	}
	if len(entries) == 0 {
		return decimal.Zero, nil
	}

	min := entries[0].Cash
	for _, e := range entries[1:] {
		if e.Cash.LessThan(min) {
			min = e.Cash
		}
	}
	if !min.IsNegative() {
		return decimal.Zero, nil
	}

	injection := min.Neg()
	for i := range entries {
		entries[i].Cash = round4(entries[i].Cash.Add(injection))
		entries[i].TotalValue = round4(entries[i].TotalValue.Add(injection))
		entries[i].BenchmarkValue = round4(entries[i].BenchmarkValue.Add(injection))
	}
	if err := s.j.Rewrite(entries); err != nil {
		return decimal.Zero, err
	}
	return injection, nil
}

// Verify re-derives every persisted figure and reports the first entry that
// violates an invariant: non-negative shares and cash, total value equal to
// cash + Σ shares·close, and benchmark value equal to the bootstrap cash plus
// the bootstrap shares at that day's closing prices.
func (s *LedgerStore) Verify() error {
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	first := entries[0]

	for _, e := range entries {
		for symbol, count := range e.Shares {
			if count < 0 {
				return fmt.Errorf("%s: %d %s shares held short", e.Date, count, symbol)
			}
		}
		if e.Cash.IsNegative() {
			return fmt.Errorf("%s: negative cash %s", e.Date, e.Cash)
		}
		if got := e.derivedTotal(); !got.Equal(e.TotalValue) {
			return fmt.Errorf("%s: total value %s, recomputed %s", e.Date, e.TotalValue, got)
		}
		bench := first.Cash
		for symbol, count := range first.Shares {
			bench = bench.Add(decimal.NewFromInt(count).Mul(e.Close[symbol]))
		}
		if got := round4(bench); !got.Equal(e.BenchmarkValue) {
			return fmt.Errorf("%s: benchmark value %s, recomputed %s", e.Date, e.BenchmarkValue, got)
		}
	}
	return nil
}
