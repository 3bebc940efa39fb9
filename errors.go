package papertrade

import "errors"

// Errors returned by the stores and the engine. They are wrapped with
// contextual information, use errors.Is to test for them.
var (
	// ErrOrdering reports an attempt to append a finalized entry whose date
	// is not strictly greater than the last finalized date.
	ErrOrdering = errors.New("entry out of chronological order")

	// ErrEmptyLedger reports a read on a store that was never bootstrapped.
	ErrEmptyLedger = errors.New("ledger is empty")

	// ErrNoPending reports a pending-entry operation on a store whose
	// trailing entry is not pending.
	ErrNoPending = errors.New("no pending entry")

	// ErrNotTradingDay reports that the requested date is not a trading day
	// for the requested symbol.
	ErrNotTradingDay = errors.New("not a trading day")

	// ErrPriceUnavailable reports that the price source could not supply a
	// quote needed to finalize a cycle. The whole cycle is aborted, never a
	// single symbol.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrRewriteIO reports that a full-history rewrite (cash-floor sweep)
	// could not be completed. The original file is left untouched.
	ErrRewriteIO = errors.New("history rewrite failed")
)
