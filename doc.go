// Package papertrade maintains the daily ledger of a simulated trading
// portfolio.
//
// The ledger records, one entry per trading day, the share position held in
// each symbol, the remaining cash, the total portfolio value and a
// buy-and-hold benchmark computed from the original allocation. A parallel
// probability journal records, for each day, the model-predicted probability
// of the next day's price moving down, sideways or up.
//
// Trading follows a two-phase cycle driven by the Engine:
//
//   - Finalize: once real market prices for a new trading day are available,
//     the previously proposed (pending) decision is confirmed: shares are
//     traded at the open price, values are computed at the close price, and
//     the pending entries become permanent history.
//   - Decide: a fresh prediction is obtained from the decision model and
//     recorded as the next pending entry.
//
// The split makes the cycle idempotent: re-running it on a non-trading day
// only refreshes the pending prediction and never double-applies a trade.
//
// Market data and predictions come from external collaborators behind the
// PriceSource and DecisionModel interfaces; see the alphavantage, pricedb and
// model subpackages.
package papertrade
