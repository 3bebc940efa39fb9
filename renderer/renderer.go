// Package renderer turns ledger data into markdown reports. Rendering is
// strictly read-only: a report never recomputes or fixes figures, it prints
// what the stores persisted.
package renderer

import (
	"bytes"
	"fmt"
	"sort"

	md "github.com/nao1215/markdown"

	"papertrade"
)

// HoldingMarkdown renders the fund state of a single day.
func HoldingMarkdown(h papertrade.Holdings, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Holdings on %s", h.Date))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Symbol", "Shares"},
		Rows:      [][]string{},
	}
	for _, symbol := range sortedSymbols(h.Shares) {
		table.Rows = append(table.Rows, []string{symbol, fmt.Sprintf("%d", h.Shares[symbol])})
	}
	doc.Table(table)

	gain := papertrade.M(h.TotalValue.Sub(h.BenchmarkValue), currency)
	doc.PlainText(fmt.Sprintf("Cash: %s", papertrade.M(h.Cash, currency))).LF()
	doc.PlainText(fmt.Sprintf("Total value: %s", papertrade.M(h.TotalValue, currency))).LF()
	doc.PlainText(fmt.Sprintf("Benchmark (buy and hold): %s", papertrade.M(h.BenchmarkValue, currency))).LF()
	doc.PlainText(fmt.Sprintf("Against benchmark: %s", gain.SignedString())).LF()

	return doc.String()
}

// HistoryMarkdown renders the finalized ledger, one row per trading day.
func HistoryMarkdown(entries []papertrade.LedgerEntry, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Ledger history")

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Cash", "Total", "Benchmark"},
		Rows:      [][]string{},
	}
	for _, e := range entries {
		table.Rows = append(table.Rows, []string{
			e.Date.String(),
			papertrade.M(e.Cash, currency).String(),
			papertrade.M(e.TotalValue, currency).String(),
			papertrade.M(e.BenchmarkValue, currency).String(),
		})
	}
	doc.Table(table)

	return doc.String()
}

// TradesMarkdown renders audit records, in the order given.
func TradesMarkdown(records []papertrade.TradeRecord, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Executed trades")

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Symbol", "Prior", "Delta", "Price"},
		Rows:      [][]string{},
	}
	for _, r := range records {
		table.Rows = append(table.Rows, []string{
			r.Date.String(),
			r.Symbol,
			fmt.Sprintf("%d", r.PriorShares),
			fmt.Sprintf("%+d", r.Delta),
			papertrade.M(r.Price, currency).String(),
		})
	}
	doc.Table(table)

	return doc.String()
}

// ProbabilitiesMarkdown renders a prediction journal, the pending one
// included when present (its date shows as PENDING).
func ProbabilitiesMarkdown(entries []papertrade.ProbabilityEntry) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Predicted probabilities")

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Symbol", "Down", "Flat", "Up"},
		Rows:      [][]string{},
	}
	for _, e := range entries {
		for _, symbol := range sortedSymbols(e.Probs) {
			p := e.Probs[symbol]
			table.Rows = append(table.Rows, []string{
				e.Date.String(),
				symbol,
				p.Neg.String(),
				p.Neu.String(),
				p.Pos.String(),
			})
		}
	}
	doc.Table(table)

	return doc.String()
}

// sortedSymbols returns map keys in a stable order; reports must not change
// between two runs on the same data.
func sortedSymbols[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
