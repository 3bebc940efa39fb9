package papertrade

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// TradeLog is the append-only audit record of every executed share
// transaction, independent of the ledger. Several records share a date (one
// per symbol per finalized cycle), and records are never pending, revised or
// deleted.
type TradeLog struct {
	path string
}

// OpenTradeLog returns a trade log persisted under dir.
func OpenTradeLog(dir string) *TradeLog {
	return &TradeLog{path: filepath.Join(dir, "trades.jsonl")}
}

// Append writes audit records for one finalized cycle. Records must not
// predate the log's last entry.
func (l *TradeLog) Append(records ...TradeRecord) error {
	entries, err := l.Entries()
	if err != nil {
		return err
	}
	var last Date
	if len(entries) > 0 {
		last = entries[len(entries)-1].Date
	}
	for _, r := range records {
		if r.Date.IsZero() {
			return fmt.Errorf("trade log: record without a trading day: %w", ErrOrdering)
		}
		if r.Date.Before(last) {
			return fmt.Errorf("trade log: %s predates %s: %w", r.Date, last, ErrOrdering)
		}
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("could not create directory for trade log: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open trade log for append: %w", err)
	}
	defer f.Close()
	for _, r := range records {
		if err := encodeRecord(f, r); err != nil {
			return fmt.Errorf("could not append to trade log: %w", err)
		}
	}
	return f.Sync()
}

// Entries reads the full audit history, oldest first.
func (l *TradeLog) Entries() ([]TradeRecord, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open trade log: %w", err)
	}
	defer f.Close()

	var records []TradeRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r TradeRecord
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("could not decode trade log line %q: %w", string(line), err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading trade log: %w", err)
	}
	return records, nil
}

// History returns a lazy iterator over audit records, oldest first.
func (l *TradeLog) History() iter.Seq[TradeRecord] {
	return func(yield func(TradeRecord) bool) {
		records, err := l.Entries()
		if err != nil {
			log.Warn().Err(err).Msg("could not read trade log")
			return
		}
		for _, r := range records {
			if !yield(r) {
				return
			}
		}
	}
}

// Recent returns audit records most-recent-first, the order reports display
// them in.
func (l *TradeLog) Recent() ([]TradeRecord, error) {
	records, err := l.Entries()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
