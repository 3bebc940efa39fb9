// Package pricedb stores daily market bars in a local SQLite database and
// answers the price questions the trading cycle asks: what is the newest
// trading day, and what did a symbol open and close at on a given day.
//
// Prices are persisted as TEXT and parsed back into decimals, never floats,
// so that a stored price reads back exactly as it was written.
package pricedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"papertrade"
)

// Store is a local daily-bar database. It implements papertrade.PriceSource.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one connection keeps it simple.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS bars (
  symbol TEXT NOT NULL,
  day TEXT NOT NULL,
  open TEXT NOT NULL,
  high TEXT NOT NULL,
  low TEXT NOT NULL,
  close TEXT NOT NULL,
  volume INTEGER NOT NULL,
  PRIMARY KEY(symbol, day)
);
CREATE INDEX IF NOT EXISTS idx_bars_day ON bars(day);
`)
	return err
}

// Sync upserts a batch of bars for one symbol. Re-syncing the same days is
// harmless; the provider's latest figures win.
func (s *Store) Sync(ctx context.Context, symbol string, bars []papertrade.Bar) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start price sync: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO bars(symbol, day, open, high, low, close, volume)
VALUES(?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(symbol, day) DO UPDATE SET
  open=excluded.open, high=excluded.high, low=excluded.low,
  close=excluded.close, volume=excluded.volume`)
	if err != nil {
		return fmt.Errorf("could not prepare price sync: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if b.Day.IsZero() {
			return fmt.Errorf("bar without a trading day for %q", symbol)
		}
		if _, err := stmt.ExecContext(ctx, symbol, b.Day.String(),
			b.Open.String(), b.High.String(), b.Low.String(), b.Close.String(), b.Volume); err != nil {
			return fmt.Errorf("could not store bar %s %s: %w", symbol, b.Day, err)
		}
	}
	return tx.Commit()
}

// LatestTradingDay returns the most recent day a bar exists for symbol.
func (s *Store) LatestTradingDay(ctx context.Context, symbol string) (papertrade.Date, error) {
	var day string
	err := s.db.QueryRowContext(ctx,
		`SELECT day FROM bars WHERE symbol = ? ORDER BY day DESC LIMIT 1`, symbol).Scan(&day)
	if errors.Is(err, sql.ErrNoRows) {
		return papertrade.Date{}, fmt.Errorf("no bars stored for %q: %w", symbol, papertrade.ErrPriceUnavailable)
	}
	if err != nil {
		return papertrade.Date{}, fmt.Errorf("could not query latest trading day for %q: %w", symbol, err)
	}
	return papertrade.ParseDate(day)
}

// DailyQuote returns the open and close of symbol on a given day. A day with
// no stored bar is not a trading day for that symbol.
func (s *Store) DailyQuote(ctx context.Context, symbol string, on papertrade.Date) (papertrade.Quote, error) {
	var open, close string
	err := s.db.QueryRowContext(ctx,
		`SELECT open, close FROM bars WHERE symbol = ? AND day = ?`, symbol, on.String()).Scan(&open, &close)
	if errors.Is(err, sql.ErrNoRows) {
		return papertrade.Quote{}, fmt.Errorf("%s has no session on %s: %w", symbol, on, papertrade.ErrNotTradingDay)
	}
	if err != nil {
		return papertrade.Quote{}, fmt.Errorf("could not query quote for %s on %s: %w", symbol, on, err)
	}

	q := papertrade.Quote{}
	if q.Open, err = decimal.NewFromString(open); err != nil {
		return papertrade.Quote{}, fmt.Errorf("corrupt open price for %s on %s: %w", symbol, on, err)
	}
	if q.Close, err = decimal.NewFromString(close); err != nil {
		return papertrade.Quote{}, fmt.Errorf("corrupt close price for %s on %s: %w", symbol, on, err)
	}
	return q, nil
}

// RecentCloses returns up to n closing prices for symbol, most recent first.
func (s *Store) RecentCloses(ctx context.Context, symbol string, n int) ([]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT close FROM bars WHERE symbol = ? ORDER BY day DESC LIMIT ?`, symbol, n)
	if err != nil {
		return nil, fmt.Errorf("could not query recent closes for %q: %w", symbol, err)
	}
	defer rows.Close()

	var closes []decimal.Decimal
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		c, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt close price for %q: %w", symbol, err)
		}
		closes = append(closes, c)
	}
	return closes, rows.Err()
}

var _ papertrade.PriceSource = (*Store)(nil)
