package pricedb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prices.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func bar(t *testing.T, day, open, close string, volume int64) papertrade.Bar {
	t.Helper()
	o, err := decimal.NewFromString(open)
	require.NoError(t, err)
	c, err := decimal.NewFromString(close)
	require.NoError(t, err)
	return papertrade.Bar{Day: papertrade.MustParse(day), Open: o, High: c, Low: o, Close: c, Volume: volume}
}

func TestStore_SyncAndQuote(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Sync(ctx, "AAA", []papertrade.Bar{
		bar(t, "2026-08-20", "49.5000", "50.0000", 1000),
		bar(t, "2026-08-21", "50.1000", "51.0000", 2000),
	}))

	q, err := s.DailyQuote(ctx, "AAA", papertrade.MustParse("2026-08-21"))
	require.NoError(t, err)
	assert.True(t, q.Open.Equal(decimal.RequireFromString("50.1")), "open = %s", q.Open)
	assert.True(t, q.Close.Equal(decimal.RequireFromString("51")), "close = %s", q.Close)
}

func TestStore_SyncUpserts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Sync(ctx, "AAA", []papertrade.Bar{bar(t, "2026-08-20", "49", "50", 1000)}))
	// The provider revised the same day.
	require.NoError(t, s.Sync(ctx, "AAA", []papertrade.Bar{bar(t, "2026-08-20", "49.25", "50.50", 1100)}))

	q, err := s.DailyQuote(ctx, "AAA", papertrade.MustParse("2026-08-20"))
	require.NoError(t, err)
	assert.True(t, q.Close.Equal(decimal.RequireFromString("50.50")), "close = %s", q.Close)
}

func TestStore_LatestTradingDay(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.LatestTradingDay(ctx, "AAA")
	require.ErrorIs(t, err, papertrade.ErrPriceUnavailable)

	require.NoError(t, s.Sync(ctx, "AAA", []papertrade.Bar{
		bar(t, "2026-08-21", "50", "51", 1),
		bar(t, "2026-08-20", "49", "50", 1),
	}))
	require.NoError(t, s.Sync(ctx, "BBB", []papertrade.Bar{
		bar(t, "2026-08-24", "99", "100", 1),
	}))

	day, err := s.LatestTradingDay(ctx, "AAA")
	require.NoError(t, err)
	assert.Equal(t, papertrade.MustParse("2026-08-21"), day, "per-symbol, not global")
}

func TestStore_DailyQuote_NotTradingDay(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.Sync(ctx, "AAA", []papertrade.Bar{bar(t, "2026-08-21", "50", "51", 1)}))

	// A Saturday with no bar.
	_, err := s.DailyQuote(ctx, "AAA", papertrade.MustParse("2026-08-22"))
	require.ErrorIs(t, err, papertrade.ErrNotTradingDay)
}

func TestStore_RecentCloses(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.Sync(ctx, "AAA", []papertrade.Bar{
		bar(t, "2026-08-19", "48", "49", 1),
		bar(t, "2026-08-20", "49", "50", 1),
		bar(t, "2026-08-21", "50", "51", 1),
	}))

	closes, err := s.RecentCloses(ctx, "AAA", 2)
	require.NoError(t, err)
	require.Len(t, closes, 2)
	assert.True(t, closes[0].Equal(decimal.RequireFromString("51")), "most recent first, got %s", closes[0])
	assert.True(t, closes[1].Equal(decimal.RequireFromString("50")))
}

func TestStore_RejectsDatelessBar(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	err := s.Sync(ctx, "AAA", []papertrade.Bar{{Open: decimal.New(1, 0)}})
	require.Error(t, err)
}
