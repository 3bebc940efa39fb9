package model

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"papertrade"
)

type fakeCloses struct {
	closes []decimal.Decimal
	err    error
}

func (f *fakeCloses) RecentCloses(_ context.Context, _ string, n int) ([]decimal.Decimal, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.closes) > n {
		return f.closes[:n], nil
	}
	return f.closes, nil
}

func decs(t *testing.T, values ...string) []decimal.Decimal {
	t.Helper()
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			t.Fatalf("bad decimal %q: %v", v, err)
		}
		out = append(out, d)
	}
	return out
}

func TestMomentum_Predict(t *testing.T) {
	testCases := []struct {
		name   string
		closes []string // most recent first
		want   papertrade.Probability
	}{
		{
			name:   "rising prices tilt positive",
			closes: []string{"105", "102", "100"}, // +5% over the window, tilt 0.25
			want:   papertrade.Probability{Neg: dec("0.25"), Neu: dec("0.5"), Pos: dec("0.75")},
		},
		{
			name:   "falling prices tilt negative",
			closes: []string{"95", "98", "100"}, // -5%, tilt -0.25
			want:   papertrade.Probability{Neg: dec("0.75"), Neu: dec("0.5"), Pos: dec("0.25")},
		},
		{
			name:   "flat prices stay even",
			closes: []string{"100", "101", "100"},
			want:   papertrade.Probability{Neg: dec("0.5"), Neu: dec("1"), Pos: dec("0.5")},
		},
		{
			name:   "large moves clamp the tilt",
			closes: []string{"200", "100"}, // +100%, tilt clamped to 0.5
			want:   papertrade.Probability{Neg: dec("0"), Neu: dec("0"), Pos: dec("1")},
		},
		{
			name:   "single close is neutral",
			closes: []string{"100"},
			want:   papertrade.Probability{Neu: dec("1")},
		},
		{
			name:   "no data is neutral",
			closes: nil,
			want:   papertrade.Probability{Neu: dec("1")},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMomentum(&fakeCloses{closes: decs(t, tc.closes...)})
			got, err := m.Predict(context.Background(), "AAA")
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if !got.Neg.Equal(tc.want.Neg) || !got.Neu.Equal(tc.want.Neu) || !got.Pos.Equal(tc.want.Pos) {
				t.Errorf("Predict = %+v, want %+v", got, tc.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("prediction out of range: %v", err)
			}
		})
	}
}

func TestMomentum_PredictSourceFailure(t *testing.T) {
	wantErr := errors.New("db gone")
	m := NewMomentum(&fakeCloses{err: wantErr})
	if _, err := m.Predict(context.Background(), "AAA"); !errors.Is(err, wantErr) {
		t.Errorf("Predict = %v, want wrapped source error", err)
	}
}

func TestParsePrediction(t *testing.T) {
	testCases := []struct {
		name    string
		text    string
		want    papertrade.Probability
		wantErr bool
	}{
		{
			name: "bare json",
			text: `{"neg": 0.1, "neu": 0.2, "pos": 0.7}`,
			want: papertrade.Probability{Neg: dec("0.1"), Neu: dec("0.2"), Pos: dec("0.7")},
		},
		{
			name: "fenced json",
			text: "```json\n{\"neg\": 0.1, \"neu\": 0.2, \"pos\": 0.7}\n```",
			want: papertrade.Probability{Neg: dec("0.1"), Neu: dec("0.2"), Pos: dec("0.7")},
		},
		{
			name: "overshoot is clamped",
			text: `{"neg": -0.2, "neu": 0.3, "pos": 1.4}`,
			want: papertrade.Probability{Neg: dec("0"), Neu: dec("0.3"), Pos: dec("1")},
		},
		{
			name: "rounded to four places",
			text: `{"neg": 0.123456, "neu": 0.2, "pos": 0.7}`,
			want: papertrade.Probability{Neg: dec("0.1235"), Neu: dec("0.2"), Pos: dec("0.7")},
		},
		{
			name:    "prose only",
			text:    "I cannot answer that.",
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePrediction(tc.text)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parsePrediction err = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil {
				return
			}
			if !got.Neg.Equal(tc.want.Neg) || !got.Neu.Equal(tc.want.Neu) || !got.Pos.Equal(tc.want.Pos) {
				t.Errorf("parsePrediction = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
