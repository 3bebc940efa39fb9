package papertrade

import "testing"

func prob(t *testing.T, neg, neu, pos string) Probability {
	t.Helper()
	return Probability{Neg: dec(t, neg), Neu: dec(t, neu), Pos: dec(t, pos)}
}

func TestScore(t *testing.T) {
	testCases := []struct {
		name string
		p    Probability
		want string
	}{
		{name: "bullish", p: prob(t, "0.1", "0.2", "0.7"), want: "0.3"},
		{name: "bearish", p: prob(t, "0.8", "0.1", "0.1"), want: "-0.35"},
		{name: "flat", p: prob(t, "0.3", "0.4", "0.3"), want: "0"},
		{name: "max conviction", p: prob(t, "0", "0", "1"), want: "0.5"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.p); !got.Equal(dec(t, tc.want)) {
				t.Errorf("Score = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestTradeDelta(t *testing.T) {
	testCases := []struct {
		name          string
		p             Probability
		initialShares int64
		currentShares int64
		want          int64
	}{
		{
			name:          "buy on bullish signal",
			p:             prob(t, "0.1", "0.2", "0.7"),
			initialShares: 500, currentShares: 500,
			want: 150, // 500 * 0.3
		},
		{
			name:          "sell on bearish signal",
			p:             prob(t, "0.8", "0.1", "0.1"),
			initialShares: 500, currentShares: 500,
			want: -175, // 500 * -0.35
		},
		{
			name:          "hold on neutral signal",
			p:             prob(t, "0.3", "0.4", "0.3"),
			initialShares: 500, currentShares: 123,
			want: 0,
		},
		{
			name:          "sell clamped to current holdings",
			p:             prob(t, "0.9", "0.05", "0.05"),
			initialShares: 500, currentShares: 100,
			want: -100, // raw -212.5 rounds to -213, clamped
		},
		{
			name:          "sell everything exactly",
			p:             prob(t, "0.5", "0.3", "0.2"),
			initialShares: 400, currentShares: 60,
			want: -60,
		},
		{
			name:          "sizing base is the initial allocation",
			p:             prob(t, "0.1", "0.2", "0.7"),
			initialShares: 500, currentShares: 2000,
			want: 150, // still 500 * 0.3, not scaled by current holdings
		},
		{
			name:          "half rounds away from zero",
			p:             prob(t, "0", "0.99", "0.01"),
			initialShares: 50, currentShares: 50,
			want: 0, // 50 * 0.005 = 0.25 rounds to 0
		},
		{
			name:          "fraction above half rounds up",
			p:             prob(t, "0", "0.9", "0.1"),
			initialShares: 51, currentShares: 51,
			want: 3, // 51 * 0.05 = 2.55 rounds to 3
		},
		{
			name:          "no position and bearish signal",
			p:             prob(t, "0.9", "0.1", "0"),
			initialShares: 500, currentShares: 0,
			want: 0,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := TradeDelta(tc.p, tc.initialShares, tc.currentShares)
			if got != tc.want {
				t.Errorf("TradeDelta = %d, want %d", got, tc.want)
			}
			if tc.currentShares+got < 0 {
				t.Errorf("delta %d would short %d shares", got, tc.currentShares+got)
			}
		})
	}
}

func TestProbability_Validate(t *testing.T) {
	if err := prob(t, "0.1", "0.2", "0.7").Validate(); err != nil {
		t.Errorf("valid probability rejected: %v", err)
	}
	if err := prob(t, "-0.1", "0.2", "0.7").Validate(); err == nil {
		t.Error("negative probability accepted")
	}
	if err := prob(t, "0.1", "0.2", "1.7").Validate(); err == nil {
		t.Error("probability above one accepted")
	}
}
