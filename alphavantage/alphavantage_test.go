package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"papertrade"
)

const dailyPayload = `{
  "Meta Data": {
    "1. Information": "Daily Prices (open, high, low, close) and Volumes",
    "2. Symbol": "AAA",
    "3. Last Refreshed": "2026-08-21"
  },
  "Time Series (Daily)": {
    "2026-08-21": {
      "1. open": "50.1000",
      "2. high": "52.0000",
      "3. low": "49.8000",
      "4. close": "51.0000",
      "5. volume": "1200345"
    },
    "2026-08-20": {
      "1. open": "49.5000",
      "2. high": "50.2000",
      "3. low": "49.0000",
      "4. close": "50.0000",
      "5. volume": "987654"
    }
  }
}`

func TestClient_Daily(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(dailyPayload))
	}))
	defer srv.Close()

	c := NewWithBaseURL("testkey", srv.URL)
	bars, err := c.Daily(context.Background(), "AAA")
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}

	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	// Oldest first, regardless of the API's map ordering.
	if bars[0].Day != papertrade.MustParse("2026-08-20") {
		t.Errorf("first bar on %s, want 2026-08-20", bars[0].Day)
	}
	if got := bars[0].Open.String(); got != "49.5" {
		t.Errorf("open = %s, want 49.5", got)
	}
	if got := bars[1].Close.String(); got != "51" {
		t.Errorf("close = %s, want 51", got)
	}
	if bars[1].Volume != 1200345 {
		t.Errorf("volume = %d, want 1200345", bars[1].Volume)
	}

	for _, want := range []string{"function=TIME_SERIES_DAILY", "symbol=AAA", "apikey=testkey"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestClient_Daily_APIErrors(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "invalid symbol", body: `{"Error Message": "Invalid API call."}`},
		{name: "rate limited", body: `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`},
		{name: "premium endpoint", body: `{"Information": "This is a premium endpoint."}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewWithBaseURL("testkey", srv.URL)
			_, err := c.Daily(context.Background(), "AAA")
			if !errors.Is(err, papertrade.ErrPriceUnavailable) {
				t.Errorf("Daily = %v, want ErrPriceUnavailable", err)
			}
		})
	}
}

func TestClient_Daily_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewWithBaseURL("testkey", srv.URL)
	if _, err := c.Daily(context.Background(), "AAA"); err == nil {
		t.Error("Daily should fail on a 500 response")
	}
}
