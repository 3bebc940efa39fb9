// Package alphavantage fetches daily market data from the Alpha Vantage API.
//
// It only speaks the TIME_SERIES_DAILY endpoint and returns raw bars; storage
// and lookup belong to the price database. Responses are cached on disk with
// daily expiry because the free tier allows very few requests per day.
package alphavantage

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"papertrade"
)

// DefaultBaseURL is the production Alpha Vantage endpoint.
const DefaultBaseURL = "https://www.alphavantage.co"

// Client queries the Alpha Vantage REST API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New returns a client for the production endpoint.
func New(apiKey string) *Client {
	return &Client{apiKey: apiKey, baseURL: DefaultBaseURL, http: newDailyCachingClient()}
}

// NewWithBaseURL returns a client against an alternative endpoint, uncached.
// Used in tests.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{apiKey: apiKey, baseURL: baseURL, http: new(http.Client)}
}

/*
	TIME_SERIES_DAILY response shape:

	{
	  "Meta Data": {
	    "2. Symbol": "IBM",
	    "3. Last Refreshed": "2026-08-26"
	  },
	  "Time Series (Daily)": {
	    "2026-08-26": {
	      "1. open": "244.3400",
	      "2. high": "245.5000",
	      "3. low": "243.0000",
	      "4. close": "244.8300",
	      "5. volume": "3361487"
	    }
	  }
	}

	Errors come back as 200 OK with an "Error Message", "Note" (rate limit)
	or "Information" field instead of the payload.
*/

// Daily fetches the daily bar series for a symbol, oldest first. The
// "compact" output holds the latest 100 trading days, plenty for a daily
// sync.
func (c *Client) Daily(ctx context.Context, symbol string) ([]papertrade.Bar, error) {
	addr := fmt.Sprintf("%s/query?function=TIME_SERIES_DAILY&symbol=%s&outputsize=compact&apikey=%s",
		c.baseURL, symbol, c.apiKey)

	var jobj any
	if err := jwget(c.http, addr, &jobj); err != nil {
		return nil, fmt.Errorf("could not fetch daily series for %q: %w", symbol, err)
	}
	if err := apiError(jobj); err != nil {
		return nil, fmt.Errorf("daily series for %q: %w", symbol, err)
	}

	jseries, err := jsonpath.Get(`$["Time Series (Daily)"]`, jobj)
	if err != nil {
		return nil, fmt.Errorf("daily series for %q: no time series in response: %w", symbol, err)
	}
	series, ok := jseries.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("daily series for %q: unexpected time series shape", symbol)
	}

	bars := make([]papertrade.Bar, 0, len(series))
	for day, jbar := range series {
		on, err := papertrade.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("daily series for %q: %w", symbol, err)
		}
		bar, ok := jbar.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("daily series for %q: unexpected bar shape on %s", symbol, on)
		}
		b := papertrade.Bar{Day: on}
		if b.Open, err = field(bar, "1. open"); err != nil {
			return nil, fmt.Errorf("daily series for %q on %s: %w", symbol, on, err)
		}
		if b.High, err = field(bar, "2. high"); err != nil {
			return nil, fmt.Errorf("daily series for %q on %s: %w", symbol, on, err)
		}
		if b.Low, err = field(bar, "3. low"); err != nil {
			return nil, fmt.Errorf("daily series for %q on %s: %w", symbol, on, err)
		}
		if b.Close, err = field(bar, "4. close"); err != nil {
			return nil, fmt.Errorf("daily series for %q on %s: %w", symbol, on, err)
		}
		vol, err := field(bar, "5. volume")
		if err != nil {
			return nil, fmt.Errorf("daily series for %q on %s: %w", symbol, on, err)
		}
		b.Volume = vol.IntPart()
		bars = append(bars, b)
	}

	// The API keys the series by date string; return it oldest first.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Day.Before(bars[j].Day) })
	return bars, nil
}

// apiError turns the API's in-band error fields into a Go error.
func apiError(jobj any) error {
	for _, path := range []string{`$["Error Message"]`, `$["Note"]`, `$["Information"]`} {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue // field absent
		}
		if msg, ok := jval.(string); ok && msg != "" {
			return fmt.Errorf("api refused: %s: %w", msg, papertrade.ErrPriceUnavailable)
		}
	}
	return nil
}

// field reads one decimal-valued field of a bar. Alpha Vantage serializes
// every number as a string.
func field(bar map[string]any, name string) (decimal.Decimal, error) {
	jval, ok := bar[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("missing field %q", name)
	}
	s, ok := jval.(string)
	if !ok {
		return decimal.Zero, fmt.Errorf("field %q is not a string", name)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("field %q: %w", name, err)
	}
	return d, nil
}
