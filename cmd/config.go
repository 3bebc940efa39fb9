package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"papertrade"
)

// Config is the TOML configuration of the fund. Monetary amounts are TOML
// strings parsed into decimals during validation, so a config file can never
// smuggle a float into the ledger.
type Config struct {
	Fund struct {
		Symbols   []string `toml:"symbols"`
		Total     string   `toml:"total"`      // e.g. "500000"
		PerSymbol string   `toml:"per_symbol"` // e.g. "25000"
		Inception string   `toml:"inception"`  // e.g. "2026-01-02"
		Currency  string   `toml:"currency"`

		total     decimal.Decimal
		perSymbol decimal.Decimal
		inception papertrade.Date
	} `toml:"fund"`

	Storage struct {
		DataDir string `toml:"data_dir"` // journals live here
		PriceDB string `toml:"price_db"` // sqlite bar database
	} `toml:"storage"`

	AlphaVantage struct {
		APIKey string `toml:"api_key"`
	} `toml:"alphavantage"`

	Model struct {
		Kind string `toml:"kind"` // "gemini" or "momentum"
		Name string `toml:"name"` // gemini model name, optional
	} `toml:"model"`
}

// LoadConfig reads, defaults and validates a config file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config %q: %w", path, err)
	}
	ApplyDefaults(&cfg)
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

func ApplyDefaults(cfg *Config) {
	if cfg.Fund.Total == "" {
		cfg.Fund.Total = "500000"
	}
	if cfg.Fund.PerSymbol == "" {
		cfg.Fund.PerSymbol = "25000"
	}
	if cfg.Fund.Currency == "" {
		cfg.Fund.Currency = "USD"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.PriceDB == "" {
		cfg.Storage.PriceDB = "data/prices.db"
	}
	if cfg.Model.Kind == "" {
		cfg.Model.Kind = "momentum"
	}
}

func ValidateConfig(cfg *Config) error {
	cfg.Fund.Symbols = normalizeSymbols(cfg.Fund.Symbols)
	if len(cfg.Fund.Symbols) == 0 {
		return errors.New("fund.symbols is empty")
	}

	var err error
	if cfg.Fund.total, err = decimal.NewFromString(cfg.Fund.Total); err != nil {
		return fmt.Errorf("fund.total: %w", err)
	}
	if cfg.Fund.perSymbol, err = decimal.NewFromString(cfg.Fund.PerSymbol); err != nil {
		return fmt.Errorf("fund.per_symbol: %w", err)
	}
	if !cfg.Fund.total.IsPositive() || !cfg.Fund.perSymbol.IsPositive() {
		return errors.New("fund.total and fund.per_symbol must be positive")
	}
	if cfg.Fund.perSymbol.Mul(decimal.NewFromInt(int64(len(cfg.Fund.Symbols)))).GreaterThan(cfg.Fund.total) {
		return errors.New("fund.per_symbol times the symbol count exceeds fund.total")
	}

	if cfg.Fund.Inception != "" {
		if cfg.Fund.inception, err = papertrade.ParseDate(cfg.Fund.Inception); err != nil {
			return fmt.Errorf("fund.inception: %w", err)
		}
	}

	switch cfg.Model.Kind {
	case "momentum":
	case "gemini":
	default:
		return fmt.Errorf("model.kind %q is neither \"gemini\" nor \"momentum\"", cfg.Model.Kind)
	}
	return nil
}

// Total returns the fund's initial total value.
func (c *Config) Total() decimal.Decimal { return c.Fund.total }

// PerSymbol returns the target initial allocation per symbol.
func (c *Config) PerSymbol() decimal.Decimal { return c.Fund.perSymbol }

// Inception returns the fund's configured bootstrap day, zero when unset.
func (c *Config) Inception() papertrade.Date { return c.Fund.inception }

func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		u := strings.ToUpper(strings.TrimSpace(s))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
