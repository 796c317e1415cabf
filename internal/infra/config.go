package infra

import (
	"fmt"
	"os"
	"strings"

	"spread_go/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds every application setting. Secrets can be overridden through
// environment variables after the file is loaded.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		Gate struct {
			WSURL     string `yaml:"ws_url"`
			RestURL   string `yaml:"rest_url"`
			APIKey    string `yaml:"api_key"`
			APISecret string `yaml:"api_secret"`
		} `yaml:"gate"`
	} `yaml:"api"`

	Trading struct {
		Contracts       []string `yaml:"contracts"`
		Amount          string   `yaml:"amount"`
		MaxTrades       int      `yaml:"max_trades"`
		SpreadThreshold string   `yaml:"spread_threshold"`
		TradeCountMode  string   `yaml:"trade_count_mode"`
	} `yaml:"trading"`

	Risk struct {
		MaxPositionSize string `yaml:"max_position_size"`
		MaxDailyLoss    string `yaml:"max_daily_loss"`
		MinBalanceRatio string `yaml:"min_balance_ratio"`
		StartBalance    string `yaml:"start_balance"`
	} `yaml:"risk"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`

	Storage struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"storage"`
}

// LoadConfig reads and parses the configuration file, applies environment
// overrides for secrets and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overwrites secret values when environment variables exist.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("GATE_API_KEY"); key != "" {
		cfg.API.Gate.APIKey = key
	}
	if secret := os.Getenv("GATE_API_SECRET"); secret != "" {
		cfg.API.Gate.APISecret = secret
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.API.Gate.WSURL == "" || (!strings.HasPrefix(c.API.Gate.WSURL, "ws://") && !strings.HasPrefix(c.API.Gate.WSURL, "wss://")) {
		return &domain.ConfigError{Field: "api.gate.ws_url", Err: fmt.Errorf("invalid WS URL: %q", c.API.Gate.WSURL)}
	}
	if len(c.Trading.Contracts) == 0 {
		return &domain.ConfigError{Field: "trading.contracts", Err: fmt.Errorf("at least one contract is required")}
	}
	if c.Trading.MaxTrades <= 0 {
		return &domain.ConfigError{Field: "trading.max_trades", Err: fmt.Errorf("must be positive, got %d", c.Trading.MaxTrades)}
	}
	switch c.Trading.TradeCountMode {
	case "", domain.CountRoundTrip, domain.CountPerOrder:
	default:
		return &domain.ConfigError{Field: "trading.trade_count_mode", Err: fmt.Errorf("unknown mode %q", c.Trading.TradeCountMode)}
	}
	if _, err := c.Limits(); err != nil {
		return err
	}
	return nil
}

// Limits parses the numeric risk settings into exact decimal limits.
func (c *Config) Limits() (domain.RiskLimits, error) {
	limits := domain.RiskLimits{
		MaxTrades: c.Trading.MaxTrades,
		CountMode: c.Trading.TradeCountMode,
	}
	if limits.CountMode == "" {
		limits.CountMode = domain.CountRoundTrip
	}

	fields := []struct {
		name  string
		raw   string
		dst   *decimal.Decimal
		check func(decimal.Decimal) error
	}{
		{"trading.amount", c.Trading.Amount, &limits.Amount, mustBeWholeContracts},
		{"trading.spread_threshold", c.Trading.SpreadThreshold, &limits.SpreadThreshold, mustBePositive},
		{"risk.max_position_size", c.Risk.MaxPositionSize, &limits.MaxPositionSize, mustBeWholeContracts},
		{"risk.max_daily_loss", c.Risk.MaxDailyLoss, &limits.MaxDailyLoss, mustBePositive},
		{"risk.min_balance_ratio", c.Risk.MinBalanceRatio, &limits.MinBalanceRatio, mustBeRatio},
		{"risk.start_balance", c.Risk.StartBalance, &limits.StartBalance, mustBePositive},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return domain.RiskLimits{}, &domain.ConfigError{Field: f.name, Err: err}
		}
		if err := f.check(d); err != nil {
			return domain.RiskLimits{}, &domain.ConfigError{Field: f.name, Err: err}
		}
		*f.dst = d
	}
	return limits, nil
}

func mustBePositive(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("must be positive, got %s", d)
	}
	return nil
}

// Futures order sizes are whole contract counts; a fractional size would be
// truncated at submission and rejected by the venue.
func mustBeWholeContracts(d decimal.Decimal) error {
	if err := mustBePositive(d); err != nil {
		return err
	}
	if !d.IsInteger() {
		return fmt.Errorf("must be a whole number of contracts, got %s", d)
	}
	return nil
}

func mustBeRatio(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("must be within [0, 1], got %s", d)
	}
	return nil
}

// HasCredentials reports whether private (account-scoped) channels can be used.
func (c *Config) HasCredentials() bool {
	return c.API.Gate.APIKey != "" && c.API.Gate.APISecret != ""
}
