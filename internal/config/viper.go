package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendSheets   = "sheets"
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Insurance split modes used by the projector.
const (
	InsuranceModePrecomputed = "precomputed"
	InsuranceModeCost        = "cost"
)

// InsurancePolicy designates a recurring item whose yearly premium is split
// into cost and savings using its per-year detail table.
type InsurancePolicy struct {
	ID       string `mapstructure:"id" yaml:"id"`
	Mode     string `mapstructure:"mode" yaml:"mode"`
	Currency string `mapstructure:"currency" yaml:"currency"`
}

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Store struct {
		Backend     string `mapstructure:"backend" yaml:"backend"`
		CSVDir      string `mapstructure:"csv_dir" yaml:"csv_dir"`
		PostgresURL string `mapstructure:"postgres_url" yaml:"-"`
		Tables      struct {
			Transactions string `mapstructure:"transactions" yaml:"transactions"`
			Ledger       string `mapstructure:"ledger" yaml:"ledger"`
			Recurring    string `mapstructure:"recurring" yaml:"recurring"`
			OneOff       string `mapstructure:"one_off" yaml:"one_off"`
			Assets       string `mapstructure:"assets" yaml:"assets"`
			AssetHistory string `mapstructure:"asset_history" yaml:"asset_history"`
			// InsurancePrefix is prepended to a policy ID to name its detail table.
			InsurancePrefix string `mapstructure:"insurance_prefix" yaml:"insurance_prefix"`
			// DebtPrefix is prepended to a loan ID to name its schedule table.
			DebtPrefix string `mapstructure:"debt_prefix" yaml:"debt_prefix"`
		} `mapstructure:"tables" yaml:"tables"`
	} `mapstructure:"store" yaml:"store"`

	Google struct {
		CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file"`
		SpreadsheetID   string `mapstructure:"spreadsheet_id" yaml:"spreadsheet_id"`
		DriveQuery      string `mapstructure:"drive_query" yaml:"drive_query"`
	} `mapstructure:"google" yaml:"google"`

	Pipeline struct {
		BaseCurrency  string `mapstructure:"base_currency" yaml:"base_currency"`
		RulesFile     string `mapstructure:"rules_file" yaml:"rules_file"`
		NoteMaxLength int    `mapstructure:"note_max_length" yaml:"note_max_length"`
		TechFee       struct {
			Keyword   string  `mapstructure:"keyword" yaml:"keyword"`
			Month     int     `mapstructure:"month" yaml:"month"`
			Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
		} `mapstructure:"tech_fee" yaml:"tech_fee"`
	} `mapstructure:"pipeline" yaml:"pipeline"`

	Projection struct {
		Insurance         []InsurancePolicy `mapstructure:"insurance" yaml:"insurance"`
		HouseCategory     string            `mapstructure:"house_category" yaml:"house_category"`
		SavingsCategories []string          `mapstructure:"savings_categories" yaml:"savings_categories"`
		SavingsKeywords   []string          `mapstructure:"savings_keywords" yaml:"savings_keywords"`
		DebtIDs           []string          `mapstructure:"debt_ids" yaml:"debt_ids"`
	} `mapstructure:"projection" yaml:"projection"`

	Quotes struct {
		RatesURL       string             `mapstructure:"rates_url" yaml:"rates_url"`
		TimeoutSeconds int                `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		FallbackRates  map[string]float64 `mapstructure:"fallback_rates" yaml:"fallback_rates"`
		FallbackPrices map[string]float64 `mapstructure:"fallback_prices" yaml:"fallback_prices"`
	} `mapstructure:"quotes" yaml:"quotes"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"`
	} `mapstructure:"ai" yaml:"ai"`
}

// InitializeConfig loads configuration: defaults, then config.yaml, then environment.
func InitializeConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.moze-ledger")
	v.AddConfigPath(".moze-ledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &ConfigError{Key: v.ConfigFileUsed(), Err: err}
		}
	}

	// Credentials keep their conventional unprefixed names.
	bindings := map[string]string{
		"ai.api_key":              "GEMINI_API_KEY",
		"google.credentials_file": "GOOGLE_APPLICATION_CREDENTIALS",
		"store.postgres_url":      "DATABASE_URL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "LEDGER_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, &ConfigError{Key: key, Err: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalize(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	normalize(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("store.backend", BackendSheets)
	v.SetDefault("store.csv_dir", "data")
	v.SetDefault("store.postgres_url", "")
	v.SetDefault("store.tables.transactions", "Raw_Transactions")
	v.SetDefault("store.tables.ledger", "Expense_History")
	v.SetDefault("store.tables.recurring", "Recurring_Items")
	v.SetDefault("store.tables.one_off", "One_Off_Events")
	v.SetDefault("store.tables.assets", "Assets_Inventory")
	v.SetDefault("store.tables.asset_history", "Assets_History")
	v.SetDefault("store.tables.insurance_prefix", "Insurance_")
	v.SetDefault("store.tables.debt_prefix", "Debt_")

	v.SetDefault("google.credentials_file", "")
	v.SetDefault("google.spreadsheet_id", "")
	v.SetDefault("google.drive_query", "name contains 'MOZE' and name contains '.csv' and trashed = false")

	v.SetDefault("pipeline.base_currency", "TWD")
	v.SetDefault("pipeline.rules_file", "")
	v.SetDefault("pipeline.note_max_length", 500)
	v.SetDefault("pipeline.tech_fee.keyword", "技師牌費")
	v.SetDefault("pipeline.tech_fee.month", 7)
	v.SetDefault("pipeline.tech_fee.threshold", 400000)

	v.SetDefault("projection.insurance", []map[string]interface{}{
		{"id": "R09", "mode": InsuranceModePrecomputed, "currency": "USD"},
		{"id": "R10", "mode": InsuranceModeCost, "currency": "TWD"},
	})
	v.SetDefault("projection.house_category", "House")
	v.SetDefault("projection.savings_categories", []string{"Savings", "Invest", "Startups"})
	v.SetDefault("projection.savings_keywords", []string{"儲蓄", "存錢"})
	v.SetDefault("projection.debt_ids", []string{"R33"})

	v.SetDefault("quotes.rates_url", "https://api.exchangerate-api.com/v4/latest/USD")
	v.SetDefault("quotes.timeout_seconds", 10)
	v.SetDefault("quotes.fallback_rates", map[string]float64{"USD": 32.5, "JPY": 0.22, "TWD": 1})
	v.SetDefault("quotes.fallback_prices", map[string]float64{})

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout_seconds", 30)
}

// normalize restores upper-case currency codes, which viper lower-cases in map keys.
func normalize(cfg *Config) {
	cfg.Pipeline.BaseCurrency = strings.ToUpper(strings.TrimSpace(cfg.Pipeline.BaseCurrency))
	cfg.Quotes.FallbackRates = upperKeys(cfg.Quotes.FallbackRates)
	cfg.Quotes.FallbackPrices = upperKeys(cfg.Quotes.FallbackPrices)
	for i := range cfg.Projection.Insurance {
		p := &cfg.Projection.Insurance[i]
		p.ID = strings.TrimSpace(p.ID)
		p.Mode = strings.ToLower(strings.TrimSpace(p.Mode))
		p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
		if p.Currency == "" {
			p.Currency = cfg.Pipeline.BaseCurrency
		}
	}
}

func upperKeys(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[strings.ToUpper(k)] = v
	}
	return out
}

func validateConfig(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}

	switch cfg.Store.Backend {
	case BackendSheets:
		if cfg.Google.SpreadsheetID == "" {
			return fmt.Errorf("google.spreadsheet_id is required for the %s backend", BackendSheets)
		}
	case BackendCSV:
		if cfg.Store.CSVDir == "" {
			return fmt.Errorf("store.csv_dir is required for the %s backend", BackendCSV)
		}
	case BackendPostgres:
		if cfg.Store.PostgresURL == "" {
			return fmt.Errorf("store.postgres_url (or DATABASE_URL) is required for the %s backend", BackendPostgres)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}

	if len(cfg.Pipeline.BaseCurrency) != 3 {
		return fmt.Errorf("pipeline.base_currency must be a 3-letter code, got: %q", cfg.Pipeline.BaseCurrency)
	}
	if cfg.Pipeline.NoteMaxLength <= 0 {
		return fmt.Errorf("pipeline.note_max_length must be positive, got: %d", cfg.Pipeline.NoteMaxLength)
	}
	if cfg.Pipeline.TechFee.Month < 1 || cfg.Pipeline.TechFee.Month > 12 {
		return fmt.Errorf("pipeline.tech_fee.month must be between 1 and 12, got: %d", cfg.Pipeline.TechFee.Month)
	}
	if cfg.Pipeline.TechFee.Threshold <= 0 {
		return fmt.Errorf("pipeline.tech_fee.threshold must be positive, got: %v", cfg.Pipeline.TechFee.Threshold)
	}

	for _, p := range cfg.Projection.Insurance {
		if p.ID == "" {
			return fmt.Errorf("projection.insurance entries need an id")
		}
		if p.Mode != InsuranceModePrecomputed && p.Mode != InsuranceModeCost {
			return fmt.Errorf("projection.insurance %s: unknown mode %q", p.ID, p.Mode)
		}
	}

	if cfg.AI.Enabled && cfg.AI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
	}
	if cfg.Quotes.TimeoutSeconds < 1 {
		return fmt.Errorf("quotes.timeout_seconds must be at least 1, got: %d", cfg.Quotes.TimeoutSeconds)
	}
	return nil
}

// TechFeeThreshold returns the technician-fee income threshold as a decimal.
func (c *Config) TechFeeThreshold() decimal.Decimal {
	return decimal.NewFromFloat(c.Pipeline.TechFee.Threshold)
}

// InsuranceTable returns the detail table name for a policy ID.
func (c *Config) InsuranceTable(id string) string {
	return c.Store.Tables.InsurancePrefix + id
}

// ConfigError reports a configuration source that could not be read or bound.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
