package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"PortfolioSentinel/internal/currency"
	"PortfolioSentinel/internal/model"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "config.yaml"

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider  string        `yaml:"provider"` // yahoo | mock
		BaseURL   string        `yaml:"base_url"`
		Proxy     string        `yaml:"proxy"`
		RateLimit int           `yaml:"rate_limit"` // requests per second
		Timeout   time.Duration `yaml:"timeout"`
		Window    model.Window  `yaml:"window"`
		CacheTTL  time.Duration `yaml:"cache_ttl"`
		Workers   int           `yaml:"workers"`
	} `yaml:"data_source"`
	Indicators   model.Params `yaml:"indicators"`
	Holdings     yaml.Node    `yaml:"holdings"`
	HoldingsFile string       `yaml:"holdings_file"`
	Currency     struct {
		CryptoPrefixes []string        `yaml:"crypto_prefixes"`
		Rules          []currency.Rule `yaml:"rules"`
	} `yaml:"currency"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	LogLevel string `yaml:"log_level"`

	dir string
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{dir: filepath.Dir(path)}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HOLDINGS_FILE"); v != "" {
		c.HoldingsFile = v
		c.dir = ""
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.DataSource.Proxy = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		c.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.RateLimit == 0 {
		c.DataSource.RateLimit = 5
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.DataSource.Window == "" {
		c.DataSource.Window = model.DefaultWindow
	}
	if c.DataSource.CacheTTL == 0 {
		c.DataSource.CacheTTL = time.Hour
	}
	if c.DataSource.Workers == 0 {
		c.DataSource.Workers = 4
	}

	def := model.DefaultParams()
	if c.Indicators.RSILength == 0 {
		c.Indicators.RSILength = def.RSILength
	}
	if c.Indicators.RSIOversold == 0 {
		c.Indicators.RSIOversold = def.RSIOversold
	}
	if c.Indicators.RSIOverbought == 0 {
		c.Indicators.RSIOverbought = def.RSIOverbought
	}
	if c.Indicators.MACDFast == 0 {
		c.Indicators.MACDFast = def.MACDFast
	}
	if c.Indicators.MACDSlow == 0 {
		c.Indicators.MACDSlow = def.MACDSlow
	}
	if c.Indicators.MACDSignal == 0 {
		c.Indicators.MACDSignal = def.MACDSignal
	}

	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 0 9 * * 1-5"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks ranges and formats of every setting.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	default:
		return fmt.Errorf("data_source.provider must be yahoo or mock, got %q", c.DataSource.Provider)
	}
	if !c.DataSource.Window.Valid() {
		return fmt.Errorf("data_source.window %q is not supported", c.DataSource.Window)
	}
	if c.DataSource.RateLimit < 0 {
		return fmt.Errorf("data_source.rate_limit must not be negative")
	}
	if c.DataSource.Timeout < 0 || c.DataSource.CacheTTL < 0 {
		return fmt.Errorf("data_source timeout and cache_ttl must not be negative")
	}
	if c.DataSource.Workers < 1 {
		return fmt.Errorf("data_source.workers must be at least 1")
	}
	if err := c.Indicators.Validate(); err != nil {
		return fmt.Errorf("indicators: %w", err)
	}
	for i, r := range c.Currency.Rules {
		if r.Currency == "" {
			return fmt.Errorf("currency.rules[%d].currency is required", i)
		}
	}
	if _, err := cron.NewParser(cronSpec).Parse(c.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("schedule.refresh_cron: %w", err)
	}
	return nil
}

// ValidateTelegram checks the settings needed to talk to Telegram.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if _, err := strconv.ParseInt(c.Telegram.ChatID, 10, 64); err != nil {
		return fmt.Errorf("telegram.chat_id must be numeric: %w", err)
	}
	return nil
}

// cronSpec accepts the six-field format with seconds.
const cronSpec = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

// CurrencyRules returns the configured rules, or the defaults built from
// the configured crypto prefixes.
func (c *Config) CurrencyRules() []currency.Rule {
	if len(c.Currency.Rules) > 0 {
		return c.Currency.Rules
	}
	return currency.DefaultRules(c.Currency.CryptoPrefixes)
}

// LoadHoldings reads holdings_file when set, otherwise the inline holdings
// document. A relative holdings_file from the config file is resolved
// against the config directory.
func (c *Config) LoadHoldings() (model.Holdings, error) {
	if c.HoldingsFile != "" {
		path := c.HoldingsFile
		if !filepath.IsAbs(path) && c.dir != "" {
			path = filepath.Join(c.dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return model.Holdings{}, fmt.Errorf("read holdings: %w", err)
		}
		return ParseHoldings(data)
	}
	return DecodeHoldings(&c.Holdings)
}
