package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/meetpanchal/ipo-gmp-bot/models"
)

// Config holds all configuration parameters for the bot. Values load
// from an optional YAML file, then environment variables with the
// IPO_BOT_ prefix, then defaults.
type Config struct {
	Source      SourceConfig      `mapstructure:"source"`
	Eligibility EligibilityConfig `mapstructure:"eligibility"`
	Tiers       TierConfig        `mapstructure:"tiers"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	State       StateConfig       `mapstructure:"state"`
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// SourceConfig describes where and how the GMP table is fetched
type SourceConfig struct {
	URL       string        `mapstructure:"url"`
	Provider  string        `mapstructure:"provider"` // "chromedp" or "colly"
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit time.Duration `mapstructure:"rate_limit"`
	Columns   ColumnsConfig `mapstructure:"columns"`
}

// ColumnsConfig maps table columns to listing fields. It exists so a
// source layout change is a config edit, not a code change.
type ColumnsConfig struct {
	Name      int `mapstructure:"name"`
	GMP       int `mapstructure:"gmp"`
	Price     int `mapstructure:"price"`
	Lot       int `mapstructure:"lot"`
	OpenDate  int `mapstructure:"open_date"`
	CloseDate int `mapstructure:"close_date"`
	MinCells  int `mapstructure:"min_cells"`
}

// ColumnMap converts the configured positions into the model type the
// extractor consumes.
func (c ColumnsConfig) ColumnMap() models.ColumnMap {
	return models.ColumnMap{
		Name:      c.Name,
		GMP:       c.GMP,
		Price:     c.Price,
		Lot:       c.Lot,
		OpenDate:  c.OpenDate,
		CloseDate: c.CloseDate,
		MinCells:  c.MinCells,
	}
}

// EligibilityConfig controls which listings make the digest
type EligibilityConfig struct {
	GMPThreshold float64 `mapstructure:"gmp_threshold"`
	SortByGMP    bool    `mapstructure:"sort_by_gmp"`
}

// TierConfig holds the investor-tier bidding constants
type TierConfig struct {
	SHNILots         int     `mapstructure:"shni_lots"`
	SHNIFallbackLots int     `mapstructure:"shni_fallback_lots"`
	SHNIThreshold    float64 `mapstructure:"shni_threshold"`
	BHNITarget       float64 `mapstructure:"bhni_target"`
}

// TelegramConfig holds delivery settings. BotToken and ChatID come
// from TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID; they never belong in
// the config file.
type TelegramConfig struct {
	BotToken   string        `mapstructure:"bot_token"`
	ChatID     string        `mapstructure:"chat_id"`
	Enabled    bool          `mapstructure:"enabled"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// StateConfig locates the change-detection state file
type StateConfig struct {
	FilePath string `mapstructure:"file_path"`
}

// ServerConfig holds settings for the optional HTTP API mode
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// Apply configures the global logrus logger from this config
func (c LoggingConfig) Apply() {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		logrus.Warnf("Invalid log level %q, using info", c.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if strings.EqualFold(c.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// Load reads configuration from the given file path. An empty path
// falls back to config.yaml in the working directory, and a missing
// file is fine; defaults plus environment variables are enough to run.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using system environment variables")
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("IPO_BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets use their conventional unprefixed names.
	_ = v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.url", "https://www.investorgain.com/report/live-ipo-gmp/331/")
	v.SetDefault("source.provider", "chromedp")
	v.SetDefault("source.timeout", 30*time.Second)
	v.SetDefault("source.rate_limit", 2*time.Second)
	v.SetDefault("source.columns.name", 0)
	v.SetDefault("source.columns.gmp", 1)
	v.SetDefault("source.columns.price", 5)
	v.SetDefault("source.columns.lot", 7)
	v.SetDefault("source.columns.open_date", 8)
	v.SetDefault("source.columns.close_date", 9)
	v.SetDefault("source.columns.min_cells", 10)

	v.SetDefault("eligibility.gmp_threshold", 10.0)
	v.SetDefault("eligibility.sort_by_gmp", false)

	v.SetDefault("tiers.shni_lots", 14)
	v.SetDefault("tiers.shni_fallback_lots", 13)
	v.SetDefault("tiers.shni_threshold", 200000.0)
	v.SetDefault("tiers.bhni_target", 1000000.0)

	v.SetDefault("telegram.enabled", true)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay", 2*time.Second)

	v.SetDefault("state.file_path", "ipo-gmp-state.json")

	v.SetDefault("server.port", "8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that the loaded configuration is usable
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("source.url is required")
	}
	if c.Source.Provider != "chromedp" && c.Source.Provider != "colly" {
		return fmt.Errorf("source.provider must be \"chromedp\" or \"colly\", got %q", c.Source.Provider)
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive")
	}

	cols := c.Source.Columns
	for name, idx := range map[string]int{
		"name":       cols.Name,
		"gmp":        cols.GMP,
		"price":      cols.Price,
		"lot":        cols.Lot,
		"open_date":  cols.OpenDate,
		"close_date": cols.CloseDate,
	} {
		if idx < 0 {
			return fmt.Errorf("source.columns.%s must not be negative", name)
		}
		if idx >= cols.MinCells {
			return fmt.Errorf("source.columns.%s (%d) must be below source.columns.min_cells (%d)", name, idx, cols.MinCells)
		}
	}

	if c.Tiers.SHNILots <= 0 || c.Tiers.SHNIFallbackLots <= 0 {
		return fmt.Errorf("tiers lot counts must be positive")
	}
	if c.Tiers.SHNIThreshold <= 0 || c.Tiers.BHNITarget <= 0 {
		return fmt.Errorf("tiers funding amounts must be positive")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN is required when telegram.enabled is true")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("TELEGRAM_CHAT_ID is required when telegram.enabled is true")
		}
	}

	if c.State.FilePath == "" {
		return fmt.Errorf("state.file_path is required")
	}

	return nil
}
