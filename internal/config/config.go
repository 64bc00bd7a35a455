package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Exchange ExchangeConfig
	Ticker   TickerConfig
	Display  DisplayConfig
	Logging  LoggingConfig
}

// ExchangeConfig holds price endpoint configuration
type ExchangeConfig struct {
	URL     string
	Timeout time.Duration
}

// TickerConfig holds polling cadence configuration
type TickerConfig struct {
	Interval        time.Duration
	MinInterval     time.Duration
	MaxInterval     time.Duration
	DegradedDivisor int64
}

// DisplayConfig holds terminal output configuration
type DisplayConfig struct {
	HideCursor bool
	Color      bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads configuration from environment variables with defaults
func Load() (*Config, error) {
	return &Config{
		Exchange: ExchangeConfig{
			URL:     getEnvString("TICKER_API_URL", "https://api.coincap.io/v2/assets/bitcoin"),
			Timeout: getEnvDuration("EXCHANGE_TIMEOUT", 10*time.Second),
		},
		Ticker: TickerConfig{
			Interval:        getEnvDuration("TICKER_INTERVAL", 5*time.Minute),
			MinInterval:     getEnvDuration("TICKER_MIN_INTERVAL", time.Second),
			MaxInterval:     getEnvDuration("TICKER_MAX_INTERVAL", 24*time.Hour),
			DegradedDivisor: int64(getEnvInt("TICKER_DEGRADED_DIVISOR", 10)),
		},
		Display: DisplayConfig{
			HideCursor: getEnvBool("TICKER_HIDE_CURSOR", true),
			Color:      getEnvBool("TICKER_COLOR", true),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			Format:     getEnvString("LOG_FORMAT", "text"),
			File:       getEnvString("LOG_FILE", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 7),
		},
	}, nil
}

// Validate ensures configuration is valid
func (c *Config) Validate() error {
	u, err := url.Parse(c.Exchange.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid price endpoint URL: %q", c.Exchange.URL)
	}

	if c.Exchange.Timeout <= 0 {
		return fmt.Errorf("exchange timeout must be positive")
	}

	if c.Ticker.MinInterval <= 0 {
		return fmt.Errorf("minimum interval must be positive")
	}

	if c.Ticker.MaxInterval < c.Ticker.MinInterval {
		return fmt.Errorf("maximum interval must not be below minimum interval")
	}

	if c.Ticker.Interval < c.Ticker.MinInterval || c.Ticker.Interval > c.Ticker.MaxInterval {
		return fmt.Errorf("interval must be between %s and %s", c.Ticker.MinInterval, c.Ticker.MaxInterval)
	}

	if c.Ticker.DegradedDivisor < 1 {
		return fmt.Errorf("degraded divisor must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// Helper functions
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
