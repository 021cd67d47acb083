package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/dreamware/countries/internal/logging"
)

// config is the resolved service configuration.
type config struct {
	Addr              string
	Data              string
	LogLevel          string
	LogFormat         string
	StrictIDs         bool
	RateLimit         float64
	RateBurst         int
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

// loadConfig reads every key from viper, falling back to defaults for
// unset or zero values.
func loadConfig() config {
	return config{
		Addr:              getString("addr", "127.0.0.1:4123"),
		Data:              getString("data", "input.json"),
		LogLevel:          getString("log-level", "info"),
		LogFormat:         getString("log-format", "text"),
		StrictIDs:         viper.GetBool("strict-ids"),
		RateLimit:         viper.GetFloat64("rate-limit"),
		RateBurst:         getInt("rate-burst", 20),
		ShutdownTimeout:   getDuration("shutdown-timeout", 5*time.Second),
		ReadHeaderTimeout: getDuration("read-header-timeout", 5*time.Second),
	}
}

func (c config) logger() (*slog.Logger, error) {
	l, err := logging.New(os.Stderr, c.LogLevel, logging.Format(c.LogFormat))
	if err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}
	return l, nil
}

func getString(key, def string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := viper.GetInt(key); v != 0 {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := viper.GetDuration(key); v > 0 {
		return v
	}
	return def
}
