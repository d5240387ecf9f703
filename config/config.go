// Package config loads the settings of the application.
//
// Values are layered, each layer overriding the previous one: defaults, TOML
// file, .env file, SUITSY_* environment variables, command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/suitsy/portfolio"
	"github.com/suitsy/portfolio/market"
	"github.com/suitsy/portfolio/store"
)

// Config represents the application configuration.
type Config struct {
	Owner      string        `toml:"owner"`
	Home       string        `toml:"home"` // home currency
	FX         string        `toml:"fx"`   // strict or lenient
	Benchmarks []string      `toml:"benchmarks"`
	Store      StoreConfig   `toml:"store"`
	Cache      CacheConfig   `toml:"cache"`
	Logging    LoggingConfig `toml:"logging"`
	Server     ServerConfig  `toml:"server"`
	Agent      AgentConfig   `toml:"agent"`
}

// StoreConfig selects where transactions are persisted.
type StoreConfig struct {
	Kind string `toml:"kind"` // jsonl or sqlite
	Path string `toml:"path"`
}

// CacheConfig contains market data cache settings.
type CacheConfig struct {
	Dir        string   `toml:"dir"` // HTTP disk cache, disabled when "off"
	History    Duration `toml:"history"`
	Live       Duration `toml:"live"`
	FX         Duration `toml:"fx"`
	Benchmarks Duration `toml:"benchmarks"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AgentConfig contains the assistant settings.
type AgentConfig struct {
	Model string `toml:"model"`
}

// Duration is a time.Duration written as "15m" in files.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// NewDefaultConfig returns the configuration used when nothing is set.
func NewDefaultConfig() *Config {
	ttl := market.DefaultTTL
	return &Config{
		Owner:      defaultOwner(),
		Home:       "PLN",
		FX:         portfolio.FXStrict.String(),
		Benchmarks: []string{"S&P 500"},
		Store:      StoreConfig{Kind: store.KindJSONL, Path: "transactions.jsonl"},
		Cache: CacheConfig{
			Dir:        market.DefaultCacheDir(),
			History:    Duration{ttl.History},
			Live:       Duration{ttl.Live},
			FX:         Duration{ttl.FX},
			Benchmarks: Duration{ttl.Benchmarks},
		},
		Logging: LoggingConfig{Level: "warn"},
		Server:  ServerConfig{Addr: "localhost:8080"},
		Agent:   AgentConfig{Model: "gemini-2.5-flash"},
	}
}

func defaultOwner() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "me"
}

// Load loads the configuration from the TOML file at path, if any, then from
// ./.env and the environment.
func Load(path string) (*Config, error) { return LoadFiles(path, ".env") }

// LoadFiles is Load with an explicit .env file. Missing .env files are ignored.
func LoadFiles(path, envFile string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		// a relative store path is relative to the config file.
		if cfg.Store.Path != "" && !filepath.IsAbs(cfg.Store.Path) {
			cfg.Store.Path = filepath.Join(filepath.Dir(path), cfg.Store.Path)
		}
	}
	if envFile != "" {
		// godotenv never overrides variables already set, so the environment wins.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, cfg.Validate()
}

// applyEnvOverrides applies SUITSY_* environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	cfg.Owner = getEnv("SUITSY_OWNER", cfg.Owner)
	cfg.Home = getEnv("SUITSY_HOME", cfg.Home)
	cfg.FX = getEnv("SUITSY_FX", cfg.FX)
	if b := os.Getenv("SUITSY_BENCHMARKS"); b != "" {
		cfg.Benchmarks = splitList(b)
	}
	cfg.Store.Kind = getEnv("SUITSY_STORE", cfg.Store.Kind)
	cfg.Store.Path = getEnv("SUITSY_STORE_PATH", cfg.Store.Path)
	cfg.Cache.Dir = getEnv("SUITSY_CACHE_DIR", cfg.Cache.Dir)
	cfg.Cache.History.Duration = getEnvAsDuration("SUITSY_CACHE_HISTORY", cfg.Cache.History.Duration)
	cfg.Cache.Live.Duration = getEnvAsDuration("SUITSY_CACHE_LIVE", cfg.Cache.Live.Duration)
	cfg.Cache.FX.Duration = getEnvAsDuration("SUITSY_CACHE_FX", cfg.Cache.FX.Duration)
	cfg.Logging.Level = getEnv("SUITSY_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Pretty = getEnvAsBool("SUITSY_LOG_PRETTY", cfg.Logging.Pretty)
	cfg.Server.Addr = getEnv("SUITSY_ADDR", cfg.Server.Addr)
	cfg.Agent.Model = getEnv("SUITSY_GEMINI_MODEL", cfg.Agent.Model)
}

// Overrides are the values set on the command line, empty ones are ignored.
type Overrides struct {
	Owner     string
	Home      string
	FX        string
	Store     string
	StorePath string
	LogLevel  string
}

// ApplyOverrides applies command-line flag overrides to config, then validates it.
func (c *Config) ApplyOverrides(o Overrides) error {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Owner, o.Owner)
	set(&c.Home, o.Home)
	set(&c.FX, o.FX)
	set(&c.Store.Kind, o.Store)
	set(&c.Store.Path, o.StorePath)
	set(&c.Logging.Level, o.LogLevel)
	return c.Validate()
}

// Validate checks and normalizes the configuration.
func (c *Config) Validate() error {
	c.Home = strings.ToUpper(strings.TrimSpace(c.Home))
	if len(c.Home) != 3 {
		return fmt.Errorf("invalid home currency %q want a 3 letter code", c.Home)
	}
	if strings.TrimSpace(c.Owner) == "" {
		return fmt.Errorf("owner is required")
	}
	if _, err := portfolio.ParseFXPolicy(c.FX); err != nil {
		return err
	}
	if _, err := market.SelectBenchmarks(c.Benchmarks); err != nil {
		return err
	}
	switch strings.ToLower(c.Store.Kind) {
	case store.KindJSONL, store.KindSQLite:
	default:
		return fmt.Errorf("invalid store kind %q want %q or %q", c.Store.Kind, store.KindJSONL, store.KindSQLite)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}
	return nil
}

// Policy returns the parsed FX policy.
func (c *Config) Policy() portfolio.FXPolicy {
	p, _ := portfolio.ParseFXPolicy(c.FX)
	return p
}

// TTL returns the in-memory cache lifetimes.
func (c *Config) TTL() market.TTL {
	return market.TTL{
		History:    c.Cache.History.Duration,
		Live:       c.Cache.Live.Duration,
		FX:         c.Cache.FX.Duration,
		Benchmarks: c.Cache.Benchmarks.Duration,
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
