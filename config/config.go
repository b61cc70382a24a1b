// Package config loads service settings from defaults, an optional YAML file
// and BIKEFIT_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const EnvPrefix = "BIKEFIT"

// Cache and store backends.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Store     StoreConfig     `mapstructure:"store" yaml:"store"`
	Search    SearchConfig    `mapstructure:"search" yaml:"search"`
	Fit       FitConfig       `mapstructure:"fit" yaml:"fit"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// RateLimitConfig allows Requests per Per for each client IP, with a burst
// of Requests.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Requests int           `mapstructure:"requests" yaml:"requests"`
	Per      time.Duration `mapstructure:"per" yaml:"per"`
	IdleTTL  time.Duration `mapstructure:"idle_ttl" yaml:"idle_ttl"`
}

type CacheConfig struct {
	Backend    string        `mapstructure:"backend" yaml:"backend"`
	RedisAddrs []string      `mapstructure:"redis_addrs" yaml:"redis_addrs"`
	TTL        time.Duration `mapstructure:"ttl" yaml:"ttl"`
	// MaxEntries bounds the memory backend.
	MaxEntries int           `mapstructure:"max_entries" yaml:"max_entries"`
}

type StoreConfig struct {
	Backend    string `mapstructure:"backend" yaml:"backend"`
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	// DatasetCSV seeds the in-memory bike repository.
	DatasetCSV string `mapstructure:"dataset_csv" yaml:"dataset_csv"`
}

type SearchConfig struct {
	MaxResults int `mapstructure:"max_results" yaml:"max_results"`
}

type FitConfig struct {
	STAFallback STAFallbackConfig `mapstructure:"sta_fallback" yaml:"sta_fallback"`
}

// STAFallbackConfig substitutes a seat tube angle when a request has none.
// Off by default: without an angle the seat-tube outputs are "--".
type STAFallbackConfig struct {
	Enabled bool    `mapstructure:"enabled" yaml:"enabled"`
	Angle   float64 `mapstructure:"angle" yaml:"angle"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "bikefit")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// Callers recompute on every keystroke, so the limit is generous.
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 120)
	v.SetDefault("rate_limit.per", "1m")
	v.SetDefault("rate_limit.idle_ttl", "1h")

	v.SetDefault("cache.backend", BackendMemory)
	v.SetDefault("cache.redis_addrs", []string{"localhost:6379"})
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.max_entries", 10000)

	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.sqlite_path", "bikefit.db")
	v.SetDefault("store.dataset_csv", "")

	v.SetDefault("search.max_results", 100)

	v.SetDefault("fit.sta_fallback.enabled", false)
	v.SetDefault("fit.sta_fallback.angle", 73.0)
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewDefaultConfig returns the configuration with nothing but defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads the optional file at path into v and builds a Config. An empty
// path looks for ./config.yaml and tolerates its absence.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper builds and validates a Config from v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// expandPaths resolves a leading ~ in every configured file path.
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Store.SQLitePath, &c.Store.DatasetCSV, &c.Logger.LogFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("error expanding path %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 {
			return fmt.Errorf("rate_limit.requests must be a positive integer")
		}
		if c.RateLimit.Per <= 0 {
			return fmt.Errorf("rate_limit.per must be a positive duration")
		}
	}
	switch c.Cache.Backend {
	case BackendNone:
	case BackendMemory:
		if c.Cache.MaxEntries <= 0 {
			return fmt.Errorf("cache.max_entries must be a positive integer")
		}
	case BackendRedis:
		if len(c.Cache.RedisAddrs) == 0 {
			return fmt.Errorf("cache.redis_addrs is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache.backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be a positive integer")
	}
	if c.Fit.STAFallback.Enabled && (c.Fit.STAFallback.Angle <= 0 || c.Fit.STAFallback.Angle >= 180) {
		return fmt.Errorf("fit.sta_fallback.angle must be between 0 and 180")
	}
	return nil
}
