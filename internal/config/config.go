package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Store drivers
const (
	StoreDriverHTTP   = "http"
	StoreDriverSQLite = "sqlite"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Receipts  ReceiptsConfig  `mapstructure:"receipts"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Lark      LarkConfig      `mapstructure:"lark"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// StoreConfig selects where bills are kept
type StoreConfig struct {
	Driver   string        `mapstructure:"driver"` // http or sqlite
	APIURL   string        `mapstructure:"api_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // 0 disables the list cache
}

// DatabaseConfig holds database configuration for the sqlite driver
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ReceiptsConfig holds receipt upload configuration
type ReceiptsConfig struct {
	Dir               string   `mapstructure:"dir"`
	URLPrefix         string   `mapstructure:"url_prefix"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// AuthConfig holds session configuration
type AuthConfig struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

// LarkConfig holds Lark API configuration
type LarkConfig struct {
	AppID     string `mapstructure:"app_id"`
	AppSecret string `mapstructure:"app_secret"`
	ChatID    string `mapstructure:"chat_id"`
}

// RateLimitConfig holds request throttling configuration
type RateLimitConfig struct {
	Every          time.Duration `mapstructure:"every"`
	Burst          int           `mapstructure:"burst"`
	SubmitInterval time.Duration `mapstructure:"submit_interval"`
	SubmitBurst    int           `mapstructure:"submit_burst"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables.
// A .env file in the working directory is loaded first when present.
// An empty configPath uses defaults and environment only.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("store.driver", StoreDriverHTTP)
	v.SetDefault("store.api_url", "http://localhost:5678")
	v.SetDefault("store.timeout", 15*time.Second)
	v.SetDefault("store.cache_ttl", 30*time.Second)

	v.SetDefault("database.path", "data/billed.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("receipts.dir", "data/receipts")
	v.SetDefault("receipts.url_prefix", "/receipts")
	v.SetDefault("receipts.allowed_extensions", []string{"jpg", "jpeg", "png"})

	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.cookie_name", "billed_session")
	v.SetDefault("auth.secure_cookie", false)

	v.SetDefault("rate_limit.every", 100*time.Millisecond)
	v.SetDefault("rate_limit.burst", 30)
	v.SetDefault("rate_limit.submit_interval", 5*time.Second)
	v.SetDefault("rate_limit.submit_burst", 1)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	// Sensitive credentials from environment
	_ = v.BindEnv("auth.jwt_secret", "BILLED_JWT_SECRET")
	_ = v.BindEnv("lark.app_id", "LARK_APP_ID")
	_ = v.BindEnv("lark.app_secret", "LARK_APP_SECRET")
	_ = v.BindEnv("lark.chat_id", "LARK_CHAT_ID")

	_ = v.BindEnv("store.driver", "BILLED_STORE_DRIVER")
	_ = v.BindEnv("store.api_url", "BILLED_API_URL")
	_ = v.BindEnv("server.port", "BILLED_PORT")
	_ = v.BindEnv("logger.level", "BILLED_LOG_LEVEL")
}

func (c *Config) normalize() {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.Store.APIURL = strings.TrimRight(c.Store.APIURL, "/")
	c.Receipts.URLPrefix = strings.TrimRight(c.Receipts.URLPrefix, "/")
	for i, ext := range c.Receipts.AllowedExtensions {
		c.Receipts.AllowedExtensions[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	switch c.Store.Driver {
	case StoreDriverHTTP:
		if c.Store.APIURL == "" {
			return fmt.Errorf("store.api_url is required for the http driver")
		}
	case StoreDriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
		if c.Receipts.Dir == "" {
			return fmt.Errorf("receipts.dir is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}

	if len(c.Receipts.AllowedExtensions) == 0 {
		return fmt.Errorf("receipts.allowed_extensions must not be empty")
	}

	// HS256 keys shorter than the hash output are brute-forceable
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 bytes")
	}
	if c.Auth.CookieName == "" {
		return fmt.Errorf("auth.cookie_name is required")
	}

	if c.Lark.AppID != "" {
		if c.Lark.AppSecret == "" {
			return fmt.Errorf("lark.app_secret is required when lark.app_id is set")
		}
		if c.Lark.ChatID == "" {
			return fmt.Errorf("lark.chat_id is required when lark.app_id is set")
		}
	}

	if c.RateLimit.Burst <= 0 || c.RateLimit.SubmitBurst <= 0 {
		return fmt.Errorf("rate_limit bursts must be positive")
	}

	return nil
}
