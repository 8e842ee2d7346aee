package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is only meant for local development.
const DefaultJWTSecret = "default-very-insecure-secret-key"

// Config is built once at startup and handed to constructors. Nothing mutates it afterwards.
type Config struct {
	HTTPPort       int    `mapstructure:"http_port"`
	GRPCPort       int    `mapstructure:"grpc_port"`
	LogLevel       string `mapstructure:"log_level"`
	DatabaseDriver string `mapstructure:"database_driver"`
	DatabaseURL    string `mapstructure:"database_url"`
	ServiceName    string `mapstructure:"service_name"`

	JwtSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`

	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`

	// TrustedProxies lists CIDRs or addresses whose X-Forwarded-For is believed.
	TrustedProxies []string `mapstructure:"trusted_proxies"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// ConsulAddress enables service registration when non-empty.
	ConsulAddress string `mapstructure:"consul_address"`
}

// Load reads config.yaml (if any), then MESTO_* environment variables, on top of defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("MESTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_port", 3000)
	v.SetDefault("grpc_port", 50051)
	v.SetDefault("log_level", "info")
	v.SetDefault("database_driver", "mysql")
	v.SetDefault("database_url", "mesto:mesto@tcp(127.0.0.1:3306)/mestodb?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("service_name", "mesto")
	v.SetDefault("jwt_secret", DefaultJWTSecret) // CHANGE THIS IN PRODUCTION
	v.SetDefault("token_ttl", 7*24*time.Hour)
	v.SetDefault("cookie_name", "jwt")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("cors_allowed_origins", []string{
		"https://mesto.nomoredomains.work",
		"http://mesto.nomoredomains.work",
		"http://localhost:3000",
		"http://localhost:3001",
	})
	v.SetDefault("rate_limit_requests", 100)
	v.SetDefault("rate_limit_window", 15*time.Minute)
	v.SetDefault("trusted_proxies", []string{})
	v.SetDefault("read_timeout", 10*time.Second)
	v.SetDefault("write_timeout", 10*time.Second)
	v.SetDefault("shutdown_timeout", 15*time.Second)
	v.SetDefault("consul_address", "")
}

// Validate reports the first setting that would make the service unusable.
func (c *Config) Validate() error {
	switch {
	case c.HTTPPort <= 0:
		return fmt.Errorf("invalid http_port %d", c.HTTPPort)
	case c.GRPCPort <= 0:
		return fmt.Errorf("invalid grpc_port %d", c.GRPCPort)
	case c.JwtSecret == "":
		return errors.New("jwt_secret must not be empty")
	case c.TokenTTL <= 0:
		return fmt.Errorf("invalid token_ttl %s", c.TokenTTL)
	case c.CookieName == "":
		return errors.New("cookie_name must not be empty")
	case c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0:
		return errors.New("rate limit requests and window must be positive")
	}
	switch c.DatabaseDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database_driver %q", c.DatabaseDriver)
	}
	return nil
}

// UsesDefaultSecret reports whether the development signing key is still in place.
func (c *Config) UsesDefaultSecret() bool {
	return c.JwtSecret == DefaultJWTSecret
}
