package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // Zone database for hosts without one

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	S3            S3Config            `mapstructure:"s3"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	ClientSession ClientSessionConfig `mapstructure:"client_session"`
	Redis         RedisConfig         `mapstructure:"redis"`
	RateLimit     RateLimitConfig     `mapstructure:"ratelimit"`
	Payments      PaymentsConfig      `mapstructure:"payments"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"` // "development" or "production"
	Timezone string `mapstructure:"timezone"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// DatabaseConfig selects the storage driver. "memory" keeps everything in
// process and is meant for demos and local development.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

// S3Config configures the archive of exported spreadsheets.
// Archiving is disabled when BucketName is empty.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines operator token configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// ClientSessionConfig configures the cookie that carries a member's session.
type ClientSessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	Expiration time.Duration `mapstructure:"expiration"`
	Secure     bool          `mapstructure:"secure"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"` // Empty selects the in-memory rate limiter
}

type RateLimitConfig struct {
	LoginAttempts int           `mapstructure:"login_attempts"`
	Window        time.Duration `mapstructure:"window"`
}

// PaymentsConfig maps plan codes to their monthly price (decimal strings).
type PaymentsConfig struct {
	Plans       map[string]string `mapstructure:"plans"`
	DefaultPlan string            `mapstructure:"default_plan"`
}

// PlanPrices parses the configured plan prices.
func (p PaymentsConfig) PlanPrices() (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(p.Plans))
	for code, raw := range p.Plans {
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("payments.plans.%s: %w", code, err)
		}
		if d.IsNegative() {
			return nil, fmt.Errorf("payments.plans.%s: price cannot be negative", code)
		}
		out[code] = d
	}
	return out, nil
}

// Location loads the configured time zone.
func (a AppConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(a.Timezone)
}

// IsProduction reports whether the app runs in production mode.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.timezone", "America/Argentina/Buenos_Aires")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "gym_admin")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "12h")
	v.SetDefault("client_session.cookie_name", "gym_client_session")
	v.SetDefault("client_session.expiration", "2h")
	v.SetDefault("client_session.secure", false)
	v.SetDefault("redis.url", "")
	v.SetDefault("ratelimit.login_attempts", 5)
	v.SetDefault("ratelimit.window", "1m")
	v.SetDefault("payments.plans", map[string]string{"1": "15000", "2": "20000", "3": "25000"})
	v.SetDefault("payments.default_plan", "2")
}

// LoadConfig reads config.yaml from path, then applies environment
// overrides (server.address -> SERVER_ADDRESS). Only keys with a default
// are visible to environment overrides, so every key gets one.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, err
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, err
	}
	return config, config.Validate()
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("database.driver must be \"mongo\" or \"memory\", got %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if _, err := c.App.Location(); err != nil {
		return fmt.Errorf("app.timezone: %w", err)
	}
	prices, err := c.Payments.PlanPrices()
	if err != nil {
		return err
	}
	if _, ok := prices[c.Payments.DefaultPlan]; !ok {
		return fmt.Errorf("payments.default_plan %q is not a configured plan", c.Payments.DefaultPlan)
	}
	return nil
}
