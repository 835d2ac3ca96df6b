package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/segyhp/loan-engine/internal/domain"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	PurgeSpec string `mapstructure:"SCHEDULER_PURGE_SPEC"`
	Timezone  string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	DefaultPaymentType   string `mapstructure:"DEFAULT_PAYMENT_TYPE"`
	MaxTermMonths        int    `mapstructure:"MAX_TERM_MONTHS"`
	MaxInterestRate      string `mapstructure:"MAX_INTEREST_RATE"`
	CalculationRetention string `mapstructure:"CALCULATION_RETENTION"`
	CacheTTL             string `mapstructure:"CACHE_TTL"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Optional .env files; values already in the environment win
	for _, file := range []string{".env", "./deployments/.env"} {
		_ = godotenv.Load(file)
	}

	v := viper.New()
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]interface{}{
		"SERVER_PORT":                "8080",
		"SERVER_HOST":                "0.0.0.0",
		"ENV":                        "development",
		"SERVER_READ_TIMEOUT":        "15s",
		"SERVER_WRITE_TIMEOUT":       "15s",
		"DATABASE_URL":               "",
		"DATABASE_HOST":              "localhost",
		"DATABASE_PORT":              "5432",
		"DATABASE_NAME":              "loan_engine",
		"DATABASE_USER":              "postgres",
		"DATABASE_PASSWORD":          "",
		"DATABASE_SSLMODE":           "disable",
		"DATABASE_MAX_OPEN_CONNS":    25,
		"DATABASE_MAX_IDLE_CONNS":    5,
		"DATABASE_CONN_MAX_LIFETIME": "5m",
		"REDIS_HOST":                 "localhost",
		"REDIS_PORT":                 "6379",
		"REDIS_PASSWORD":             "",
		"REDIS_DB":                   0,
		"SCHEDULER_PURGE_SPEC":       "0 0 3 * * *",
		"SCHEDULER_TIMEZONE":         "UTC",
		"LOG_LEVEL":                  "info",
		"LOG_FORMAT":                 "json",
		"DEFAULT_PAYMENT_TYPE":       string(domain.PaymentTypeAnnuity),
		"MAX_TERM_MONTHS":            360,
		"MAX_INTEREST_RATE":          "100",
		"CALCULATION_RETENTION":      "720h",
		"CACHE_TTL":                  "24h",
		"HEALTH_CHECK_TIMEOUT":       "5s",
	}
	// AutomaticEnv only resolves keys viper already knows about
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or DATABASE_HOST is required")
	}

	if c.Business.MaxTermMonths <= 0 {
		return fmt.Errorf("MAX_TERM_MONTHS must be greater than 0")
	}

	if _, err := domain.ParsePaymentType(c.Business.DefaultPaymentType); err != nil {
		return fmt.Errorf("DEFAULT_PAYMENT_TYPE: %w", err)
	}

	// Validate interest rate ceiling
	rate, err := decimal.NewFromString(c.Business.MaxInterestRate)
	if err != nil {
		return fmt.Errorf("MAX_INTEREST_RATE must be a valid decimal: %w", err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("MAX_INTEREST_RATE must not be negative")
	}

	if _, err := time.ParseDuration(c.Business.CalculationRetention); err != nil {
		return fmt.Errorf("CALCULATION_RETENTION must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Business.CacheTTL); err != nil {
		return fmt.Errorf("CACHE_TTL must be a valid duration: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid location: %w", err)
	}

	// Validate health check timeout
	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetDefaultPaymentType returns the payment type used when a request omits one
func (c *Config) GetDefaultPaymentType() domain.PaymentType {
	paymentType, _ := domain.ParsePaymentType(c.Business.DefaultPaymentType)
	return paymentType
}

// GetMaxInterestRate returns the highest accepted annual rate as decimal
func (c *Config) GetMaxInterestRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.MaxInterestRate)
	return rate
}

// GetCalculationRetention returns how long stored calculations are kept
func (c *Config) GetCalculationRetention() time.Duration {
	duration, _ := time.ParseDuration(c.Business.CalculationRetention)
	return duration
}

// GetCacheTTL returns the cache expiration for calculation results
func (c *Config) GetCacheTTL() time.Duration {
	duration, _ := time.ParseDuration(c.Business.CacheTTL)
	return duration
}

// GetSchedulerLocation returns the scheduler timezone
func (c *Config) GetSchedulerLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
