package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Log      LogConfig
	Rates    RateConfig
	Events   EventsConfig
	Firebase FirebaseConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret string
	Issuer       string
}

type LogConfig struct {
	Level  string
	Format string // json, text
}

// CommissionRates selects between the two secondary commission modes.
// GrossRate wins whenever it is positive.
type CommissionRates struct {
	GrossRate float64
	ShareRate float64
}

// RateConfig is immutable once loaded; every rate is clamped to [0,1].
type RateConfig struct {
	Platform float64
	Referral CommissionRates
	PR       CommissionRates
}

type EventsConfig struct {
	AMQPURL  string
	Exchange string
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

const (
	DefaultPlatformRate      = 0.20
	DefaultReferralShareRate = 0.25
	DefaultPRShareRate       = 0.10
)

// Load reads configuration from the environment, falling back to an optional .env file
// in the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8099")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_READ_TIMEOUT", "10s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "10s")
	v.SetDefault("DATABASE_DSN", "brandhub:brandhub@tcp(localhost:3306)/brandhub?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("JWT_ACCESS_SECRET", "change-me-in-production")
	v.SetDefault("JWT_ISSUER", "brandhub")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PLATFORM_COMMISSION_RATE", DefaultPlatformRate)
	v.SetDefault("REFERRAL_GROSS_RATE", 0.0)
	v.SetDefault("REFERRAL_COMMISSION_RATE", DefaultReferralShareRate)
	v.SetDefault("PR_GROSS_RATE", 0.0)
	v.SetDefault("PR_COMMISSION_RATE", DefaultPRShareRate)
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("EVENTS_EXCHANGE", "settlement_events")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_PATH", "")

	var errs []error
	duration := func(key string) time.Duration {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return d
	}
	rate := func(key string) float64 {
		r, err := parseRate(v.GetString(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return r
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			Env:          v.GetString("APP_ENV"),
			ReadTimeout:  duration("HTTP_READ_TIMEOUT"),
			WriteTimeout: duration("HTTP_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			DSN:             v.GetString("DATABASE_DSN"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxLifetime: duration("DB_CONN_MAX_LIFETIME"),
		},
		JWT: JWTConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
			Issuer:       v.GetString("JWT_ISSUER"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Rates: RateConfig{
			Platform: rate("PLATFORM_COMMISSION_RATE"),
			Referral: CommissionRates{
				GrossRate: rate("REFERRAL_GROSS_RATE"),
				ShareRate: rate("REFERRAL_COMMISSION_RATE"),
			},
			PR: CommissionRates{
				GrossRate: rate("PR_GROSS_RATE"),
				ShareRate: rate("PR_COMMISSION_RATE"),
			},
		},
		Events: EventsConfig{
			AMQPURL:  v.GetString("AMQP_URL"),
			Exchange: v.GetString("EVENTS_EXCHANGE"),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: v.GetString("FIREBASE_SERVICE_ACCOUNT_PATH"),
		},
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// ClampRate forces r into [0,1].
func ClampRate(r float64) float64 {
	switch {
	case math.IsNaN(r), r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}

func parseRate(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	r, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return ClampRate(r), nil
}
