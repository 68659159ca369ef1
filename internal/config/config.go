package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	RedisURL       string   `mapstructure:"REDIS_URL"`
	AuthSecret     string   `mapstructure:"AUTH_SECRET"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`

	SatuSehatBaseURL      string        `mapstructure:"SATUSEHAT_BASE_URL"`
	SatuSehatAuthURL      string        `mapstructure:"SATUSEHAT_AUTH_URL"`
	SatuSehatClientID     string        `mapstructure:"SATUSEHAT_CLIENT_ID"`
	SatuSehatClientSecret string        `mapstructure:"SATUSEHAT_CLIENT_SECRET"`
	SatuSehatOrgID        string        `mapstructure:"SATUSEHAT_ORG_ID"`
	SatuSehatSyncInterval time.Duration `mapstructure:"SATUSEHAT_SYNC_INTERVAL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("SATUSEHAT_SYNC_INTERVAL", "1m")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("REDIS_URL")
	v.BindEnv("AUTH_SECRET")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("SATUSEHAT_BASE_URL")
	v.BindEnv("SATUSEHAT_AUTH_URL")
	v.BindEnv("SATUSEHAT_CLIENT_ID")
	v.BindEnv("SATUSEHAT_CLIENT_SECRET")
	v.BindEnv("SATUSEHAT_ORG_ID")
	v.BindEnv("SATUSEHAT_SYNC_INTERVAL")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.IsDev() && cfg.DatabaseURL == "" {
		log.Println("WARNING: DATABASE_URL not set, using the in-memory store.")
		log.Println("WARNING: All data is lost when the process exits.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UseMemoryStore reports whether the server should run on the in-memory
// repositories instead of PostgreSQL.
func (c *Config) UseMemoryStore() bool {
	return c.DatabaseURL == ""
}

// SatuSehatEnabled reports whether the Satu Sehat sync worker should run.
func (c *Config) SatuSehatEnabled() bool {
	return c.SatuSehatBaseURL != "" && c.SatuSehatAuthURL != "" &&
		c.SatuSehatClientID != "" && c.SatuSehatClientSecret != ""
}

// Validate checks that the configuration is safe to run. Outside development
// a database and an auth secret are required: the in-memory store and the
// permissive dev auth middleware are development conveniences only.
func (c *Config) Validate() error {
	if !c.IsDev() {
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when ENV is not development")
		}
		if c.AuthSecret == "" {
			return fmt.Errorf("AUTH_SECRET is required when ENV is not development")
		}
	}
	if c.AuthSecret != "" && len(c.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be at least 32 bytes, got %d", len(c.AuthSecret))
	}
	return nil
}
