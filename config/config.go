package config

import (
	"fmt"
	"slices"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"remindbot/core/log"
)

type DiscordConfig struct {
	BotToken string `env:"DISCORD_TOKEN,required,notEmpty"`
	// ClientID is the bot's user id; when set, mentioning the bot works as a command prefix
	ClientID string `env:"DISCORD_CLIENT_ID"`
}

type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"postgres"`
	URL    string `env:"DB_URL,required,notEmpty"`
	Schema string `env:"DB_SCHEMA" envDefault:"public"`
}

type AppConfig struct {
	Discord  DiscordConfig
	Database DatabaseConfig

	// Defaults applied when a guild or user has not stored their own value
	DefaultPrefix string `env:"DEFAULT_PREFIX" envDefault:"$"`
	LocalLanguage string `env:"LOCAL_LANGUAGE" envDefault:"en"`
	LocalTimezone string `env:"LOCAL_TIMEZONE" envDefault:"UTC"`

	IgnoreBots   bool   `env:"IGNORE_BOTS"   envDefault:"true"`
	WorkerCount  int    `env:"WORKER_COUNT"  envDefault:"64"`
	RedisURL     string `env:"REDIS_URL"`
	DashboardURL string `env:"DASHBOARD_URL" envDefault:"https://reminder-bot.com/dashboard"`

	Port               string `env:"PORT"                 envDefault:"8080"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	Environment        string `env:"ENVIRONMENT"          envDefault:"dev"`
	LogLevel           string `env:"LOG_LEVEL"            envDefault:"info"`
	AlertWebhookURL    string `env:"ALERT_WEBHOOK_URL"`
}

var supportedDrivers = []string{"postgres", "sqlite3"}

// LoadConfig reads the given .env files (or ./.env when none are given) and parses the
// process environment into an AppConfig.
func LoadConfig(envFiles ...string) (*AppConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Warn("⚠️ Could not load .env file, continuing with system env vars", "error", err)
	}

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.RedisURL != "" {
		log.Info("✅ Redis prefix cache configured")
	} else {
		log.Info("⚠️ Redis not configured - using in-process prefix cache")
	}

	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	if !slices.Contains(supportedDrivers, c.Database.Driver) {
		return fmt.Errorf("unsupported DB_DRIVER %q, expected one of %v", c.Database.Driver, supportedDrivers)
	}

	if c.DefaultPrefix == "" {
		return fmt.Errorf("DEFAULT_PREFIX cannot be empty")
	}

	if c.LocalLanguage == "" {
		return fmt.Errorf("LOCAL_LANGUAGE cannot be empty")
	}

	if _, err := time.LoadLocation(c.LocalTimezone); err != nil || c.LocalTimezone == "Local" {
		return fmt.Errorf("LOCAL_TIMEZONE %q is not a valid IANA timezone", c.LocalTimezone)
	}

	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}

	return nil
}
