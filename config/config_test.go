package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("DB_URL", "postgres://localhost/remindbot")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Discord.BotToken)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "public", cfg.Database.Schema)
	assert.Equal(t, "$", cfg.DefaultPrefix)
	assert.Equal(t, "en", cfg.LocalLanguage)
	assert.Equal(t, "UTC", cfg.LocalTimezone)
	assert.True(t, cfg.IgnoreBots)
	assert.Equal(t, 64, cfg.WorkerCount)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEFAULT_PREFIX", "!")
	t.Setenv("LOCAL_TIMEZONE", "Europe/London")
	t.Setenv("IGNORE_BOTS", "false")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("WORKER_COUNT", "8")

	cfg, err := LoadConfig("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "!", cfg.DefaultPrefix)
	assert.Equal(t, "Europe/London", cfg.LocalTimezone)
	assert.False(t, cfg.IgnoreBots)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, 8, cfg.WorkerCount)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DB_URL", "postgres://localhost/remindbot")

	_, err := LoadConfig("testdata/does-not-exist.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")
}

func TestAppConfig_Validate(t *testing.T) {
	valid := func() AppConfig {
		return AppConfig{
			Database:      DatabaseConfig{Driver: "postgres", URL: "x", Schema: "public"},
			DefaultPrefix: "$",
			LocalLanguage: "en",
			LocalTimezone: "UTC",
			WorkerCount:   1,
		}
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unsupported driver", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Driver = "mysql"
		assert.ErrorContains(t, cfg.Validate(), "unsupported DB_DRIVER")
	})

	t.Run("empty prefix", func(t *testing.T) {
		cfg := valid()
		cfg.DefaultPrefix = ""
		assert.ErrorContains(t, cfg.Validate(), "DEFAULT_PREFIX")
	})

	t.Run("invalid timezone", func(t *testing.T) {
		cfg := valid()
		cfg.LocalTimezone = "Mars/Olympus_Mons"
		assert.ErrorContains(t, cfg.Validate(), "LOCAL_TIMEZONE")
	})

	t.Run("non-positive worker count", func(t *testing.T) {
		cfg := valid()
		cfg.WorkerCount = 0
		assert.ErrorContains(t, cfg.Validate(), "WORKER_COUNT")
	})
}
