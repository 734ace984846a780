package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"de", "en"}, catalog.Languages())
	assert.True(t, catalog.Supports("en"))
	assert.True(t, catalog.Supports("de"))
	assert.False(t, catalog.Supports("xx"))
}

func TestCatalog_Get(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	t.Run("nested keys are slash separated", func(t *testing.T) {
		assert.Equal(t, "Current time: **{time}**", catalog.Get("en", "clock/time"))
	})

	t.Run("translated key", func(t *testing.T) {
		assert.Equal(t, "Aktuelle Uhrzeit: **{time}**", catalog.Get("de", "clock/time"))
	})

	t.Run("missing translation falls back to english", func(t *testing.T) {
		assert.Equal(t, catalog.Get("en", "donate/body"), catalog.Get("de", "donate/body"))
	})

	t.Run("unknown language falls back to english", func(t *testing.T) {
		assert.Equal(t, catalog.Get("en", "no_perms"), catalog.Get("xx", "no_perms"))
	})

	t.Run("unknown key is returned as is", func(t *testing.T) {
		assert.Equal(t, "does/not/exist", catalog.Get("en", "does/not/exist"))
	})

	t.Run("block scalars lose their trailing newline", func(t *testing.T) {
		assert.NotContains(t, catalog.Get("en", "donate/body"), "\n")
	})
}

func TestCatalog_Format(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Current time: **14:05:30**", catalog.Format("en", "clock/time", "time", "14:05:30"))
	assert.Equal(t,
		"Please use `!prefix <new prefix>`",
		catalog.Format("en", "prefix/no_argument", "prefix", "!"),
	)
	assert.Equal(t, "Current time: **{time}**", catalog.Format("en", "clock/time"))
}

func TestLanguagePacks_OnlyKnownKeys(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	for code, strs := range catalog.languages {
		for key := range strs {
			_, ok := catalog.languages[FallbackLanguage][key]
			assert.True(t, ok, "language %s has key %s missing from the fallback pack", code, key)
		}
	}
}
