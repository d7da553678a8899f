package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladimirMalevanik/discy/internal/db"
)

func setRequired(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test_token")
	t.Setenv("WEBHOOK_SECRET", "test_secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 0, cfg.TZOffsetMin)
	assert.Equal(t, DefaultTelegramAPI, cfg.TelegramAPI)
	assert.Equal(t, DefaultMorningAt, cfg.MorningAt)
	assert.Equal(t, DefaultEveningAt, cfg.EveningAt)
	assert.True(t, cfg.Scheduler)
	assert.Equal(t, db.BackendMemory, cfg.Store.Backend)
	assert.False(t, cfg.Coach.Enabled())
}

func TestLoadReadsOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("TZ_OFFSET_MIN", "180")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("MORNING_AT", "06:15")
	t.Setenv("SCHEDULER", "false")
	t.Setenv("COACH_TOKEN", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 180, cfg.TZOffsetMin)
	assert.Equal(t, db.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "06:15", cfg.MorningAt)
	assert.False(t, cfg.Scheduler)
	assert.True(t, cfg.Coach.Enabled())
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing token":      {"BOT_TOKEN": "", "WEBHOOK_SECRET": "s"},
		"bad offset":         {"TZ_OFFSET_MIN": "abc"},
		"offset too large":   {"TZ_OFFSET_MIN": "2000"},
		"bad morning":        {"MORNING_AT": "7am"},
		"unknown backend":    {"STORE_BACKEND": "cassandra"},
		"mysql without dsn":  {"STORE_BACKEND": "mysql"},
		"redis without addr": {"STORE_BACKEND": "redis"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
