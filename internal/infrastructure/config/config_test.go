package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Subscription.Sweep.Interval)
	assert.Equal(t, 200, cfg.Subscription.Sweep.PageSize)
	assert.Equal(t, 5*time.Minute, cfg.Subscription.Sweep.PassTimeout)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEARNHUB_DATABASE_DRIVER", "sqlite")
	t.Setenv("LEARNHUB_SUBSCRIPTION_SWEEP_PAGE_SIZE", "50")

	cfg, err := Load("release")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 50, cfg.Subscription.Sweep.PageSize)
	assert.Equal(t, "release", cfg.Server.Mode)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEARNHUB_DATABASE_DRIVER", "oracle")

	_, err := Load("")
	assert.Error(t, err)
}

func TestModeForEnv(t *testing.T) {
	tests := map[string]string{
		"production":  "release",
		"prod":        "release",
		"release":     "release",
		"test":        "test",
		"development": "debug",
		"staging":     "debug",
	}
	for env, want := range tests {
		assert.Equal(t, want, ModeForEnv(env), env)
	}
}

func TestLoad_RateLimitAndOriginDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("production")
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 30, cfg.Server.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.Server.RateLimit.Window)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "./configs/templates", cfg.Email.TemplatePath)
}
