package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rewards_test")
	t.Setenv("REWARDS_SERVICE_TOKEN", "test-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5300", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.RewardPendingAge)
	assert.Equal(t, time.Minute, cfg.ReconcileInterval)
	assert.False(t, cfg.SeedDemoData)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rewards_test")
	t.Setenv("REWARDS_SERVICE_TOKEN", "test-token")
	t.Setenv("PORT", "9000")
	t.Setenv("REWARD_PENDING_AGE", "30s")
	t.Setenv("SEED_DEMO_DATA", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.RewardPendingAge)
	assert.True(t, cfg.SeedDemoData)
}
