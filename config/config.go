package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config is the full service configuration, decoded from the environment.
type Config struct {
	Port           string `env:"PORT,default=5300"`
	DatabaseURL    string `env:"DATABASE_URL,required"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`

	// Shared token proving a request came through the API gateway.
	GatewayToken string `env:"REWARDS_SERVICE_TOKEN,required"`

	RedisAddr string `env:"REDIS_ADDR,default=localhost:6379"`

	// How far behind a completion may lag before the reconciliation sweep
	// re-attempts its reward writes, and how often the sweep runs.
	RewardPendingAge  time.Duration `env:"REWARD_PENDING_AGE,default=5m"`
	ReconcileInterval time.Duration `env:"REWARD_RECONCILE_INTERVAL,default=1m"`

	SnapshotInterval time.Duration `env:"LEADERBOARD_SNAPSHOT_INTERVAL,default=5m"`

	SeedDemoData bool `env:"SEED_DEMO_DATA,default=false"`
}

// Load reads .env if present, then decodes the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
