package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Gateway GatewayConfig
	Sync    SyncConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=console_sync"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// GatewayConfig points at the franchise-network API the mirror syncs from.
type GatewayConfig struct {
	BaseURL       string `env:"GATEWAY_BASE_URL, default=http://localhost:9090"`
	APIKey        string `env:"GATEWAY_API_KEY"`
	APIKeyHeader  string `env:"GATEWAY_API_KEY_HEADER, default=X-Api-Key"`
	PageSize      int    `env:"GATEWAY_PAGE_SIZE, default=200"`
	RatePerMinute int    `env:"GATEWAY_RATE_PER_MINUTE, default=300"`
}

// SyncConfig tunes the synchronization engine.
type SyncConfig struct {
	// LoadingFloorSeconds is the minimum visible duration of the loading
	// state once a full sync starts.
	LoadingFloorSeconds int `env:"SYNC_LOADING_FLOOR_SECONDS, default=5"`
	// RefreshIntervalSeconds is the cadence of background incremental syncs.
	// Zero disables the refresh ticker.
	RefreshIntervalSeconds int `env:"SYNC_REFRESH_INTERVAL_SECONDS, default=60"`
}

// LoadingFloor returns the floor as a duration.
func (c SyncConfig) LoadingFloor() time.Duration {
	return time.Duration(c.LoadingFloorSeconds) * time.Second
}

// RefreshInterval returns the refresh cadence as a duration.
func (c SyncConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
