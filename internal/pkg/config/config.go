package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	JWTSecret string `env:"JWT_SECRET"`

	// AuthLatency is the artificial delay applied to mocked login and
	// signup submission.
	AuthLatency time.Duration `env:"AUTH_LATENCY, default=1500ms"`

	Storage StorageConfig
	Redis   RedisConfig
}

type StorageConfig struct {
	// Backend selects the snapshot store: "file" or "redis".
	Backend string `env:"STORAGE_BACKEND, default=file"`
	Dir     string `env:"STORAGE_DIR,     default=.marketplace"`
	Workers int    `env:"STORAGE_WORKERS, default=4"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
