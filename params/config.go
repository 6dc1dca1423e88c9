package params

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Server struct {
	// APIAddr is the listen address for the REST/WebSocket server.
	APIAddr string `env:"API_ADDR" envDefault:":8080"`
	// CORSOrigins lists the front-end origins allowed to call the API.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:8081"`
	// ShutdownTimeoutSec bounds graceful HTTP shutdown.
	ShutdownTimeoutSec int `env:"SHUTDOWN_TIMEOUT_SEC" envDefault:"10"`
}

type Store struct {
	// DataDir is where the Pebble database lives.
	DataDir string `env:"DATA_DIR" envDefault:"data/padaria.db"`
	// InMemory swaps Pebble for the in-memory store (dev/tests; nothing survives restart).
	InMemory bool `env:"IN_MEMORY" envDefault:"false"`
}

type Config struct {
	Server  Server
	Store   Store
	LogFile string `env:"LOG_FILE" envDefault:"data/padaria.log"`
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables.
// Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) (Config, error) {
	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
