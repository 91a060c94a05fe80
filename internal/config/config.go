package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	AppName     = "apteekki-admin"
	EnvFileName = "config.env"
)

// Config is the process configuration, populated from the environment.
type Config struct {
	// APIBaseURL points at the back-office REST API.
	APIBaseURL string `env:"APTEEKKI_API_URL"`
	// NATSURL is the live order-notification endpoint.
	NATSURL string `env:"APTEEKKI_NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	// DBPath is the SQLite session store location.
	DBPath string `env:"APTEEKKI_DB_PATH" envDefault:"session.db"`
	// TokenKey is the passphrase protecting tokens at rest. Required.
	TokenKey string `env:"APTEEKKI_TOKEN_KEY,notEmpty"`
}

// Load reads the optional env file from the user config directory, then
// parses the environment into a Config.
func Load() (Config, error) {
	LoadEnvFile()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return cfg, nil
}

// LoadEnvFile loads environment variables from the config file in the
// user's config directory. Errors are ignored since the file may not exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}
