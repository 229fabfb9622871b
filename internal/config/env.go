package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that provide defaults for CLI flags.
const (
	EnvDBPath     = "FLAPPY_DB"
	EnvConfigPath = "FLAPPY_CONFIG"
	EnvLogLevel   = "FLAPPY_LOG_LEVEL"
	EnvWebAddr    = "FLAPPY_WEB_ADDR"
	EnvSSHAddr    = "FLAPPY_SSH_ADDR"
)

// LoadEnv loads variables from the given .env files (default ".env") into the
// process environment. Missing files are not an error; variables already set
// in the environment win over file values.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: failed to load %s: %w", f, err)
		}
	}
	return nil
}

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
