package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override default paths.
const (
	EnvDBPath     = "STENOPAD_DB"
	EnvConfigPath = "STENOPAD_CONFIG"
)

// LoadEnv loads variables from a dotenv file without overriding the
// process environment. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}
