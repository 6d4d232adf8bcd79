package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenv loads environment variables from a .env file if it exists.
// Variables already present in the environment take precedence.
func LoadDotenv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load dotenv file %s: %w", path, err)
	}
	return nil
}

// LoadConfig loads configuration from a .env file and the environment.
func LoadConfig(dotenvPath string) (AppConfig, error) {
	if err := LoadDotenv(dotenvPath); err != nil {
		return AppConfig{}, err
	}
	envCfg, err := LoadEnvConfig()
	if err != nil {
		return AppConfig{}, err
	}
	return envCfg.ToAppConfig(), nil
}
