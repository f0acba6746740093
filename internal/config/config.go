package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultBcryptCost = 10

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret  string `yaml:"jwt_secret"`
		BcryptCost int    `yaml:"bcrypt_cost"`
	} `yaml:"auth"`
}

// LoadConfig reads configuration from the specified YAML file. The
// JWT_SECRET, DATABASE_URL and PORT environment variables override the
// file values so secrets can stay out of the config on disk.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}
	if port := os.Getenv("PORT"); port != "" {
		config.Server.Port = port
	}

	if config.Auth.BcryptCost == 0 {
		config.Auth.BcryptCost = defaultBcryptCost
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the invariants that must hold before the server starts.
// A missing signing secret is fatal here rather than per-request.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost %d out of range [4, 31]", c.Auth.BcryptCost)
	}
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	return nil
}
