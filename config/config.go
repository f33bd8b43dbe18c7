package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the application.
// Values come from config.yaml when present; environment variables override.
type Config struct {
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	// Path is the backing SQLite file. The store is always a single
	// addressable file so it can be exported verbatim.
	Path string `yaml:"path" env:"DATABASE_PATH" env-default:"supernova.db"`
}

// Load reads configuration from the given YAML file (if it exists) and the
// environment. A missing file is not an error; env defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
