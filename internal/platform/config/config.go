package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the service configuration read from the environment.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// LenientLookup reports unknown exposures as profile 0, index 0 instead
	// of rejecting the frame.
	LenientLookup bool `env:"HDR_LENIENT_LOOKUP" envDefault:"false"`

	// SwitchRetries is how many frames carry a requested profile switch signal.
	SwitchRetries int `env:"HDR_SWITCH_RETRIES" envDefault:"1"`

	// PresetsFile is an optional YAML file of cameras to configure at startup.
	PresetsFile string `env:"HDR_PRESETS_FILE"`
}

// Load reads the .env file from the current working directory and sets
// environment variables. If .env does not exist, Load returns an error but
// callers can ignore it and use system env or defaults. Pass one or more paths
// to load from specific files (e.g. ".env"); with no paths, ".env" is used.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// FromEnv parses Config from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
