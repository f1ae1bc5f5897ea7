// Package config holds the environment-driven runtime configuration.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is populated from the environment. Every field has a usable
// default so the server starts with no configuration at all.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DBPath      string `envconfig:"DB_PATH" default:"feecost.db"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"console"`
	FeeTableDir string `envconfig:"FEE_TABLE_DIR" default:""`
	MaxUploadMB int64  `envconfig:"MAX_UPLOAD_MB" default:"32"`
	DefaultMCC  int    `envconfig:"DEFAULT_MCC" default:"5499"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	return cfg, nil
}

// MaxUploadBytes is the multipart memory/size cap derived from MaxUploadMB.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
