package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "FUTPLOT_"

// listKeys are split on commas when they come from the environment.
var listKeys = map[string]bool{
	"leagues":            true,
	"fbref_groups":       true,
	"fbref_categories":   true,
	"cors_allow_origins": true,
}

// Load builds a Config by layering (low -> high precedence):
//  1. Default()
//  2. YAML file at $FUTPLOT_CONFIG, if set
//  3. FUTPLOT_* env vars (FUTPLOT_REQUEST_DELAY=5s -> request_delay)
//  4. DATABASE_URL / NEON_DATABASE_URL when database_url is still empty
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "config" {
			return "", nil
		}
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = envOr("DATABASE_URL", envOr("NEON_DATABASE_URL", ""))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case len(c.Leagues) == 0:
		return fmt.Errorf("%w: leagues must not be empty", ErrInvalidConfig)
	case len(c.FBrefCategories) == 0:
		return fmt.Errorf("%w: fbref_categories must not be empty", ErrInvalidConfig)
	case c.UpsertBatchSize < 1:
		return fmt.Errorf("%w: upsert_batch_size must be positive", ErrInvalidConfig)
	case c.RequestDelay < 0:
		return fmt.Errorf("%w: request_delay must not be negative", ErrInvalidConfig)
	}
	return nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
