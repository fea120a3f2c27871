// Package config provides centralized configuration for the ingest CLI and
// the read API. Values are layered: built-in defaults, an optional YAML file
// named by FUTPLOT_CONFIG, FUTPLOT_* environment variables, and finally the
// conventional DATABASE_URL.
package config

import (
	"fmt"
	"time"
)

// --------------------------------------------------------------------------
// League registry: soccerdata-style names used across all providers
// --------------------------------------------------------------------------

// Big5 lists the leagues every pipeline covers by default.
var Big5 = []string{
	"ENG-Premier League",
	"ESP-La Liga",
	"GER-Bundesliga",
	"ITA-Serie A",
	"FRA-Ligue 1",
}

// FBrefCategories are fetched in this order; the first is the merge base.
var FBrefCategories = []string{"standard", "shooting", "passing", "defense", "misc", "keeper"}

// --------------------------------------------------------------------------
// Table names, matching schema.sql
// --------------------------------------------------------------------------

const (
	PlayersTable = "players"
)

// --------------------------------------------------------------------------
// Config struct
// --------------------------------------------------------------------------

type Config struct {
	LogLevel string `koanf:"log_level"`

	// Database
	DatabaseURL     string        `koanf:"database_url"`
	DBPoolMinConns  int           `koanf:"db_pool_min_conns"`
	DBPoolMaxConns  int           `koanf:"db_pool_max_conns"`
	DBPoolMaxLife   time.Duration `koanf:"db_pool_max_life"`
	UpsertBatchSize int           `koanf:"upsert_batch_size"`

	// Scraping
	Leagues           []string      `koanf:"leagues"`
	FBrefGroups       []string      `koanf:"fbref_groups"`
	FBrefCategories   []string      `koanf:"fbref_categories"`
	RequestDelay      time.Duration `koanf:"request_delay"`
	HTTPTimeout       time.Duration `koanf:"http_timeout"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`
	UserAgent         string        `koanf:"user_agent"`
	Headless          bool          `koanf:"headless"`
	ChromePath        string        `koanf:"chrome_path"`

	// Outputs
	DataDir         string `koanf:"data_dir"`
	UnderstatOutput string `koanf:"understat_output"`
	WhoScoredOutput string `koanf:"whoscored_output"`

	// Metrics
	PushgatewayURL string `koanf:"pushgateway_url"`

	// API server
	APIHost     string `koanf:"api_host"`
	APIPort     int    `koanf:"api_port"`
	Environment string `koanf:"environment"`

	CORSAllowOrigins []string `koanf:"cors_allow_origins"`

	RateLimitEnabled  bool          `koanf:"rate_limit_enabled"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	CacheEnabled bool `koanf:"cache_enabled"`
}

// Default returns the built-in configuration: Big5 leagues, current
// season outputs under data/.
func Default() *Config {
	return &Config{
		LogLevel: "info",

		DBPoolMinConns:  1,
		DBPoolMaxConns:  4,
		DBPoolMaxLife:   30 * time.Minute,
		UpsertBatchSize: 500,

		Leagues:           append([]string(nil), Big5...),
		FBrefGroups:       []string{"Big5"},
		FBrefCategories:   append([]string(nil), FBrefCategories...),
		RequestDelay:      3 * time.Second,
		HTTPTimeout:       30 * time.Second,
		RequestsPerMinute: 20,
		UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		Headless:          true,

		DataDir:         "data",
		UnderstatOutput: "data/understat_current_season.csv",
		WhoScoredOutput: "data/whoscored_current_season.csv",

		APIHost:     "0.0.0.0",
		APIPort:     8000,
		Environment: "development",
		CORSAllowOrigins: []string{
			"http://localhost:3000",
		},
		RateLimitEnabled:  true,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		CacheEnabled:      true,
	}
}

// RequireDatabase reports a fatal configuration error when no connection
// string is available. Only commands that touch Postgres call it.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

// FBrefOutput returns the CSV path for a season, e.g. data/fbref_2025.csv.
func (c *Config) FBrefOutput(season int) string {
	return fmt.Sprintf("%s/fbref_%d.csv", c.DataDir, season)
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
