// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Optional: when empty,
	// wizard sessions are kept in process memory.
	DatabaseURL string

	// UpstreamURL is the base URL of the trip generation backend
	// (countries, currencies, city autocomplete, trip generation). Required.
	UpstreamURL string

	// UpstreamTimeout bounds every upstream request. Defaults to 30s.
	UpstreamTimeout time.Duration

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// DefaultCurrency is the currency of new drafts. Defaults to "USD".
	DefaultCurrency string

	// WizardProfile is the profile used when a session does not name one.
	WizardProfile string

	// WizardProfilesFile optionally replaces the built-in profiles with a YAML file.
	WizardProfilesFile string

	AutocompleteDebounce  time.Duration
	AutocompleteBlurGrace time.Duration

	// ReferenceTTL is how long countries and currencies stay cached.
	ReferenceTTL time.Duration

	// SessionIdleTTL is how long an untouched wizard session is kept, live or
	// stored, before it is released. Defaults to 24h.
	SessionIdleTTL time.Duration

	// SessionSweepInterval is how often idle sessions are looked for.
	// Defaults to 5m.
	SessionSweepInterval time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set and any
// durations that do not parse.
func Load() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DefaultCurrency:    strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
		WizardProfile:      getEnv("WIZARD_PROFILE", "standard"),
		WizardProfilesFile: os.Getenv("WIZARD_PROFILES_FILE"),
	}

	var missing, invalid []string

	cfg.UpstreamURL = os.Getenv("UPSTREAM_API_URL")
	if cfg.UpstreamURL == "" {
		missing = append(missing, "UPSTREAM_API_URL")
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"UPSTREAM_TIMEOUT", "30s", &cfg.UpstreamTimeout},
		{"AUTOCOMPLETE_DEBOUNCE", "250ms", &cfg.AutocompleteDebounce},
		{"AUTOCOMPLETE_BLUR_GRACE", "200ms", &cfg.AutocompleteBlurGrace},
		{"REFERENCE_TTL", "1h", &cfg.ReferenceTTL},
		{"SESSION_IDLE_TTL", "24h", &cfg.SessionIdleTTL},
		{"SESSION_SWEEP_INTERVAL", "5m", &cfg.SessionSweepInterval},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil || v <= 0 {
			invalid = append(invalid, d.key)
			continue
		}
		*d.dst = v
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "required environment variables not set: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		problems = append(problems, "invalid durations: "+strings.Join(invalid, ", "))
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("%s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
