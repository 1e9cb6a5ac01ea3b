package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Required values are
// enforced by must(); everything else has a sensible default so a bare
// environment still boots against a local store.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	UpstreamBaseURL string        // base URL of the remote cinema store API
	UpstreamTimeout time.Duration // per-call timeout for store requests
	SessionTTL      time.Duration // how long an idle session survives
	RefreshInterval time.Duration // showtime re-classification interval
	PageSize        int           // admin list page size
}

// Load reads configuration from the environment.  Missing required
// variables cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		UpstreamBaseURL: must("UPSTREAM_API_URL"),
		UpstreamTimeout: envDur("UPSTREAM_TIMEOUT", 10*time.Second),
		SessionTTL:      envDur("SESSION_TTL", 24*time.Hour),
		RefreshInterval: envDur("REFRESH_INTERVAL", 60*time.Second),
		PageSize:        envInt("ADMIN_PAGE_SIZE", 7),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
