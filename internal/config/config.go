package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries process configuration resolved from the environment.
// cmd binaries call godotenv.Load() before Load so a local .env works in dev.
type Config struct {
	HTTPAddr    string
	PostgresDSN string
	AuthSecret  string
	TokenTTL    time.Duration
	RateBurst   int
	RatePerSec  int
}

// Load reads configuration from TRANGHOA_* environment variables.
func Load() Config {
	return Config{
		HTTPAddr:    getenv("TRANGHOA_HTTP_ADDR", ":8080"),
		PostgresDSN: os.Getenv("TRANGHOA_PG_DSN"),
		AuthSecret:  os.Getenv("TRANGHOA_AUTH_SECRET"),
		TokenTTL:    getduration("TRANGHOA_TOKEN_TTL", 12*time.Hour),
		RateBurst:   getint("TRANGHOA_RATE_BURST", 20),
		RatePerSec:  getint("TRANGHOA_RATE_PER_SEC", 10),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
