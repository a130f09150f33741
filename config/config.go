/*
Package config loads server configuration from the environment.

PURPOSE:
  Central place for environment-driven settings. A .env file is loaded
  when present (local development); real environments set variables
  directly. Command-line flags in cmd/server override these values.

VARIABLES:
  PORT            HTTP port                          (default 8080)
  DB_PATH         SQLite database path               (default finalpay.db)
  AUTH_SECRET     HS256 bearer-token secret; empty disables auth
  RATE_LIMIT      limiter formatted rate, e.g. 60-M  (default 60-M)
  PAYDAY_WEEKDAY  next-payday anchor weekday         (default Friday)
  CORS_ORIGINS    comma-separated allowed origins
*/
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	DBPath        string
	AuthSecret    string
	RateLimit     string
	PaydayWeekday time.Weekday
	CORSOrigins   []string
}

// Load reads configuration from .env (if present) and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		port = 8080
	}

	return Config{
		Port:          port,
		DBPath:        getEnv("DB_PATH", "finalpay.db"),
		AuthSecret:    getEnv("AUTH_SECRET", ""),
		RateLimit:     getEnv("RATE_LIMIT", "60-M"),
		PaydayWeekday: parseWeekday(getEnv("PAYDAY_WEEKDAY", "Friday")),
		CORSOrigins:   splitOrigins(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseWeekday(s string) time.Weekday {
	names := map[string]time.Weekday{
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
	if wd, ok := names[strings.ToLower(strings.TrimSpace(s))]; ok {
		return wd
	}
	return time.Friday
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
