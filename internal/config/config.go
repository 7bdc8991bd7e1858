// Package config loads runtime configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultMasterEmail identifies the master faculty account (the "Dean") when
// MASTER_FACULTY_EMAIL is not set. The master approver moderates pending
// accounts and job postings and is always approved at registration.
const DefaultMasterEmail = "drssm@gmail.com"

// Config holds all runtime configuration for the placement API.
type Config struct {
	Port        string
	DatabaseDSN string
	RedisAddr   string
	JWTSecret   string
	MasterEmail string
	TokenTTL    time.Duration

	// GeminiAPIKey enables the resume scoring oracle. Empty disables it:
	// score requests then degrade to the documented failure sentinel.
	GeminiAPIKey string

	// OpenConfirmCascade controls the ambiguous half of offer resolution:
	// when true, confirming an offer on an Open-policy job still withdraws
	// the student's other live applications, same as Exclusive.
	OpenConfirmCascade bool
}

// Load reads environment variables and returns a Config with development
// defaults for everything that is safe to default.
func Load() *Config {
	cascade, _ := strconv.ParseBool(os.Getenv("OPEN_CONFIRM_CASCADE"))
	ttlHours, err := strconv.Atoi(getenv("TOKEN_TTL_HOURS", "100"))
	if err != nil || ttlHours <= 0 {
		ttlHours = 100
	}
	return &Config{
		Port:               getenv("PORT", "8000"),
		DatabaseDSN:        getenv("DATABASE_DSN", "host=localhost user=postgres password=password dbname=placement port=5432 sslmode=disable"),
		RedisAddr:          getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:          getenv("JWT_SECRET", "dev-secret-change-me"),
		MasterEmail:        getenv("MASTER_FACULTY_EMAIL", DefaultMasterEmail),
		TokenTTL:           time.Duration(ttlHours) * time.Hour,
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		OpenConfirmCascade: cascade,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
