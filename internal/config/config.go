// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr    string
	DBPath        string
	SecretKey     []byte // 32-byte AES-256 key; nil disables token encryption.
	WebhookSecret string
	GitHubToken   string
}

// HasSecretKey reports whether token encryption is configured. Without it the
// installation store rejects writes and app authentication is unavailable.
func (c *Config) HasSecretKey() bool {
	return c.SecretKey != nil
}

// Load reads configuration from environment variables and returns a validated
// Config. All variables are optional: TRACKHUB_LISTEN_ADDR (127.0.0.1:8080),
// TRACKHUB_DB_PATH (trackhub.db), TRACKHUB_SECRET_KEY (64 hex chars, enables
// token encryption), TRACKHUB_WEBHOOK_SECRET (enables webhook signature
// verification), TRACKHUB_GITHUB_TOKEN (enables commit stats backfill).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("TRACKHUB_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "trackhub.db"
	if v, ok := os.LookupEnv("TRACKHUB_DB_PATH"); ok {
		dbPath = v
	}

	var secretKey []byte
	if v, ok := os.LookupEnv("TRACKHUB_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("TRACKHUB_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("TRACKHUB_SECRET_KEY must be 64 hex characters (32 bytes), got %d bytes", len(key))
		}
		secretKey = key
	}

	return &Config{
		ListenAddr:    listenAddr,
		DBPath:        dbPath,
		SecretKey:     secretKey,
		WebhookSecret: os.Getenv("TRACKHUB_WEBHOOK_SECRET"),
		GitHubToken:   os.Getenv("TRACKHUB_GITHUB_TOKEN"),
	}, nil
}
