// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"CLUB_DB_PATH" envDefault:"./data/memberclub.db"`
	SessionSecret string `env:"CLUB_SESSION_SECRET,required"`
	ServerHost    string `env:"CLUB_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"CLUB_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"CLUB_ENV" envDefault:"development"`
	LogLevel      string `env:"CLUB_LOG_LEVEL" envDefault:"info"`

	// Google sign-in configuration. Leave empty to disable federated login.
	GoogleClientID     string `env:"CLUB_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"CLUB_GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"CLUB_GOOGLE_REDIRECT_URL"` // e.g. https://club.example.com/oauth2/redirect/google

	// Invite codes seeded on startup. Rotate them in production.
	MemberInviteCode string `env:"CLUB_MEMBER_INVITE_CODE" envDefault:"member"`
	AdminInviteCode  string `env:"CLUB_ADMIN_INVITE_CODE" envDefault:"admin"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// GoogleEnabled returns true if Google sign-in is fully configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// The CSRF key derivation needs 32 bytes minimum.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("CLUB_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("CLUB_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CLUB_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if !cfg.GoogleEnabled() && (cfg.GoogleClientID != "" || cfg.GoogleClientSecret != "" || cfg.GoogleRedirectURL != "") {
		slog.Warn("Google sign-in partially configured; it will be disabled",
			"need", "CLUB_GOOGLE_CLIENT_ID, CLUB_GOOGLE_CLIENT_SECRET, CLUB_GOOGLE_REDIRECT_URL")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
