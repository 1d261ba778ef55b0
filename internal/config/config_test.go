package config

import (
	"strings"
	"testing"
)

const testSecret = "Abc123!xyz-Abc123!xyz-Abc123!xyz"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CLUB_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DBPath != "./data/memberclub.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr())
	}
	if cfg.MemberInviteCode != "member" || cfg.AdminInviteCode != "admin" {
		t.Error("default invite codes should be member/admin")
	}
	if cfg.GoogleEnabled() {
		t.Error("Google sign-in should be disabled by default")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("CLUB_SESSION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing session secret")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("CLUB_SESSION_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for short session secret")
	}
	if !strings.Contains(err.Error(), "at least 32 bytes") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_WeakSecret(t *testing.T) {
	t.Setenv("CLUB_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for known weak secret")
	}
}

func TestLoad_GoogleEnabled(t *testing.T) {
	t.Setenv("CLUB_SESSION_SECRET", testSecret)
	t.Setenv("CLUB_GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("CLUB_GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("CLUB_GOOGLE_REDIRECT_URL", "https://club.example.com/oauth2/redirect/google")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.GoogleEnabled() {
		t.Error("GoogleEnabled should be true with all three vars set")
	}
}

func TestLoad_GooglePartial(t *testing.T) {
	t.Setenv("CLUB_SESSION_SECRET", testSecret)
	t.Setenv("CLUB_GOOGLE_CLIENT_ID", "client-id")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GoogleEnabled() {
		t.Error("partial Google config should leave sign-in disabled")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"Abc123!xyz", true},
		{"abc123xyz!", true},
		{"alllowercase", false},
		{"lowerand123", false},
	}
	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
