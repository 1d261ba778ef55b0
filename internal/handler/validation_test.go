package handler

import (
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"User@Example.COM", "user@example.com"},
		{"  padded@example.com  ", "padded@example.com"},
		{"already@example.com", "already@example.com"},
	}
	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"good@example.com", false},
		{"", true},
		{"not-an-email", true},
		{"missing@domain@twice.com", true},
	}
	for _, tt := range tests {
		msg := ValidateEmail(tt.email)
		if (msg != "") != tt.wantErr {
			t.Errorf("ValidateEmail(%q) = %q, wantErr=%v", tt.email, msg, tt.wantErr)
		}
	}
}

func TestValidateName(t *testing.T) {
	if msg := ValidateName("Alice"); msg != "" {
		t.Errorf("valid name rejected: %q", msg)
	}
	if msg := ValidateName(""); msg == "" {
		t.Error("empty name accepted")
	}
	if msg := ValidateName(strings.Repeat("x", 256)); msg == "" {
		t.Error("overlong name accepted")
	}
	if msg := ValidateName(strings.Repeat("x", 255)); msg != "" {
		t.Errorf("255-char name rejected: %q", msg)
	}
	// Bounds count characters, not bytes.
	if msg := ValidateName(strings.Repeat("ü", 255)); msg != "" {
		t.Errorf("255-char multibyte name rejected: %q", msg)
	}
	if msg := ValidateName(strings.Repeat("ü", 256)); msg == "" {
		t.Error("overlong multibyte name accepted")
	}
}

func TestValidatePassword(t *testing.T) {
	if msg := ValidatePassword("123456"); msg != "" {
		t.Errorf("6-char password rejected: %q", msg)
	}
	if msg := ValidatePassword("12345"); msg == "" {
		t.Error("5-char password accepted")
	}
}

func TestValidateInviteCode(t *testing.T) {
	if msg := ValidateInviteCode("member"); msg != "" {
		t.Errorf("valid code rejected: %q", msg)
	}
	if msg := ValidateInviteCode(""); msg == "" {
		t.Error("empty code accepted")
	}
	if msg := ValidateInviteCode(strings.Repeat("c", 33)); msg == "" {
		t.Error("overlong code accepted")
	}
}

func TestValidatePostFields(t *testing.T) {
	if msg := ValidatePostTitle("Hello"); msg != "" {
		t.Errorf("valid title rejected: %q", msg)
	}
	if msg := ValidatePostTitle(strings.Repeat("t", 256)); msg == "" {
		t.Error("overlong title accepted")
	}
	if msg := ValidatePostContent("body"); msg != "" {
		t.Errorf("valid content rejected: %q", msg)
	}
	if msg := ValidatePostContent(strings.Repeat("c", 1024)); msg == "" {
		t.Error("overlong content accepted")
	}
	if msg := ValidatePostContent(strings.Repeat("c", 1023)); msg != "" {
		t.Errorf("1023-char content rejected: %q", msg)
	}
	if msg := ValidatePostContent(strings.Repeat("é", 1023)); msg != "" {
		t.Errorf("1023-char multibyte content rejected: %q", msg)
	}
}
