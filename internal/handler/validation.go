// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/memberclub-app/memberclub/internal/model"
)

// Form field bounds, counted in characters. Matches what the post
// board and signup forms have always accepted.
const (
	nameMaxLen     = 255
	passwordMinLen = 6
)

// NormalizeEmail trims surrounding whitespace and lowercases an email
// address. Normalization happens here, at the boundary, so lookups in
// the auth core are exact.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail returns an error message for an invalid address, or ""
// when valid. Expects a normalized input.
func ValidateEmail(email string) string {
	if email == "" {
		return "Email is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Email is invalid"
	}
	return ""
}

// ValidateName checks the display name bounds.
func ValidateName(name string) string {
	if name == "" {
		return "Name is required"
	}
	if utf8.RuneCountInString(name) > nameMaxLen {
		return "Name is too long"
	}
	return ""
}

// ValidatePassword checks the password minimum length.
func ValidatePassword(password string) string {
	if utf8.RuneCountInString(password) < passwordMinLen {
		return "Password must be at least 6 characters"
	}
	return ""
}

// ValidateInviteCode checks the invite code bounds.
func ValidateInviteCode(code string) string {
	if code == "" {
		return "Code is required"
	}
	if utf8.RuneCountInString(code) > model.InviteCodeMaxLen {
		return "Code is required, 32 characters max"
	}
	return ""
}

// ValidatePostTitle checks the post title bounds.
func ValidatePostTitle(title string) string {
	if title == "" {
		return "Title is required"
	}
	if utf8.RuneCountInString(title) > model.PostTitleMaxLen {
		return "Title is too long"
	}
	return ""
}

// ValidatePostContent checks the post content bounds.
func ValidatePostContent(content string) string {
	if content == "" {
		return "Content is required"
	}
	if utf8.RuneCountInString(content) > model.PostContentMaxLen {
		return "Content is too long"
	}
	return ""
}
