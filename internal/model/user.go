// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including User, Post, FederatedCredential and InviteCode.
package model

import (
	"database/sql"
)

// Role names gated by invite codes. Each has exactly one active code
// in the invite_codes table.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User represents a club user. Email and PasswordHash are nullable:
// an account created through an OAuth first-login has neither.
type User struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Email        sql.NullString `json:"email"`
	PasswordHash sql.NullString `json:"-"` // Never expose in JSON
	IsAdmin      bool           `json:"is_admin"`
	IsClubMember bool           `json:"is_club_member"`
}

// HasPassword returns true if the user can authenticate with local
// credentials. OAuth-only accounts have no password hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash.Valid && u.PasswordHash.String != ""
}

// HasRole reports whether the user currently holds the named role.
// Admins are always club members.
func (u *User) HasRole(role string) bool {
	switch role {
	case RoleAdmin:
		return u.IsAdmin
	case RoleMember:
		return u.IsClubMember || u.IsAdmin
	default:
		return false
	}
}
