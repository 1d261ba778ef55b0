// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// FederatedCredential links a local user to an identity asserted by an
// external OAuth provider. The (provider, subject) pair is unique: one
// external identity maps to at most one user.
type FederatedCredential struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	Provider string `json:"provider"`
	Subject  string `json:"subject"`
}

// InviteCode is the shared secret that gates acquisition of a named
// role. Seed data, never created at runtime.
type InviteCode struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"-"`
}

// InviteCodeMaxLen bounds the code form field.
const InviteCodeMaxLen = 32
