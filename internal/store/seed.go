// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/memberclub-app/memberclub/internal/model"
)

// Default invite codes used when none are configured. Operators should
// override these in any real deployment.
const (
	DefaultMemberCode = "member"
	DefaultAdminCode  = "admin"
)

// Seed creates the invite code rows for the member and admin roles.
// Existing codes are left untouched, so repeated startups are safe and
// rotation done by an operator is never undone.
func Seed(ctx context.Context, db *sql.DB, memberCode, adminCode string) error {
	queries := New(db)

	if memberCode == "" {
		memberCode = DefaultMemberCode
	}
	if adminCode == "" {
		adminCode = DefaultAdminCode
	}

	codes := []UpsertInviteCodeParams{
		{Name: model.RoleMember, Code: memberCode},
		{Name: model.RoleAdmin, Code: adminCode},
	}

	for _, c := range codes {
		if err := queries.UpsertInviteCode(ctx, c); err != nil {
			return fmt.Errorf("seeding invite code %q: %w", c.Name, err)
		}
	}

	slog.Info("invite codes seeded", "roles", []string{model.RoleMember, model.RoleAdmin})
	return nil
}
