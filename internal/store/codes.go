// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/memberclub-app/memberclub/internal/model"
)

// UpsertInviteCodeParams names a role and its shared-secret code.
type UpsertInviteCodeParams struct {
	Name string
	Code string
}

// UpsertInviteCode inserts an invite code, leaving any existing code
// for the role untouched. Used by seeding only; codes are operator
// data, not created at runtime.
func (q *Queries) UpsertInviteCode(ctx context.Context, arg UpsertInviteCodeParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO invite_codes (name, code) VALUES (?1, ?2)
		ON CONFLICT (name) DO NOTHING`,
		arg.Name, arg.Code)
	return err
}

// GetInviteCodeByName returns the invite code row for a role name.
func (q *Queries) GetInviteCodeByName(ctx context.Context, name string) (model.InviteCode, error) {
	var ic model.InviteCode
	err := q.db.QueryRowContext(ctx,
		"SELECT id, name, code FROM invite_codes WHERE name = ?1", name).
		Scan(&ic.ID, &ic.Name, &ic.Code)
	return ic, err
}

// RotateInviteCode replaces the stored code for a role.
func (q *Queries) RotateInviteCode(ctx context.Context, arg UpsertInviteCodeParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE invite_codes SET code = ?2 WHERE name = ?1",
		arg.Name, arg.Code)
	return err
}
