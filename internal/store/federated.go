// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/memberclub-app/memberclub/internal/model"
)

// CreateFederatedCredentialParams links a user to an external identity.
type CreateFederatedCredentialParams struct {
	UserID   int64
	Provider string
	Subject  string
}

// CreateFederatedCredential inserts a federated credential row. The
// UNIQUE(provider, subject) constraint makes the loser of a concurrent
// first-login race fail with a constraint error.
func (q *Queries) CreateFederatedCredential(ctx context.Context, arg CreateFederatedCredentialParams) (model.FederatedCredential, error) {
	var fc model.FederatedCredential
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO federated_credentials (user_id, provider, subject)
		VALUES (?1, ?2, ?3)
		RETURNING id, user_id, provider, subject`,
		arg.UserID, arg.Provider, arg.Subject).
		Scan(&fc.ID, &fc.UserID, &fc.Provider, &fc.Subject)
	return fc, err
}

// GetUserByFederatedIdentityParams identifies an external identity.
type GetUserByFederatedIdentityParams struct {
	Provider string
	Subject  string
}

// GetUserByFederatedIdentity returns the user linked to the given
// (provider, subject) pair, or sql.ErrNoRows when no link exists yet.
func (q *Queries) GetUserByFederatedIdentity(ctx context.Context, arg GetUserByFederatedIdentityParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.email, u.password_hash, u.is_admin, u.is_club_member
		FROM users u
		JOIN federated_credentials fc ON fc.user_id = u.id
		WHERE fc.provider = ?1 AND fc.subject = ?2`,
		arg.Provider, arg.Subject)
	return scanUser(row)
}
