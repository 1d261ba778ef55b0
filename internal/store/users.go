// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/memberclub-app/memberclub/internal/model"
)

const userColumns = "id, name, email, password_hash, is_admin, is_club_member"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.IsClubMember)
	return u, err
}

// CreateUserParams holds the fields for a new user row. Email and
// PasswordHash are invalid (NULL) for OAuth-created accounts.
type CreateUserParams struct {
	Name         string
	Email        sql.NullString
	PasswordHash sql.NullString
}

// CreateUser inserts a new user with both role flags unset. A UNIQUE
// violation on email surfaces as the driver's constraint error.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES (?1, ?2, ?3)
		RETURNING `+userColumns,
		arg.Name, arg.Email, arg.PasswordHash)
	return scanUser(row)
}

// GetUserByID returns the user with the given id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?1", id)
	return scanUser(row)
}

// GetUserByEmail returns the user with the given email. Email has a
// unique partial index, so at most one row matches.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?1", email)
	return scanUser(row)
}

// PromoteUserParams identifies the user, the role to grant and the
// supplied invite code.
type PromoteUserParams struct {
	UserID int64
	Role   string
	Code   string
}

// PromoteUser flips role flags on the user if and only if the supplied
// code matches the stored code for the role. The code check and the
// update are a single statement, so a concurrent code rotation cannot
// slip between check and write. Granting admin also grants club
// membership. Returns sql.ErrNoRows when the code does not match.
func (q *Queries) PromoteUser(ctx context.Context, arg PromoteUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE users
		SET is_admin = CASE WHEN ?2 = 'admin' THEN 1 ELSE is_admin END,
		    is_club_member = 1
		WHERE id = ?1
		  AND EXISTS (
		      SELECT 1 FROM invite_codes WHERE name = ?2 AND code = ?3
		  )
		RETURNING `+userColumns,
		arg.UserID, arg.Role, arg.Code)
	return scanUser(row)
}

// UpdateUserPasswordHashParams holds a replacement password hash.
type UpdateUserPasswordHashParams struct {
	ID           int64
	PasswordHash string
}

// UpdateUserPasswordHash replaces a user's password hash. Used when a
// stored hash needs re-creation with current cost parameters.
func (q *Queries) UpdateUserPasswordHash(ctx context.Context, arg UpdateUserPasswordHashParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?2 WHERE id = ?1",
		arg.ID, arg.PasswordHash)
	return err
}

// CountUsers returns the total number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}
