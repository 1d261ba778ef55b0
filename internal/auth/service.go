// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/memberclub-app/memberclub/internal/model"
	"github.com/memberclub-app/memberclub/internal/store"
	"github.com/memberclub-app/memberclub/internal/util"
)

// Service resolves login attempts to user identities, links first-time
// federated logins, and promotes roles by invite code. All collaborators
// are injected; the service keeps no state of its own.
type Service struct {
	db      *sql.DB
	queries *store.Queries
}

// NewService creates an authentication service over the given database.
func NewService(db *sql.DB) *Service {
	return &Service{
		db:      db,
		queries: store.New(db),
	}
}

// ResolveLocal verifies an email/password pair against stored
// credentials. The email must already be normalized (trimmed,
// lowercased) by the caller; the lookup is exact. A user without a
// password hash (OAuth-only account) never verifies.
func (s *Service) ResolveLocal(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUnknownIdentity
		}
		return model.User{}, fmt.Errorf("looking up user by email: %w", err)
	}

	if !user.HasPassword() {
		return model.User{}, ErrIncorrectCredential
	}

	valid, err := CheckPassword(password, user.PasswordHash.String)
	if err != nil {
		return model.User{}, fmt.Errorf("verifying password: %w", err)
	}
	if !valid {
		return model.User{}, ErrIncorrectCredential
	}

	return user, nil
}

// ResolveFederated looks up the user linked to an external identity.
// The boolean is false when no link exists yet; the caller then
// proceeds to LinkNewFederatedUser.
func (s *Service) ResolveFederated(ctx context.Context, provider, subject string) (model.User, bool, error) {
	user, err := s.queries.GetUserByFederatedIdentity(ctx, store.GetUserByFederatedIdentityParams{
		Provider: provider,
		Subject:  subject,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, false, nil
		}
		return model.User{}, false, fmt.Errorf("looking up federated identity: %w", err)
	}
	return user, true, nil
}

// LinkNewFederatedUser creates a user carrying only the display name
// and the federated credential referencing it, as one transaction.
// Either both rows exist afterwards or neither does. When another
// request linked the same (provider, subject) pair concurrently, the
// unique constraint rejects this one and ErrDuplicateIdentity is
// returned; the caller should retry ResolveFederated.
func (s *Service) LinkNewFederatedUser(ctx context.Context, name, provider, subject string) (model.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	user, err := qtx.CreateUser(ctx, store.CreateUserParams{Name: name})
	if err != nil {
		return model.User{}, fmt.Errorf("creating federated user: %w", err)
	}

	_, err = qtx.CreateFederatedCredential(ctx, store.CreateFederatedCredentialParams{
		UserID:   user.ID,
		Provider: provider,
		Subject:  subject,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, ErrDuplicateIdentity
		}
		return model.User{}, fmt.Errorf("creating federated credential: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.User{}, fmt.Errorf("committing federated link: %w", err)
	}

	return user, nil
}

// SignUp registers a local account with a hashed password. The email
// must already be normalized. A taken email yields ErrDuplicateIdentity.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (model.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Name:         name,
		Email:        util.NullStringFromValue(email),
		PasswordHash: util.NullStringFromValue(hash),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, ErrDuplicateIdentity
		}
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

// Promote grants the named role to the user if the supplied code
// matches the stored invite code for that role. The check and the flag
// flip are one conditional statement, so concurrent promotions and code
// rotations stay consistent. Granting admin also grants club
// membership. Redeeming a code for a role the user already holds is an
// idempotent no-op. A wrong code yields ErrInvalidCode and leaves the
// user untouched.
func (s *Service) Promote(ctx context.Context, userID int64, role, code string) (model.User, error) {
	if role != model.RoleMember && role != model.RoleAdmin {
		return model.User{}, ErrInvalidCode
	}

	user, err := s.queries.PromoteUser(ctx, store.PromoteUserParams{
		UserID: userID,
		Role:   role,
		Code:   code,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrInvalidCode
		}
		return model.User{}, fmt.Errorf("promoting user: %w", err)
	}

	return user, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. Matched on the message so it works with both the modernc
// and mattn drivers.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
