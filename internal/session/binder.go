// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexedwards/scs/v2"

	"github.com/memberclub-app/memberclub/internal/auth"
	"github.com/memberclub-app/memberclub/internal/model"
	"github.com/memberclub-app/memberclub/internal/store"
)

// KeyUserID is the session key under which the authenticated user's id
// is stored. It is the only identity data the session ever carries.
const KeyUserID = "user_id"

// Binder serializes an authenticated user into the session and
// rehydrates the full user record on later requests. Rehydration is a
// live database read every time, so role promotions are visible
// immediately with no staleness window.
type Binder struct {
	sm      *scs.SessionManager
	queries *store.Queries
}

// NewBinder creates a Binder over the given session manager and database.
func NewBinder(sm *scs.SessionManager, db *sql.DB) *Binder {
	return &Binder{sm: sm, queries: store.New(db)}
}

// Bind establishes the user's identity in the session. The token is
// renewed first to prevent session fixation.
func (b *Binder) Bind(ctx context.Context, user model.User) error {
	if err := b.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	b.sm.Put(ctx, KeyUserID, user.ID)
	return nil
}

// Rehydrate reads the current user row for the session's user id.
// Returns auth.ErrStaleSession, after destroying the session, when the
// session is anonymous or points at a vanished user.
func (b *Binder) Rehydrate(ctx context.Context) (model.User, error) {
	userID := b.sm.GetInt64(ctx, KeyUserID)
	if userID == 0 {
		return model.User{}, auth.ErrStaleSession
	}

	user, err := b.queries.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = b.sm.Destroy(ctx)
			return model.User{}, auth.ErrStaleSession
		}
		return model.User{}, fmt.Errorf("rehydrating session user: %w", err)
	}

	return user, nil
}

// Unbind destroys the session, logging the user out.
func (b *Binder) Unbind(ctx context.Context) error {
	return b.sm.Destroy(ctx)
}
