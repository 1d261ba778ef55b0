// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the persistent session store and binds
// authenticated users to session tokens.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

const (
	// IdleTimeout is the sliding inactivity window. Any request
	// extends the session, so it matches the 30-day login cookie the
	// club app has always issued.
	IdleTimeout = 30 * 24 * time.Hour

	// Lifetime caps the total session age regardless of activity.
	Lifetime = 365 * 24 * time.Hour
)

// New creates a session manager backed by the SQLite sessions table.
// Tokens are cryptographically random and opaque; the payload holds
// nothing but the user id.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.IdleTimeout = IdleTimeout
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	// __Host- prefix pins the cookie to this host over HTTPS
	if !isDev {
		sm.Cookie.Name = "__Host-session"
		sm.Cookie.Path = "/"
	}

	return sm
}
