// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "errors"

// Typed authentication and authorization failures. Handlers recover
// these into flash messages and redirects. Any error returned from this
// package that does not match one of them is an infrastructure failure
// (store unavailable, timeout) and must surface as a generic 500, never
// as a credentials message.
var (
	// ErrUnknownIdentity means no user exists for the supplied email.
	ErrUnknownIdentity = errors.New("auth: unknown identity")

	// ErrIncorrectCredential means the password did not verify. Also
	// returned for OAuth-only accounts, which have no password at all.
	ErrIncorrectCredential = errors.New("auth: incorrect credential")

	// ErrDuplicateIdentity means a uniqueness constraint was hit: the
	// email is already registered, or another request linked the same
	// (provider, subject) pair first.
	ErrDuplicateIdentity = errors.New("auth: duplicate identity")

	// ErrInvalidCode means the supplied invite code does not match the
	// stored code for the requested role.
	ErrInvalidCode = errors.New("auth: invalid invite code")

	// ErrStaleSession means a session token references a user that no
	// longer exists. Callers treat the request as unauthenticated.
	ErrStaleSession = errors.New("auth: stale session")
)

// IsAuthFailure reports whether err is one of the typed failures above
// rather than an infrastructure error.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnknownIdentity) ||
		errors.Is(err, ErrIncorrectCredential) ||
		errors.Is(err, ErrDuplicateIdentity) ||
		errors.Is(err, ErrInvalidCode) ||
		errors.Is(err, ErrStaleSession)
}
