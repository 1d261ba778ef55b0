// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import "net/http"

// ClientIP returns the request's client address for logging.
func ClientIP(r *http.Request) string {
	return clientIP(r)
}

// GetRequestURL returns the request path for event log metadata.
func GetRequestURL(r *http.Request) string {
	return r.URL.Path
}
