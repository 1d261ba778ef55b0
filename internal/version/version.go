// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version carries build-time version information.
package version

// Info holds version details injected at build time via ldflags.
type Info struct {
	Version   string // semantic version from git tags, "dev" for local builds
	GitCommit string // short git commit hash
	BuildTime string // build timestamp, RFC3339
}
