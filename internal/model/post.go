// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Post is a message on the club board. Posts are created by logged-in
// users and deleted by admins; there is no edit path.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Validation bounds for post fields, enforced at the handler boundary.
const (
	PostTitleMaxLen   = 255
	PostContentMaxLen = 1023
)
