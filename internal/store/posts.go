// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/memberclub-app/memberclub/internal/model"
)

// CreatePostParams holds the fields for a new post.
type CreatePostParams struct {
	Title   string
	Content string
	UserID  int64
}

// CreatePost inserts a post authored by the given user. The timestamp
// is assigned by the database.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	var p model.Post
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, content, user_id)
		VALUES (?1, ?2, ?3)
		RETURNING id, title, content, user_id, created_at`,
		arg.Title, arg.Content, arg.UserID).
		Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.CreatedAt)
	return p, err
}

// GetPostByID returns a single post.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	var p model.Post
	err := q.db.QueryRowContext(ctx, `
		SELECT id, title, content, user_id, created_at
		FROM posts WHERE id = ?1`, id).
		Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.CreatedAt)
	return p, err
}

// ListPostsRow is a post joined with its author's display name.
type ListPostsRow struct {
	Post       model.Post
	AuthorName string
}

// ListPosts returns all posts, newest first, with author names.
func (q *Queries) ListPosts(ctx context.Context) ([]ListPostsRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.content, p.user_id, p.created_at, u.name
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []ListPostsRow
	for rows.Next() {
		var r ListPostsRow
		if err := rows.Scan(&r.Post.ID, &r.Post.Title, &r.Post.Content,
			&r.Post.UserID, &r.Post.CreatedAt, &r.AuthorName); err != nil {
			return nil, err
		}
		posts = append(posts, r)
	}
	return posts, rows.Err()
}

// DeletePost removes a post. Deleting a missing id is a no-op.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?1", id)
	return err
}
