// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"database/sql"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/memberclub-app/memberclub/internal/middleware"
	"github.com/memberclub-app/memberclub/internal/model"
	"github.com/memberclub-app/memberclub/internal/render"
	"github.com/memberclub-app/memberclub/internal/service"
	"github.com/memberclub-app/memberclub/internal/store"
)

// PostsHandler handles the club post board.
type PostsHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
	markdown     goldmark.Markdown
	sanitizer    *bluemonday.Policy
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(db *sql.DB, renderer *render.Renderer) *PostsHandler {
	return &PostsHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
		markdown: goldmark.New(
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// postView is a post prepared for display: the markdown body rendered
// and sanitized at view time, so stored content stays raw.
type postView struct {
	ID         int64
	Title      string
	Content    template.HTML
	AuthorName string
	CreatedAt  time.Time
}

func (h *PostsHandler) renderContent(content string) template.HTML {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(content), &buf); err != nil {
		// Fall back to the escaped source rather than dropping the post.
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(h.sanitizer.SanitizeBytes(buf.Bytes()))
}

// List renders the post board, newest first.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "listing posts", "error", err)
		return
	}

	views := make([]postView, 0, len(rows))
	for _, row := range rows {
		views = append(views, postView{
			ID:         row.Post.ID,
			Title:      row.Post.Title,
			Content:    h.renderContent(row.Post.Content),
			AuthorName: row.AuthorName,
			CreatedAt:  row.Post.CreatedAt,
		})
	}

	h.render(w, r, "posts/index", render.TemplateData{
		Title: "Posts",
		Data:  map[string]any{"Posts": views},
	})
}

// NewForm renders the post composer.
func (h *PostsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "posts/new", render.TemplateData{Title: "New Post"})
}

// Create validates and stores a new post.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, RoutePostsNew) {
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))

	if msg := ValidatePostTitle(title); msg != "" {
		flashError(w, r, h.renderer, RoutePostsNew, msg)
		return
	}
	if msg := ValidatePostContent(content); msg != "" {
		flashError(w, r, h.renderer, RoutePostsNew, msg)
		return
	}

	post, err := h.queries.CreatePost(r.Context(), store.CreatePostParams{
		Title:   title,
		Content: content,
		UserID:  user.ID,
	})
	if err != nil {
		logAndInternalError(w, "creating post", "error", err)
		return
	}

	slog.Info("post created", "post_id", post.ID, "user_id", user.ID)
	_ = h.eventService.LogPostEvent(r.Context(), model.EventLevelInfo,
		"Post created", &user.ID, map[string]any{"post_id": post.ID})

	flashSuccess(w, r, h.renderer, RoutePosts, "Post published")
}

// Delete removes a post. Only admins may delete.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}
	if !user.HasRole(model.RoleAdmin) {
		slog.Warn("post delete denied", "user_id", user.ID)
		flashError(w, r, h.renderer, RoutePosts, "You must be an admin to delete a post")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.queries.DeletePost(r.Context(), id); err != nil {
		logAndInternalError(w, "deleting post", "error", err)
		return
	}

	slog.Info("post deleted", "post_id", id, "user_id", user.ID)
	_ = h.eventService.LogPostEvent(r.Context(), model.EventLevelInfo,
		"Post deleted", &user.ID, map[string]any{"post_id": id})

	flashSuccess(w, r, h.renderer, RoutePosts, "Post deleted")
}

func (h *PostsHandler) render(w http.ResponseWriter, r *http.Request, name string, data render.TemplateData) {
	data.User = middleware.GetUser(r)
	if err := h.renderer.Render(w, r, name, data); err != nil {
		logAndInternalError(w, "rendering template", "template", name, "error", err)
	}
}
