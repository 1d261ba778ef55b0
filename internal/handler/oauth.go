// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/memberclub-app/memberclub/internal/auth"
	"github.com/memberclub-app/memberclub/internal/middleware"
	"github.com/memberclub-app/memberclub/internal/model"
	"github.com/memberclub-app/memberclub/internal/oauth"
	"github.com/memberclub-app/memberclub/internal/render"
	"github.com/memberclub-app/memberclub/internal/service"
	"github.com/memberclub-app/memberclub/internal/session"
)

// OAuthHandler handles the Google sign-in redirect and callback.
type OAuthHandler struct {
	provider     *oauth.GoogleProvider
	authService  *auth.Service
	binder       *session.Binder
	renderer     *render.Renderer
	eventService *service.EventService
	isDev        bool
}

// NewOAuthHandler creates a new OAuthHandler. The provider may be nil
// when Google credentials are not configured; the routes then redirect
// to login with an explanatory flash.
func NewOAuthHandler(db *sql.DB, renderer *render.Renderer, binder *session.Binder, provider *oauth.GoogleProvider, isDev bool) *OAuthHandler {
	return &OAuthHandler{
		provider:     provider,
		authService:  auth.NewService(db),
		binder:       binder,
		renderer:     renderer,
		eventService: service.NewEventService(db),
		isDev:        isDev,
	}
}

// Enabled reports whether Google sign-in is configured.
func (h *OAuthHandler) Enabled() bool {
	return h.provider != nil
}

// GoogleLogin redirects the browser to Google's authorization page.
func (h *OAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		flashError(w, r, h.renderer, RouteLogin, "Google sign-in is not configured")
		return
	}

	state, err := oauth.SetState(w, h.isDev)
	if err != nil {
		logAndInternalError(w, "generating oauth state", "error", err)
		return
	}

	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusSeeOther)
}

// GoogleCallback completes the exchange, resolves or links the
// federated identity, and binds the session.
func (h *OAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	if !oauth.ValidateState(w, r) {
		slog.Warn("oauth state mismatch", "ip", middleware.ClientIP(r))
		flashError(w, r, h.renderer, RouteLogin, "Sign-in failed, please try again")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		flashError(w, r, h.renderer, RouteLogin, "Sign-in was cancelled")
		return
	}

	identity, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("google exchange failed", "error", err)
		flashError(w, r, h.renderer, RouteLogin, "Sign-in failed, please try again")
		return
	}

	user, found, err := h.authService.ResolveFederated(r.Context(), identity.Provider, identity.Subject)
	if err != nil {
		logAndInternalError(w, "resolving federated identity", "error", err)
		return
	}

	if !found {
		user, err = h.authService.LinkNewFederatedUser(r.Context(),
			identity.DisplayName, identity.Provider, identity.Subject)
		if errors.Is(err, auth.ErrDuplicateIdentity) {
			// Lost a first-login race; the winner's link resolves now.
			user, found, err = h.authService.ResolveFederated(r.Context(), identity.Provider, identity.Subject)
			if err == nil && !found {
				err = auth.ErrDuplicateIdentity
			}
		}
		if err != nil {
			logAndInternalError(w, "linking federated user", "error", err)
			return
		}
	}

	if err := h.binder.Bind(r.Context(), user); err != nil {
		logAndInternalError(w, "binding session", "error", err)
		return
	}

	slog.Info("user logged in via google", "user_id", user.ID)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"User logged in via Google", &user.ID, middleware.ClientIP(r), middleware.GetRequestURL(r), nil)

	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome, "+user.Name)
}
