// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/memberclub-app/memberclub/internal/auth"
	"github.com/memberclub-app/memberclub/internal/middleware"
	"github.com/memberclub-app/memberclub/internal/model"
	"github.com/memberclub-app/memberclub/internal/render"
	"github.com/memberclub-app/memberclub/internal/service"
	"github.com/memberclub-app/memberclub/internal/session"
	"github.com/memberclub-app/memberclub/internal/store"
)

// AuthHandler handles signup, login, logout, and invite-code redemption.
type AuthHandler struct {
	authService     *auth.Service
	binder          *session.Binder
	queries         *store.Queries
	renderer        *render.Renderer
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, binder *session.Binder, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		authService:     auth.NewService(db),
		binder:          binder,
		queries:         store.New(db),
		renderer:        renderer,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
	}
}

// LoginForm renders the login page. Already-authenticated users are
// sent home.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	h.render(w, r, "auth/login", render.TemplateData{Title: "Login"})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	email := NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteLogin, "Email and password are required")
		return
	}

	clientIP := middleware.ClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
				"Login attempt on locked account", nil, clientIP, middleware.GetRequestURL(r),
				map[string]any{"email": email})
			flashError(w, r, h.renderer, RouteLogin,
				fmt.Sprintf("Too many failed attempts, try again in %s", formatDuration(remaining)))
			return
		}
	}

	user, err := h.authService.ResolveLocal(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnknownIdentity), errors.Is(err, auth.ErrIncorrectCredential):
			slog.Debug("login failed", "email", email, "reason", err)
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
				"Login failed", nil, clientIP, middleware.GetRequestURL(r),
				map[string]any{"email": email})
			// Record failed attempts even for unknown emails to
			// prevent account enumeration via lockout behavior.
			if h.loginProtection != nil {
				if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
					flashError(w, r, h.renderer, RouteLogin,
						fmt.Sprintf("Too many failed attempts, account locked for %s", formatDuration(lockDuration)))
					return
				}
			}
			flashError(w, r, h.renderer, RouteLogin, "Incorrect email or password")
		default:
			logAndInternalError(w, "resolving local login", "error", err)
		}
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	// Re-hash if the stored hash uses outdated cost parameters.
	if auth.NeedsRehash(user.PasswordHash.String) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPasswordHash(r.Context(), store.UpdateUserPasswordHashParams{
				ID:           user.ID,
				PasswordHash: newHash,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	if err := h.binder.Bind(r.Context(), user); err != nil {
		logAndInternalError(w, "binding session", "error", err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"User logged in", &user.ID, clientIP, middleware.GetRequestURL(r), nil)

	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome back, "+user.Name)
}

// SignupForm renders the signup page.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	h.render(w, r, "auth/signup", render.TemplateData{Title: "Sign Up"})
}

// Signup handles the signup form submission and logs the new user in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteSignup) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")

	for _, msg := range []string{
		ValidateName(name),
		ValidateEmail(email),
		ValidatePassword(password),
	} {
		if msg != "" {
			flashError(w, r, h.renderer, RouteSignup, msg)
			return
		}
	}
	if password != confirm {
		flashError(w, r, h.renderer, RouteSignup, "Passwords do not match")
		return
	}

	user, err := h.authService.SignUp(r.Context(), name, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateIdentity) {
			flashError(w, r, h.renderer, RouteSignup, "Account already exists")
			return
		}
		logAndInternalError(w, "creating account", "error", err)
		return
	}

	if err := h.binder.Bind(r.Context(), user); err != nil {
		logAndInternalError(w, "binding session", "error", err)
		return
	}

	slog.Info("user signed up", "user_id", user.ID)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"User signed up", &user.ID, middleware.ClientIP(r), middleware.GetRequestURL(r), nil)

	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome to the club, "+user.Name)
}

// Logout destroys the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDPtr(r)

	if userID != nil {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
			"User logged out", userID, middleware.ClientIP(r), middleware.GetRequestURL(r), nil)
	}

	if err := h.binder.Unbind(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// JoinMembershipForm renders the member invite-code form.
func (h *AuthHandler) JoinMembershipForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "auth/join", render.TemplateData{
		Title: "Join Membership",
		Data:  joinData{Role: model.RoleMember, Action: RouteJoinMembership},
	})
}

// JoinMembership redeems a member invite code.
func (h *AuthHandler) JoinMembership(w http.ResponseWriter, r *http.Request) {
	h.join(w, r, model.RoleMember, RouteJoinMembership)
}

// JoinAdminForm renders the admin invite-code form.
func (h *AuthHandler) JoinAdminForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "auth/join", render.TemplateData{
		Title: "Join Admin Team",
		Data:  joinData{Role: model.RoleAdmin, Action: RouteJoinAdmin},
	})
}

// JoinAdmin redeems an admin invite code.
func (h *AuthHandler) JoinAdmin(w http.ResponseWriter, r *http.Request) {
	h.join(w, r, model.RoleAdmin, RouteJoinAdmin)
}

// joinData feeds the shared join template.
type joinData struct {
	Role   string
	Action string
}

// join validates the supplied code and promotes the current user. A
// wrong code leaves the user untouched; redeeming a role the user
// already holds is a no-op.
func (h *AuthHandler) join(w http.ResponseWriter, r *http.Request, role, route string) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, route) {
		return
	}

	code := strings.TrimSpace(r.FormValue("code"))
	if msg := ValidateInviteCode(code); msg != "" {
		flashError(w, r, h.renderer, route, msg)
		return
	}

	updated, err := h.authService.Promote(r.Context(), user.ID, role, code)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCode) {
			flashError(w, r, h.renderer, route, "Invalid Code")
			return
		}
		logAndInternalError(w, "promoting user", "error", err, "user_id", user.ID, "role", role)
		return
	}

	// Re-bind so the session token rotates with the privilege change.
	if err := h.binder.Bind(r.Context(), updated); err != nil {
		logAndInternalError(w, "binding session", "error", err)
		return
	}

	slog.Info("user promoted", "user_id", updated.ID, "role", role)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"User promoted", &updated.ID, middleware.ClientIP(r), middleware.GetRequestURL(r),
		map[string]any{"role": role})

	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome aboard!")
}

// render wraps Renderer.Render with the current user and a 500 fallback.
func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, name string, data render.TemplateData) {
	data.User = middleware.GetUser(r)
	if err := h.renderer.Render(w, r, name, data); err != nil {
		logAndInternalError(w, "rendering template", "error", err, "template", name)
	}
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
