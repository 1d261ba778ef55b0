// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/memberclub-app/memberclub/internal/middleware"
	"github.com/memberclub-app/memberclub/internal/render"
)

// HomeHandler serves the landing page.
type HomeHandler struct {
	renderer    *render.Renderer
	oauthEnable bool
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(renderer *render.Renderer, oauthEnabled bool) *HomeHandler {
	return &HomeHandler{renderer: renderer, oauthEnable: oauthEnabled}
}

// Home renders the landing page with membership status for the current
// user, if any.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != RouteRoot {
		http.NotFound(w, r)
		return
	}

	data := render.TemplateData{
		Title: "Home",
		User:  middleware.GetUser(r),
		Data:  map[string]any{"GoogleEnabled": h.oauthEnable},
	}
	if err := h.renderer.Render(w, r, "pages/home", data); err != nil {
		logAndInternalError(w, "rendering template", "template", "pages/home", "error", err)
	}
}
