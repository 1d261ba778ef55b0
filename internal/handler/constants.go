// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"

	// RouteLogin is the login route.
	RouteLogin = "/user/login"
	// RouteSignup is the signup route.
	RouteSignup = "/user/signup"
	// RouteLogout is the logout route.
	RouteLogout = "/user/logout"
	// RouteJoinMembership is the member invite-code redemption route.
	RouteJoinMembership = "/user/join_membership"
	// RouteJoinAdmin is the admin invite-code redemption route.
	RouteJoinAdmin = "/user/join_admin"

	// RouteGoogleLogin starts the Google sign-in redirect.
	RouteGoogleLogin = "/user/login/federated/google"
	// RouteGoogleCallback is the registered OAuth redirect URI path.
	RouteGoogleCallback = "/oauth2/redirect/google"

	// RoutePosts is the post board.
	RoutePosts = "/posts"
	// RoutePostsNew is the new-post form.
	RoutePostsNew = "/posts/new"
	// RoutePostDelete is the post deletion route.
	RoutePostDelete = "/posts/{id}/delete"

	// RouteHealth is the health check endpoint.
	RouteHealth = "/healthz"
)
