package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/memberclub-app/memberclub/internal/model"
	"github.com/memberclub-app/memberclub/internal/testutil"
	"github.com/memberclub-app/memberclub/internal/version"
)

func TestHealth_Anonymous(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	h := NewHealthHandler(db, &version.Info{Version: "test"})

	r := httptest.NewRequest(http.MethodGet, RouteHealth, nil)
	w := httptest.NewRecorder()

	h.Health(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", got["status"])
	}
	if _, ok := got["checks"]; ok {
		t.Error("anonymous response leaked check details")
	}
	if _, ok := got["version"]; ok {
		t.Error("anonymous response leaked version")
	}
}

func TestHealth_AdminDetails(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	h := NewHealthHandler(db, &version.Info{Version: "1.2.3"})

	admin := model.User{ID: 1, Name: "Admin", IsClubMember: true, IsAdmin: true}

	r := httptest.NewRequest(http.MethodGet, RouteHealth, nil)
	r = withUser(r, admin)
	w := httptest.NewRecorder()

	h.Health(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.Status != "healthy" {
		t.Errorf("status = %q, want healthy", got.Status)
	}
	if got.Version != "1.2.3" {
		t.Errorf("version = %q, want 1.2.3", got.Version)
	}
	dbCheck, ok := got.Checks["database"]
	if !ok {
		t.Fatalf("checks = %v, want database entry", got.Checks)
	}
	if dbCheck.Status != "healthy" {
		t.Errorf("database check = %q, want healthy", dbCheck.Status)
	}
}

func TestHealth_DegradedDatabase(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	_ = db.Close()
	h := NewHealthHandler(db, &version.Info{Version: "test"})

	r := httptest.NewRequest(http.MethodGet, RouteHealth, nil)
	w := httptest.NewRecorder()

	h.Health(w, r)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}

	var got HealthStatusPublic
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.Status != "degraded" {
		t.Errorf("status = %q, want degraded", got.Status)
	}
}

func TestHealth_MemberGetsMinimal(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	h := NewHealthHandler(db, &version.Info{Version: "test"})

	member := model.User{ID: 2, Name: "Member", IsClubMember: true}

	r := httptest.NewRequest(http.MethodGet, RouteHealth, nil)
	r = withUser(r, member)
	w := httptest.NewRecorder()

	h.Health(w, r)

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(got) != 1 || got["status"] != "healthy" {
		t.Errorf("member response = %v, want bare status only", got)
	}
}
