package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/memberclub-app/memberclub/internal/model"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "memberclub-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() {
		db.Close()
		os.Remove(dbPath)
	}
}

func createTestUser(t *testing.T, q *Queries, email string) model.User {
	t.Helper()
	user, err := q.CreateUser(context.Background(), CreateUserParams{
		Name:         "Test User",
		Email:        sql.NullString{String: email, Valid: true},
		PasswordHash: sql.NullString{String: "hashed-password", Valid: true},
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	user, err := q.CreateUser(ctx, CreateUserParams{
		Name:         "Test User",
		Email:        sql.NullString{String: "test@example.com", Valid: true},
		PasswordHash: sql.NullString{String: "hashed-password", Valid: true},
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if user.ID == 0 {
		t.Error("user.ID should not be 0")
	}
	if user.Email.String != "test@example.com" {
		t.Errorf("Email = %q, want %q", user.Email.String, "test@example.com")
	}
	if user.IsAdmin || user.IsClubMember {
		t.Error("new user should hold no roles")
	}
}

func TestCreateUser_NoEmail(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	// Federated accounts have a name only
	user, err := q.CreateUser(ctx, CreateUserParams{Name: "Google User"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if user.Email.Valid {
		t.Error("Email should be NULL")
	}
	if user.PasswordHash.Valid {
		t.Error("PasswordHash should be NULL")
	}

	// A second email-less user must not trip the unique index
	if _, err := q.CreateUser(ctx, CreateUserParams{Name: "Another User"}); err != nil {
		t.Fatalf("second email-less CreateUser: %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	createTestUser(t, q, "dup@example.com")

	_, err := q.CreateUser(ctx, CreateUserParams{
		Name:  "Other",
		Email: sql.NullString{String: "dup@example.com", Valid: true},
	})
	if err == nil {
		t.Fatal("expected UNIQUE violation for duplicate email")
	}
}

func TestGetUserByEmail(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	created := createTestUser(t, q, "find@example.com")

	found, err := q.GetUserByEmail(ctx, "find@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	_, err := New(db).GetUserByEmail(context.Background(), "missing@example.com")
	if err != sql.ErrNoRows {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestPromoteUser_Member(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	if err := Seed(ctx, db, "member-code", "admin-code"); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	user := createTestUser(t, q, "member@example.com")

	promoted, err := q.PromoteUser(ctx, PromoteUserParams{
		UserID: user.ID,
		Role:   model.RoleMember,
		Code:   "member-code",
	})
	if err != nil {
		t.Fatalf("PromoteUser: %v", err)
	}
	if !promoted.IsClubMember {
		t.Error("IsClubMember should be true")
	}
	if promoted.IsAdmin {
		t.Error("IsAdmin should stay false")
	}
}

func TestPromoteUser_AdminImpliesMember(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	if err := Seed(ctx, db, "member-code", "admin-code"); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	user := createTestUser(t, q, "admin@example.com")

	promoted, err := q.PromoteUser(ctx, PromoteUserParams{
		UserID: user.ID,
		Role:   model.RoleAdmin,
		Code:   "admin-code",
	})
	if err != nil {
		t.Fatalf("PromoteUser: %v", err)
	}
	if !promoted.IsAdmin {
		t.Error("IsAdmin should be true")
	}
	if !promoted.IsClubMember {
		t.Error("admin promotion should also grant membership")
	}
}

func TestPromoteUser_WrongCode(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	if err := Seed(ctx, db, "member-code", "admin-code"); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	user := createTestUser(t, q, "victim@example.com")

	_, err := q.PromoteUser(ctx, PromoteUserParams{
		UserID: user.ID,
		Role:   model.RoleMember,
		Code:   "wrong-code",
	})
	if err != sql.ErrNoRows {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}

	// Roles must be untouched
	after, err := q.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if after.IsClubMember || after.IsAdmin {
		t.Error("wrong code must not change roles")
	}
}

func TestPromoteUser_CrossRoleCode(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	if err := Seed(ctx, db, "member-code", "admin-code"); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	user := createTestUser(t, q, "sneaky@example.com")

	// The member code must not unlock the admin role
	_, err := q.PromoteUser(ctx, PromoteUserParams{
		UserID: user.ID,
		Role:   model.RoleAdmin,
		Code:   "member-code",
	})
	if err != sql.ErrNoRows {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestPromoteUser_Idempotent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	if err := Seed(ctx, db, "member-code", "admin-code"); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	user := createTestUser(t, q, "repeat@example.com")

	params := PromoteUserParams{UserID: user.ID, Role: model.RoleMember, Code: "member-code"}
	if _, err := q.PromoteUser(ctx, params); err != nil {
		t.Fatalf("first PromoteUser: %v", err)
	}
	second, err := q.PromoteUser(ctx, params)
	if err != nil {
		t.Fatalf("second PromoteUser: %v", err)
	}
	if !second.IsClubMember {
		t.Error("re-redeeming the same code should succeed and keep the role")
	}
}

func TestPromoteUser_NoDemotion(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	if err := Seed(ctx, db, "member-code", "admin-code"); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	user := createTestUser(t, q, "keeper@example.com")

	if _, err := q.PromoteUser(ctx, PromoteUserParams{
		UserID: user.ID, Role: model.RoleAdmin, Code: "admin-code",
	}); err != nil {
		t.Fatalf("admin PromoteUser: %v", err)
	}

	// Redeeming a member code afterwards must not clear the admin flag
	after, err := q.PromoteUser(ctx, PromoteUserParams{
		UserID: user.ID, Role: model.RoleMember, Code: "member-code",
	})
	if err != nil {
		t.Fatalf("member PromoteUser: %v", err)
	}
	if !after.IsAdmin {
		t.Error("member promotion must not demote an admin")
	}
}

func TestFederatedCredentials(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	user := createTestUser(t, q, "fed@example.com")

	cred, err := q.CreateFederatedCredential(ctx, CreateFederatedCredentialParams{
		UserID:   user.ID,
		Provider: "google",
		Subject:  "sub-123",
	})
	if err != nil {
		t.Fatalf("CreateFederatedCredential: %v", err)
	}
	if cred.ID == 0 {
		t.Error("cred.ID should not be 0")
	}

	found, err := q.GetUserByFederatedIdentity(ctx, GetUserByFederatedIdentityParams{
		Provider: "google",
		Subject:  "sub-123",
	})
	if err != nil {
		t.Fatalf("GetUserByFederatedIdentity: %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("ID = %d, want %d", found.ID, user.ID)
	}
}

func TestFederatedCredentials_DuplicateSubject(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	a := createTestUser(t, q, "a@example.com")
	b := createTestUser(t, q, "b@example.com")

	if _, err := q.CreateFederatedCredential(ctx, CreateFederatedCredentialParams{
		UserID: a.ID, Provider: "google", Subject: "sub-dup",
	}); err != nil {
		t.Fatalf("first CreateFederatedCredential: %v", err)
	}

	_, err := q.CreateFederatedCredential(ctx, CreateFederatedCredentialParams{
		UserID: b.ID, Provider: "google", Subject: "sub-dup",
	})
	if err == nil {
		t.Fatal("expected UNIQUE violation for duplicate (provider, subject)")
	}
}

func TestInviteCodes_SeedAndRotate(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	if err := Seed(ctx, db, "first-code", "admin-code"); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	// Re-seeding must not overwrite existing codes
	if err := Seed(ctx, db, "other-code", "admin-code"); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	code, err := q.GetInviteCodeByName(ctx, model.RoleMember)
	if err != nil {
		t.Fatalf("GetInviteCodeByName: %v", err)
	}
	if code.Code != "first-code" {
		t.Errorf("Code = %q, want %q", code.Code, "first-code")
	}

	// Explicit rotation does overwrite
	if err := q.RotateInviteCode(ctx, UpsertInviteCodeParams{
		Name: model.RoleMember, Code: "rotated-code",
	}); err != nil {
		t.Fatalf("RotateInviteCode: %v", err)
	}
	code, err = q.GetInviteCodeByName(ctx, model.RoleMember)
	if err != nil {
		t.Fatalf("GetInviteCodeByName after rotate: %v", err)
	}
	if code.Code != "rotated-code" {
		t.Errorf("Code = %q, want %q", code.Code, "rotated-code")
	}
}

func TestPosts_CreateListDelete(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	user := createTestUser(t, q, "author@example.com")

	first, err := q.CreatePost(ctx, CreatePostParams{
		Title: "First", Content: "first body", UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	second, err := q.CreatePost(ctx, CreatePostParams{
		Title: "Second", Content: "second body", UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	rows, err := q.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	// Newest first
	if rows[0].Post.ID != second.ID {
		t.Errorf("rows[0].ID = %d, want %d", rows[0].Post.ID, second.ID)
	}
	if rows[0].AuthorName != "Test User" {
		t.Errorf("AuthorName = %q, want %q", rows[0].AuthorName, "Test User")
	}

	if err := q.DeletePost(ctx, first.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	rows, err = q.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts after delete: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("len(rows) = %d, want 1", len(rows))
	}

	// Deleting a missing id is a no-op
	if err := q.DeletePost(ctx, 99999); err != nil {
		t.Errorf("DeletePost missing id: %v", err)
	}
}

func TestEvents_CreateAndPrune(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	err := q.CreateEvent(ctx, CreateEventParams{
		Level:    model.EventLevelInfo,
		Category: model.EventCategorySystem,
		Message:  "test event",
		Metadata: "{}",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}

	// A cutoff in the past removes nothing
	deleted, err := q.DeleteEventsBefore(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}

	// A future cutoff removes the event
	deleted, err = q.DeleteEventsBefore(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}
