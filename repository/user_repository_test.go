package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"academicRecords/internal/testutil"
	"academicRecords/models"
)

func TestUserRepository_CreateAndAuthenticate(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userrepo_auth")
	repo := NewUserRepository(d)
	ctx := context.Background()

	// Create
	u, err := repo.CreateStudent(ctx, models.NewStudent("alice", "secret", "Alice", "Smith", "alice@x.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 || u.Username != "alice" || u.Role != models.RoleStudent {
		t.Fatalf("unexpected created user: %+v", u)
	}

	// Authenticate
	got, err := repo.Authenticate(ctx, "alice", "secret")
	if err != nil || got == nil {
		t.Fatalf("authenticate: %v %+v", err, got)
	}
	if got.ID != u.ID || got.FirstName != "Alice" || got.LastName != "Smith" || got.Email != "alice@x.com" || got.Role != models.RoleStudent {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// Wrong password and unknown user
	for _, tc := range [][2]string{{"alice", "wrong"}, {"bob", "secret"}, {"ALICE", "secret"}} {
		miss, err := repo.Authenticate(ctx, tc[0], tc[1])
		if err != nil || miss != nil {
			t.Fatalf("authenticate(%q,%q) = %+v, %v; want nil, nil", tc[0], tc[1], miss, err)
		}
	}
}

func TestUserRepository_AuthenticateIsNotInjectable(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userrepo_inject")
	repo := NewUserRepository(d)
	ctx := context.Background()

	if _, err := repo.CreateStudent(ctx, models.NewStudent("alice", "secret", "A", "S", "a@x.com")); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Authenticate(ctx, "alice", "' OR '1'='1")
	if err != nil || got != nil {
		t.Fatalf("injection attempt authenticated: %+v err=%v", got, err)
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userrepo_dup")
	repo := NewUserRepository(d)
	ctx := context.Background()

	if _, err := repo.CreateStudent(ctx, models.NewStudent("alice", "secret", "Alice", "Smith", "alice@x.com")); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.CreateStudent(ctx, models.NewStudent("alice", "other", "A", "S", "a@x.com"))
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("second create err = %v, want ErrUsernameTaken", err)
	}

	ok, err := repo.Exists(ctx, "alice")
	if err != nil || !ok {
		t.Fatalf("exists(alice) = %v, %v", ok, err)
	}
	ok, err = repo.Exists(ctx, "nobody")
	if err != nil || ok {
		t.Fatalf("exists(nobody) = %v, %v", ok, err)
	}
	n, err := repo.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("count = %d, %v; want 1", n, err)
	}
}

func TestUserRepository_AuthenticateTruncatesAndReadsNulls(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userrepo_trunc")
	repo := NewUserRepository(d)
	ctx := context.Background()

	long := strings.Repeat("e", 200)
	if _, err := d.ExecContext(ctx,
		`INSERT INTO users (username, password, first_name, last_name, email, role) VALUES (?, ?, NULL, NULL, ?, ?)`,
		"legacy", "pw", long, "COORDINATOR_OF_EVERYTHING"); err != nil {
		t.Fatalf("seed row: %v", err)
	}

	got, err := repo.Authenticate(ctx, "legacy", "pw")
	if err != nil || got == nil {
		t.Fatalf("authenticate: %v %+v", err, got)
	}
	if got.FirstName != "" || got.LastName != "" {
		t.Fatalf("NULL names should read as empty, got %q %q", got.FirstName, got.LastName)
	}
	if len(got.Email) != models.MaxEmailLen {
		t.Fatalf("email len = %d, want %d", len(got.Email), models.MaxEmailLen)
	}
	if got.Role != "COORDINATOR_OF_EVER" {
		t.Fatalf("role = %q, want truncated to %d bytes", got.Role, models.MaxRoleLen)
	}
}

func TestUserRepository_CreateKeepsRole(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userrepo_role")
	repo := NewUserRepository(d)
	ctx := context.Background()

	u, err := repo.Create(ctx, &models.User{Username: "teacher1", Password: "pass123", Role: models.RoleTeacher})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	g, err := repo.Authenticate(ctx, "teacher1", "pass123")
	if err != nil || g == nil || g.ID != u.ID || g.Role != models.RoleTeacher {
		t.Fatalf("authenticate: %v %+v", err, g)
	}
}

func TestUserRepository_PrepareFailure(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userrepo_noschema")
	if _, err := d.Exec(`DROP TABLE users`); err != nil {
		t.Fatalf("drop users: %v", err)
	}
	repo := NewUserRepository(d)

	_, err := repo.Authenticate(context.Background(), "alice", "secret")
	if !errors.Is(err, ErrPrepare) {
		t.Fatalf("authenticate err = %v, want ErrPrepare", err)
	}
}
