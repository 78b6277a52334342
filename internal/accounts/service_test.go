package accounts

import (
	"context"
	"errors"
	"testing"
)

func TestCreateAndAuthenticate(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, "admin")
	ctx := context.Background()

	a, err := svc.Create(ctx, "rrsolutions", "hunter2secret")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if a.ID == "" {
		t.Fatalf("expected generated account id")
	}
	if a.Admin {
		t.Fatalf("non-admin username should not get the admin role")
	}
	if a.PasswordHash == "hunter2secret" {
		t.Fatalf("password stored in plaintext")
	}

	got, err := svc.Authenticate(ctx, "rrsolutions", "hunter2secret")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if got.ID != a.ID {
		t.Fatalf("authenticate returned wrong account: %v", got)
	}

	if _, err := svc.Authenticate(ctx, "rrsolutions", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "hunter2secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown username, got %v", err)
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, "admin")
	ctx := context.Background()

	if _, err := svc.Create(ctx, "site-a", "pw-one-long-enough"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(ctx, "site-a", "pw-two-long-enough"); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestAdminRoleByUsername(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, "admin")
	ctx := context.Background()

	a, err := svc.Create(ctx, "admin", "topsecretadminpw")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !a.Admin {
		t.Fatalf("account named admin should carry the admin role")
	}
}
