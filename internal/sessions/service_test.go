package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/accounts"
)

// fake repo for testing
type fakeRepo struct {
	store map[string]*Session
}

func (f *fakeRepo) Create(ctx context.Context, s *Session) error {
	if f.store == nil {
		f.store = map[string]*Session{}
	}
	f.store[s.Token] = s
	return nil
}
func (f *fakeRepo) GetByToken(ctx context.Context, token string) (*Session, error) {
	if f.store == nil {
		return nil, nil
	}
	s, ok := f.store[token]
	if !ok {
		return nil, nil
	}
	return s, nil
}
func (f *fakeRepo) DeleteByToken(ctx context.Context, token string) error {
	if f.store == nil {
		return nil
	}
	delete(f.store, token)
	return nil
}

func TestCreateAndValidateSession(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()
	acc := &accounts.Account{ID: "acc-1", Username: "rrsolutions", Admin: false}

	tok, err := svc.Create(ctx, acc, time.Hour)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected session token")
	}
	// validate
	sess, err := svc.Validate(ctx, tok)
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if sess == nil || sess.AccountID != "acc-1" || sess.Username != "rrsolutions" {
		t.Fatalf("unexpected session: %v", sess)
	}
	// timestamps are the service's job, not the store's
	if sess.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be set")
	}
	if !sess.ExpiresAt.After(sess.CreatedAt) {
		t.Fatalf("expected ExpiresAt after CreatedAt")
	}
	// delete
	if err := svc.Delete(ctx, tok); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	sess2, _ := svc.Validate(ctx, tok)
	if sess2 != nil {
		t.Fatalf("expected session removed")
	}
}

func TestValidateExpiredSession(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()
	acc := &accounts.Account{ID: "acc-2", Username: "expired", Admin: false}

	tok, err := svc.Create(ctx, acc, -time.Minute)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	sess, err := svc.Validate(ctx, tok)
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected expired session to validate as missing")
	}
	// expired session should have been cleaned up
	if _, ok := repo.store[tok]; ok {
		t.Fatalf("expected expired session deleted from store")
	}
}
