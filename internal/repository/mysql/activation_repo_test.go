package mysql

import (
	"context"
	"testing"

	"NewsPortal/internal/model"
)

func TestActivateFlipsOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := &ActivationRepository{DB: db}
	ctx := context.Background()

	user := model.User{Username: "new", Password: "p", Email: "new@example.com", Active: false}
	db.Create(&user)
	token := model.ActivationToken{UserID: user.ID, Token: "tok-1"}
	if err := repo.Create(ctx, &token); err != nil {
		t.Fatalf("create token: %v", err)
	}

	flipped, err := repo.Activate(ctx, token.ID, user.ID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !flipped {
		t.Fatal("first activation should flip the flags")
	}

	var u model.User
	db.First(&u, user.ID)
	if !u.Active {
		t.Fatal("user should be active after activation")
	}
	var tk model.ActivationToken
	db.First(&tk, token.ID)
	if !tk.Activated {
		t.Fatal("token should be marked activated")
	}

	// 重复激活不改任何行
	flipped, err = repo.Activate(ctx, token.ID, user.ID)
	if err != nil {
		t.Fatalf("second activate: %v", err)
	}
	if flipped {
		t.Fatal("second activation must be a no-op")
	}
}

func TestReplaceToken(t *testing.T) {
	db := setupTestDB(t)
	repo := &ActivationRepository{DB: db}
	ctx := context.Background()

	old := model.ActivationToken{UserID: 7, Token: "stale"}
	repo.Create(ctx, &old)

	fresh := model.ActivationToken{UserID: 7, Token: "fresh"}
	if err := repo.Replace(ctx, &old, &fresh); err != nil {
		t.Fatalf("replace: %v", err)
	}

	if _, err := repo.FindByToken(ctx, "stale"); err == nil {
		t.Fatal("stale token should be gone")
	}
	got, err := repo.FindByUser(ctx, 7)
	if err != nil {
		t.Fatalf("find by user: %v", err)
	}
	if got.Token != "fresh" {
		t.Fatalf("expect fresh token, got %s", got.Token)
	}
}
