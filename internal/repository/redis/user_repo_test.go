package redis

import (
	"errors"
	"testing"
)

func TestUserTokenRoundTrip(t *testing.T) {
	setupTestRedis(t)
	repo := &UserRepository{}

	if err := repo.AddUserToken(42, "token-a"); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := repo.GetUserToken(42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "token-a" {
		t.Fatalf("expect token-a, got %s", got)
	}

	// 重新登录覆盖旧令牌，单点登录
	if err := repo.AddUserToken(42, "token-b"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = repo.GetUserToken(42)
	if got != "token-b" {
		t.Fatalf("expect token-b after relogin, got %s", got)
	}

	if err := repo.DeleteUserToken(42); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetUserToken(42); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expect ErrTokenNotFound, got %v", err)
	}
}
