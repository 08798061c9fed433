package mysql

import (
	"context"
	"testing"

	"NewsPortal/internal/model"
)

func TestSubscribeIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := &SubscriptionRepository{DB: db}
	ctx := context.Background()

	user := model.User{Username: "reader", Password: "p", Email: "reader@example.com", Active: true}
	cat := model.Category{Name: "Tech"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	sub, created, err := repo.Subscribe(ctx, user.ID, cat.ID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !created || sub.ID == 0 {
		t.Fatalf("first subscribe should create, got created=%v id=%d", created, sub.ID)
	}

	// 重复订阅不是错误，也不产生新行
	again, created, err := repo.Subscribe(ctx, user.ID, cat.ID)
	if err != nil {
		t.Fatalf("second subscribe: %v", err)
	}
	if created {
		t.Fatal("second subscribe should not create")
	}
	if again.ID != sub.ID {
		t.Fatalf("should return the existing row, got %d want %d", again.ID, sub.ID)
	}

	var n int64
	db.Model(&model.Subscription{}).Count(&n)
	if n != 1 {
		t.Fatalf("expect exactly 1 subscription row, got %d", n)
	}
}

func TestUnsubscribe(t *testing.T) {
	db := setupTestDB(t)
	repo := &SubscriptionRepository{DB: db}
	ctx := context.Background()

	user := model.User{Username: "reader", Password: "p", Email: "reader@example.com"}
	cat := model.Category{Name: "Sports"}
	db.Create(&user)
	db.Create(&cat)

	if _, _, err := repo.Subscribe(ctx, user.ID, cat.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	deleted, err := repo.Unsubscribe(ctx, user.ID, cat.ID)
	if err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expect 1 row deleted, got %d", deleted)
	}

	// 再取消一次，0 行表示本来就没订阅
	deleted, err = repo.Unsubscribe(ctx, user.ID, cat.ID)
	if err != nil {
		t.Fatalf("unsubscribe again: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expect 0 rows deleted, got %d", deleted)
	}

	ok, err := repo.IsSubscribed(ctx, user.ID, cat.ID)
	if err != nil {
		t.Fatalf("is subscribed: %v", err)
	}
	if ok {
		t.Fatal("should not be subscribed after unsubscribe")
	}
}

func TestRecipientsDeduplicated(t *testing.T) {
	db := setupTestDB(t)
	repo := &SubscriptionRepository{DB: db}
	ctx := context.Background()

	u1 := model.User{Username: "u1", Password: "p", Email: "u1@example.com"}
	u2 := model.User{Username: "u2", Password: "p", Email: "u2@example.com"}
	catA := model.Category{Name: "A"}
	catB := model.Category{Name: "B"}
	db.Create(&u1)
	db.Create(&u2)
	db.Create(&catA)
	db.Create(&catB)

	// u1 同时订阅 A 和 B，u2 只订阅 A
	repo.Subscribe(ctx, u1.ID, catA.ID)
	repo.Subscribe(ctx, u1.ID, catB.ID)
	repo.Subscribe(ctx, u2.ID, catA.ID)

	users, err := repo.Recipients(ctx, []uint64{catA.ID, catB.ID})
	if err != nil {
		t.Fatalf("recipients: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expect 2 distinct recipients, got %d", len(users))
	}

	users, err = repo.Recipients(ctx, []uint64{catB.ID})
	if err != nil {
		t.Fatalf("recipients B: %v", err)
	}
	if len(users) != 1 || users[0].ID != u1.ID {
		t.Fatalf("category B should only reach u1, got %+v", users)
	}
}
