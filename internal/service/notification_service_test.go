package service

import (
	"context"
	"errors"
	"testing"

	"NewsPortal/internal/model"
	"NewsPortal/internal/repository/mysql"
)

func TestDispatchOneMailPerSubscriber(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()

	u1 := model.User{Username: "u1", Password: "p", Email: "u1@example.com", Active: true}
	u2 := model.User{Username: "u2", Password: "p", Email: "u2@example.com", Active: true}
	catA := model.Category{Name: "A"}
	catB := model.Category{Name: "B"}
	db.Create(&u1)
	db.Create(&u2)
	db.Create(&catA)
	db.Create(&catB)

	subRepo := &mysql.SubscriptionRepository{DB: db}
	// u1 订阅了帖子命中的两个分类，也只收一封
	subRepo.Subscribe(ctx, u1.ID, catA.ID)
	subRepo.Subscribe(ctx, u1.ID, catB.ID)
	subRepo.Subscribe(ctx, u2.ID, catA.ID)

	box := &sentbox{}
	svc := NewNotificationService(newTestEmailService(box))

	post := &model.Post{
		ID:         1,
		Title:      "breaking",
		Content:    "something happened",
		PostType:   model.PostNews,
		AuthorID:   1,
		Categories: []model.Category{catA, catB},
	}

	report := svc.Dispatch(ctx, post)
	if report.Skipped {
		t.Fatalf("should not skip: %+v", report)
	}
	if report.Sent != 2 || report.Failed != 0 {
		t.Fatalf("expect sent=2 failed=0, got %+v", report)
	}
	if got := len(box.byRecipient("u1@example.com")); got != 1 {
		t.Fatalf("u1 should receive exactly one mail, got %d", got)
	}
	if got := len(box.byRecipient("u2@example.com")); got != 1 {
		t.Fatalf("u2 should receive exactly one mail, got %d", got)
	}
}

func TestDispatchSkipsNonNews(t *testing.T) {
	setupServiceDB(t)

	box := &sentbox{}
	svc := NewNotificationService(newTestEmailService(box))

	post := &model.Post{ID: 2, Title: "essay", PostType: model.PostArticle,
		Categories: []model.Category{{ID: 1, Name: "A"}}}
	report := svc.Dispatch(context.Background(), post)
	if !report.Skipped || report.Warning == "" {
		t.Fatalf("articles must be skipped with a warning, got %+v", report)
	}
	if len(box.all()) != 0 {
		t.Fatal("no mail should go out for articles")
	}
}

func TestDispatchSkipsWithoutCategories(t *testing.T) {
	setupServiceDB(t)

	box := &sentbox{}
	svc := NewNotificationService(newTestEmailService(box))

	post := &model.Post{ID: 3, Title: "orphan", PostType: model.PostNews}
	report := svc.Dispatch(context.Background(), post)
	if !report.Skipped || report.Warning == "" {
		t.Fatalf("no categories means no resolvable recipients, got %+v", report)
	}
}

func TestDispatchCountsPerRecipientFailures(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()

	u1 := model.User{Username: "u1", Password: "p", Email: "bad@example.com"}
	u2 := model.User{Username: "u2", Password: "p", Email: "good@example.com"}
	cat := model.Category{Name: "A"}
	db.Create(&u1)
	db.Create(&u2)
	db.Create(&cat)

	subRepo := &mysql.SubscriptionRepository{DB: db}
	subRepo.Subscribe(ctx, u1.ID, cat.ID)
	subRepo.Subscribe(ctx, u2.ID, cat.ID)

	box := &sentbox{}
	emailSvc := newTestEmailService(box)
	// 指定收件人发信失败，其余照常送达
	inner := box.sender()
	emailSvc.SetSender(func(to, subject, htmlBody string) error {
		if to == "bad@example.com" {
			return errors.New("mailbox unavailable")
		}
		return inner(to, subject, htmlBody)
	})
	svc := NewNotificationService(emailSvc)

	post := &model.Post{ID: 4, Title: "partial", PostType: model.PostNews,
		Categories: []model.Category{cat}}
	report := svc.Dispatch(ctx, post)
	if report.Sent != 1 || report.Failed != 1 {
		t.Fatalf("expect sent=1 failed=1, got %+v", report)
	}
	if got := len(box.byRecipient("good@example.com")); got != 1 {
		t.Fatalf("good recipient should still get the mail, got %d", got)
	}
}
