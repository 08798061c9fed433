package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"NewsPortal/internal/model"
)

func newTestPostService(box *sentbox) *PostService {
	return NewPostService(NewNotificationService(newTestEmailService(box)))
}

func TestCreateNewsQuotaThroughService(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()

	author := model.User{Username: "writer", Password: "p", Email: "w@example.com",
		Role: model.RoleAuthor, Active: true}
	cat := model.Category{Name: "Tech"}
	db.Create(&author)
	db.Create(&cat)

	svc := newTestPostService(&sentbox{})

	for i := 0; i < 3; i++ {
		_, _, err := svc.CreateNews(ctx, author.ID, fmt.Sprintf("news %d", i), "body", []uint64{cat.ID})
		if err != nil {
			t.Fatalf("news %d: %v", i, err)
		}
	}

	_, _, err := svc.CreateNews(ctx, author.ID, "fourth", "body", []uint64{cat.ID})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expect quota rejection on the fourth news, got %v", err)
	}

	// 作者档案在首次发布时惰性创建
	var a model.Author
	if err := db.Where("user_id = ?", author.ID).First(&a).Error; err != nil {
		t.Fatalf("author profile should exist: %v", err)
	}
	remaining, err := svc.Remaining(ctx, a.ID)
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expect 0 remaining, got %d", remaining)
	}
}

func TestCreateNewsNotifiesSubscribers(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()

	writer := model.User{Username: "writer", Password: "p", Email: "w@example.com", Role: model.RoleAuthor}
	reader := model.User{Username: "reader", Password: "p", Email: "r@example.com", Active: true}
	cat := model.Category{Name: "Tech"}
	db.Create(&writer)
	db.Create(&reader)
	db.Create(&cat)

	box := &sentbox{}
	svc := newTestPostService(box)

	subSvc := NewSubscriptionService()
	if _, _, err := subSvc.Subscribe(ctx, reader.ID, cat.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	_, report, err := svc.CreateNews(ctx, writer.ID, "hello", "body", []uint64{cat.ID})
	if err != nil {
		t.Fatalf("create news: %v", err)
	}
	if report.Sent != 1 {
		t.Fatalf("expect 1 notification, got %+v", report)
	}
	if got := len(box.byRecipient("r@example.com")); got != 1 {
		t.Fatalf("subscriber should get the alert, got %d", got)
	}
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()

	writer := model.User{Username: "writer", Password: "p", Email: "w@example.com", Role: model.RoleAuthor}
	db.Create(&writer)

	svc := newTestPostService(&sentbox{})
	_, _, err := svc.CreateNews(ctx, writer.ID, "hello", "body", []uint64{999})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expect ErrCategoryNotFound, got %v", err)
	}
	_, err = svc.CreateArticle(ctx, writer.ID, "hello", "body", []uint64{999})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expect ErrCategoryNotFound for article, got %v", err)
	}
}

func TestRatePostMovesAuthorRating(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()

	writer := model.User{Username: "writer", Password: "p", Email: "w@example.com", Role: model.RoleAuthor}
	cat := model.Category{Name: "Tech"}
	db.Create(&writer)
	db.Create(&cat)

	svc := newTestPostService(&sentbox{})

	post, err := svc.CreateArticle(ctx, writer.ID, "rated", "body", []uint64{cat.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 两个赞一个踩
	if _, err := svc.Rate(ctx, post.ID, 1); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := svc.Rate(ctx, post.ID, 1); err != nil {
		t.Fatalf("like: %v", err)
	}
	got, err := svc.Rate(ctx, post.ID, -1)
	if err != nil {
		t.Fatalf("dislike: %v", err)
	}
	if got.Rating != 1 {
		t.Fatalf("expect post rating 1, got %d", got.Rating)
	}

	// 作者评分跟着帖子走
	var author model.Author
	if err := db.Where("user_id = ?", writer.ID).First(&author).Error; err != nil {
		t.Fatalf("author: %v", err)
	}
	if author.Rating != 1 {
		t.Fatalf("expect author rating 1, got %d", author.Rating)
	}

	if _, err := svc.Rate(ctx, 999, 1); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expect ErrPostNotFound for unknown post, got %v", err)
	}
}

func TestPostOwnershipGuards(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()

	owner := model.User{Username: "owner", Password: "p", Email: "o@example.com", Role: model.RoleAuthor}
	other := model.User{Username: "other", Password: "p", Email: "x@example.com", Role: model.RoleAuthor}
	staff := model.User{Username: "staff", Password: "p", Email: "s@example.com", Role: model.RoleStaff}
	cat := model.Category{Name: "Tech"}
	db.Create(&owner)
	db.Create(&other)
	db.Create(&staff)
	db.Create(&cat)

	svc := newTestPostService(&sentbox{})

	post, err := svc.CreateArticle(ctx, owner.ID, "mine", "body", []uint64{cat.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 别的作者不能碰
	if err := svc.UpdatePost(ctx, other.ID, post.ID, "hijack", ""); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expect permission denied for non-owner, got %v", err)
	}
	if err := svc.DeletePost(ctx, other.ID, post.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expect permission denied on delete, got %v", err)
	}

	// 拥有者可以
	if err := svc.UpdatePost(ctx, owner.ID, post.ID, "mine v2", "edited"); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	got, err := svc.GetPost(post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "mine v2" {
		t.Fatalf("update not applied, got %s", got.Title)
	}
	if !got.IsNews() && got.PostType != model.PostArticle {
		t.Fatalf("post_type must not change, got %s", got.PostType)
	}

	// staff 也可以
	if err := svc.DeletePost(ctx, staff.ID, post.ID); err != nil {
		t.Fatalf("staff delete: %v", err)
	}
	if _, err := svc.GetPost(post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expect ErrPostNotFound after delete, got %v", err)
	}

	// 不存在的帖子先报不存在
	if err := svc.UpdatePost(ctx, other.ID, post.ID, "t", ""); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expect ErrPostNotFound, got %v", err)
	}
}
