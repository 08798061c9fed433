package service

import (
	"context"
	"errors"
	"testing"

	"NewsPortal/internal/model"
)

func TestRelayerDrainsPendingEvents(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()

	db.Create(&model.NotificationOutbox{EventType: "news_published", PostID: 1, AuthorID: 1, Payload: `{"post_id":1}`})
	db.Create(&model.NotificationOutbox{EventType: "news_published", PostID: 2, AuthorID: 1, Payload: `{"post_id":2}`})

	var delivered []uint64
	relayer := NewOutboxRelayer(func(ctx context.Context, ob *model.NotificationOutbox) error {
		delivered = append(delivered, ob.PostID)
		return nil
	})
	relayer.drainOnce(ctx)

	if len(delivered) != 2 {
		t.Fatalf("expect 2 events delivered, got %d", len(delivered))
	}

	var pending int64
	db.Model(&model.NotificationOutbox{}).Where("status = 0").Count(&pending)
	if pending != 0 {
		t.Fatalf("delivered events should leave the pending set, got %d", pending)
	}

	// 再跑一轮，没有新事件可投
	delivered = nil
	relayer.drainOnce(ctx)
	if len(delivered) != 0 {
		t.Fatalf("nothing should be re-delivered, got %d", len(delivered))
	}
}

func TestRelayerMarksFailuresForRetry(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()

	db.Create(&model.NotificationOutbox{EventType: "news_published", PostID: 1, AuthorID: 1, Payload: `{}`})

	relayer := NewOutboxRelayer(func(ctx context.Context, ob *model.NotificationOutbox) error {
		return errors.New("broker down")
	})
	relayer.drainOnce(ctx)

	var ob model.NotificationOutbox
	db.First(&ob)
	if ob.Status != 2 {
		t.Fatalf("failed delivery should move to retry status, got %d", ob.Status)
	}
	if ob.Retry != 1 {
		t.Fatalf("retry counter should increment, got %d", ob.Retry)
	}
}
