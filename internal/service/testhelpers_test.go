package service

import (
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"NewsPortal/internal/model"
	"NewsPortal/internal/repository/mysql"
	"NewsPortal/internal/repository/redis"
)

// setupServiceDB 服务层测试共用的内存库与内存 redis，顺手接管包级句柄
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	mr := miniredis.RunT(t)
	if err := redis.Init(mr.Addr(), "", 0); err != nil {
		t.Fatalf("init redis: %v", err)
	}
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Author{},
		&model.Category{},
		&model.Subscription{},
		&model.Post{},
		&model.ActivationToken{},
		&model.NotificationOutbox{},
		&model.DigestWatermark{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	mysql.DB = db
	return db
}

// sentMail 记录型发件箱，替代 SMTP
type sentMail struct {
	To      string
	Subject string
	Body    string
}

type sentbox struct {
	mu    sync.Mutex
	mails []sentMail
}

func (b *sentbox) sender() Sender {
	return func(to, subject, htmlBody string) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.mails = append(b.mails, sentMail{To: to, Subject: subject, Body: htmlBody})
		return nil
	}
}

func (b *sentbox) all() []sentMail {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]sentMail(nil), b.mails...)
}

func (b *sentbox) byRecipient(to string) []sentMail {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []sentMail
	for _, m := range b.mails {
		if m.To == to {
			out = append(out, m)
		}
	}
	return out
}

func (b *sentbox) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mails = nil
}

// newTestEmailService 发送通道指向发件箱，不碰网络也不碰 redis
func newTestEmailService(box *sentbox) *EmailService {
	return &EmailService{siteURL: "http://test.local", send: box.sender()}
}
