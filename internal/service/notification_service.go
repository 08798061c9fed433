package service

import (
	"context"
	"log"
	"time"

	"NewsPortal/internal/model"
	"NewsPortal/internal/pkg"
	"NewsPortal/internal/repository/mysql"
)

// NotifyReport 一次扇出的结果，交回给触发方
type NotifyReport struct {
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Skipped bool   `json:"skipped"`
	Warning string `json:"warning,omitempty"`
}

// NotificationService 新闻发布后的即时通知扇出
type NotificationService struct {
	subRepo *mysql.SubscriptionRepository
	send    Sender
	postURL func(postID uint64) string
}

func NewNotificationService(emailSvc *EmailService) *NotificationService {
	return &NotificationService{
		subRepo: &mysql.SubscriptionRepository{DB: mysql.DB},
		send:    emailSvc.Sender(),
		postURL: emailSvc.PostURL,
	}
}

// Dispatch 解析帖子分类的订阅者并挨个发信
// 同一用户订阅多个命中分类也只收一封；单个收件人失败只记数，不影响其余发送
func (s *NotificationService) Dispatch(ctx context.Context, post *model.Post) *NotifyReport {
	report := &NotifyReport{}

	if !post.IsNews() {
		report.Skipped = true
		report.Warning = "post is not news, notifications skipped"
		log.Printf("notify skip: post=%d type=%s", post.ID, post.PostType)
		return report
	}
	if len(post.Categories) == 0 {
		report.Skipped = true
		report.Warning = "post has no categories, no recipients resolvable"
		log.Printf("notify skip: post=%d has no categories", post.ID)
		return report
	}

	catIDs := make([]uint64, 0, len(post.Categories))
	for _, c := range post.Categories {
		catIDs = append(catIDs, c.ID)
	}

	recipients, err := s.subRepo.Recipients(ctx, catIDs)
	if err != nil {
		report.Failed = 1
		report.Warning = "failed to resolve recipients"
		log.Printf("notify recipients err: post=%d err=%v", post.ID, err)
		return report
	}

	html := pkg.NewsAlertHTML(post.Title, s.postURL(post.ID), post.Excerpt(200))
	for _, u := range recipients {
		if err := s.send(u.Email, "News: "+post.Title, html); err != nil {
			report.Failed++
			log.Printf("notify send err: post=%d user=%d err=%v", post.ID, u.ID, err)
			continue
		}
		report.Sent++
	}
	return report
}

// EventSender outbox 事件投递函数
type EventSender func(ctx context.Context, ob *model.NotificationOutbox) error

// OutboxRelayer 把待投递的发布事件批量送往 kafka
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    EventSender
}

func NewOutboxRelayer(sender EventSender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: mysql.DB},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run relayer 启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// KafkaSender 生产投递：事件按 post_id 分区
func KafkaSender(p *pkg.KafkaProducer) EventSender {
	return func(ctx context.Context, ob *model.NotificationOutbox) error {
		return p.Send(ctx, pkg.PostKey(ob.PostID), []byte(ob.Payload))
	}
}

// LogSender 默认 sender：没配 kafka 时先打印
func LogSender(ctx context.Context, ob *model.NotificationOutbox) error {
	log.Printf("OUTBOX SEND type=%s post=%d author=%d payload=%s", ob.EventType, ob.PostID, ob.AuthorID, ob.Payload)
	return nil
}
