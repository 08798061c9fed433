package model

import "time"

// NotificationOutbox 新闻发布事件表，与帖子同事务落库
// 由后台 relayer 投递给 kafka
type NotificationOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:16;not null"` // news_published
	PostID    uint64 `gorm:"not null;index"`
	AuthorID  uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }

// NewsPublishedEvent outbox payload 的结构，消费方按这个契约解析
type NewsPublishedEvent struct {
	EventTime string `json:"event_time"`
	PostID    uint64 `json:"post_id"`
	AuthorID  uint64 `json:"author_id"`
	Title     string `json:"title"`
}

// DigestWatermark 每个分类的摘要水位线，记录上次成功纳入摘要的时间点
// 用水位线而不是固定回看 7 天，调度延迟时不会重复或漏发
type DigestWatermark struct {
	ID         uint64    `gorm:"primaryKey"`
	CategoryID uint64    `gorm:"not null;uniqueIndex:uk_digest_category"`
	LastRunAt  time.Time `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DigestWatermark) TableName() string { return "digest_watermarks" }
