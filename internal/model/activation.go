package model

import "time"

// ActivationTokenTTL 激活链接有效期，从创建时刻起算
const ActivationTokenTTL = 24 * time.Hour

// ActivationToken 账号激活令牌
// 过期是派生状态不落库；激活后只翻 activated 标志，不删除
type ActivationToken struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index"`
	Token     string `gorm:"uniqueIndex;size:64;not null"`
	Activated bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ActivationToken) TableName() string { return "activation_tokens" }

func (t *ActivationToken) IsExpired() bool {
	return t.IsExpiredAt(time.Now())
}

func (t *ActivationToken) IsExpiredAt(now time.Time) bool {
	return now.Sub(t.CreatedAt) > ActivationTokenTTL
}
