package model

import "time"

type Category struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subscription 用户与分类的订阅关系，(user_id, category_id) 组合唯一
// 唯一索引在存储层挡住并发重复订阅
type Subscription struct {
	ID         uint64 `gorm:"primaryKey"`
	UserID     uint64 `gorm:"not null;index;uniqueIndex:uk_user_category"`
	CategoryID uint64 `gorm:"not null;index;uniqueIndex:uk_user_category"`
	Category   Category
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Subscription) TableName() string { return "subscriptions" }
