package model

import "time"

// Author 作者档案，与 User 一对一，成为作者或首次发布时惰性创建
type Author struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_author_user"`
	Rating    int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Author) TableName() string { return "authors" }
