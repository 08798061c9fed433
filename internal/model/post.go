package model

import "time"

const (
	PostNews    = "news"
	PostArticle = "article"
)

// Post 内容主体，news 与 article 共用一张表
// post_type 在各自的创建入口写死，创建后不变
type Post struct {
	ID         uint64     `gorm:"primaryKey"`
	Title      string     `gorm:"size:200;not null"`
	Content    string     `gorm:"type:text"`
	PostType   string     `gorm:"size:16;not null;index:idx_type_time"`
	AuthorID   uint64     `gorm:"not null;index:idx_author_time"`
	Rating     int        `gorm:"not null;default:0"`
	Categories []Category `gorm:"many2many:post_categories"`
	CreatedAt  time.Time  `gorm:"index:idx_type_time;index:idx_author_time"`
	UpdatedAt  time.Time
}

func (p *Post) IsNews() bool { return p.PostType == PostNews }

// Excerpt 邮件通知里用的摘要
func (p *Post) Excerpt(n int) string {
	r := []rune(p.Content)
	if len(r) <= n {
		return p.Content
	}
	return string(r[:n]) + "..."
}
