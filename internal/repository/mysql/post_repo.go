package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"NewsPortal/internal/model"

	"gorm.io/gorm"
)

// DailyNewsLimit 单个作者每个自然日的新闻发布上限
const DailyNewsLimit = 3

var ErrQuotaExceeded = errors.New("daily news quota exceeded")

type PostRepository struct {
	DB *gorm.DB
}

// CreateNews 配额门内的新闻落库：同一事务里先锁作者行，再数当日条数，超限则整体回滚
// 锁住作者行是为了串行化同作者的 count+insert，配额边界上的并发发布不会双双通过
func (r *PostRepository) CreateNews(ctx context.Context, post *model.Post, dayStart time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Author{}).
			Where("id = ?", post.AuthorID).
			UpdateColumn("updated_at", time.Now()).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&model.Post{}).
			Where("author_id = ? AND post_type = ? AND created_at >= ?",
				post.AuthorID, model.PostNews, dayStart).
			Count(&n).Error; err != nil {
			return err
		}
		if n >= DailyNewsLimit {
			return ErrQuotaExceeded
		}

		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return r.insertOutbox(tx, post)
	})
}

// CreateArticle 文章不设上限
func (r *PostRepository) CreateArticle(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

// CountNewsSince 作者自 since 起发布的新闻数（配额展示用）
func (r *PostRepository) CountNewsSince(ctx context.Context, authorID uint64, since time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("author_id = ? AND post_type = ? AND created_at >= ?", authorID, model.PostNews, since).
		Count(&n).Error
	return n, err
}

func (r *PostRepository) CountByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("author_id = ?", authorID).
		Count(&n).Error
	return n, err
}

func (r *PostRepository) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.Preload("Categories").First(&post, id).Error
	return &post, err
}

// ListByType 列表页，按创建时间倒序
func (r *PostRepository) ListByType(postType string, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.Preload("Categories").
		Where("post_type = ?", postType).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// PostFilter 搜索条件，零值字段不参与过滤
type PostFilter struct {
	Title        string    // 标题子串
	Author       string    // 作者用户名子串
	CreatedAfter time.Time // 只要这个时间点之后发布的
}

// Search 搜索页查询：标题模糊、作者用户名模糊、发布时间下限，条件可任意组合
func (r *PostRepository) Search(ctx context.Context, f PostFilter, offset, limit int) ([]model.Post, error) {
	q := r.DB.WithContext(ctx).Model(&model.Post{}).Preload("Categories")
	if f.Title != "" {
		q = q.Where("posts.title LIKE ?", "%"+f.Title+"%")
	}
	if f.Author != "" {
		q = q.Joins("JOIN authors a ON a.id = posts.author_id").
			Joins("JOIN users u ON u.id = a.user_id").
			Where("u.username LIKE ?", "%"+f.Author+"%")
	}
	if !f.CreatedAfter.IsZero() {
		q = q.Where("posts.created_at >= ?", f.CreatedAfter)
	}

	var list []model.Post
	err := q.Order("posts.created_at DESC, posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// ListByCategoryCursor 分类页的游标分页，(created_at, id) 做严格游标
func (r *PostRepository) ListByCategoryCursor(categoryID uint64, lastID uint64, lastCreatedAt time.Time, limit int) ([]model.Post, error) {
	var list []model.Post
	q := r.DB.
		Joins("JOIN post_categories pc ON pc.post_id = posts.id").
		Where("pc.category_id = ?", categoryID)
	if !lastCreatedAt.IsZero() {
		q = q.Where("(posts.created_at < ? OR (posts.created_at = ? AND posts.id < ?))",
			lastCreatedAt, lastCreatedAt, lastID)
	}
	err := q.Order("posts.created_at DESC, posts.id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// ListByCategoryBetween 摘要窗口查询：(since, until] 内该分类的新帖
func (r *PostRepository) ListByCategoryBetween(ctx context.Context, categoryID uint64, since, until time.Time) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Joins("JOIN post_categories pc ON pc.post_id = posts.id").
		Where("pc.category_id = ? AND posts.created_at > ? AND posts.created_at <= ?", categoryID, since, until).
		Order("posts.created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *PostRepository) ListRecentByAuthor(ctx context.Context, authorID uint64, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// AddRating 帖子评分增减，点赞 +1 点踩 -1
func (r *PostRepository) AddRating(ctx context.Context, id uint64, delta int) error {
	return r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("rating", gorm.Expr("rating + ?", delta)).Error
}

// Update 只改标题和正文，post_type 创建后不变
func (r *PostRepository) Update(ctx context.Context, id uint64, title, content string) error {
	return r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Updates(map[string]any{"title": title, "content": content}).Error
}

func (r *PostRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_categories WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, id).Error
	})
}

// 与帖子同事务写入发布事件，由 relayer 异步投递
func (r *PostRepository) insertOutbox(tx *gorm.DB, post *model.Post) error {
	payload, _ := json.Marshal(model.NewsPublishedEvent{
		EventTime: time.Now().UTC().Format(time.RFC3339Nano),
		PostID:    post.ID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
	})
	ob := &model.NotificationOutbox{
		EventType: "news_published",
		PostID:    post.ID,
		AuthorID:  post.AuthorID,
		Payload:   string(payload),
		Status:    0,
	}
	return tx.Create(ob).Error
}
