package service

import (
	"context"
	"errors"
	"time"

	"NewsPortal/internal/model"
	"NewsPortal/internal/repository/mysql"

	"gorm.io/gorm"
)

var (
	ErrTitleRequired    = errors.New("title required")
	ErrCategoryNotFound = errors.New("category not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrPermissionDenied = errors.New("you can only edit your own content")
)

// ErrQuotaExceeded 透传存储层的配额错误，handler 用它区分 429 场景
var ErrQuotaExceeded = mysql.ErrQuotaExceeded

type PostService struct {
	repo       *mysql.PostRepository
	catRepo    *mysql.CategoryRepository
	authorRepo *mysql.AuthorRepository
	userRepo   *mysql.UserRepository
	notifier   *NotificationService
}

func NewPostService(notifier *NotificationService) *PostService {
	return &PostService{
		repo:       &mysql.PostRepository{DB: mysql.DB},
		catRepo:    &mysql.CategoryRepository{DB: mysql.DB},
		authorRepo: &mysql.AuthorRepository{DB: mysql.DB},
		userRepo:   &mysql.UserRepository{DB: mysql.DB},
		notifier:   notifier,
	}
}

// TodayStart 服务端本地的当日零点，配额按这个边界数
func TodayStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// CreateNews 新闻创建：过配额门，落库成功后同步扇出通知
func (s *PostService) CreateNews(ctx context.Context, userID uint64, title, content string, categoryIDs []uint64) (*model.Post, *NotifyReport, error) {
	post, err := s.buildPost(ctx, userID, title, content, categoryIDs, model.PostNews)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.CreateNews(ctx, post, TodayStart(time.Now())); err != nil {
		return nil, nil, err
	}

	report := s.notifier.Dispatch(ctx, post)
	return post, report, nil
}

// CreateArticle 文章创建：没有配额，也不触发即时通知
func (s *PostService) CreateArticle(ctx context.Context, userID uint64, title, content string, categoryIDs []uint64) (*model.Post, error) {
	post, err := s.buildPost(ctx, userID, title, content, categoryIDs, model.PostArticle)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateArticle(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) buildPost(ctx context.Context, userID uint64, title, content string, categoryIDs []uint64, postType string) (*model.Post, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}

	cats, err := s.catRepo.FindByIDs(categoryIDs)
	if err != nil {
		return nil, err
	}
	if len(cats) != len(categoryIDs) {
		return nil, ErrCategoryNotFound
	}

	// 首次发布时惰性建作者档案
	author, err := s.authorRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	return &model.Post{
		Title:      title,
		Content:    content,
		PostType:   postType,
		AuthorID:   author.ID,
		Categories: cats,
	}, nil
}

// Remaining 作者今天还能发几条新闻
func (s *PostService) Remaining(ctx context.Context, authorID uint64) (int64, error) {
	n, err := s.repo.CountNewsSince(ctx, authorID, TodayStart(time.Now()))
	if err != nil {
		return 0, err
	}
	remaining := int64(mysql.DailyNewsLimit) - n
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (s *PostService) GetPost(id uint64) (*model.Post, error) {
	post, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	return post, err
}

// UpdatePost 只有内容归属的作者或 staff 能改；post_type 不可变
func (s *PostService) UpdatePost(ctx context.Context, userID, postID uint64, title, content string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if err := s.authorize(ctx, userID, postID); err != nil {
		return err
	}
	return s.repo.Update(ctx, postID, title, content)
}

// DeletePost 同样的归属检查
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint64) error {
	if err := s.authorize(ctx, userID, postID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, postID)
}

// 守卫按固定顺序求值：帖子存在 -> 拥有者或 staff
func (s *PostService) authorize(ctx context.Context, userID, postID uint64) error {
	post, err := s.repo.FindByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}

	author, err := s.authorRepo.FindByID(post.AuthorID)
	if err != nil {
		return err
	}
	if author.UserID == userID {
		return nil
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user.IsStaff() {
		return nil
	}
	return ErrPermissionDenied
}

// Search 搜索页：标题子串、作者用户名、发布时间下限
func (s *PostService) Search(ctx context.Context, title, author string, createdAfter time.Time, page, size int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	filter := mysql.PostFilter{Title: title, Author: author, CreatedAfter: createdAfter}
	return s.repo.Search(ctx, filter, (page-1)*size, size)
}

// Rate 点赞/点踩：帖子评分与作者评分同步增减
func (s *PostService) Rate(ctx context.Context, postID uint64, delta int) (*model.Post, error) {
	post, err := s.repo.FindByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddRating(ctx, postID, delta); err != nil {
		return nil, err
	}
	if err := s.authorRepo.AddRating(post.AuthorID, delta); err != nil {
		return nil, err
	}
	return s.repo.FindByID(postID)
}

func (s *PostService) ListByType(postType string, page, size int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	offset := (page - 1) * size
	return s.repo.ListByType(postType, offset, size)
}

// ListByCategoryCursor 分类页游标分页，首页不传游标
func (s *PostService) ListByCategoryCursor(categoryID uint64, lastID uint64, lastCreatedAt time.Time, size int) ([]model.Post, uint64, time.Time, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	list, err := s.repo.ListByCategoryCursor(categoryID, lastID, lastCreatedAt, size)
	if err != nil {
		return nil, 0, time.Time{}, err
	}
	var nextID uint64
	var nextTS time.Time
	if len(list) > 0 {
		last := list[len(list)-1]
		nextID = last.ID
		nextTS = last.CreatedAt
	}
	return list, nextID, nextTS, nil
}
