package service

import (
	"context"
	"errors"

	"NewsPortal/internal/model"
	"NewsPortal/internal/repository/mysql"
	"NewsPortal/internal/repository/redis"

	"gorm.io/gorm"
)

type SubscriptionService struct {
	repo    *mysql.SubscriptionRepository
	catRepo *mysql.CategoryRepository
	cache   *redis.SubscriberCountCache
}

func NewSubscriptionService() *SubscriptionService {
	return &SubscriptionService{
		repo:    &mysql.SubscriptionRepository{DB: mysql.DB},
		catRepo: &mysql.CategoryRepository{DB: mysql.DB},
		cache:   redis.NewSubscriberCountCache(),
	}
}

// Subscribe 幂等订阅；created=false 是信息提示而不是错误
// 订阅本身不发任何邮件
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, categoryID uint64) (*model.Subscription, bool, error) {
	if _, err := s.catRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrCategoryNotFound
		}
		return nil, false, err
	}

	sub, created, err := s.repo.Subscribe(ctx, userID, categoryID)
	if err != nil {
		return nil, false, err
	}
	if created {
		// 计数缓存失效，读侧重建
		_ = s.cache.DeleteCount(ctx, categoryID)
	}
	return sub, created, nil
}

// Unsubscribe 返回删掉的行数，0 表示本来就没订阅
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, categoryID uint64) (int64, error) {
	if _, err := s.catRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCategoryNotFound
		}
		return 0, err
	}

	deleted, err := s.repo.Unsubscribe(ctx, userID, categoryID)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		_ = s.cache.DeleteCount(ctx, categoryID)
	}
	return deleted, nil
}

func (s *SubscriptionService) List(ctx context.Context, userID uint64) ([]model.Subscription, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *SubscriptionService) IsSubscribed(ctx context.Context, userID, categoryID uint64) (bool, error) {
	return s.repo.IsSubscribed(ctx, userID, categoryID)
}

// SubscriberCount 读缓存，miss 回源 MySQL 再回填
func (s *SubscriptionService) SubscriberCount(ctx context.Context, categoryID uint64) (int64, error) {
	if v, ok, err := s.cache.GetCached(ctx, categoryID); err == nil && ok {
		return v, nil
	}
	n, err := s.repo.CountByCategory(ctx, categoryID)
	if err != nil {
		return 0, err
	}
	_ = s.cache.SetCount(ctx, categoryID, n)
	return n, nil
}
