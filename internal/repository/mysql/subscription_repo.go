package mysql

import (
	"context"

	"NewsPortal/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct {
	DB *gorm.DB
}

// Subscribe 幂等订阅：(user_id, category_id) 唯一索引 + DoNothing 插入
// created=false 表示已经订阅过，并发重复请求也只会留下一行
func (r *SubscriptionRepository) Subscribe(ctx context.Context, userID, categoryID uint64) (*model.Subscription, bool, error) {
	sub := &model.Subscription{UserID: userID, CategoryID: categoryID}
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "category_id"}},
		DoNothing: true,
	}).Create(sub)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return sub, true, nil
	}
	// 冲突没插入，取回已有行
	var existing model.Subscription
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		First(&existing).Error
	return &existing, false, err
}

// Unsubscribe 删除订阅，返回删掉的行数；0 表示本来就没订阅
func (r *SubscriptionRepository) Unsubscribe(ctx context.Context, userID, categoryID uint64) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Delete(&model.Subscription{})
	return res.RowsAffected, res.Error
}

func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, userID, categoryID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Count(&n).Error
	return n > 0, err
}

func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Subscription, error) {
	var list []model.Subscription
	err := r.DB.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&list).Error
	return list, err
}

func (r *SubscriptionRepository) CountByCategory(ctx context.Context, categoryID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Subscription{}).
		Where("category_id = ?", categoryID).
		Count(&n).Error
	return n, err
}

// Recipients 通知扇出的收件人：订阅了任一给定分类的用户，按用户去重
func (r *SubscriptionRepository) Recipients(ctx context.Context, categoryIDs []uint64) ([]model.User, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.DB.WithContext(ctx).
		Distinct("users.*").
		Model(&model.User{}).
		Joins("JOIN subscriptions s ON s.user_id = users.id").
		Where("s.category_id IN ?", categoryIDs).
		Find(&users).Error
	return users, err
}

// SubscriberIDs 某个分类的订阅者 id 列表（摘要聚合用）
func (r *SubscriptionRepository) SubscriberIDs(ctx context.Context, categoryID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Subscription{}).
		Where("category_id = ?", categoryID).
		Order("user_id asc").
		Pluck("user_id", &ids).Error
	return ids, err
}
