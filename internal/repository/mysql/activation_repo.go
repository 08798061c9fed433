package mysql

import (
	"context"

	"NewsPortal/internal/model"

	"gorm.io/gorm"
)

type ActivationRepository struct {
	DB *gorm.DB
}

func (r *ActivationRepository) Create(ctx context.Context, token *model.ActivationToken) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func (r *ActivationRepository) FindByToken(ctx context.Context, token string) (*model.ActivationToken, error) {
	var t model.ActivationToken
	err := r.DB.WithContext(ctx).Where("token = ?", token).First(&t).Error
	return &t, err
}

func (r *ActivationRepository) FindByUser(ctx context.Context, userID uint64) (*model.ActivationToken, error) {
	var t model.ActivationToken
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		First(&t).Error
	return &t, err
}

// Replace 删除过期令牌并写入新令牌，同一事务
func (r *ActivationRepository) Replace(ctx context.Context, old *model.ActivationToken, fresh *model.ActivationToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ActivationToken{}, old.ID).Error; err != nil {
			return err
		}
		return tx.Create(fresh).Error
	})
}

// Activate 令牌标志与用户激活标志同事务翻转，要么都成要么都不成
// activated=false 的条件让重复激活不会改任何行
func (r *ActivationRepository) Activate(ctx context.Context, tokenID, userID uint64) (bool, error) {
	var flipped bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ActivationToken{}).
			Where("id = ? AND activated = ?", tokenID, false).
			Update("activated", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		flipped = true
		return tx.Model(&model.User{}).
			Where("id = ?", userID).
			Update("active", true).Error
	})
	return flipped, err
}
