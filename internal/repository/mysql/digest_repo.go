package mysql

import (
	"context"
	"errors"
	"time"

	"NewsPortal/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DigestWatermarkRepository struct {
	DB *gorm.DB
}

// Get 分类的水位线；没有记录时返回 found=false，由调用方用默认回看窗口
func (r *DigestWatermarkRepository) Get(ctx context.Context, categoryID uint64) (time.Time, bool, error) {
	var wm model.DigestWatermark
	err := r.DB.WithContext(ctx).Where("category_id = ?", categoryID).First(&wm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return wm.LastRunAt, true, nil
}

// Advance 推进水位线到本次运行起点，首次出现的分类直接插入
func (r *DigestWatermarkRepository) Advance(ctx context.Context, categoryID uint64, runAt time.Time) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category_id"}},
		DoUpdates: clause.Assignments(map[string]any{"last_run_at": runAt}),
	}).Create(&model.DigestWatermark{CategoryID: categoryID, LastRunAt: runAt}).Error
}
