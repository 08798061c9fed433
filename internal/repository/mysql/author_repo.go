package mysql

import (
	"NewsPortal/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuthorRepository struct {
	DB *gorm.DB
}

// GetOrCreate 惰性建档：幂等插入后回读，(user_id) 唯一索引兜底并发
func (r *AuthorRepository) GetOrCreate(userID uint64) (*model.Author, error) {
	if err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&model.Author{UserID: userID}).Error; err != nil {
		return nil, err
	}
	var author model.Author
	err := r.DB.Where("user_id = ?", userID).First(&author).Error
	return &author, err
}

func (r *AuthorRepository) FindByID(id uint64) (*model.Author, error) {
	var author model.Author
	err := r.DB.First(&author, id).Error
	return &author, err
}

func (r *AuthorRepository) FindByUserID(userID uint64) (*model.Author, error) {
	var author model.Author
	err := r.DB.Where("user_id = ?", userID).First(&author).Error
	return &author, err
}

func (r *AuthorRepository) AddRating(authorID uint64, delta int) error {
	return r.DB.Model(&model.Author{}).
		Where("id = ?", authorID).
		UpdateColumn("rating", gorm.Expr("rating + ?", delta)).Error
}
