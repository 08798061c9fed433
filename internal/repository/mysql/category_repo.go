package mysql

import (
	"errors"

	"NewsPortal/internal/model"

	"gorm.io/gorm"
)

var ErrCategoryNameRequired = errors.New("category name required")

type CategoryRepository struct {
	DB *gorm.DB
}

func (r *CategoryRepository) Create(c *model.Category) error {
	if c.Name == "" {
		return ErrCategoryNameRequired
	}
	return r.DB.Create(c).Error
}

func (r *CategoryRepository) FindByID(id uint64) (*model.Category, error) {
	var category model.Category
	err := r.DB.First(&category, id).Error
	return &category, err
}

func (r *CategoryRepository) FindByName(name string) (*model.Category, error) {
	var category model.Category
	err := r.DB.Where("name = ?", name).First(&category).Error
	return &category, err
}

func (r *CategoryRepository) FindByIDs(ids []uint64) ([]model.Category, error) {
	var list []model.Category
	err := r.DB.Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *CategoryRepository) List() ([]model.Category, error) {
	var list []model.Category
	err := r.DB.Order("id asc").Find(&list).Error
	return list, err
}
