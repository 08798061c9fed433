package service

import (
	"errors"

	"NewsPortal/internal/model"
	"NewsPortal/internal/repository/mysql"

	"gorm.io/gorm"
)

type CategoryService struct {
	repo *mysql.CategoryRepository
}

func NewCategoryService() *CategoryService {
	return &CategoryService{
		repo: &mysql.CategoryRepository{DB: mysql.DB},
	}
}

func (s *CategoryService) Create(name string) (*model.Category, error) {
	category := &model.Category{Name: name}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List() ([]model.Category, error) {
	return s.repo.List()
}

func (s *CategoryService) Get(id uint64) (*model.Category, error) {
	category, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	return category, err
}
