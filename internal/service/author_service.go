package service

import (
	"context"
	"time"

	"NewsPortal/internal/model"
	"NewsPortal/internal/repository/mysql"
)

type AuthorService struct {
	repo     *mysql.AuthorRepository
	userRepo *mysql.UserRepository
	postRepo *mysql.PostRepository
}

// AuthorDashboard 作者工作台数据
type AuthorDashboard struct {
	Author     *model.Author `json:"author"`
	PostsToday int64         `json:"posts_today"`
	TotalPosts int64         `json:"total_posts"`
	Remaining  int64         `json:"news_remaining"`
	Recent     []model.Post  `json:"recent_posts"`
}

func NewAuthorService() *AuthorService {
	return &AuthorService{
		repo:     &mysql.AuthorRepository{DB: mysql.DB},
		userRepo: &mysql.UserRepository{DB: mysql.DB},
		postRepo: &mysql.PostRepository{DB: mysql.DB},
	}
}

// BecomeAuthor 幂等开通：保证角色到位、保证作者档案存在，重复调用无副作用
// already=true 表示早就是作者了
func (s *AuthorService) BecomeAuthor(ctx context.Context, userID uint64) (*model.Author, bool, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, false, err
	}
	already := user.IsAuthor()

	if err := s.userRepo.SetRole(userID, model.RoleAuthor); err != nil {
		return nil, false, err
	}
	author, err := s.repo.GetOrCreate(userID)
	if err != nil {
		return nil, false, err
	}
	return author, already, nil
}

func (s *AuthorService) FindByUserID(ctx context.Context, userID uint64) (*model.Author, error) {
	return s.repo.FindByUserID(userID)
}

// Dashboard 今日发文数、总数、剩余配额和近几篇
func (s *AuthorService) Dashboard(ctx context.Context, userID uint64) (*AuthorDashboard, error) {
	author, err := s.repo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	today, err := s.postRepo.CountNewsSince(ctx, author.ID, TodayStart(time.Now()))
	if err != nil {
		return nil, err
	}
	total, err := s.postRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	recent, err := s.postRepo.ListRecentByAuthor(ctx, author.ID, 5)
	if err != nil {
		return nil, err
	}

	remaining := int64(mysql.DailyNewsLimit) - today
	if remaining < 0 {
		remaining = 0
	}
	return &AuthorDashboard{
		Author:     author,
		PostsToday: today,
		TotalPosts: total,
		Remaining:  remaining,
		Recent:     recent,
	}, nil
}
