package service

import (
	"context"
	"errors"
	"log"

	"NewsPortal/internal/model"
	"NewsPortal/internal/pkg"
	"NewsPortal/internal/repository/mysql"

	"gorm.io/gorm"
)

type ActivationResult int

const (
	ActivationSuccess ActivationResult = iota
	ActivationAlreadyDone
	ActivationExpired
	ActivationInvalid
)

type ActivationService struct {
	repo     *mysql.ActivationRepository
	userRepo *mysql.UserRepository
	emailSvc *EmailService
}

func NewActivationService(emailSvc *EmailService) *ActivationService {
	return &ActivationService{
		repo:     &mysql.ActivationRepository{DB: mysql.DB},
		userRepo: &mysql.UserRepository{DB: mysql.DB},
		emailSvc: emailSvc,
	}
}

// Issue 签发新令牌并发送激活邮件
// 发送失败只记日志，令牌已落库，用户可以走重发
func (s *ActivationService) Issue(ctx context.Context, user *model.User) (*model.ActivationToken, error) {
	raw, err := pkg.RandToken(32)
	if err != nil {
		return nil, err
	}
	token := &model.ActivationToken{UserID: user.ID, Token: raw}
	if err := s.repo.Create(ctx, token); err != nil {
		return nil, err
	}
	if err := s.emailSvc.SendActivation(user, token); err != nil {
		log.Printf("activation mail err: user=%d err=%v", user.ID, err)
	}
	return token, nil
}

// Activate 令牌状态机：PENDING->ACTIVATED 终态，过期是派生状态
// 成功时令牌标志与用户激活标志在同一事务里翻转
func (s *ActivationService) Activate(ctx context.Context, tokenStr string) (ActivationResult, *model.User, error) {
	token, err := s.repo.FindByToken(ctx, tokenStr)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ActivationInvalid, nil, nil
	}
	if err != nil {
		return ActivationInvalid, nil, err
	}

	if token.Activated {
		return ActivationAlreadyDone, nil, nil
	}
	if token.IsExpired() {
		return ActivationExpired, nil, nil
	}

	flipped, err := s.repo.Activate(ctx, token.ID, token.UserID)
	if err != nil {
		return ActivationInvalid, nil, err
	}
	if !flipped {
		// 并发激活时另一个请求先翻了标志
		return ActivationAlreadyDone, nil, nil
	}

	user, err := s.userRepo.FindByID(token.UserID)
	if err != nil {
		return ActivationSuccess, nil, err
	}
	log.Printf("account activated: user=%s", user.Username)
	return ActivationSuccess, user, nil
}

// Resend 重发激活邮件
// 已激活 -> 不发，提示即可；过期 -> 换新令牌再发；有效 -> 原令牌重发；没有 -> 新建再发
func (s *ActivationService) Resend(ctx context.Context, userID uint64) (sent bool, err error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return false, err
	}

	token, err := s.repo.FindByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_, err = s.Issue(ctx, user)
		return err == nil, err
	}
	if err != nil {
		return false, err
	}

	switch {
	case token.Activated:
		return false, nil
	case token.IsExpired():
		raw, err := pkg.RandToken(32)
		if err != nil {
			return false, err
		}
		fresh := &model.ActivationToken{UserID: userID, Token: raw}
		if err := s.repo.Replace(ctx, token, fresh); err != nil {
			return false, err
		}
		return true, s.emailSvc.SendActivation(user, fresh)
	default:
		return true, s.emailSvc.SendActivation(user, token)
	}
}
