package service

import (
	"context"
	"errors"

	"NewsPortal/internal/model"
	"NewsPortal/internal/pkg"
	"NewsPortal/internal/repository/mysql"
	"NewsPortal/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
)

var ErrNotActivated = errors.New("account not activated")

type UserService struct {
	repo          *mysql.UserRepository
	rUser         *redis.UserRepository
	emailSvc      *EmailService
	activationSvc *ActivationService
}

func NewUserService(emailSvc *EmailService, activationSvc *ActivationService) *UserService {
	return &UserService{
		repo:          &mysql.UserRepository{DB: mysql.DB},
		rUser:         &redis.UserRepository{},
		emailSvc:      emailSvc,
		activationSvc: activationSvc,
	}
}

// Register 注册即签发激活令牌并发激活邮件
// 账号建出来是未激活状态，激活前不能登录
func (s *UserService) Register(ctx context.Context, username, password, email string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
		Role:     model.RoleReader,
		Active:   false,
	}
	if err := s.repo.Create(user); err != nil {
		return err
	}

	_, err = s.activationSvc.Issue(ctx, user)
	return err
}

func (s *UserService) Login(username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, errors.New("invalid password")
	}
	if !user.Active {
		return nil, ErrNotActivated
	}

	token, err := pkg.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	// 将token写入redis，单点登录
	if err = s.rUser.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.rUser.DeleteUserToken(usrID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// ResetPassword 用邮箱验证码重置密码
func (s *UserService) ResetPassword(email, code, newPassword string) error {
	ok, err := s.emailSvc.VerifyResetCode(email, code)
	if err != nil || !ok {
		return errors.New("verification failed")
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(user, string(hash))
}

// ChangePassword 登录态修改密码，改完踢掉当前会话
func (s *UserService) ChangePassword(usrId uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrId)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return errors.New("old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err = s.repo.UpdatePassword(user, string(hash)); err != nil {
		return err
	}
	return s.Logout(usrId)
}

func (s *UserService) FindByID(id uint64) (*model.User, error) {
	return s.repo.FindByID(id)
}
