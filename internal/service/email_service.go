package service

import (
	"fmt"

	"NewsPortal/internal/model"
	"NewsPortal/internal/pkg"
	"NewsPortal/internal/repository/redis"
)

// Sender 邮件发送边界，测试时换成记录用的假实现
type Sender func(to, subject, htmlBody string) error

// SMTPSender 默认实现，走 gomail
func SMTPSender(cfg pkg.SMTPConfig) Sender {
	return func(to, subject, htmlBody string) error {
		return pkg.SendEmail(cfg, to, subject, htmlBody)
	}
}

type EmailService struct {
	siteURL string
	send    Sender
	rds     *redis.ResetCodeRepository
}

func NewEmailService(cfg pkg.SMTPConfig, siteURL string) *EmailService {
	return &EmailService{
		siteURL: siteURL,
		send:    SMTPSender(cfg),
		rds:     &redis.ResetCodeRepository{},
	}
}

// SendActivation 激活邮件，链接带令牌
func (s *EmailService) SendActivation(user *model.User, token *model.ActivationToken) error {
	url := fmt.Sprintf("%s/activate/%s", s.siteURL, token.Token)
	html := pkg.ActivationHTML(user.Username, url)
	return s.send(user.Email, "Activate your NewsPortal account", html)
}

// SendResetCode 发送重置密码验证码
// 先写 pending 键，邮件发出后再转 confirmed，发送失败不会留下可用验证码
func (s *EmailService) SendResetCode(email string) error {
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}

	if err = s.rds.SetPending(email, code); err != nil {
		return err
	}

	html := pkg.EmailCodeHTML("password reset", code, redis.DefaultResetCodeTTL)
	if err = s.send(email, "Password reset code", html); err != nil {
		return err
	}

	if err = s.rds.Confirm(email); err != nil {
		_ = s.rds.DeletePending(email)
		return err
	}

	return nil
}

// VerifyResetCode 校验验证码并一次性删除
func (s *EmailService) VerifyResetCode(email, code string) (bool, error) {
	val, err := s.rds.GetConfirmed(email)
	if err != nil {
		// 不存在或已过期
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err = s.rds.DeleteConfirmed(email); err != nil {
		return false, err
	}
	return true, nil
}

// Sender 暴露给通知和摘要服务复用同一条发送通道
func (s *EmailService) Sender() Sender { return s.send }

// SetSender 测试注入
func (s *EmailService) SetSender(fn Sender) { s.send = fn }

// PostURL 帖子详情页链接
func (s *EmailService) PostURL(postID uint64) string {
	return fmt.Sprintf("%s/news/%d", s.siteURL, postID)
}
