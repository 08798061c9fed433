package handler

import (
	"errors"
	"net/http"

	"NewsPortal/internal/middleware"
	"NewsPortal/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc           *service.UserService
	activationSvc *service.ActivationService
}

// RegisterReq 注册请求体
type RegisterReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
}

// ResetReq 忘记密码请求体
type ResetReq struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func NewUserHandler(svc *service.UserService, activationSvc *service.ActivationService) *UserHandler {
	return &UserHandler{svc: svc, activationSvc: activationSvc}
}

// Register 注册接口，注册完账号处于未激活状态，激活邮件已发出
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.Register(c.Request.Context(), req.Username, req.Password, req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "registered, check your email to activate the account"})
}

// Login 登录接口，未激活账号拒绝登录
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	token, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrNotActivated) {
			c.JSON(http.StatusForbidden, gin.H{"msg": "account not activated, check your email"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"AccessToken": token.AccessToken, "RefreshToken": token.RefreshToken})
}

func (h *UserHandler) Logout(c *gin.Context) {
	userID := middleware.UserIDFromCtx(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	if err := h.svc.Logout(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// TokenRefresh 利用refresh来更新access
func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	token, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"AccessToken": token.AccessToken, "RefreshToken": token.RefreshToken})
}

// Activate 激活链接入口
func (h *UserHandler) Activate(c *gin.Context) {
	token := c.Param("token")

	result, user, err := h.activationSvc.Activate(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "activation failed"})
		return
	}

	switch result {
	case service.ActivationSuccess:
		c.JSON(http.StatusOK, gin.H{
			"status":   "success",
			"msg":      "account activated, you can log in now",
			"username": user.Username,
		})
	case service.ActivationAlreadyDone:
		c.JSON(http.StatusOK, gin.H{"status": "already_activated", "msg": "account was already activated"})
	case service.ActivationExpired:
		c.JSON(http.StatusGone, gin.H{"status": "expired", "msg": "activation link expired, request a new one"})
	default:
		c.JSON(http.StatusNotFound, gin.H{"status": "invalid", "msg": "invalid activation link"})
	}
}

// ResendActivation 重发激活邮件
func (h *UserHandler) ResendActivation(c *gin.Context) {
	userID := middleware.UserIDFromCtx(c)

	sent, err := h.activationSvc.Resend(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "resend failed"})
		return
	}
	if !sent {
		c.JSON(http.StatusOK, gin.H{"msg": "account already activated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "activation email sent"})
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "reset password successfully"})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	userID := middleware.UserIDFromCtx(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	if err := h.svc.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "change password successfully"})
}
