package handler

import (
	"net/http"

	"NewsPortal/internal/middleware"
	"NewsPortal/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthorHandler struct {
	svc *service.AuthorService
}

func NewAuthorHandler(svc *service.AuthorService) *AuthorHandler {
	return &AuthorHandler{svc: svc}
}

// Become 成为作者：角色与档案的幂等开通
func (h *AuthorHandler) Become(c *gin.Context) {
	userID := middleware.UserIDFromCtx(c)

	author, already, err := h.svc.BecomeAuthor(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "become author failed"})
		return
	}

	if already {
		c.JSON(http.StatusOK, gin.H{"msg": "you are already an author", "author_id": author.ID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "congratulations, you can now publish news and articles", "author_id": author.ID})
}

// Dashboard 作者工作台：今日发文、总数、剩余配额、近几篇
func (h *AuthorHandler) Dashboard(c *gin.Context) {
	userID := middleware.UserIDFromCtx(c)

	dash, err := h.svc.Dashboard(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "author profile not found"})
		return
	}

	c.JSON(http.StatusOK, dash)
}
