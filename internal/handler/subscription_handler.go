package handler

import (
	"errors"
	"net/http"
	"strconv"

	"NewsPortal/internal/middleware"
	"NewsPortal/internal/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	svc *service.SubscriptionService
}

func NewSubscriptionHandler(svc *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// Subscribe 订阅分类，重复订阅不是错误
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID := middleware.UserIDFromCtx(c)
	categoryID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	_, created, err := h.svc.Subscribe(c.Request.Context(), userID, categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}

	if created {
		c.JSON(http.StatusOK, gin.H{"created": true, "msg": "subscribed, you will receive notifications and weekly digests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": false, "msg": "already subscribed to this category"})
}

// Unsubscribe 取消订阅，deleted=0 表示本来就没订阅
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	userID := middleware.UserIDFromCtx(c)
	categoryID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	deleted, err := h.svc.Unsubscribe(c.Request.Context(), userID, categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}

	if deleted > 0 {
		c.JSON(http.StatusOK, gin.H{"deleted": deleted, "msg": "unsubscribed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": 0, "msg": "you were not subscribed to this category"})
}

// MySubscriptions 我的订阅列表
func (h *SubscriptionHandler) MySubscriptions(c *gin.Context) {
	userID := middleware.UserIDFromCtx(c)

	subs, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}

	type item struct {
		CategoryID   uint64 `json:"category_id"`
		CategoryName string `json:"category_name"`
		SubscribedAt string `json:"subscribed_at"`
	}
	list := make([]item, 0, len(subs))
	for _, s := range subs {
		list = append(list, item{
			CategoryID:   s.CategoryID,
			CategoryName: s.Category.Name,
			SubscribedAt: s.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"list": list, "total": len(list)})
}
