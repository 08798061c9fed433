package handler

import (
	"errors"
	"net/http"
	"strconv"

	"NewsPortal/internal/middleware"
	"NewsPortal/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	svc    *service.CategoryService
	subSvc *service.SubscriptionService
}

type CategoryCreateReq struct {
	Name string `json:"name" binding:"required"`
}

func NewCategoryHandler(svc *service.CategoryService, subSvc *service.SubscriptionService) *CategoryHandler {
	return &CategoryHandler{svc: svc, subSvc: subSvc}
}

// Create 建分类，staff 权限在路由上卡
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	category, err := h.svc.Create(req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": category.ID, "name": category.Name})
}

func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.svc.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Get 分类详情：订阅者数走缓存，登录用户带上是否已订阅
func (h *CategoryHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	category, err := h.svc.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "get failed"})
		return
	}

	count, err := h.subSvc.SubscriberCount(c.Request.Context(), id)
	if err != nil {
		count = 0
	}

	resp := gin.H{
		"id":                category.ID,
		"name":              category.Name,
		"subscribers_count": count,
	}
	if uid := middleware.UserIDFromCtx(c); uid != 0 {
		subscribed, err := h.subSvc.IsSubscribed(c.Request.Context(), uid, id)
		if err == nil {
			resp["is_subscribed"] = subscribed
		}
	}
	c.JSON(http.StatusOK, resp)
}
