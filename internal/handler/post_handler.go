package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"NewsPortal/internal/middleware"
	"NewsPortal/internal/model"
	"NewsPortal/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

type CreatePostReq struct {
	Title       string   `json:"title" binding:"required"`
	Content     string   `json:"content"`
	CategoryIDs []uint64 `json:"category_ids"`
}

type UpdatePostReq struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// CreateNews 新闻创建接口：入口写死 news 类型，超配额直接拒绝
func (h *PostHandler) CreateNews(c *gin.Context) {
	userID := middleware.UserIDFromCtx(c)

	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	post, report, err := h.svc.CreateNews(c.Request.Context(), userID, req.Title, req.Content, req.CategoryIDs)
	if err != nil {
		if errors.Is(err, service.ErrQuotaExceeded) {
			c.JSON(http.StatusTooManyRequests, gin.H{"msg": "daily news limit reached (3 per day), try again tomorrow"})
			return
		}
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "category not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": post.ID, "notify": report})
}

// CreateArticle 文章创建接口：入口写死 article 类型
func (h *PostHandler) CreateArticle(c *gin.Context) {
	userID := middleware.UserIDFromCtx(c)

	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	post, err := h.svc.CreateArticle(c.Request.Context(), userID, req.Title, req.Content, req.CategoryIDs)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "category not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": post.ID})
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	post, err := h.svc.GetPost(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "get failed"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListNews 新闻列表
func (h *PostHandler) ListNews(c *gin.Context) {
	h.listByType(c, model.PostNews)
}

// ListArticles 文章列表
func (h *PostHandler) ListArticles(c *gin.Context) {
	h.listByType(c, model.PostArticle)
}

func (h *PostHandler) listByType(c *gin.Context, postType string) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListByType(postType, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "page": page, "size": size})
}

// Search 搜索接口：title/author 模糊匹配，created_after 是 unix 秒
func (h *PostHandler) Search(c *gin.Context) {
	title := c.Query("title")
	author := c.Query("author")

	var createdAfter time.Time
	if v := c.Query("created_after"); v != "" {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid created_after"})
			return
		}
		createdAfter = time.Unix(ts, 0)
	}
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.Search(c.Request.Context(), title, author, createdAfter, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "total": len(list)})
}

// Like 点赞，帖子和作者评分各 +1
func (h *PostHandler) Like(c *gin.Context) {
	h.rate(c, 1)
}

// Dislike 点踩
func (h *PostHandler) Dislike(c *gin.Context) {
	h.rate(c, -1)
}

func (h *PostHandler) rate(c *gin.Context, delta int) {
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	post, err := h.svc.Rate(c.Request.Context(), postID, delta)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "rate failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": post.ID, "rating": post.Rating})
}

// ListByCategory 分类页帖子列表，游标分页
func (h *PostHandler) ListByCategory(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || categoryID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid category id"})
		return
	}

	var lastID uint64
	var lastTS time.Time
	if v := c.Query("last_id"); v != "" {
		lastID, _ = strconv.ParseUint(v, 10, 64)
	}
	if v := c.Query("last_created_at"); v != "" {
		if ts, e := strconv.ParseInt(v, 10, 64); e == nil {
			lastTS = time.Unix(ts, 0)
		}
	}
	size, _ := strconv.Atoi(c.Query("size"))

	list, nextID, nextTS, err := h.svc.ListByCategoryCursor(categoryID, lastID, lastTS, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}

	resp := gin.H{"list": list, "next_last_id": nextID}
	if !nextTS.IsZero() {
		resp["next_created_at"] = nextTS.Unix()
	}
	c.JSON(http.StatusOK, resp)
}

// UpdatePost 只有归属作者或 staff 能编辑
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID := middleware.UserIDFromCtx(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req UpdatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.UpdatePost(c.Request.Context(), userID, postID, req.Title, req.Content); err != nil {
		h.writeMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "updated"})
}

// DeletePost 同样的归属检查
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID := middleware.UserIDFromCtx(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.DeletePost(c.Request.Context(), userID, postID); err != nil {
		h.writeMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}

func (h *PostHandler) writeMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "post not found"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"msg": "you can only edit your own content"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	}
}
