package middleware

import (
	"net/http"
	"strings"

	"NewsPortal/internal/model"
	"NewsPortal/internal/pkg"
	"NewsPortal/internal/repository/mysql"
	"NewsPortal/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const ContextUserIDKey = "user_id"

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			c.Abort()
			return
		}

		tokenStr := parts[1]
		userRep := &redis.UserRepository{}

		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			c.Abort()
			return
		}

		// redis校验是否是正确的token，单点登录
		originToken, err := userRep.GetUserToken(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Account has been logging elsewhere"})
			c.Abort()
			return
		}
		if originToken != tokenStr {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Account has been logging elsewhere"})
			c.Abort()
			return
		}

		// 校验通过后更新过期时间
		if err = userRep.ExtendUserToken(claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// RequireAuthor 守卫链第二环：只有作者能创建和编辑内容
// 角色从库里现读，刚开通的作者不用重新登录
func RequireAuthor() gin.HandlerFunc {
	return requireRole(model.RoleAuthor, "only authors can create and edit content")
}

// RequireStaff 后台操作守卫
func RequireStaff() gin.HandlerFunc {
	return requireRole(model.RoleStaff, "staff only")
}

func requireRole(minRole int, denyMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := UserIDFromCtx(c)
		if uid == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
			return
		}
		repo := &mysql.UserRepository{DB: mysql.DB}
		user, err := repo.FindByID(uid)
		if err != nil || user.Role < minRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": denyMsg})
			return
		}
		c.Next()
	}
}

func UserIDFromCtx(c *gin.Context) uint64 {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}
