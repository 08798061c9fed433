package router

import (
	"NewsPortal/internal/handler"
	"NewsPortal/internal/middleware"
	"NewsPortal/internal/service"

	"github.com/gin-gonic/gin"
)

func InitRouter(emailSvc *service.EmailService) *gin.Engine {
	r := gin.Default()

	activationSvc := service.NewActivationService(emailSvc)
	userSvc := service.NewUserService(emailSvc, activationSvc)
	subSvc := service.NewSubscriptionService()
	catSvc := service.NewCategoryService()
	notifier := service.NewNotificationService(emailSvc)
	postSvc := service.NewPostService(notifier)
	authorSvc := service.NewAuthorService()

	user := handler.NewUserHandler(userSvc, activationSvc)
	email := handler.NewEmailHandler(emailSvc)
	category := handler.NewCategoryHandler(catSvc, subSvc)
	sub := handler.NewSubscriptionHandler(subSvc)
	post := handler.NewPostHandler(postSvc)
	author := handler.NewAuthorHandler(authorSvc)

	// 邮件相关接口
	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/reset/code", email.SendResetCode)
	}

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/reset", user.ResetPassword)
		userGroup.GET("/activate/:token", user.Activate)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.POST("/change-password", user.ChangePassword)
		authGroup.POST("/resend-activation", user.ResendActivation)
		authGroup.POST("/become-author", author.Become)
		authGroup.GET("/dashboard", middleware.RequireAuthor(), author.Dashboard)
	}

	// 分类与订阅接口
	categoryGroup := r.Group("/api/category")
	{
		categoryGroup.GET("/list", category.List)
		categoryGroup.GET("/:id", category.Get)
		categoryGroup.GET("/:id/posts", post.ListByCategory)
	}
	categoryAuth := r.Group("/api/category")
	categoryAuth.Use(middleware.AuthMiddleware())
	{
		categoryAuth.POST("/create", middleware.RequireStaff(), category.Create)
		categoryAuth.POST("/:id/subscribe", sub.Subscribe)
		categoryAuth.POST("/:id/unsubscribe", sub.Unsubscribe)
	}

	subGroup := r.Group("/api/subscriptions")
	subGroup.Use(middleware.AuthMiddleware())
	{
		subGroup.GET("/my", sub.MySubscriptions)
	}

	// 帖子接口：读公开，写要求作者身份
	postGroup := r.Group("/api/post")
	{
		postGroup.GET("/news", post.ListNews)
		postGroup.GET("/articles", post.ListArticles)
		postGroup.GET("/search", post.Search)
		postGroup.GET("/:id", post.GetPost)
	}
	postUser := r.Group("/api/post")
	postUser.Use(middleware.AuthMiddleware())
	{
		postUser.POST("/:id/like", post.Like)
		postUser.POST("/:id/dislike", post.Dislike)
	}
	postAuth := r.Group("/api/post")
	postAuth.Use(middleware.AuthMiddleware(), middleware.RequireAuthor())
	{
		postAuth.POST("/news", post.CreateNews)
		postAuth.POST("/articles", post.CreateArticle)
		postAuth.PUT("/:id", post.UpdatePost)
		postAuth.DELETE("/:id", post.DeletePost)
	}

	return r
}
