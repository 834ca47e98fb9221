package app

import (
	"stackit_backend/docs"
	"stackit_backend/internal/config"
	"stackit_backend/internal/middleware"
	"stackit_backend/internal/model"
	"stackit_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	auth := middleware.AuthMiddleware(cfg, repos.user)
	tryAuth := middleware.TryAuthMiddleware(cfg, repos.user)
	activity := middleware.ActivityMiddleware(repos.user)

	api := router.Group("/api")

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(api, c, tryAuth)

	// 2. 需要登录的路由
	authGroup := api.Group("")
	authGroup.Use(auth, activity)
	a.registerMemberRoutes(authGroup, c)

	// 3. 管理路由
	a.registerAdminRoutes(api, c, auth, activity)
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers, tryAuth gin.HandlerFunc) {
	api.GET("/health", c.health.HealthCheck)

	api.POST("/register", c.auth.Register)
	api.POST("/login", c.auth.Login)

	api.GET("/tags", c.tag.ListTags)
	api.GET("/tags/popular", c.tag.PopularTags)

	api.GET("/questions", c.question.ListQuestions)
	api.GET("/questions/search", c.question.SearchQuestions)
	api.GET("/questions/:id", c.question.GetQuestion)
	api.GET("/questions/:id/answers", c.answer.ListAnswers)
	api.GET("/answers/:answerId/comments", c.comment.ListComments)

	// 本人或管理员可见完整资料
	api.GET("/users/:id", tryAuth, c.user.GetUser)
	api.GET("/users/:id/questions", c.user.GetUserQuestions)
	api.GET("/users/:id/answers", c.user.GetUserAnswers)
}

func (a *App) registerMemberRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.auth.GetProfile)
	group.PUT("/users/:id", c.user.UpdateUser)
	group.DELETE("/users/:id", c.user.DeleteUser)
	group.POST("/users/me/avatar", c.user.UploadAvatar)

	group.POST("/questions", c.question.CreateQuestion)
	group.PUT("/questions/:id", c.question.UpdateQuestion)
	group.DELETE("/questions/:id", c.question.DeleteQuestion)
	group.POST("/questions/:id/vote", c.question.VoteQuestion)

	group.POST("/questions/:id/answers", c.answer.CreateAnswer)
	group.PUT("/questions/:id/answers/:answerId", c.answer.UpdateAnswer)
	group.DELETE("/questions/:id/answers/:answerId", c.answer.DeleteAnswer)
	group.POST("/questions/:id/answers/:answerId/accept", c.answer.AcceptAnswer)
	group.POST("/questions/:id/answers/:answerId/unaccept", c.answer.UnacceptAnswer)
	group.POST("/answers/:answerId/vote", c.answer.VoteAnswer)

	group.POST("/answers/:answerId/comments", c.comment.CreateComment)
	group.PUT("/comments/:id", c.comment.UpdateComment)
	group.DELETE("/comments/:id", c.comment.DeleteComment)

	notifications := group.Group("/notifications")
	{
		notifications.GET("", c.notification.ListNotifications)
		notifications.GET("/unread-count", c.notification.UnreadCount)
		notifications.PUT("/read-all", c.notification.MarkAllRead)
		notifications.PUT("/:id/read", c.notification.MarkRead)
		notifications.DELETE("/:id", c.notification.DeleteNotification)
		notifications.GET("/ws", c.notification.WebSocket)
	}
}

func (a *App) registerAdminRoutes(api *gin.RouterGroup, c *controllers, auth, activity gin.HandlerFunc) {
	admin := api.Group("/admin")
	admin.Use(auth, activity)
	{
		// 1. 版主和管理员都可以访问
		moderation := admin.Group("")
		moderation.Use(middleware.RoleMiddleware(model.Moderator))
		{
			moderation.POST("/moderate-content", c.admin.Moderate)
			moderation.GET("/moderation-dashboard", c.admin.Dashboard)
			moderation.GET("/stats", c.admin.Stats)
			moderation.GET("/reports", c.admin.Reports)
			moderation.GET("/users", c.admin.ListUsers)
		}

		// 2. 其他所有接口：仅限管理员访问
		adminOnly := admin.Group("")
		adminOnly.Use(middleware.RoleMiddleware(model.Admin))
		{
			adminOnly.POST("/users/:id/ban", c.admin.BanUser)
			adminOnly.POST("/users/:id/unban", c.admin.UnbanUser)
			adminOnly.PUT("/users/:id/role", c.admin.SetRole)
			adminOnly.POST("/broadcast", c.admin.Broadcast)
		}
	}

	// 标签维护与公开的标签查询共用 /api/tags 路径，仅限管理员
	tags := api.Group("/tags")
	tags.Use(auth, activity, middleware.RoleMiddleware(model.Admin))
	{
		tags.POST("", c.tag.CreateTag)
		tags.PUT("/:id", c.tag.UpdateTag)
	}
}
