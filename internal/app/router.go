package app

import (
	"nexus_academy_backend/docs"
	"nexus_academy_backend/internal/config"
	"nexus_academy_backend/internal/middleware"
	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Check)

	// Public routes.
	api := router.Group("/api")
	{
		api.POST("/register", c.auth.Register)
		api.POST("/login", c.auth.Login)
	}

	// Authenticated student routes.
	authed := router.Group("/api")
	authed.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(s.student))
	{
		authed.GET("/me/dashboard", c.student.Dashboard)
		authed.GET("/me/stats", c.student.Stats)
		authed.GET("/me/xp", c.student.Ledger)
		authed.GET("/me/mastery", c.student.Mastery)
		authed.GET("/me/promotion", c.student.Promotion)
		authed.GET("/me/activity", c.student.Activity)
		authed.GET("/me/streak", c.auth.Streak)
		authed.GET("/me/submissions", c.ticket.MySubmissions)

		authed.GET("/quizzes", c.quiz.List)
		authed.GET("/quizzes/:id", c.quiz.Get)
		authed.POST("/quizzes/:id/submit", c.quiz.Submit)
		authed.GET("/quizzes/:id/attempt", c.quiz.MyAttempt)

		authed.GET("/tickets", c.ticket.List)
		authed.GET("/tickets/:id", c.ticket.Get)
		authed.POST("/tickets/:id/submit", c.ticket.Submit)
		authed.GET("/tickets/:id/submission", c.ticket.MySubmission)
		authed.POST("/tickets/:id/evidence", c.evidence.Upload)
		authed.GET("/evidence/:id", c.evidence.Download)

		authed.GET("/leaderboard", c.leaderboard.Top)
		authed.GET("/leaderboard/weekly", c.leaderboard.WeeklyLeads)

		authed.GET("/modules", c.learning.Modules)
		authed.GET("/modules/:id", c.learning.GetModule)
	}

	// Admin routes.
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.POST("/quizzes", c.admin.CreateQuiz)
		admin.POST("/tickets", c.admin.CreateTicket)
		admin.POST("/modules", c.admin.CreateModule)
		admin.POST("/lessons", c.admin.CreateLesson)
		admin.POST("/lessons/:id/video", c.learning.UploadVideo)

		admin.GET("/review-queue", c.admin.ReviewQueue)
		admin.POST("/submissions/:id/verify", c.admin.Verify)
		admin.POST("/submissions/:id/reject", c.admin.Reject)
		admin.POST("/submissions/:id/override", c.admin.Override)
		admin.POST("/evidence/:id/flag", c.evidence.Flag)

		admin.GET("/students", c.admin.Students)
		admin.GET("/students/:id/promotion", c.admin.StudentPromotion)
		admin.POST("/students/:id/promote", c.admin.Promote)
		admin.POST("/students/:id/rebuild-mastery", c.admin.RebuildMastery)
		admin.POST("/students/:id/reconcile-xp", c.admin.ReconcileXP)

		admin.GET("/roles", c.admin.Roles)
		admin.POST("/roles", c.admin.CreateRole)
		admin.POST("/gates", c.admin.CreateGate)

		admin.GET("/activity", c.admin.Feed)
		admin.POST("/weekly-leads/recompute", c.admin.RecomputeWeeklyLeads)
	}
}
