package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lanexam/backend/internal/config"
	"github.com/lanexam/backend/internal/handler"
	"github.com/lanexam/backend/internal/middleware"
	"github.com/lanexam/backend/internal/response"
	"github.com/lanexam/backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Session *handler.SessionHandler
	Student *handler.StudentHandler
	Exam    *handler.ExamHandler
	Result  *handler.ResultHandler
	Report  *handler.ReportHandler
	Class   *handler.ClassHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// Restrict to the configured origins when set, otherwise allow all so
	// dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Every response carries request metadata.
	router.Use(response.RequestID())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	// ─── 0. Realtime stream ────────────────────────────────────────────
	router.GET("/ws", handlers.WS.Stream)

	// ─── 1. Auth (rate limited) ────────────────────────────────────────
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		auth.GET("/me", middleware.RequireTeacherJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Public (student clients, no auth) ──────────────────────────
	public := router.Group("/api/v1")
	{
		public.GET("/session", handlers.Session.Get)
		public.GET("/settings", handlers.Session.PublicSettings)

		public.GET("/students", handlers.Student.List)
		public.POST("/students/claim", handlers.Student.Claim)
		public.POST("/students/release", handlers.Student.Release)
		public.GET("/students/:stt/submitted", handlers.Student.CheckSubmitted)

		public.GET("/exam", handlers.Exam.Paper)
		public.POST("/exam/check-answer", handlers.Exam.CheckAnswer)
		public.GET("/exam/password-required", handlers.Exam.PasswordRequired)
		public.POST("/exam/verify-password", handlers.Exam.VerifyPassword)

		public.POST("/submit", handlers.Result.Submit)
		public.POST("/reports", handlers.Report.File)
	}

	// ─── 3. Teacher (JWT) ──────────────────────────────────────────────
	teacher := router.Group("/api/v1/teacher")
	teacher.Use(middleware.RequireTeacherJWT(authService))
	{
		teacher.POST("/session", handlers.Session.Switch)
		teacher.PUT("/settings", handlers.Session.UpdateSettings)
		teacher.POST("/exam/open", handlers.Session.Open)
		teacher.POST("/exam/close", handlers.Session.Close)

		teacher.GET("/classes", handlers.Class.List)
		teacher.POST("/classes", handlers.Class.Create)
		teacher.DELETE("/classes/:id", handlers.Class.Delete)
		teacher.GET("/classes/:id/students", handlers.Class.Roster)
		teacher.POST("/classes/:id/students", handlers.Class.ImportRoster)

		teacher.GET("/exams", handlers.Exam.List)
		teacher.POST("/exams", handlers.Exam.Create)
		teacher.POST("/exams/save-as", handlers.Exam.SaveCurrentAs)
		teacher.GET("/exams/:id", handlers.Exam.Get)
		teacher.DELETE("/exams/:id", handlers.Exam.Delete)

		teacher.GET("/questions", handlers.Exam.Questions)
		teacher.PUT("/questions", handlers.Exam.ReplaceQuestions)
		teacher.POST("/questions", handlers.Exam.AddQuestion)
		teacher.PUT("/questions/:index", handlers.Exam.UpdateQuestion)
		teacher.DELETE("/questions/:index", handlers.Exam.DeleteQuestion)

		teacher.GET("/results", handlers.Result.List)
		teacher.DELETE("/results", handlers.Result.Clear)
		teacher.GET("/results/export", handlers.Result.Export)
		teacher.GET("/results/summary", handlers.Result.Summary)

		teacher.GET("/reports", handlers.Report.List)
		teacher.POST("/reports/approve", handlers.Report.Approve)
		teacher.POST("/reports/reject", handlers.Report.Reject)

		teacher.POST("/students/allow-retry", handlers.Student.AllowRetry)
		teacher.POST("/students/reset", handlers.Student.ResetAll)
	}

	// Unknown API routes get the envelope too.
	router.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, response.ErrNotFound)
	})

	return router
}
