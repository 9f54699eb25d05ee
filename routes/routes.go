package routes

import (
	"time"

	"github.com/Bekzhanizb/GreenVerseBackend/config"
	"github.com/Bekzhanizb/GreenVerseBackend/handlers"
	"github.com/Bekzhanizb/GreenVerseBackend/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the engine with the middleware stack and every route.
func NewRouter(cfg config.Config, h *handlers.Handler, users middleware.UserLoader) *gin.Engine {
	middleware.RegisterValidators()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Content-Length", "X-CSRF-Token", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/api")
	public.Use(middleware.RateLimitMiddleware(cfg.RateLimit, cfg.RateWindow))
	{
		public.POST("/register", h.Register)
		public.POST("/login", h.Login)
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(users))
	if cfg.CSRFAuthKey != "" {
		api.Use(middleware.CSRFProtection([]byte(cfg.CSRFAuthKey), cfg.GinMode == gin.ReleaseMode))
	}
	cached := middleware.CacheMiddleware(cfg.CacheTTL)
	{
		api.GET("/profile", h.Profile)

		api.POST("/plant/analyze", h.Analyze)
		api.GET("/plant/history", cached, h.History)
		api.GET("/plant/history/:id", cached, h.Report)

		api.POST("/quiz/start", h.StartQuiz)
		api.GET("/quiz/stats", cached, h.QuizStats)
		api.GET("/quiz/leaderboard", h.Leaderboard)
		api.GET("/quiz/:session", h.QuizSession)
		api.POST("/quiz/:session/answer", h.AnswerQuiz)
		api.POST("/quiz/:session/submit", h.SubmitQuiz)

		api.GET("/achievements", cached, h.Achievements)
		api.POST("/achievements/repair", h.RepairAchievements)

		api.GET("/notifications", h.Notifications)
		api.POST("/notifications/:id/read", h.MarkNotificationRead)
	}

	return r
}
