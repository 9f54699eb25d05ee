package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bekzhanizb/GreenVerseBackend/cache"
	"github.com/Bekzhanizb/GreenVerseBackend/config"
	"github.com/Bekzhanizb/GreenVerseBackend/db"
	"github.com/Bekzhanizb/GreenVerseBackend/handlers"
	"github.com/Bekzhanizb/GreenVerseBackend/routes"
	"github.com/Bekzhanizb/GreenVerseBackend/services"
	"github.com/Bekzhanizb/GreenVerseBackend/store"
	"github.com/Bekzhanizb/GreenVerseBackend/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	utils.InitLogger(cfg.LogFile)
	defer utils.Logger.Sync()
	utils.InitMetrics()
	utils.SetJWTSecret(cfg.JWTSecret)

	logger := utils.Logger
	logger.Info("starting_application",
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	conn, err := db.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("database_connection_failed", zap.Error(err))
	}
	if err := db.Migrate(conn); err != nil {
		logger.Fatal("migration_failed", zap.Error(err))
	}

	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := cache.InitRedis(ctx, cfg.Redis, logger); err != nil {
			logger.Warn("redis_disabled", zap.Error(err))
		}
		cancel()
	}
	defer cache.Close()

	s := store.New(conn)
	clock := services.SystemClock{}
	rnd := services.NewTimeSeededRandom()

	dispatcher := services.NewNotificationDispatcher(s, clock, logger, cfg.NotifyWorkers, cfg.NotifyQueue)
	minter := services.NewAchievementService(s, clock, rnd, dispatcher, logger)

	h := &handlers.Handler{
		UserService:     services.NewUserService(s, clock, logger),
		AnalyzerService: services.NewAnalyzerService(s, clock, rnd, dispatcher, logger),
		QuizService:     services.NewQuizService(s, minter, clock, rnd, logger),
		HistoryService:  services.NewHistoryService(s),
		DB:              s,
		TokenTTL:        cfg.TokenTTL,
		Clock:           clock,
	}

	gin.SetMode(cfg.GinMode)
	router := routes.NewRouter(cfg, h, s)

	startServer(cfg.Port, router, logger)

	dispatcher.Close()
	logger.Info("notification_dispatcher_stopped")
}

func startServer(port string, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("starting_http_server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down_server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_forced_shutdown", zap.Error(err))
	}

	logger.Info("server_stopped")
}
