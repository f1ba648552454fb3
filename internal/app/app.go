package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "freeland/docs"
	controller "freeland/internal/controller/http"
	"freeland/internal/realtime"
	"freeland/internal/repo/persistent"
	"freeland/internal/usecase"
	"freeland/pkg/cache"
	"freeland/pkg/config"
	"freeland/pkg/database"
	"freeland/pkg/jwt"
	"freeland/pkg/logger"
	"freeland/pkg/middleware"
	"freeland/pkg/queue"
	"freeland/pkg/s3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Run wires the service together and blocks until shutdown.
func Run(cfg *config.Config) error {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, rate limiting and caching disabled: %v", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, trade events disabled: %v", err)
		queueClient = nil
	} else {
		defer queueClient.Close()
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Warn("S3 unavailable, avatar uploads disabled: %v", err)
		s3Client = nil
	}

	jwtService := jwt.NewService(cfg.JWTSecret)
	hub := realtime.NewHub(log)

	userRepo := persistent.NewUserRepository(db)
	economyRepo := persistent.NewEconomyRepository(db)
	transferRepo := persistent.NewTransferRepository(db)
	queryRepo := persistent.NewQueryRepository(db)

	// One mutex serializes every economic action and transfer tick.
	engineMu := &sync.Mutex{}
	simulator := usecase.NewTransferSimulator(transferRepo, hub, log, cfg.TransferTickInterval, engineMu)
	economyUseCase := usecase.NewEconomyUseCase(economyRepo, hub, simulator, queueClient, log, usecase.EconomyParams{
		DMAccessPrice:    cfg.DMAccessPrice,
		DMAccessDuration: cfg.DMAccessDuration,
		DailyClaimAmount: cfg.DailyClaimAmount,
	}, engineMu)
	authUseCase := usecase.NewAuthUseCase(userRepo, jwtService, s3Client, log)
	queryUseCase := usecase.NewQueryUseCase(queryRepo, userRepo, redisClient, log)

	if err := simulator.ResumePending(); err != nil {
		log.Warn("Failed to resume pending transfers: %v", err)
	}

	authHandler := controller.NewAuthHandler(authUseCase, economyUseCase, log)
	queryHandler := controller.NewQueryHandler(queryUseCase, jwtService, log)
	liveHandler := controller.NewLiveHandler(hub, economyUseCase, jwtService, log)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/ws", liveHandler.Serve)

	api := router.Group("/api/v1")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.GET("/feed", queryHandler.Feed)
		api.GET("/leaderboard", queryHandler.Leaderboard)
		api.GET("/users/:username", queryHandler.UserByUsername)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		if redisClient != nil {
			protected.Use(middleware.RateLimitMiddleware(redisClient, 60, time.Minute))
		}
		{
			protected.GET("/me", authHandler.Me)
			protected.GET("/stats", queryHandler.Stats)
			protected.GET("/portfolio", queryHandler.Portfolio)
			protected.GET("/messages/:user_id", queryHandler.Messages)
			protected.POST("/claim", authHandler.ClaimDaily)
			protected.POST("/avatar", authHandler.UploadAvatar)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Info("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
