package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/bossbattle-api/internal/config"
	"github.com/yourusername/bossbattle-api/internal/gamification"
	"github.com/yourusername/bossbattle-api/internal/handler"
	"github.com/yourusername/bossbattle-api/internal/middleware"
	pgRepo "github.com/yourusername/bossbattle-api/internal/repository/postgres"
	redisCache "github.com/yourusername/bossbattle-api/internal/repository/redis"
	"github.com/yourusername/bossbattle-api/internal/service"
	ws "github.com/yourusername/bossbattle-api/internal/websocket"
	"github.com/yourusername/bossbattle-api/pkg/database"
)

func main() {
	// Загрузка конфигурации
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Подключение к базе данных PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Применение миграций
	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка закрытия соединения Redis: %v", err)
		}
	}()

	// Корневой контекст приложения, отменяется при завершении
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	// Инициализация репозиториев
	challengeRepo := pgRepo.NewChallengeRepo(db)
	participantRepo := pgRepo.NewParticipantRepo(db)
	assignedQuestionRepo := pgRepo.NewAssignedQuestionRepo(db)
	questionBankRepo := pgRepo.NewQuestionBankRepo(db)
	rewardGrantRepo := pgRepo.NewRewardGrantRepo(db)

	cacheRepo, err := redisCache.NewCacheRepo(redisClient)
	if err != nil {
		log.Fatalf("Failed to initialize cache repository: %v", err)
	}

	// WebSocket-хаб для трансляции событий битвы
	hub := ws.NewHub()
	go hub.Run(appCtx)

	// Клиент геймификационного леджера
	ledger := gamification.NewHTTPLedger(
		cfg.Ledger.BaseURL,
		time.Duration(cfg.Ledger.TimeoutSec)*time.Second,
	)

	// Инициализация сервисов
	enrollmentService := service.NewEnrollmentService(challengeRepo, participantRepo)
	answerService := service.NewAnswerService(
		assignedQuestionRepo,
		participantRepo,
		challengeRepo,
		questionBankRepo,
		cacheRepo,
		hub,
	)
	rewardService := service.NewRewardService(
		participantRepo,
		challengeRepo,
		rewardGrantRepo,
		ledger,
		cfg.Battle.CreditRetries,
	)
	challengeService := service.NewChallengeService(
		challengeRepo,
		participantRepo,
		cacheRepo,
		hub,
		time.Duration(cfg.Battle.StatusCacheTTLSec)*time.Second,
	)
	expiryService := service.NewExpiryService(
		challengeRepo,
		cacheRepo,
		hub,
		time.Duration(cfg.Battle.ExpirySweepSec)*time.Second,
	)
	go expiryService.Run(appCtx)

	// Инициализация обработчиков
	battleHandler := handler.NewBattleHandler(
		enrollmentService,
		answerService,
		rewardService,
		challengeService,
	)

	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)

	// Настройка маршрутизатора Gin
	router := gin.Default()

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Публичные маршруты
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWS(hub, c.Writer, c.Request)
	})

	api := router.Group("/api")
	{
		challenges := api.Group("/challenges")
		challenges.Use(authMiddleware.RequireAuth())
		{
			withChallengeID := challenges.Group("/:id")
			withChallengeID.Use(middleware.ExtractUintParam("id", "challengeID"))
			{
				withChallengeID.GET("/status", battleHandler.GetStatus)
				withChallengeID.POST("/enroll", battleHandler.Enroll)
				withChallengeID.GET("/participants", battleHandler.ListParticipants)

				admin := withChallengeID.Group("")
				admin.Use(authMiddleware.AdminOnly())
				{
					admin.POST("/activate", battleHandler.ActivateChallenge)
					admin.POST("/close", battleHandler.CloseChallenge)
					admin.GET("/participants/export", battleHandler.ExportParticipants)
				}
			}
		}

		participants := api.Group("/participants")
		participants.Use(authMiddleware.RequireAuth())
		{
			withParticipantID := participants.Group("/:id")
			withParticipantID.Use(middleware.ExtractUintParam("id", "participantID"))
			{
				withParticipantID.GET("/questions", battleHandler.ListQuestions)
				withParticipantID.POST("/answers", battleHandler.ResolveAnswer)
				withParticipantID.POST("/reward/claim", battleHandler.ClaimReward)
			}
		}
	}

	// Запуск HTTP-сервера
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Сервер запущен на порту %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Получен сигнал завершения, останавливаем сервер...")

	// Останавливаем фоновые горутины (планировщик, хаб)
	cancelApp()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Сервер остановлен")
}
