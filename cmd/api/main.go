package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/codereview-api/internal/config"
	"github.com/yourusername/codereview-api/internal/handler"
	"github.com/yourusername/codereview-api/internal/middleware"
	pgRepo "github.com/yourusername/codereview-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/codereview-api/internal/repository/redis"
	"github.com/yourusername/codereview-api/internal/service"
	ws "github.com/yourusername/codereview-api/internal/websocket"
	"github.com/yourusername/codereview-api/pkg/auth"
	"github.com/yourusername/codereview-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	taskRepo := pgRepo.NewTaskRepo(db)
	solutionRepo := pgRepo.NewSolutionRepo(db)
	reviewRepo := pgRepo.NewReviewRepo(db)
	appealRepo := pgRepo.NewAppealRepo(db)
	notificationRepo := pgRepo.NewNotificationRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs, cfg.JWT.WSTicketExpirySec)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем WebSocket
	wsHub := ws.NewHub()
	go wsHub.Run()
	wsManager := ws.NewManager(wsHub)

	// Инициализируем внешние клиенты
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, errEmail := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if errEmail != nil {
			log.Printf("Email notifications disabled: %v", errEmail)
		} else {
			emailService = resendService
			log.Println("Resend email service initialized")
		}
	}

	var judgeService service.JudgeService = &service.NoopJudgeService{}
	if cfg.Judge.Enabled {
		httpJudge, errJudge := service.NewHTTPJudgeService(
			cfg.Judge.ChallengeURL,
			cfg.Judge.JudgmentURL,
			time.Duration(cfg.Judge.RequestTimeoutMs)*time.Millisecond,
		)
		if errJudge != nil {
			log.Printf("External judge disabled: %v", errJudge)
		} else {
			judgeService = httpJudge
			log.Println("External judge service initialized")
		}
	}

	// Инициализируем сервисы
	notificationService, err := service.NewNotificationService(notificationRepo, wsManager)
	if err != nil {
		log.Printf("Failed to initialize NotificationService: %v", err)
		os.Exit(1)
	}

	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}

	userService, err := service.NewUserService(userRepo)
	if err != nil {
		log.Printf("Failed to initialize UserService: %v", err)
		os.Exit(1)
	}

	taskService, err := service.NewTaskService(taskRepo)
	if err != nil {
		log.Printf("Failed to initialize TaskService: %v", err)
		os.Exit(1)
	}

	solutionService, err := service.NewSolutionService(solutionRepo, taskRepo)
	if err != nil {
		log.Printf("Failed to initialize SolutionService: %v", err)
		os.Exit(1)
	}

	reviewService, err := service.NewReviewService(reviewRepo, solutionRepo, userRepo, taskRepo, notificationService, wsManager, cfg.Arbiter)
	if err != nil {
		log.Printf("Failed to initialize ReviewService: %v", err)
		os.Exit(1)
	}

	appealService, err := service.NewAppealService(appealRepo, solutionRepo, reviewRepo, userRepo, cacheRepo, notificationService, emailService, wsManager, cfg.Arbiter)
	if err != nil {
		log.Printf("Failed to initialize AppealService: %v", err)
		os.Exit(1)
	}

	gameService, err := service.NewGameService(userRepo, cacheRepo, judgeService, cfg.Game)
	if err != nil {
		log.Printf("Failed to initialize GameService: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService)
	solutionHandler := handler.NewSolutionHandler(solutionService, reviewService)
	appealHandler := handler.NewAppealHandler(appealService)
	gameHandler := handler.NewGameHandler(gameService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	wsHandler := handler.NewWSHandler(wsHub, wsManager, jwtService)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Настраиваем роутер
	router := gin.Default()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Printf("Failed to set trusted proxies: %v", err)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:8000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()), authHandler.Register)
			authGroup.POST("/login", rateLimiter.Limit(middleware.DefaultAuthRateLimitConfig()), authHandler.Login)

			authedAuth := authGroup.Group("")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.GET("/me", authHandler.Me)
				authedAuth.POST("/change-password", authHandler.ChangePassword)
				authedAuth.POST("/ws-ticket", authHandler.WsTicket)
			}
		}

		api.GET("/leaderboard", userHandler.Leaderboard)

		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetProfile)
			users.PUT("/me", userHandler.UpdateProfile)
			users.GET("/:id", middleware.ExtractUintParam("id", "profileID"), userHandler.GetPublicProfile)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)

			taskWithID := tasks.Group("/:id")
			taskWithID.Use(middleware.ExtractUintParam("id", "taskID"))
			{
				taskWithID.GET("", taskHandler.GetTask)
				taskWithID.POST("/solutions", authMiddleware.RequireAuth(), solutionHandler.SubmitSolution)
			}
		}

		solutions := api.Group("/solutions")
		solutions.Use(authMiddleware.RequireAuth())
		{
			solutions.GET("/my", solutionHandler.MySolutions)
			solutions.GET("/review-queue", solutionHandler.ReviewQueue)

			solutionWithID := solutions.Group("/:id")
			solutionWithID.Use(middleware.ExtractUintParam("id", "solutionID"))
			{
				solutionWithID.GET("", solutionHandler.GetSolution)
				solutionWithID.POST("/reviews", solutionHandler.SubmitReview)
				solutionWithID.POST("/appeals", appealHandler.CreateAppeal)
			}
		}

		appeals := api.Group("/appeals")
		appeals.Use(authMiddleware.RequireAuth())
		{
			appeals.GET("/my", appealHandler.MyAppeals)
		}

		game := api.Group("/game")
		game.Use(authMiddleware.RequireAuth())
		{
			game.POST("/start", rateLimiter.Limit(middleware.GameRateLimitConfig()), gameHandler.StartGame)
			game.POST("/answer", gameHandler.SubmitAnswer)
			game.GET("/attempts", gameHandler.Attempts)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", middleware.ExtractUintParam("id", "notificationID"), notificationHandler.MarkRead)
		}

		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			admin.POST("/tasks", taskHandler.CreateTask)
			admin.GET("/solutions", solutionHandler.AdminListSolutions)
			admin.GET("/users", userHandler.AdminListUsers)
			admin.GET("/appeals", appealHandler.PendingQueue)
			admin.GET("/appeals/export", appealHandler.ExportResolvedAppeals)
			admin.POST("/appeals/:id/resolve", middleware.ExtractUintParam("id", "appealID"), appealHandler.ResolveAppeal)
			admin.POST("/notifications/broadcast", notificationHandler.Broadcast)
		}
	}

	// WebSocket эндпоинт (аутентификация тикетом внутри обработчика)
	router.GET("/ws", wsHandler.HandleConnection)

	// Запускаем HTTP сервер
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Сервер запущен на порту %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("ListenAndServe error: %v", err)
			os.Exit(1)
		}
	}()

	// Ждем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Получен сигнал завершения, останавливаем сервер...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ошибка при остановке сервера: %v", err)
	}

	wsHub.Stop()

	if err := redisClient.Close(); err != nil {
		log.Printf("Ошибка при закрытии Redis: %v", err)
	}

	log.Println("Сервер остановлен")
}
