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

	"github.com/souloukn/geomatiqueupm/internal/config"
	"github.com/souloukn/geomatiqueupm/internal/handler"
	"github.com/souloukn/geomatiqueupm/internal/middleware"
	pgRepo "github.com/souloukn/geomatiqueupm/internal/repository/postgres"
	redisRepo "github.com/souloukn/geomatiqueupm/internal/repository/redis"
	"github.com/souloukn/geomatiqueupm/internal/service"
	"github.com/souloukn/geomatiqueupm/internal/service/examsession"
	ws "github.com/souloukn/geomatiqueupm/internal/websocket"
	"github.com/souloukn/geomatiqueupm/pkg/auth"
	"github.com/souloukn/geomatiqueupm/pkg/database"
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
	examRepo := pgRepo.NewExamRepo(db)
	resultRepo := pgRepo.NewResultRepo(db)
	teacherRepo := pgRepo.NewTeacherRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем исходящую почту
	var emailService service.EmailService
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
	} else {
		emailService = &service.NoopEmailService{}
	}

	// Создаем контекст с отменой для корректного завершения работы горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// WebSocket hub для тиков обратного отсчета
	hub := ws.NewHub()

	// Настройки сессий экзамена
	sessionConfig := examsession.DefaultConfig()
	if cfg.Exam.TickIntervalMs > 0 {
		sessionConfig.TickInterval = time.Duration(cfg.Exam.TickIntervalMs) * time.Millisecond
	}
	if cfg.Exam.AttemptLockTTLMin > 0 {
		sessionConfig.AttemptLockTTL = time.Duration(cfg.Exam.AttemptLockTTLMin) * time.Minute
	}

	// Инициализируем сервисы
	examService := service.NewExamService(examRepo, resultRepo, cacheRepo)
	resultService := service.NewResultService(examRepo, resultRepo, cacheRepo)
	authService := service.NewAuthService(teacherRepo, cacheRepo, jwtService, emailService, cfg.Auth.DeveloperCode)
	teacherService := service.NewTeacherService(teacherRepo, cacheRepo)

	sessionManager := examsession.NewManager(ctx, &examsession.Dependencies{
		ExamRepo:   examRepo,
		ResultRepo: resultRepo,
		CacheRepo:  cacheRepo,
		Notifier:   hub,
		Config:     sessionConfig,
	})

	// Инициализируем хендлеры и middleware
	authHandler := handler.NewAuthHandler(authService)
	examHandler := handler.NewExamHandler(examService, resultService)
	sessionHandler := handler.NewSessionHandler(sessionManager, examService, resultService, hub)
	teacherHandler := handler.NewTeacherHandler(teacherService)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	isProduction := gin.Mode() == gin.ReleaseMode

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://geomatiqueupm.vercel.app", "http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Статические файлы страницы экзамена
	router.StaticFS("/app", http.Dir("./static/app"))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация преподавателя
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/reset-password", authHandler.ResetPassword)

			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.GET("/me", authHandler.Me)
			}
		}

		// Публичные маршруты студентов
		api.GET("/teacher-info", teacherHandler.GetInfo)
		api.GET("/exams/code/:code", sessionHandler.GetExamByCode)
		api.GET("/results", sessionHandler.GetStudentResult)

		// Сессии экзамена
		sessions := api.Group("/sessions")
		{
			sessions.POST("", sessionHandler.StartSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.POST("/:id/answers", sessionHandler.Answer)
			sessions.POST("/:id/submit", sessionHandler.Submit)
		}

		// Маршруты преподавателя
		exams := api.Group("/exams")
		exams.Use(authMiddleware.RequireAuth())
		{
			exams.GET("", examHandler.ListExams)
			exams.POST("", examHandler.CreateExam)

			examWithID := exams.Group("/:id")
			examWithID.Use(middleware.ExtractUUIDParam("id", "examID"))
			{
				examWithID.GET("", examHandler.GetExam)
				examWithID.PUT("", examHandler.UpdateExam)
				examWithID.DELETE("", examHandler.DeleteExam)
				examWithID.PUT("/publish", examHandler.PublishResults)
				examWithID.GET("/results", examHandler.GetExamResults)
				examWithID.GET("/results/export", examHandler.ExportExamResults)
			}
		}

		teacher := api.Group("/teacher")
		teacher.Use(authMiddleware.RequireAuth())
		{
			teacher.PUT("/info", teacherHandler.SaveInfo)
			teacher.GET("/settings", teacherHandler.GetSettings)
			teacher.PUT("/settings", teacherHandler.SaveSettings)
		}
	}

	// WebSocket маршрут тиков сессии
	router.GET("/ws/sessions/:id", sessionHandler.ServeWS)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// После получения сигнала SIGINT или SIGTERM вызываем cancel() для завершения горутин
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Отправляем сигнал завершения для всех горутин
	cancel()

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
