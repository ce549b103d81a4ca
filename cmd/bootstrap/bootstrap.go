package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medcenter-booking/config"
	deliveryHttp "medcenter-booking/internal/delivery/http"
	"medcenter-booking/internal/delivery/http/handler"
	"medcenter-booking/internal/delivery/http/middleware"
	"medcenter-booking/internal/infrastructure/cache"
	"medcenter-booking/internal/infrastructure/database"
	"medcenter-booking/internal/infrastructure/invoice"
	"medcenter-booking/internal/infrastructure/mailer"
	"medcenter-booking/internal/infrastructure/payment"
	"medcenter-booking/internal/repository"
	"medcenter-booking/internal/service"
	"medcenter-booking/internal/usecase"
	"medcenter-booking/pkg/jwt"
	"medcenter-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	app.Server = initializeServer(cfg, db, redisClient)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// newDedupStore picks where "already sent" notification keys live
func newDedupStore(cfg config.NotificationConfig, redisClient *redis.Client) service.DedupStore {
	if cfg.DedupBackend == "redis" {
		return service.NewRedisDedupStore(redisClient)
	}
	return service.NewMemoryDedupStore()
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	log := logrus.StandardLogger()

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Infrastructure
	gateway := payment.NewChapaClient(cfg.Payment, log)
	smtpMailer := mailer.NewSMTPMailer(cfg.Mail)
	renderer := invoice.NewPDFRenderer(cfg.Booking.ClinicName)

	// Repositories
	userRepo := repository.NewUserRepository()
	patientRepo := repository.NewPatientRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	departmentRepo := repository.NewDepartmentRepository()
	serviceRepo := repository.NewServiceRepository()
	contactRepo := repository.NewContactMessageRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Services
	auditService := service.NewAuditService(log, auditLogRepo)
	notificationService := service.NewNotificationService(log, customValidator, newDedupStore(cfg.Notification, redisClient), smtpMailer, renderer, service.NotificationOptions{
		AdminEmail: cfg.Mail.AdminEmail,
		Currency:   cfg.Payment.Currency,
		ClinicName: cfg.Booking.ClinicName,
		DedupTTL:   cfg.Notification.DedupTTL,
	})

	// Usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, auditService, jwtService, redisClient)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, patientRepo, appointmentRepo, departmentRepo, serviceRepo, auditService, gateway, cfg)
	paymentUsecase := usecase.NewPaymentUsecase(db, log, appointmentRepo, auditService, notificationService, gateway, cfg)
	catalogUsecase := usecase.NewCatalogUsecase(db, log, departmentRepo, serviceRepo, auditService)
	contactUsecase := usecase.NewContactUsecase(db, log, contactRepo, appointmentRepo, notificationService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, log, jwtService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	paymentHandler := handler.NewPaymentHandler(paymentUsecase, customValidator, log, cfg.Payment.WebhookSecret)
	catalogHandler := handler.NewCatalogHandler(catalogUsecase, customValidator)
	contactHandler := handler.NewContactHandler(contactUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.AllowedOrigins)
	rateLimiter := middleware.NewRateLimiter(cfg.App.RateLimitPerMinute)

	router := deliveryHttp.NewRouter(
		log,
		authHandler,
		appointmentHandler,
		paymentHandler,
		catalogHandler,
		contactHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		rateLimiter,
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// In-flight webhooks finish before connections are closed
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
