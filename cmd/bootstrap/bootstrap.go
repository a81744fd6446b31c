package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medcare-api/config"
	deliveryHttp "medcare-api/internal/delivery/http"
	"medcare-api/internal/delivery/http/handler"
	"medcare-api/internal/delivery/http/middleware"
	"medcare-api/internal/infrastructure/cache"
	"medcare-api/internal/infrastructure/database"
	"medcare-api/internal/repository"
	"medcare-api/internal/service"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/jwt"
	"medcare-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config               *config.Config
	Log                  *logrus.Logger
	DB                   *gorm.DB
	RedisClient          *redis.Client
	TokenStore           service.TokenStore
	ChatRegistry         *service.ConnectionRegistry
	NotificationRegistry *service.ConnectionRegistry
	Dispatcher           *service.NotificationDispatcher
	Server               *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	log := setupLogger()
	app.Log = log

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	applyLogLevel(log, cfg.App.LogLevel)
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewConnection(cfg.DB, cfg.App.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Infof("Database connected successfully (%s)", cfg.DB.Driver)

	// Initialize token store
	if cfg.Redis.TokenStore == "memory" {
		app.TokenStore = service.NewMemoryTokenStore()
		log.Warn("Using in-memory token store; tokens do not survive a restart")
	} else {
		redisClient, err := cache.NewRedisClient(cfg.Redis, log)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		app.TokenStore = service.NewRedisTokenStore(redisClient)
	}

	// Initialize all layers
	if err := app.initializeServer(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	return log
}

func applyLogLevel(log *logrus.Logger, level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, keeping %s", level, log.GetLevel())
		return
	}
	log.SetLevel(parsed)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() error {
	cfg, db, log := app.Config, app.DB, app.Log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	departmentRepo := repository.NewDepartmentRepository()
	specializationRepo := repository.NewSpecializationRepository()
	doctorRepo := repository.NewDoctorRepository()
	calendarRepo := repository.NewCalendarRepository()
	timeSlotRepo := repository.NewTimeSlotRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	patientRepo := repository.NewPatientRepository()
	allergyRepo := repository.NewPatientAllergyRepository()
	medicationRepo := repository.NewPatientMedicationRepository()
	insuranceRepo := repository.NewInsuranceRepository()
	medicalRecordRepo := repository.NewMedicalRecordRepository()
	chatRepo := repository.NewChatRepository()
	chatbotRepo := repository.NewChatbotLogRepository()
	notificationRepo := repository.NewNotificationRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	policy, err := service.NewAccessPolicy(log)
	if err != nil {
		return fmt.Errorf("failed to build access policy: %w", err)
	}
	auditService := service.NewAuditService(log, auditLogRepo)
	app.ChatRegistry = service.NewConnectionRegistry("chat", log)
	app.NotificationRegistry = service.NewConnectionRegistry("notifications", log)
	notificationService := service.NewNotificationService(db, log, notificationRepo, app.NotificationRegistry)
	app.Dispatcher = service.NewNotificationDispatcher(log, notificationService, cfg.Notification.SweepSpec)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, patientRepo, jwtService, app.TokenStore, auditService)
	userUsecase := usecase.NewUserUsecase(db, log, userRepo, roleRepo, app.TokenStore, auditService)
	referenceUsecase := usecase.NewReferenceUsecase(db, log, roleRepo, departmentRepo, specializationRepo)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, userRepo, doctorRepo, calendarRepo, timeSlotRepo, departmentRepo, specializationRepo, policy, auditService)
	timeSlotUsecase := usecase.NewTimeSlotUsecase(db, log, timeSlotRepo, calendarRepo, doctorRepo, appointmentRepo, policy, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, timeSlotRepo, patientRepo, doctorRepo, policy, auditService, notificationService)
	patientUsecase := usecase.NewPatientUsecase(db, log, userRepo, patientRepo, allergyRepo, medicationRepo, insuranceRepo, policy, auditService, notificationService)
	medicalRecordUsecase := usecase.NewMedicalRecordUsecase(db, log, medicalRecordRepo, patientRepo, doctorRepo, appointmentRepo, policy, auditService)
	insuranceUsecase := usecase.NewInsuranceUsecase(db, log, insuranceRepo, patientRepo, policy, auditService)
	chatUsecase := usecase.NewChatUsecase(db, log, chatRepo, userRepo, app.ChatRegistry)
	notificationUsecase := usecase.NewNotificationUsecase(db, log, notificationRepo, userRepo, policy, notificationService)
	chatbotUsecase := usecase.NewChatbotUsecase(db, log, chatbotRepo, patientRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, app.TokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.HTTP.CORSOrigins)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:          handler.NewAuthHandler(authUsecase, customValidator),
		User:          handler.NewUserHandler(userUsecase, customValidator),
		Reference:     handler.NewReferenceHandler(referenceUsecase, customValidator),
		Doctor:        handler.NewDoctorHandler(doctorUsecase, timeSlotUsecase, customValidator),
		TimeSlot:      handler.NewTimeSlotHandler(timeSlotUsecase, customValidator),
		Appointment:   handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		Patient:       handler.NewPatientHandler(patientUsecase, customValidator),
		MedicalRecord: handler.NewMedicalRecordHandler(medicalRecordUsecase, customValidator),
		Insurance:     handler.NewInsuranceHandler(insuranceUsecase, customValidator),
		Chat:          handler.NewChatHandler(chatUsecase, customValidator),
		Notification:  handler.NewNotificationHandler(notificationUsecase, customValidator),
		Chatbot:       handler.NewChatbotHandler(chatbotUsecase, customValidator),
		AuditLog:      handler.NewAuditLogHandler(auditLogUsecase),
		Socket: handler.NewSocketHandler(
			authMiddleware, app.ChatRegistry, app.NotificationRegistry, chatUsecase, cfg.HTTP.CORSOrigins, log,
		),
	}

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, policy, authMiddleware, corsMiddleware, loggingMiddleware, cfg.HTTP.AuthRateLimit)

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	if err := app.Dispatcher.Start(context.Background()); err != nil {
		app.Log.Errorf("Failed to start notification dispatcher: %v", err)
	}

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop the sweep first so it does not push into closing registries
	app.Dispatcher.Stop()

	// Hijacked sockets are not tracked by Shutdown; closing the registries
	// makes every socket writer send a close frame and exit.
	app.ChatRegistry.Close()
	app.NotificationRegistry.Close()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
