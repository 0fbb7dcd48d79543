package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lab-appointment-web/config"
	deliveryHttp "lab-appointment-web/internal/delivery/http"
	"lab-appointment-web/internal/delivery/http/handler"
	"lab-appointment-web/internal/delivery/http/middleware"
	"lab-appointment-web/internal/infrastructure/cache"
	"lab-appointment-web/internal/infrastructure/database"
	"lab-appointment-web/internal/infrastructure/labapi"
	"lab-appointment-web/internal/repository"
	"lab-appointment-web/internal/service"
	"lab-appointment-web/internal/usecase"
	"lab-appointment-web/pkg/jwt"
	"lab-appointment-web/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config     *config.Config
	Log        *logrus.Logger
	DB         *gorm.DB
	Store      cache.Store
	QueryCache *service.QueryCache
	Server     *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = setupLogger(cfg.App.LogLevel)
	app.Log.Info("Configuration loaded successfully")

	// Cache store: Redis when configured, in-process otherwise
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	queryCache, err := service.NewQueryCache(context.Background(), store, app.Log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to start query cache: %w", err)
	}
	app.QueryCache = queryCache

	// Audit database is optional
	if cfg.AuditEnabled() {
		db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone, cfg.IsDev())
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db
		app.Log.Info("Audit trail enabled")
	} else {
		app.Log.Info("DB_HOST not set, audit trail disabled")
	}

	app.Server = initializeServer(cfg, app.Log, app.DB, store, queryCache)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

func newStore(cfg *config.Config) (cache.Store, error) {
	if !cfg.RedisEnabled() {
		logrus.Warn("REDIS_HOST not set, using in-process cache store")
		return cache.NewMemoryStore(), nil
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return cache.NewRedisStore(redisClient), nil
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, store cache.Store, queryCache *service.QueryCache) *http.Server {
	loc := cfg.Location()

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.Session)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize lab API client
	apiClient := labapi.NewClient(cfg.API, log)

	// Initialize repositories
	authRepo := repository.NewAuthRepository(apiClient)
	userRepo := repository.NewUserRepository(apiClient)
	labTestRepo := repository.NewLabTestRepository(apiClient)
	appointmentRepo := repository.NewAppointmentRepository(apiClient)
	sessionRepo := repository.NewSessionRepository(store)
	draftRepo := repository.NewBookingDraftRepository(store)
	listStateRepo := repository.NewListStateRepository(store)
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(db, log, auditLogRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, authRepo, userRepo, sessionRepo, draftRepo, queryCache, auditService, cfg.Session.TTL)
	profileUsecase := usecase.NewProfileUsecase(log, userRepo, sessionRepo, queryCache, auditService, cfg.Cache.ProfileTTL, cfg.Session.TTL)
	labTestUsecase := usecase.NewLabTestUsecase(log, labTestRepo, queryCache, cfg.Cache.CollectionTTL)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, appointmentRepo, userRepo, listStateRepo, queryCache, auditService, usecase.AppointmentUsecaseConfig{
		Location:      loc,
		ProfileTTL:    cfg.Cache.ProfileTTL,
		CollectionTTL: cfg.Cache.CollectionTTL,
		SessionTTL:    cfg.Session.TTL,
		PageSize:      cfg.Booking.AdminPageSize,
	})
	bookingUsecase := usecase.NewBookingUsecase(log, draftRepo, userRepo, labTestRepo, appointmentRepo, queryCache, auditService, usecase.BookingUsecaseConfig{
		Location:      loc,
		HomeVisitFee:  cfg.Booking.HomeVisitFee,
		ProfileTTL:    cfg.Cache.ProfileTTL,
		CollectionTTL: cfg.Cache.CollectionTTL,
		DraftTTL:      cfg.Session.TTL,
	})
	adminUserUsecase := usecase.NewAdminUserUsecase(log, userRepo, queryCache, cfg.Cache.CollectionTTL)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	eventUsecase := usecase.NewEventUsecase(log, queryCache, cfg.Cache.EventsPollTimeout)

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(jwtService, authUsecase, cfg.Session, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:        handler.NewAuthHandler(authUsecase, customValidator, sessionMiddleware),
		Profile:     handler.NewProfileHandler(profileUsecase, customValidator),
		LabTest:     handler.NewLabTestHandler(labTestUsecase),
		Appointment: handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		Booking:     handler.NewBookingHandler(bookingUsecase, customValidator),
		AdminUser:   handler.NewAdminUserHandler(adminUserUsecase),
		AuditLog:    handler.NewAuditLogHandler(auditLogUsecase, customValidator),
		Event:       handler.NewEventHandler(eventUsecase),
	}

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, sessionMiddleware, corsMiddleware, log)
	httpRouter := router.Setup()

	// Create server. WriteTimeout leaves room for the events long-poll.
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Cache.EventsPollTimeout + cfg.API.Timeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		app.Log.Infof("Lab API: %s", app.Config.API.BaseURL)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or a failed listener
	return app.waitForShutdown(errChan)
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown(errChan <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var serveErr error
	select {
	case <-quit:
		app.Log.Info("Shutting down server...")
	case serveErr = <-errChan:
		app.Log.Errorf("Failed to start server: %v", serveErr)
	}

	// Wake long-poll waiters before draining connections
	if app.QueryCache != nil {
		app.QueryCache.Stop()
	}

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
	return serveErr
}

// Close closes all connections (database, cache store)
func (app *App) Close() {
	if app.QueryCache != nil {
		app.QueryCache.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close cache store
	if app.Store != nil {
		app.Store.Close()
	}
}
