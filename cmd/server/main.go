package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	natsAdapter "github.com/delta-student/wanderlust/internal/adapter/messaging/nats"
	mongoRepo "github.com/delta-student/wanderlust/internal/adapter/repository/mongodb"
	"github.com/delta-student/wanderlust/internal/adapter/session"
	"github.com/delta-student/wanderlust/internal/adapter/web"
	"github.com/delta-student/wanderlust/internal/config"
	"github.com/delta-student/wanderlust/internal/mailer"
	"github.com/delta-student/wanderlust/internal/platform/logger"
	"github.com/delta-student/wanderlust/internal/platform/metrics"
	"github.com/delta-student/wanderlust/internal/usecase"
)

const serviceName = "wanderlust"

func main() {
	// Load .env file (optional, for local development).
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.New(logger.DefaultConfig())
	defer appLogger.Sync()
	appLogger.Info("Application starting...", zap.String("service_name", serviceName))

	cfg, err := config.Load(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Connect to MongoDB.
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := mongoClient.Ping(ctxPing, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	appLogger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	db := mongoClient.Database(cfg.MongoDatabase)

	// Repositories.
	userRepo, err := mongoRepo.NewUserRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize UserRepository", zap.Error(err))
	}
	listingRepo, err := mongoRepo.NewListingRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ListingRepository", zap.Error(err))
	}
	reviewRepo, err := mongoRepo.NewReviewRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ReviewRepository", zap.Error(err))
	}

	// Session store: Redis when configured, process memory otherwise.
	var sessionStore session.Store
	switch cfg.SessionStore {
	case "redis":
		redisStore, err := session.NewRedisStore(context.Background(), cfg.RedisAddr, cfg.SessionTTL, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis session store", zap.Error(err))
		}
		defer redisStore.Close()
		sessionStore = redisStore
	default:
		appLogger.Info("Using in-memory session store; sessions will not survive restarts")
		sessionStore = session.NewMemoryStore(cfg.SessionTTL)
	}

	// Session secret: required for cookies to remain valid across restarts.
	sessionSecret := cfg.SessionSecret
	if sessionSecret == "" {
		sessionSecret = uuid.NewString()
		appLogger.Warn("Generated a random session secret; existing cookies are invalidated on every restart")
	}

	// Optional NATS event publisher.
	var events usecase.EventPublisher
	if cfg.NATSURL != "" {
		publisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, serviceName)
		if err != nil {
			appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
		}
		defer publisher.Close()
		events = publisher
	}

	// Optional SMTP mailer.
	var mail mailer.Mailer = mailer.NoopMailer{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		appLogger.Info("SMTP mailer configured", zap.String("host", cfg.SMTPHost))
	}

	// Metrics.
	metricsManager := metrics.NewManager(serviceName)
	if cfg.MetricsPort != "" {
		go func() {
			if err := metrics.StartServer(cfg.MetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// Usecases.
	userUC := usecase.NewUserUsecase(userRepo, mail, metricsManager, appLogger)
	listingUC := usecase.NewListingUsecase(listingRepo, reviewRepo, userRepo, events, metricsManager, appLogger)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, listingRepo, events, metricsManager, appLogger)

	// Web server.
	server := web.NewServer(userUC, listingUC, reviewUC, sessionStore, web.Config{
		SessionSecret: sessionSecret,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.SecureCookies,
	}, metricsManager, appLogger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server starting", zap.String("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("HTTP server shutdown error", zap.Error(err))
	}
	appLogger.Info("Application shut down")
}
