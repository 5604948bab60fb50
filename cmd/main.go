package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/nairbf/Reservekit-sub003/internal/config"
	"github.com/nairbf/Reservekit-sub003/internal/handler"
	"github.com/nairbf/Reservekit-sub003/internal/handler/middleware"
	"github.com/nairbf/Reservekit-sub003/internal/repository/postgres"
	"github.com/nairbf/Reservekit-sub003/internal/service"
	"github.com/nairbf/Reservekit-sub003/pkg/email"
	"github.com/nairbf/Reservekit-sub003/pkg/license"
	"github.com/nairbf/Reservekit-sub003/pkg/validator"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}()
	log.Println("✓ Database connection established")

	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}()
	log.Println("✓ Redis connection established")

	validate := validator.NewValidator()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	licenseRepo := postgres.NewLicenseRepository(db)
	sequenceRepo := postgres.NewSequenceRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)

	// Email delivery
	var sender email.Sender
	if cfg.Email.Enabled {
		sender, err = email.NewResendSender(&email.Config{
			APIKey:    cfg.Email.APIKey,
			FromName:  cfg.Email.FromName,
			FromEmail: cfg.Email.FromEmail,
		})
		if err != nil {
			log.Fatalf("Failed to initialize email sender: %v", err)
		}
		log.Println("✓ Email sender initialized (Resend)")
	} else {
		sender = email.NewLogSender()
		log.Println("ℹ Email delivery disabled (set EMAIL_ENABLED=true to enable)")
	}

	// Services
	sessionService := service.NewSessionService(sessionRepo, userRepo, cfg.Session.TTL)
	permissionService := service.NewPermissionService(userRepo)
	authService := service.NewAuthService(userRepo, sessionService)
	licenseService := service.NewLicenseService(
		licenseRepo,
		license.NewRedisCache(redisClient),
		cfg.License.CheckInterval,
	)
	sequenceService := service.NewSequenceService(sequenceRepo, sender, cfg.Cron.BatchSize)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, sessionService, cfg.Session, validate)
	adminHandler := handler.NewAdminHandler(userRepo, validate)
	scheduleHandler := handler.NewScheduleHandler(scheduleRepo, validate)
	healthHandler := handler.NewHealthHandler(licenseService, version)
	cronHandler := handler.NewCronHandler(cfg.Cron.Secret, sequenceService, sessionService)

	app := fiber.New(fiber.Config{
		AppName:      "Reservekit v" + version,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))

	handler.SetupRoutes(
		app,
		authHandler,
		adminHandler,
		scheduleHandler,
		healthHandler,
		cronHandler,
		sessionService,
		permissionService,
		cfg.Session.CookieName,
	)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("🚀 Server starting on http://localhost%s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		if err := app.Listen(addr); err != nil {
			log.Printf("❌ Server failed to start: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("⏳ Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✓ Server stopped")
}

// initDB initializes the PostgreSQL connection with retry logic
func initDB(cfg *config.Config) (*sqlx.DB, error) {
	dsn := cfg.Database.DSN()

	var db *sqlx.DB
	var err error

	maxRetries := 5
	retryInterval := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			break
		}

		log.Printf("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect after %d attempts: %w", maxRetries, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// initRedis initializes the Redis client used for the license cache
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
