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
	"go.uber.org/zap"

	"github.com/dzangaro/miti/internal/config"
	"github.com/dzangaro/miti/internal/handler"
	"github.com/dzangaro/miti/internal/handler/middleware"
	"github.com/dzangaro/miti/internal/ingest"
	"github.com/dzangaro/miti/internal/repository/kv"
	"github.com/dzangaro/miti/internal/repository/memory"
	"github.com/dzangaro/miti/internal/repository/postgres"
	"github.com/dzangaro/miti/internal/service"
	"github.com/dzangaro/miti/pkg/blacklist"
	"github.com/dzangaro/miti/pkg/email"
	"github.com/dzangaro/miti/pkg/hash"
	"github.com/dzangaro/miti/pkg/jwt"
	"github.com/dzangaro/miti/pkg/kvstore"
	"github.com/dzangaro/miti/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := initDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", zap.Error(err))
		}
	}()
	logger.Info("database connection established")

	// Initialize Redis client
	redisClient, err := initRedis(cfg)
	if err != nil {
		logger.Fatal("failed to initialize Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("error closing Redis connection", zap.Error(err))
		}
	}()
	logger.Info("redis connection established")

	// Load RSA keys for JWT
	privateKey, publicKey, err := loadRSAKeys(cfg)
	if err != nil {
		logger.Fatal("failed to load RSA keys", zap.Error(err))
	}

	// Initialize validator
	validate := validator.NewValidator()

	// Initialize stores and repositories
	store := kvstore.NewRedisStore(redisClient, cfg.Redis.KeyPrefix)
	userCatalog := kv.NewUserCatalog(store)
	tenantCatalog := kv.NewTenantCatalog(store)
	alertRepo := memory.NewAlertRepository()
	caseRepo := postgres.NewCaseRepository(db, logger)

	// Initialize JWT token service
	tokenService, err := jwt.NewTokenService(
		privateKey,
		publicKey,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		cfg.JWT.Issuer,
	)
	if err != nil {
		logger.Fatal("failed to initialize token service", zap.Error(err))
	}

	// Initialize token blacklist service
	tokenBlacklist := blacklist.NewTokenBlacklist(redisClient, cfg.Redis.KeyPrefix)

	hasher := hash.New()
	resolver := service.EmailDomainResolver{}

	// Initialize email delivery
	var mailer email.Mailer
	if cfg.Email.Enabled {
		mailer, err = email.NewResendMailer(
			cfg.Email.APIKey,
			cfg.Email.FromName,
			cfg.Email.FromEmail,
			cfg.Email.AppURL,
			logger,
		)
		if err != nil {
			logger.Warn("failed to initialize email service, invitations will not be delivered", zap.Error(err))
			mailer = &email.NopMailer{Logger: logger}
		}
	} else {
		logger.Info("email delivery disabled (set EMAIL_ENABLED=true to enable)")
		mailer = &email.NopMailer{Logger: logger}
	}

	// Initialize services
	authService := service.NewAuthService(userCatalog, tenantCatalog, store, hasher, tokenService, tokenBlacklist, resolver, logger)
	userService := service.NewUserService(userCatalog, tokenBlacklist, hasher, mailer, resolver, logger)
	caseService := service.NewCaseService(caseRepo, logger)
	notifier := &service.LogNotifier{Logger: logger}
	alertService := service.NewAlertService(alertRepo, notifier, caseService, logger)
	demoService := service.NewDemoService(cfg.Demo.Endpoint, cfg.Demo.AccessKey, cfg.Demo.Timeout, logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, validate)
	alertHandler := handler.NewAlertHandler(alertService)
	caseHandler := handler.NewCaseHandler(caseService, validate)
	userHandler := handler.NewUserHandler(userService, validate)
	settingsHandler := handler.NewSettingsHandler(authService)
	demoHandler := handler.NewDemoHandler(demoService, validate)
	healthHandler := handler.NewHealthHandler(db)

	// Seed the alert stream so the dashboard has data before live feeds attach
	feed := ingest.NewSyntheticFeed(cfg.Ingest.SyntheticSeed)
	seeded := feed.Seed(alertService, cfg.Ingest.SyntheticCount)
	logger.Info("seeded synthetic alerts", zap.Int("count", len(seeded)))

	// Optional live sensor feed over MQTT
	var mqttFeed *ingest.MQTTFeed
	if cfg.Ingest.MQTTEnabled {
		mqttFeed, err = ingest.NewMQTTFeed(
			cfg.Ingest.MQTTBrokerURL,
			cfg.Ingest.MQTTClientID,
			cfg.Ingest.MQTTTopic,
			alertService,
			logger,
		)
		if err != nil {
			logger.Fatal("failed to connect MQTT feed", zap.Error(err))
		}
		if err := mqttFeed.Start(); err != nil {
			logger.Fatal("failed to subscribe MQTT feed", zap.Error(err))
		}
		logger.Info("mqtt feed started", zap.String("topic", cfg.Ingest.MQTTTopic))
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Miti API v1.0",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// Setup global middlewares
	app.Use(middleware.RecoveryMiddleware(logger))
	app.Use(middleware.LoggerMiddleware(logger))
	app.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))

	authMiddleware := middleware.AuthMiddleware(tokenService, tokenBlacklist)

	// Setup routes
	handler.SetupRoutes(
		app,
		authHandler,
		alertHandler,
		caseHandler,
		userHandler,
		settingsHandler,
		demoHandler,
		healthHandler,
		authMiddleware,
	)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment))
		if err := app.Listen(addr); err != nil {
			logger.Error("server failed to start", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	if mqttFeed != nil {
		mqttFeed.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// initDB initializes the PostgreSQL connection with retry logic
func initDB(cfg *config.Config, logger *zap.Logger) (*sqlx.DB, error) {
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

		logger.Warn("failed to connect to database",
			zap.Int("attempt", i+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err))
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// initRedis initializes the Redis client and verifies the connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping Redis: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// loadRSAKeys loads the signing keypair from files
func loadRSAKeys(cfg *config.Config) ([]byte, []byte, error) {
	privateKey, err := os.ReadFile(cfg.JWT.PrivateKeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read private key file: %w", err)
	}

	publicKey, err := os.ReadFile(cfg.JWT.PublicKeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read public key file: %w", err)
	}

	if len(privateKey) == 0 {
		return nil, nil, fmt.Errorf("private key file is empty")
	}
	if len(publicKey) == 0 {
		return nil, nil, fmt.Errorf("public key file is empty")
	}

	return privateKey, publicKey, nil
}
