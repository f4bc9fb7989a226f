package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	_ "github.com/helpinghands/volunteer-api/docs" // Swagger docs (generated)
	"github.com/helpinghands/volunteer-api/internal/auth"
	"github.com/helpinghands/volunteer-api/internal/config"
	"github.com/helpinghands/volunteer-api/internal/database"
	"github.com/helpinghands/volunteer-api/internal/donation"
	"github.com/helpinghands/volunteer-api/internal/email"
	httpServer "github.com/helpinghands/volunteer-api/internal/http"
	"github.com/helpinghands/volunteer-api/internal/logging"
	"github.com/helpinghands/volunteer-api/internal/opportunity"
	"github.com/helpinghands/volunteer-api/internal/ratelimit"
	"github.com/helpinghands/volunteer-api/internal/signup"
	"github.com/helpinghands/volunteer-api/internal/user"
)

// @title           HelpingHands Volunteer API
// @version         1.0
// @description     REST backend for volunteer coordination: accounts, profiles, donations, opportunities, and signups.

// @contact.name   API Support
// @contact.email  support@helpinghands.example

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /

// @securityDefinitions.apikey TokenAuth
// @in header
// @name x-auth-token
// @description Session token returned by /api/auth/login.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Initialize database connection. This is the only dependency the
	// process refuses to run without.
	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Apply pending schema migrations before accepting traffic
	if err := database.Migrate(context.Background(), db.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize Redis connection. Optional: without it, rate limiting is off.
	redisClient := initRedis(cfg.Redis, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize token service. A missing or invalid signing secret is not
	// fatal here: public reads keep working, login reports the
	// misconfiguration per request.
	tokenService, err := auth.NewTokenService(cfg.Auth.TokenDriver, cfg.Auth.SigningSecret)
	if err != nil {
		logger.Warn("token signing unavailable, login will fail until configured",
			"driver", cfg.Auth.TokenDriver,
			"error", err.Error(),
		)
		tokenService = nil
	}

	// Initialize repositories
	userRepo := user.NewRepository(db)
	donationRepo := donation.NewRepository(db)
	opportunityRepo := opportunity.NewRepository(db)
	signupRepo := signup.NewRepository(db)

	// Initialize rate limiter (no-op when Redis is absent)
	rateLimiter := ratelimit.NewLimiter(redisClient)

	// Initialize email service. A concrete service is only wired when SMTP
	// is configured; otherwise the handlers get a nil interface and skip
	// sending instead of dialing a dead host.
	var welcomeMail auth.EmailService
	var receiptMail donation.Receipts
	if cfg.Email.SMTPHost != "" {
		emailService := email.NewService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
		)
		welcomeMail = emailService
		receiptMail = emailService
	} else {
		logger.Info("SMTP not configured, outbound email disabled")
	}

	// Initialize services
	authService := auth.NewService(
		userRepo,
		tokenService,
		auth.NewPasswordService(),
		welcomeMail,
		logger,
		cfg.Auth.TokenDuration,
	)
	userService := user.NewService(userRepo)

	// Initialize HTTP handlers
	handlers := httpServer.Handlers{
		Auth:        auth.NewHandler(authService, rateLimiter, logger),
		User:        user.NewHandler(userService, logger),
		Donation:    donation.NewHandler(donationRepo, userRepo, receiptMail, logger),
		Opportunity: opportunity.NewHandler(opportunityRepo, logger),
		Signup:      signup.NewHandler(signupRepo, opportunityRepo, logger),
		AuthGate:    auth.NewMiddleware(tokenService),
	}

	// Initialize router
	router := httpServer.NewRouter(cfg, handlers, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}

// initRedis connects to Redis when configured. Failures are logged, not
// fatal: the limiter degrades to a no-op.
func initRedis(cfg config.RedisConfig, logger *logging.Logger) *redis.Client {
	if !cfg.Enabled() {
		logger.Info("redis not configured, rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis unreachable, rate limiting disabled", "addr", cfg.Address(), "error", err.Error())
		client.Close()
		return nil
	}

	return client
}
