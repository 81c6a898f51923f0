package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/config"
	"github.com/sakec/hms-backend/internal/database"
	"github.com/sakec/hms-backend/internal/handler"
	"github.com/sakec/hms-backend/internal/logger"
	"github.com/sakec/hms-backend/internal/middleware"
	"github.com/sakec/hms-backend/internal/repository"
	"github.com/sakec/hms-backend/internal/router"
	"github.com/sakec/hms-backend/internal/service"
	"github.com/sakec/hms-backend/internal/validator"
	"github.com/sakec/hms-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting HMS Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	var (
		users    service.UserStore
		students service.StudentStore
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		users = repository.NewMemoryUserRepository()
		students = repository.NewMemoryStudentRepository()
	default:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		users = repository.NewUserRepository(pool)
		students = repository.NewStudentRepository(pool)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	tokens, err := service.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token service")
	}
	hasher := service.NewPasswordHasher(cfg.BcryptCost)

	authService := service.NewAuthService(users, hasher, tokens, service.AuthOptions{
		LoginTokenTTL:    cfg.LoginTokenTTL,
		SignupTokenTTL:   cfg.SignupTokenTTL,
		StoreTimeout:     cfg.StoreTimeout,
		AllowAdminSignup: cfg.AllowAdminSignup,
	})
	registrationService := service.NewRegistrationService(users, students, hasher, cfg.StoreTimeout, log)
	studentService := service.NewStudentService(students, rdb, cfg.StoreTimeout, log)
	paymentService := service.NewPaymentService(students, rdb, cfg.PaymentWebhookSecret, cfg.PaymentIntentTTL, cfg.StoreTimeout, log)
	chatService := service.NewChatService(service.ChatOptions{
		APIKey:     cfg.GeminiAPIKey,
		APIURL:     cfg.GeminiAPIURL,
		MaxRetries: cfg.ChatMaxRetries,
	}, log)

	if cfg.PaymentWebhookSecret == "" {
		log.Warn().Msg("PAYMENT_WEBHOOK_SECRET is empty, webhook signatures are not checked")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService, log),
		Student: handler.NewStudentHandler(registrationService, studentService, log),
		Payment: handler.NewPaymentHandler(paymentService, log),
		Chat:    handler.NewChatHandler(chatService, log),
		WS:      handler.NewWSHandler(rdb, studentService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	paymentWorker := worker.NewPaymentWorker(studentService, rdb, log)
	go func() {
		defer close(workerDone)
		paymentWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	authLimiter := middleware.NewRateLimiter(rdb, cfg.AuthRateLimit, time.Minute, log)
	r := router.SetupRouter(tokens, authLimiter, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the queue to drain.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(5 * time.Second):
		log.Warn().Msg("Payment worker did not drain in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
