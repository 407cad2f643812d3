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

	"account-lifecycle/internal/config"
	"account-lifecycle/internal/db"
	"account-lifecycle/internal/email"
	apihttp "account-lifecycle/internal/http"
	"account-lifecycle/internal/repository"
	"account-lifecycle/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	if err := db.Ping(ctx, pool); err != nil {
		logger.Warn("db ping failed", zap.Error(err))
	}

	accountRepo := repository.NewPgAccountRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		links := email.Links{BaseURL: cfg.AppBaseURL}
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS, links)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var tokenStore service.RefreshTokenStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	// Sin secreto el login responde sin sesion y las rutas protegidas quedan cerradas.
	var jwtSvc *service.JWTService
	if cfg.JWTSecret != "" {
		jwtSvc = service.NewJWTServiceWithStore(
			cfg.JWTSecret,
			time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
			time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
			tokenStore,
		)
	} else {
		logger.Warn("jwt secret not configured, sessions disabled")
	}
	if cfg.OAuthCallbackSecret == "" {
		logger.Warn("oauth callback secret not configured, external sign-in disabled")
	}

	accountSvc := service.NewAccountService(
		logger,
		accountRepo,
		emailSender,
		service.NewTokenIssuer(nil),
		service.NewBcryptHasher(service.DefaultBcryptCost),
	)
	accountHandler := apihttp.NewAccountHandler(logger, accountSvc, jwtSvc)
	router := apihttp.NewRouter(logger, accountHandler, jwtSvc, apihttp.NewMetrics(), cfg.OAuthCallbackSecret)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
