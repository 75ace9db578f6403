package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/lifeline/donor-registry/internal/api/http"
	"github.com/lifeline/donor-registry/internal/api/http/handlers"
	"github.com/lifeline/donor-registry/internal/auth"
	"github.com/lifeline/donor-registry/internal/config"
	"github.com/lifeline/donor-registry/internal/domain"
	"github.com/lifeline/donor-registry/internal/events"
	"github.com/lifeline/donor-registry/internal/observability"
	"github.com/lifeline/donor-registry/internal/persistence"
	"github.com/lifeline/donor-registry/internal/repository"
	"github.com/lifeline/donor-registry/internal/repository/memory"
	"github.com/lifeline/donor-registry/internal/service"
	"github.com/lifeline/donor-registry/internal/validation"
	"github.com/lifeline/donor-registry/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var (
		userRepo     repository.UserRepository
		donationRepo repository.DonationRepository
		attemptRepo  repository.LoginAttemptStore
	)
	if pg.Enabled() {
		userRepo = repository.NewUserRepository(pg.Pool)
		donationRepo = repository.NewDonationRepository(pg.Pool)
	} else {
		logger.Warn("using in-memory storage; data is lost on restart")
		userRepo = memory.NewUserStore()
		donationRepo = memory.NewDonationStore()
	}
	if redis.Enabled() {
		attemptRepo = repository.NewLoginAttemptRepository(redis.Client)
	}

	validator := validation.New()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		Users:      userRepo,
		Attempts:   attemptRepo,
		Hasher:     auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		Tokens:     tokens,
		Validator:  validator,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	if cfg.Admin.Enabled() {
		if _, err := authService.EnsureAdmin(ctx, cfg.Admin); err != nil {
			logger.Fatal("failed to bootstrap admin", zap.Error(err))
		}
	}

	approvalService := service.NewApprovalService(userRepo, dispatcher, logger)
	profileService := service.NewProfileService(userRepo, donationRepo, validator)
	donationService := service.NewDonationService(userRepo, donationRepo, validator, dispatcher, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:           handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:             handlers.NewAuthHandler(authService),
		Admin:            handlers.NewAdminHandler(approvalService),
		DonorProfile:     handlers.NewProfileHandler(profileService, domain.RoleDonor),
		RecipientProfile: handlers.NewProfileHandler(profileService, domain.RoleRecipient),
		Donations:        handlers.NewDonationHandler(donationService),
		AuthMiddleware:   auth.NewAuthMiddleware(tokens),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
