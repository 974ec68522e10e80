package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/rejoiceevents/decor-backend/api/routes"
	"github.com/rejoiceevents/decor-backend/internal/analytics"
	"github.com/rejoiceevents/decor-backend/internal/auth"
	"github.com/rejoiceevents/decor-backend/internal/availability"
	"github.com/rejoiceevents/decor-backend/internal/bookings"
	"github.com/rejoiceevents/decor-backend/internal/inventory"
	"github.com/rejoiceevents/decor-backend/internal/payments"
	"github.com/rejoiceevents/decor-backend/internal/portfolio"
	"github.com/rejoiceevents/decor-backend/internal/users"
	stripewebhook "github.com/rejoiceevents/decor-backend/internal/webhooks/stripe"
	"github.com/rejoiceevents/decor-backend/pkg/config"
	"github.com/rejoiceevents/decor-backend/pkg/db"
	"github.com/rejoiceevents/decor-backend/pkg/logger"
	"github.com/rejoiceevents/decor-backend/pkg/metrics"
	"github.com/rejoiceevents/decor-backend/pkg/migrate"
	"github.com/rejoiceevents/decor-backend/pkg/redis"
	"github.com/rejoiceevents/decor-backend/pkg/stripe"
)

const (
	shutdownTimeout = 15 * time.Second
	webhookGuardTTL = 24 * time.Hour
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(ctx, cfg.Stripe, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingStats := metrics.NewBookingMetrics(registry)

	conn := dbClient.DB()

	availabilityService, err := availability.NewService(conn)
	if err != nil {
		logg.Error(ctx, "failed to create availability service", err)
		os.Exit(1)
	}

	inventoryRepo := inventory.NewRepository(conn)
	inventoryService, err := inventory.NewService(inventoryRepo)
	if err != nil {
		logg.Error(ctx, "failed to create inventory service", err)
		os.Exit(1)
	}

	bookingService, err := bookings.NewService(bookings.NewRepository(conn), inventoryRepo, availabilityService, dbClient, bookingStats)
	if err != nil {
		logg.Error(ctx, "failed to create booking service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(payments.NewRepository(conn), dbClient, stripeClient, bookingStats)
	if err != nil {
		logg.Error(ctx, "failed to create payment service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(conn),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	portfolioService, err := portfolio.NewService(portfolio.NewRepository(conn))
	if err != nil {
		logg.Error(ctx, "failed to create portfolio service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analytics.NewRepository(conn))
	if err != nil {
		logg.Error(ctx, "failed to create analytics service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(paymentService, bookingStats)
	if err != nil {
		logg.Error(ctx, "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewEventGuard(redisClient, webhookGuardTTL, "stripe_webhook")
	if err != nil {
		logg.Error(ctx, "failed to create webhook guard", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		DB:           dbClient,
		Redis:        redisClient,
		Stripe:       stripeClient,
		Registry:     registry,
		AuthService:  authService,
		Inventory:    inventoryService,
		Bookings:     bookingService,
		Payments:     paymentService,
		Portfolio:    portfolioService,
		Analytics:    analyticsService,
		WebhookSvc:   webhookService,
		WebhookGuard: webhookGuard,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"stripe_env": stripeClient.Environment(),
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(startCtx, "error draining api server", err)
		}
	}

	closeErr := multierr.Append(redisClient.Close(), dbClient.Close())
	if closeErr != nil {
		logg.Error(startCtx, "error closing resources", closeErr)
		os.Exit(1)
	}
}
