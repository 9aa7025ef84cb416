package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Moyo-Made/social-shake-backend/api/routes"
	"github.com/Moyo-Made/social-shake-backend/internal/applications"
	"github.com/Moyo-Made/social-shake-backend/internal/auth"
	"github.com/Moyo-Made/social-shake-backend/internal/contests"
	"github.com/Moyo-Made/social-shake-backend/internal/creators"
	"github.com/Moyo-Made/social-shake-backend/internal/notifications"
	"github.com/Moyo-Made/social-shake-backend/internal/settlement"
	"github.com/Moyo-Made/social-shake-backend/internal/users"
	"github.com/Moyo-Made/social-shake-backend/pkg/config"
	"github.com/Moyo-Made/social-shake-backend/pkg/db"
	"github.com/Moyo-Made/social-shake-backend/pkg/logger"
	"github.com/Moyo-Made/social-shake-backend/pkg/metrics"
	"github.com/Moyo-Made/social-shake-backend/pkg/migrate"
	"github.com/Moyo-Made/social-shake-backend/pkg/pubsub"
	"github.com/Moyo-Made/social-shake-backend/pkg/redis"
	"github.com/Moyo-Made/social-shake-backend/pkg/stripe"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	settlementMetrics := metrics.NewSettlementMetrics(registry)

	gormDB := dbClient.DB()

	notificationsService, err := notifications.NewService(
		notifications.NewRepository(gormDB),
		pubsubClient.NotificationPublisher(),
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  users.NewRepository(gormDB),
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	contestsService, err := contests.NewService(contests.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create contests service", err)
		os.Exit(1)
	}

	applicationsService, err := applications.NewService(
		applications.NewRepository(gormDB),
		contests.NewRepository(gormDB),
		notificationsService,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create applications service", err)
		os.Exit(1)
	}

	creatorsService, err := creators.NewService(creators.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create creators service", err)
		os.Exit(1)
	}

	settlementService, err := settlement.NewService(settlement.ServiceParams{
		Repo:           settlement.NewRepository(gormDB),
		Tx:             dbClient,
		Transfers:      stripeClient,
		Notifier:       notificationsService,
		Logger:         logg,
		Metrics:        settlementMetrics,
		Currency:       cfg.Payouts.Currency,
		MaxWinnerCount: cfg.Payouts.MaxWinnerCount,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			authService,
			registerService,
			contestsService,
			applicationsService,
			creatorsService,
			notificationsService,
			settlementService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
