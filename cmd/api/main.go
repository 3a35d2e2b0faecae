package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/fitcore-app/fitcore-backend/api/routes"
	"github.com/fitcore-app/fitcore-backend/api/validators"
	"github.com/fitcore-app/fitcore-backend/internal/checkins"
	"github.com/fitcore-app/fitcore-backend/internal/checkout"
	"github.com/fitcore-app/fitcore-backend/internal/hyp"
	"github.com/fitcore-app/fitcore-backend/internal/members"
	"github.com/fitcore-app/fitcore-backend/internal/plans"
	"github.com/fitcore-app/fitcore-backend/internal/reports"
	"github.com/fitcore-app/fitcore-backend/internal/subscriptions"
	"github.com/fitcore-app/fitcore-backend/pkg/config"
	"github.com/fitcore-app/fitcore-backend/pkg/db"
	"github.com/fitcore-app/fitcore-backend/pkg/logger"
	"github.com/fitcore-app/fitcore-backend/pkg/metrics"
	"github.com/fitcore-app/fitcore-backend/pkg/migrate"
	"github.com/fitcore-app/fitcore-backend/pkg/outbox"
	"github.com/fitcore-app/fitcore-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	outboxRepo := outbox.NewRepository(dbClient.DB())
	outboxSvc := outbox.NewService(outboxRepo, logg)

	planRepo := plans.NewRepository(dbClient.DB())
	memberRepo := members.NewRepository(dbClient.DB())
	subscriptionRepo := subscriptions.NewRepository(dbClient.DB())

	planSvc, err := plans.NewService(plans.ServiceParams{Repo: planRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create plan service", err)
		os.Exit(1)
	}

	subscriptionSvc, err := subscriptions.NewService(subscriptions.ServiceParams{
		Repo:       subscriptionRepo,
		MemberRepo: memberRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscription service", err)
		os.Exit(1)
	}

	gatewayClient, err := hyp.NewClient(cfg.Hyp)
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway client", err)
		os.Exit(1)
	}
	pendingStore := hyp.NewPendingStore(redisClient, cfg.Hyp.PendingTTL)
	gatewaySvc, err := hyp.NewService(hyp.ServiceParams{
		Client:  gatewayClient,
		Pending: pendingStore,
		Config:  cfg.Hyp,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway service", err)
		os.Exit(1)
	}

	draftStore := checkout.NewDraftStore(redisClient, cfg.Checkout.DraftTTL)
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Tx:            dbClient,
		Plans:         planSvc,
		Members:       memberRepo,
		Subscriptions: subscriptionRepo,
		Outbox:        outboxSvc,
		Drafts:        draftStore,
		Gateway:       gatewaySvc,
		Metrics:       checkoutMetrics,
		Validator:     validators.Validator(),
		Config:        cfg.Checkout,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	checkInSvc, err := checkins.NewService(checkins.ServiceParams{
		Tx:            dbClient,
		Repo:          checkins.NewRepository(dbClient.DB()),
		Members:       memberRepo,
		Subscriptions: subscriptionRepo,
		Outbox:        outboxSvc,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create check-in service", err)
		os.Exit(1)
	}

	reportSvc, err := reports.NewService(reports.ServiceParams{
		Repo: reports.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
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
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Metrics:       checkoutMetrics,
			Registry:      registry,
			Plans:         planSvc,
			Members:       memberRepo,
			Subscriptions: subscriptionSvc,
			Checkout:      checkoutSvc,
			Gateway:       gatewaySvc,
			CheckIns:      checkInSvc,
			Reports:       reportSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
