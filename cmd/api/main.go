package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cartboost/cartboost-backend/api/middleware"
	"github.com/cartboost/cartboost-backend/api/routes"
	"github.com/cartboost/cartboost-backend/internal/analytics"
	"github.com/cartboost/cartboost-backend/internal/billing"
	"github.com/cartboost/cartboost-backend/internal/plans"
	"github.com/cartboost/cartboost-backend/internal/rules"
	"github.com/cartboost/cartboost-backend/internal/shops"
	"github.com/cartboost/cartboost-backend/pkg/config"
	"github.com/cartboost/cartboost-backend/pkg/db"
	"github.com/cartboost/cartboost-backend/pkg/logger"
	"github.com/cartboost/cartboost-backend/pkg/metrics"
	"github.com/cartboost/cartboost-backend/pkg/migrate"
	"github.com/cartboost/cartboost-backend/pkg/redis"
	"github.com/cartboost/cartboost-backend/pkg/shopify"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cartboost-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cartboost-api",
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

	registry := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	shopifyClient := shopify.NewClient(cfg.Shopify, logg)

	shopService, err := shops.NewService(shops.ServiceParams{
		ShopRepo: shops.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create shop service", err)
		os.Exit(1)
	}

	planDeriver, err := plans.NewDeriver(shopifyClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create plan deriver", err)
		os.Exit(1)
	}

	ruleRepo := rules.NewRepository(dbClient.DB())
	ruleService, err := rules.NewService(rules.ServiceParams{
		RuleRepo:   ruleRepo,
		ProductAPI: shopifyClient,
		Plans:      planDeriver,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create rule service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analytics.ServiceParams{
		EventRepo: analytics.NewRepository(dbClient.DB()),
		RuleRepo:  ruleRepo,
		ShopSvc:   shopService,
		Metrics:   storefrontMetrics,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	billingService, err := billing.NewService(billing.ServiceParams{
		BillingAPI: shopifyClient,
		ShopRepo:   shops.NewRepository(dbClient.DB()),
		Plans:      planDeriver,
		Config:     cfg.Billing,
		BaseURL:    cfg.App.BaseURL,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
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
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Registry:   registry,
			Metrics:    storefrontMetrics,
			Verifier:   middleware.HeaderVerifier{},
			Shops:      shopService,
			Rules:      ruleService,
			Analytics:  analyticsService,
			Billing:    billingService,
			ProductAPI: shopifyClient,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
