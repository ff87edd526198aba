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

	"github.com/airbear/airbear-backend/api/controllers"
	"github.com/airbear/airbear-backend/api/routes"
	"github.com/airbear/airbear-backend/internal/analytics"
	"github.com/airbear/airbear-backend/internal/auth"
	"github.com/airbear/airbear-backend/internal/bodega"
	"github.com/airbear/airbear-backend/internal/fleet"
	"github.com/airbear/airbear-backend/internal/payments"
	"github.com/airbear/airbear-backend/internal/realtime"
	"github.com/airbear/airbear-backend/internal/rides"
	"github.com/airbear/airbear-backend/internal/store"
	"github.com/airbear/airbear-backend/internal/store/memory"
	"github.com/airbear/airbear-backend/internal/store/seed"
	"github.com/airbear/airbear-backend/internal/store/sqlstore"
	"github.com/airbear/airbear-backend/internal/users"
	"github.com/airbear/airbear-backend/pkg/config"
	"github.com/airbear/airbear-backend/pkg/db"
	"github.com/airbear/airbear-backend/pkg/logger"
	"github.com/airbear/airbear-backend/pkg/metrics"
	"github.com/airbear/airbear-backend/pkg/migrate"
	"github.com/airbear/airbear-backend/pkg/redis"
	stripeclient "github.com/airbear/airbear-backend/pkg/stripe"
)

const shutdownTimeout = 15 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	pingers := map[string]controllers.Pinger{"database": nil, "redis": nil}

	var st store.EntityStore
	if cfg.DB.Enabled() || cfg.FeatureFlags.UseSQLite {
		dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap database", err)
			os.Exit(1)
		}
		closers = append(closers, dbClient.Close)
		pingers["database"] = dbClient

		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient, ""); err != nil {
			logg.Error(ctx, "failed to run dev migrations", err)
			os.Exit(1)
		}
		st = sqlstore.New(dbClient.DB())
	} else {
		logg.Warn(ctx, "no database configured, using in-memory store")
		st = memory.New()
	}

	if cfg.FeatureFlags.SeedData {
		if err := seed.Load(ctx, st); err != nil {
			logg.Error(ctx, "failed to seed reference data", err)
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
		pingers["redis"] = redisClient
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	domainMetrics := metrics.NewDomainMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)
	hub := realtime.NewHub(domainMetrics, logg)

	var gateway payments.Gateway
	signingSecret := ""
	if cfg.Stripe.Enabled() {
		stripeClient, err := stripeclient.NewClient(ctx, cfg.Stripe, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap stripe", err)
			os.Exit(1)
		}
		gateway = stripeClient
		signingSecret = stripeClient.SigningSecret()
	} else {
		logg.Warn(ctx, "stripe not configured, card payments and webhooks disabled")
	}
	cfg.Stripe.Secret = signingSecret

	cashSecret := cfg.Payments.CashTokenSecret
	if cashSecret == "" {
		cashSecret, err = payments.RandomSecret()
		if err != nil {
			logg.Error(ctx, "failed to generate cash token secret", err)
			os.Exit(1)
		}
		logg.Warn(ctx, "cash token secret not set, issued QR codes will not survive a restart")
	}

	var webhookGuard *payments.EventGuard
	if redisClient != nil {
		webhookGuard, err = payments.NewEventGuard(redisClient, cfg.Payments.WebhookDedupTTL, "stripe-webhook")
		if err != nil {
			logg.Error(ctx, "failed to create webhook guard", err)
			os.Exit(1)
		}
	}

	services, err := buildServices(cfg, logg, st, hub, domainMetrics, gateway, payments.NewCashSigner(cashSecret))
	if err != nil {
		logg.Error(ctx, "failed to create services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:       cfg,
			Logger:       logg,
			Pingers:      pingers,
			Redis:        redisClient,
			Hub:          hub,
			HTTPMetrics:  httpMetrics,
			Gatherer:     reg,
			WebhookGuard: webhookGuard,
			Services:     *services,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := server.Shutdown(shutdownCtx)
	for _, closeFn := range closers {
		errs = multierr.Append(errs, closeFn())
	}
	if errs != nil {
		logg.Error(shutdownCtx, "shutdown finished with errors", errs)
		os.Exit(1)
	}
	logg.Info(shutdownCtx, "api server stopped")
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	st store.EntityStore,
	hub *realtime.Hub,
	domainMetrics *metrics.DomainMetrics,
	gateway payments.Gateway,
	signer *payments.CashSigner,
) (*routes.Services, error) {
	authSvc, err := auth.NewService(auth.ServiceParams{
		Store:          st,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return nil, err
	}
	usersSvc, err := users.NewService(users.ServiceParams{Store: st})
	if err != nil {
		return nil, err
	}
	fleetSvc, err := fleet.NewService(fleet.ServiceParams{Store: st, Publisher: hub, Logger: logg})
	if err != nil {
		return nil, err
	}
	ridesSvc, err := rides.NewService(rides.ServiceParams{
		Store:             st,
		Metrics:           domainMetrics,
		Logger:            logg,
		StrictTransitions: cfg.FeatureFlags.StrictRideTransitions,
		CreditCompletion:  cfg.FeatureFlags.CreditRideCompletion,
	})
	if err != nil {
		return nil, err
	}
	bodegaSvc, err := bodega.NewService(bodega.ServiceParams{Store: st, Logger: logg})
	if err != nil {
		return nil, err
	}
	paymentsSvc, err := payments.NewService(payments.ServiceParams{
		Store:      st,
		Gateway:    gateway,
		CashSigner: signer,
		Currency:   cfg.Payments.Currency,
		Metrics:    domainMetrics,
		Logger:     logg,
	})
	if err != nil {
		return nil, err
	}
	analyticsSvc, err := analytics.NewService(st)
	if err != nil {
		return nil, err
	}

	return &routes.Services{
		Auth:      authSvc,
		Users:     usersSvc,
		Fleet:     fleetSvc,
		Rides:     ridesSvc,
		Bodega:    bodegaSvc,
		Payments:  paymentsSvc,
		Analytics: analyticsSvc,
	}, nil
}
