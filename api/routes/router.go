package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/airbear/airbear-backend/api/controllers"
	"github.com/airbear/airbear-backend/api/middleware"
	"github.com/airbear/airbear-backend/internal/analytics"
	"github.com/airbear/airbear-backend/internal/auth"
	"github.com/airbear/airbear-backend/internal/bodega"
	"github.com/airbear/airbear-backend/internal/fleet"
	"github.com/airbear/airbear-backend/internal/payments"
	"github.com/airbear/airbear-backend/internal/realtime"
	"github.com/airbear/airbear-backend/internal/rides"
	"github.com/airbear/airbear-backend/internal/users"
	"github.com/airbear/airbear-backend/pkg/config"
	"github.com/airbear/airbear-backend/pkg/logger"
	"github.com/airbear/airbear-backend/pkg/metrics"
	"github.com/airbear/airbear-backend/pkg/redis"
)

// Services groups the domain services mounted under /api.
type Services struct {
	Auth      auth.Service
	Users     users.Service
	Fleet     fleet.Service
	Rides     rides.Service
	Bodega    bodega.Service
	Payments  payments.Service
	Analytics analytics.Service
}

// Params carries everything NewRouter wires. Redis, Hub, HTTPMetrics,
// Gatherer and WebhookGuard are optional.
type Params struct {
	Config       *config.Config
	Logger       *logger.Logger
	Pingers      map[string]controllers.Pinger
	Redis        *redis.Client
	Hub          *realtime.Hub
	HTTPMetrics  *metrics.HTTPMetrics
	Gatherer     prometheus.Gatherer
	WebhookGuard *payments.EventGuard
	Services     Services
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger
	svc := p.Services

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	// Without Redis the counters and replay cache are skipped. The nil check
	// happens here so a nil *redis.Client never lands in an interface.
	loginLimit, registerLimit, idempotent := passthrough, passthrough, passthrough
	if p.Redis != nil {
		loginLimit = middleware.AuthRateLimit(loginPolicy, p.Redis, logg)
		registerLimit = middleware.AuthRateLimit(registerPolicy, p.Redis, logg)
		idempotent = middleware.Idempotency(p.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Pingers))
	})

	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}
	if p.Hub != nil {
		r.Handle("/ws/locations", realtime.NewHandler(p.Hub, cfg.CORS.AllowedOrigins))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(registerLimit, idempotent).Post("/register", controllers.AuthRegister(svc.Auth, logg))
			r.With(loginLimit).Post("/login", controllers.AuthLogin(svc.Auth, logg))
			r.With(middleware.Auth(cfg.JWT, logg)).Get("/user", controllers.AuthCurrentUser(svc.Auth, logg))
		})

		r.Get("/users/{userId}", controllers.GetUser(svc.Users, logg))
		r.Patch("/users/{userId}", controllers.UpdateUser(svc.Users, logg))
		r.Get("/users/{userId}/free-ride-status", controllers.FreeRideStatus(svc.Users, logg))

		r.Get("/spots", controllers.ListSpots(svc.Fleet, logg))
		r.Get("/spots/{id}", controllers.GetSpot(svc.Fleet, logg))

		r.Get("/rickshaws", controllers.ListVehicles(svc.Fleet, false, logg))
		r.Get("/rickshaws/available", controllers.ListVehicles(svc.Fleet, true, logg))
		r.With(idempotent).Patch("/rickshaws/{id}", controllers.UpdateVehicle(svc.Fleet, logg))

		r.With(idempotent).Post("/rides", controllers.CreateRide(svc.Rides, logg))
		r.Get("/rides/estimate", controllers.EstimateRide(svc.Rides, logg))
		r.Get("/rides/user/{userId}", controllers.ListUserRides(svc.Rides, logg))
		r.Get("/rides/{id}", controllers.GetRide(svc.Rides, logg))
		r.Patch("/rides/{id}", controllers.UpdateRide(svc.Rides, logg))

		r.Get("/bodega/items", controllers.ListBodegaItems(svc.Bodega, logg))
		r.With(idempotent).Post("/orders", controllers.CreateOrder(svc.Bodega, logg))
		r.Get("/orders/user/{userId}", controllers.ListUserOrders(svc.Bodega, logg))

		r.With(idempotent).Post("/create-payment-intent", controllers.CreatePaymentIntent(svc.Payments, logg))
		r.With(idempotent).Post("/payments/confirm-cash", controllers.ConfirmCashPayment(svc.Payments, logg))
		r.Post("/webhooks/stripe", controllers.StripeWebhook(svc.Payments, cfg.Stripe.Secret, p.WebhookGuard, logg))

		r.Group(func(r chi.Router) {
			if cfg.JWT.Enabled() {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Use(middleware.RequireRole("admin", logg))
			}
			r.Get("/analytics/overview", controllers.AnalyticsOverview(svc.Analytics, logg))
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
