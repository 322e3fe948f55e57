package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/barstockapp/barstock-backend/api/controllers"
	"github.com/barstockapp/barstock-backend/api/middleware"
	"github.com/barstockapp/barstock-backend/internal/reservations"
	"github.com/barstockapp/barstock-backend/internal/txlog"
	"github.com/barstockapp/barstock-backend/pkg/config"
	"github.com/barstockapp/barstock-backend/pkg/db"
	"github.com/barstockapp/barstock-backend/pkg/logger"
	"github.com/barstockapp/barstock-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	reservationService reservations.Service,
	txlogRepo txlog.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Operator(logg),
	)

	var redisP db.Pinger
	var idempotencyStore redis.IdempotencyStore
	if redisClient != nil {
		redisP = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())

		r.Route("/inventory", func(r chi.Router) {
			r.Use(middleware.Idempotency(idempotencyStore, logg))

			r.Post("/reservations", controllers.CreateReservation(reservationService, logg))
			r.Delete("/reservations/{orderId}", controllers.ReleaseReservation(reservationService, logg))
			r.Post("/deductions", controllers.CreateDeduction(reservationService, logg))
			r.Post("/adjustments", controllers.CreateAdjustment(reservationService, logg))
			r.Get("/transactions", controllers.ListTransactions(txlogRepo, logg))
		})
	})

	return r
}
