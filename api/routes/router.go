package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fitcore-app/fitcore-backend/api/controllers"
	"github.com/fitcore-app/fitcore-backend/api/middleware"
	"github.com/fitcore-app/fitcore-backend/internal/checkins"
	checkoutsvc "github.com/fitcore-app/fitcore-backend/internal/checkout"
	"github.com/fitcore-app/fitcore-backend/internal/hyp"
	"github.com/fitcore-app/fitcore-backend/internal/members"
	"github.com/fitcore-app/fitcore-backend/internal/plans"
	"github.com/fitcore-app/fitcore-backend/internal/reports"
	subscriptionsvc "github.com/fitcore-app/fitcore-backend/internal/subscriptions"
	"github.com/fitcore-app/fitcore-backend/pkg/config"
	"github.com/fitcore-app/fitcore-backend/pkg/db"
	"github.com/fitcore-app/fitcore-backend/pkg/logger"
	"github.com/fitcore-app/fitcore-backend/pkg/metrics"
	"github.com/fitcore-app/fitcore-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	Metrics       *metrics.CheckoutMetrics
	Registry      *prometheus.Registry
	Plans         plans.Service
	Members       members.Repository
	Subscriptions subscriptionsvc.Service
	Checkout      checkoutsvc.Service
	Gateway       hyp.Service
	CheckIns      checkins.Service
	Reports       reports.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	// Gateway return routes live outside /api/v1: the browser lands here
	// after the hosted payment page.
	r.Route("/payment", func(r chi.Router) {
		r.Get("/success", controllers.PaymentSuccess(deps.Gateway, deps.Checkout, deps.Metrics, logg))
		r.Get("/cancel", controllers.PaymentCancel(deps.Gateway, deps.Checkout, deps.Metrics, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/plans", controllers.ListPlans(deps.Plans, logg))

		r.Route("/members/{memberId}", func(r chi.Router) {
			r.Get("/", controllers.GetMember(deps.Members, logg))
			r.Get("/subscriptions", controllers.ListMemberSubscriptions(deps.Subscriptions, logg))
		})

		r.Route("/checkout/drafts", func(r chi.Router) {
			r.Post("/", controllers.CreateCheckoutDraft(deps.Checkout, logg))
			r.Route("/{draftId}", func(r chi.Router) {
				r.Get("/", controllers.GetCheckoutDraft(deps.Checkout, logg))
				r.Patch("/", controllers.UpdateCheckoutDraft(deps.Checkout, logg))
				r.Post("/advance", controllers.AdvanceCheckoutDraft(deps.Checkout, logg))
				r.Post("/retreat", controllers.RetreatCheckoutDraft(deps.Checkout, logg))
				r.Delete("/", controllers.CancelCheckoutDraft(deps.Checkout, logg))
			})
		})

		r.Route("/checkins", func(r chi.Router) {
			r.Post("/", controllers.CreateCheckIn(deps.CheckIns, logg))
			r.Get("/", controllers.ListCheckIns(deps.CheckIns, logg))
		})

		r.Get("/reports/revenue", controllers.RevenueReport(deps.Reports, logg))
	})

	return r
}
