package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rejoiceevents/decor-backend/api/controllers"
	webhookcontrollers "github.com/rejoiceevents/decor-backend/api/controllers/webhooks"
	"github.com/rejoiceevents/decor-backend/api/middleware"
	"github.com/rejoiceevents/decor-backend/internal/analytics"
	"github.com/rejoiceevents/decor-backend/internal/auth"
	"github.com/rejoiceevents/decor-backend/internal/bookings"
	"github.com/rejoiceevents/decor-backend/internal/inventory"
	"github.com/rejoiceevents/decor-backend/internal/payments"
	"github.com/rejoiceevents/decor-backend/internal/portfolio"
	stripewebhook "github.com/rejoiceevents/decor-backend/internal/webhooks/stripe"
	"github.com/rejoiceevents/decor-backend/pkg/config"
	"github.com/rejoiceevents/decor-backend/pkg/db"
	"github.com/rejoiceevents/decor-backend/pkg/enums"
	"github.com/rejoiceevents/decor-backend/pkg/logger"
	"github.com/rejoiceevents/decor-backend/pkg/redis"
	"github.com/rejoiceevents/decor-backend/pkg/stripe"
)

// Deps bundles everything the HTTP surface needs. The webhook route is
// registered outside any body-parsing middleware so the raw payload
// reaches signature verification untouched.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	Stripe       *stripe.Client
	Registry     *prometheus.Registry
	AuthService  auth.Service
	Inventory    inventory.Service
	Bookings     bookings.Service
	Payments     payments.Service
	Portfolio    portfolio.Service
	Analytics    analytics.Service
	WebhookSvc   *stripewebhook.Service
	WebhookGuard *stripewebhook.EventGuard
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.ThrottlePolicy{
		Name:     "login",
		Window:   cfg.AuthThrottle.LoginWindow,
		PerIP:    cfg.AuthThrottle.LoginPerIP,
		PerEmail: cfg.AuthThrottle.LoginPerEmail,
	}
	registerPolicy := middleware.ThrottlePolicy{
		Name:     "register",
		Window:   cfg.AuthThrottle.RegisterWindow,
		PerIP:    cfg.AuthThrottle.RegisterPerIP,
		PerEmail: cfg.AuthThrottle.RegisterPerEmail,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": d.DB,
			"redis":    d.Redis,
		}))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.Throttle(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.With(middleware.Throttle(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.AuthService, logg))
	})

	r.Route("/api/inventory", func(r chi.Router) {
		r.Get("/", controllers.ListInventory(d.Inventory, logg))
		r.Get("/categories", controllers.ListInventoryCategories(d.Inventory, logg))
		r.Get("/{itemId}", controllers.GetInventoryItem(d.Inventory, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Post("/", controllers.CreateInventoryItem(d.Inventory, logg))
			r.Post("/categories", controllers.CreateInventoryCategory(d.Inventory, logg))
			r.Put("/{itemId}", controllers.UpdateInventoryItem(d.Inventory, logg))
			r.Delete("/{itemId}", controllers.DeleteInventoryItem(d.Inventory, logg))
		})
	})

	r.Route("/api/portfolio", func(r chi.Router) {
		r.Get("/", controllers.ListPortfolioProjects(d.Portfolio, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Post("/", controllers.CreatePortfolioProject(d.Portfolio, logg))
			r.Put("/{projectId}", controllers.UpdatePortfolioProject(d.Portfolio, logg))
			r.Delete("/{projectId}", controllers.DeletePortfolioProject(d.Portfolio, logg))
		})
	})

	r.Route("/api/bookings", func(r chi.Router) {
		// Raw-body route, registered before any JSON handling.
		r.Post("/webhook", webhookcontrollers.Stripe(d.WebhookSvc, d.Stripe, d.WebhookGuard, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/", controllers.CreateBooking(d.Bookings, logg))
			r.Get("/my-bookings", controllers.MyBookings(d.Bookings, logg))
			r.Get("/{bookingId}", controllers.GetBooking(d.Bookings, logg))
			r.Post("/create-payment-intent", controllers.CreateBookingPaymentIntent(d.Payments, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Get("/", controllers.ListBookings(d.Bookings, logg))
				r.Patch("/{bookingId}/status", controllers.UpdateBookingStatus(d.Bookings, logg))
				r.Post("/{bookingId}/confirm-payment", controllers.ConfirmBookingPayment(d.Payments, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Get("/stats", controllers.AdminStats(d.Analytics, logg))
	})

	return r
}
