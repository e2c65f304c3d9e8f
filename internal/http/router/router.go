package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/http/handlers"
	httpmw "courier-dispatch/internal/http/middleware"
	"courier-dispatch/internal/http/middleware/ratelimit"
	"courier-dispatch/internal/logx"
)

// Deps collects everything the router mounts.
type Deps struct {
	Logger    logx.Logger
	Base      *handlers.Handlers
	Orders    *handlers.OrderHandler
	Couriers  *handlers.CourierHandler
	Shops     *handlers.ShopHandler
	RateLimit *ratelimit.Middleware // optional
	Metrics   *httpmw.HTTPMetrics   // optional
	Exporter  http.Handler          // served at /metrics when set
	Timeout   time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = logx.Nop()
	}
	if d.Timeout <= 0 {
		d.Timeout = 5 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", httpmw.HeaderCallerRole, httpmw.HeaderCallerID},
		ExposedHeaders: []string{"Location"},
		MaxAge:         300,
	}))
	r.Use(httpmw.Observability(d.Logger, d.Metrics))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	if d.Exporter != nil {
		r.Method(http.MethodGet, "/metrics", d.Exporter)
	}

	r.Group(func(r chi.Router) {
		r.Use(httpmw.Identify(d.Logger))
		if d.RateLimit != nil {
			r.Use(d.RateLimit.Handler())
		}
		r.Use(middleware.Timeout(d.Timeout))

		r.Get("/districts", d.Base.Districts)

		r.Route("/orders", func(r chi.Router) {
			r.With(httpmw.Require(domain.RoleShop)).Post("/", d.Orders.Create)
			r.With(httpmw.Require(domain.RoleShop)).Get("/store", d.Orders.ListStore)
			r.With(httpmw.Require(domain.RoleCourier)).Get("/mine", d.Orders.ListMine)
			r.Get("/{id}", d.Orders.Get)
			r.Post("/{id}/status", d.Orders.UpdateStatus)
		})

		r.Route("/couriers", func(r chi.Router) {
			r.Post("/", d.Couriers.Register)
			r.With(httpmw.Require(domain.RoleShop)).Post("/nearby", d.Couriers.Nearby)
			r.Get("/{id}", d.Couriers.Get)
			r.With(httpmw.Require(domain.RoleCourier)).Post("/{id}/status", d.Couriers.SetStatus)
			r.With(httpmw.Require(domain.RoleCourier)).Post("/{id}/location", d.Couriers.ReportLocation)
		})

		r.Route("/shops", func(r chi.Router) {
			r.Post("/", d.Shops.Register)
			r.With(httpmw.Require(domain.RoleCourier)).Post("/nearby", d.Shops.Nearby)
			r.Get("/{id}", d.Shops.Get)
			r.With(httpmw.Require(domain.RoleShop)).Post("/{id}/location", d.Shops.UpdateLocation)
		})
	})

	r.NotFound(d.Base.NotFound)
	r.MethodNotAllowed(d.Base.MethodNotAllowed)
	return r
}
