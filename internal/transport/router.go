package transport

import (
	"net/http"

	"mymarket-be/internal/logger"
	"mymarket-be/internal/metrics"
	"mymarket-be/internal/middleware"
	"mymarket-be/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type RouterDeps struct {
	Handler  *Handler
	Limiter  *middleware.RateLimiter
	Server   *metrics.ServerMetrics
	Registry *prometheus.Registry
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.MetricsMiddleware(d.Server))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})
	if d.Registry != nil {
		r.Handle("/metrics", metrics.Handler(d.Registry))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware)
		if d.Limiter != nil {
			r.Use(d.Limiter.Middleware)
		}

		h := d.Handler
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items/{itemId}/increment", h.IncrementItem)
			r.Post("/items/{itemId}/decrement", h.DecrementItem)
			r.Delete("/items/{itemId}", h.DeleteItem)
		})

		r.Post("/checkout", h.Checkout)
		r.Get("/checkout/availability", h.CheckoutAvailability)

		r.Get("/orders", h.ListOrders)
		r.Get("/orders/{orderId}", h.GetOrder)
	})

	return r
}
