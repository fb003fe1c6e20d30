package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/cart"
	"github.com/Lukaszwutkowski/QuickCashEasy/internal/catalog"
	"github.com/Lukaszwutkowski/QuickCashEasy/internal/checkout"
	"github.com/Lukaszwutkowski/QuickCashEasy/internal/ledger"
	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/health"
	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/middleware"
)

// ContentTypeJSON rejects write requests that do not declare a JSON body.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			ct := r.Header.Get("Content-Type")
			if ct != "" && ct != "application/json" && ct != "application/json; charset=utf-8" {
				http.Error(w, `{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`, http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// NewRouter creates a chi router with all checkout engine routes registered.
func NewRouter(
	registry *cart.Registry,
	orchestrator *checkout.Orchestrator,
	ledgerRepo ledger.Repository,
	cat catalog.Catalog,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("checkout-engine"))

	// Health and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	cartHandler := NewCartHandler(registry, logger)
	checkoutHandler := NewCheckoutHandler(orchestrator, registry, logger)
	paymentHandler := NewPaymentHandler(ledgerRepo, logger)
	catalogHandler := NewCatalogHandler(cat, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{barcode}", cartHandler.SetQuantity)
			r.Delete("/items/{barcode}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.BeginCheckout)

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", paymentHandler.ListPayments)
			r.Get("/{id}", paymentHandler.GetPayment)
			r.Delete("/{id}", paymentHandler.DeletePayment)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProducts)
			r.Get("/{barcode}", catalogHandler.GetProduct)
		})
	})

	return r
}
