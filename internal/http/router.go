package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/victorazevedo0/loja-virtual/pkg/logger"
)

type RouterConfig struct {
	Orders         *OrdersHandler
	Products       *ProductHandler
	Web            *WebHandler
	Health         *HealthHandler
	RequestTimeout time.Duration
	Logger         *logger.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(RequestIDMiddleware)
	r.Use(log.HTTPMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", cfg.Health.Health)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", cfg.Orders.ListOrders)
			r.Post("/", cfg.Orders.CreateOrder)
			r.Get("/{id}", cfg.Orders.GetOrder)
			r.Put("/{id}", cfg.Orders.UpdateOrder)
			r.Delete("/{id}", cfg.Orders.DeleteOrder)
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", cfg.Products.ListProducts)
		r.Post("/", cfg.Products.CreateProduct)
		r.Get("/{id}", cfg.Products.GetProduct)
		r.Put("/{id}", cfg.Products.PatchProduct)
	})
	r.Get("/sync-products", cfg.Products.SyncProducts)
	r.Get("/sync-products/", cfg.Products.SyncProducts)

	// Frontend
	r.Get("/", cfg.Web.Index)
	r.Get("/order_manager", cfg.Web.OrderManager)
	r.Handle("/static/*", cfg.Web.Static())

	return otelhttp.NewHandler(r, "storefront",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}))
}
