// Package rest exposes the shopper services as a JSON HTTP API. Every
// basket-scoped handler reads today from the injected clock once per request.
package rest

import (
	"net/http"

	"parana-shopper/internal/auth"
	"parana-shopper/internal/basket"
	"parana-shopper/internal/catalog"
	"parana-shopper/internal/clock"
	"parana-shopper/internal/logger"
	"parana-shopper/internal/metrics"
	"parana-shopper/internal/middleware"
	"parana-shopper/internal/order"
	"parana-shopper/internal/shopper"
)

// CacheStats reports catalog cache hits and misses.
type CacheStats interface {
	Stats() (hits, misses int64)
}

type Deps struct {
	Clock    clock.Clock
	Issuer   *auth.Issuer
	Limiter  *middleware.Limiter
	Shoppers shopper.Service
	Catalog  catalog.Service
	Baskets  basket.Service
	Orders   order.Service
	Stats    *metrics.Shop
	Cache    CacheStats
}

type handler struct {
	Deps
}

func NewRouter(deps Deps) http.Handler {
	if deps.Clock == nil {
		deps.Clock = clock.NewSystem()
	}
	if deps.Stats == nil {
		deps.Stats = &metrics.Shop{}
	}
	if deps.Limiter == nil {
		deps.Limiter = middleware.NewLimiter()
	}

	h := &handler{Deps: deps}
	requireShopper := middleware.RequireShopper(deps.Issuer)
	limit := deps.Limiter.Middleware

	// Limits apply after authentication so shoppers are keyed by id.
	public := func(fn http.HandlerFunc) http.Handler {
		return limit(fn)
	}
	protected := func(fn http.HandlerFunc) http.Handler {
		return requireShopper(limit(fn))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.health)
	mux.Handle("POST /login", public(h.login))

	mux.Handle("GET /catalog/categories", public(h.categories))
	mux.Handle("GET /catalog/categories/{id}/products", public(h.products))
	mux.Handle("GET /catalog/products/{id}/offers", public(h.offers))

	mux.Handle("GET /orders", protected(h.history))
	mux.Handle("GET /basket", protected(h.viewBasket))
	mux.Handle("POST /basket/lines", protected(h.addLine))
	mux.Handle("PATCH /basket/lines/{id}", protected(h.updateLine))
	mux.Handle("DELETE /basket/lines/{id}", protected(h.removeLine))
	mux.Handle("POST /checkout", protected(h.checkout))

	return logger.RequestIDMiddleware(logger.LoggingMiddleware(mux))
}
