package web

import (
	"net/http"

	_ "github.com/Olprog59/go-clientbook/docs" // Swagger docs
	"github.com/Olprog59/go-clientbook/internal/app"
	"github.com/Olprog59/go-clientbook/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewMux creates and configures the HTTP router / Crée et configure le routeur HTTP
// The returned Middleware owns the rate limiter goroutines; call Stop on shutdown.
func NewMux(h *Handler, conf *config.Config, container *app.Container) (http.Handler, *Middleware) {
	mux := http.NewServeMux()
	mw := NewMiddleware(conf, container.Metrics)

	// Health check endpoints (no auth, for load balancers and probes)
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /readiness", h.ReadinessCheck)

	if conf.Metrics.Enabled {
		path := conf.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		metricsHandler := promhttp.HandlerFor(container.Registry, promhttp.HandlerOpts{Registry: container.Registry})
		mux.Handle("GET "+path, chain(metricsHandler.ServeHTTP, mw.BasicAuth))
	}

	mux.Handle("GET /swagger/", chain(httpSwagger.Handler().ServeHTTP, mw.BasicAuth))
	mux.Handle("GET /static/", staticHandler())

	// Pages / Pages
	mux.Handle("GET /{$}", chain(h.Dashboard, mw.BasicAuth, mw.CSRF))
	mux.Handle("GET /clients", chain(h.ListClients, mw.BasicAuth, mw.CSRF))
	mux.Handle("GET /client/{id}", chain(h.ViewClient, mw.BasicAuth, mw.CSRF))
	mux.Handle("GET /client/add", chain(h.AddClientForm, mw.BasicAuth, mw.CSRF))
	mux.Handle("GET /client/edit/{id}", chain(h.EditClientForm, mw.BasicAuth, mw.CSRF))
	mux.Handle("GET /search", chain(h.Search, mw.BasicAuth, mw.CSRF))

	// Form submissions / Soumissions de formulaires
	mux.Handle("POST /client/add", chain(h.AddClient, mw.BasicAuth, mw.RateLimitStrict, mw.CSRF))
	mux.Handle("POST /client/edit/{id}", chain(h.EditClient, mw.BasicAuth, mw.RateLimitStrict, mw.CSRF))
	mux.Handle("POST /client/delete/{id}", chain(h.DeleteClient, mw.BasicAuth, mw.RateLimitStrict, mw.CSRF))
	mux.Handle("POST /search", chain(h.Search, mw.BasicAuth, mw.CSRF))

	// JSON API
	mux.Handle("GET /api/clients", chain(h.APIClients, mw.Cors, mw.BasicAuth))
	mux.Handle("OPTIONS /api/clients", chain(h.APIClients, mw.Cors))

	// Global middlewares - applied in reverse order / Middlewares globaux appliqués en ordre inverse
	var handler http.Handler = mux
	handler = mw.MetricsMiddleware(handler) // Innermost so the matched pattern is visible
	handler = mw.RateLimit(handler)
	handler = mw.SecurityHeaders(handler)
	handler = Timeout(conf.Server.RequestTimeout)(handler)
	handler = Logging(handler)   // Logging includes request ID
	handler = RequestID(handler) // RequestID first - generates ID for all middleware

	return handler, mw
}

// chain applies middleware to HTTP handler / Applique les middlewares au gestionnaire HTTP
// The first middleware listed runs first.
func chain(f http.HandlerFunc, middlewares ...func(http.Handler) http.Handler) http.Handler {
	var handler http.Handler = f

	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	return handler
}
