package web

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Olprog59/go-clientbook/internal/config"
	"github.com/Olprog59/go-clientbook/internal/metrics"
	"github.com/Olprog59/go-clientbook/internal/service/auth"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID generates unique request ID / Génère un ID unique pour la requête
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)

		// Add request ID to logger context for tracing
		logger := slog.With("request_id", requestID)
		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
		ctx = context.WithValue(ctx, LoggerContextKey, logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logging logs every request with its status and duration / Enregistre les requêtes
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		loggerFrom(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// MetricsMiddleware tracks HTTP request metrics / Suit les métriques des requêtes HTTP
// It wraps the mux directly so the matched route pattern is known after serving.
func (m *Middleware) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		m.metrics.IncrementActiveConnections()
		defer m.metrics.DecrementActiveConnections()

		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.metrics.RecordHTTPRequest(r.Method, route, rw.statusCode)
		m.metrics.RecordHTTPDuration(r.Method, route, time.Since(start))
	})
}

// Timeout bounds each request / Ajoute un timeout aux requêtes
// The handler's context is cancelled at the deadline and the client receives 503.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if duration <= 0 {
			return next
		}
		return http.TimeoutHandler(next, duration, "request timeout")
	}
}

// Middleware holds middleware configuration and dependencies / Contient la configuration middleware
type Middleware struct {
	conf          *config.Config
	globalLimiter *RateLimiter
	strictLimiter *RateLimiter
	metrics       *metrics.Metrics
	credentials   *auth.Credentials
}

// responseWriter wraps ResponseWriter to capture status / Encapsule ResponseWriter pour capturer le statut
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader captures status code / Capture le code de statut
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// NewMiddleware creates middleware with rate limiters / Crée le middleware avec limiteurs
func NewMiddleware(conf *config.Config, metrics *metrics.Metrics) *Middleware {
	mw := &Middleware{
		conf:    conf,
		metrics: metrics,
	}

	if conf.Auth.Enabled {
		mw.credentials = auth.NewCredentials(conf.Auth.Username, conf.Auth.PasswordHash)
	}

	if conf.RateLimiter.Enabled {
		ctx := context.Background()

		mw.globalLimiter = NewRateLimiter(ctx, conf.RateLimiter.RPS, conf.RateLimiter.Burst)

		// Writes get half the global budget
		strictRPS := conf.RateLimiter.RPS / 2
		strictBurst := conf.RateLimiter.Burst
		if strictBurst > 2 {
			strictBurst = strictBurst / 2
		}
		mw.strictLimiter = NewRateLimiter(ctx, strictRPS, strictBurst)
	}

	return mw
}

// Stop releases the rate limiter goroutines / Arrête les goroutines des limiteurs
func (m *Middleware) Stop() {
	if m.globalLimiter != nil {
		m.globalLimiter.Stop()
	}
	if m.strictLimiter != nil {
		m.strictLimiter.Stop()
	}
}

// BasicAuth guards the UI with HTTP Basic credentials when enabled / Protège l'interface par authentification Basic
func (m *Middleware) BasicAuth(next http.Handler) http.Handler {
	if !m.conf.Auth.Enabled {
		return next
	}

	challenge := fmt.Sprintf(`Basic realm=%q, charset="UTF-8"`, m.conf.Auth.Realm)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || !m.credentials.Valid(username, password) {
			if ok {
				m.metrics.RecordAuthFailure()
				loggerFrom(r.Context()).Warn("basic auth rejected",
					"username", username,
					"ip", getIPWithTrustedProxies(r, m.conf.Security.TrustedProxies),
				)
			}
			w.Header().Set("WWW-Authenticate", challenge)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Cors handles CORS headers / Gère les en-têtes CORS
func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, allowed := range m.conf.Cors.AllowedOrigins {
			if allowed == "*" || allowed == origin {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				break
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-CSRF-Token")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders adds security headers / Ajoute les en-têtes de sécurité
func (m *Middleware) SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Pages load Bootstrap from jsdelivr; the swagger UI needs inline scripts and styles
		cspValue := "default-src 'self'; frame-ancestors 'none'; object-src 'none'"
		if m.conf.IsProduction() {
			cspValue += "; script-src 'self' cdn.jsdelivr.net; style-src 'self' cdn.jsdelivr.net"
		} else {
			cspValue += "; script-src 'self' 'unsafe-inline' cdn.jsdelivr.net; style-src 'self' 'unsafe-inline' cdn.jsdelivr.net"
		}
		cspValue += "; img-src 'self' data:; font-src 'self'; connect-src 'self'"
		w.Header().Set("Content-Security-Policy", cspValue)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")

		// Strict Transport Security only in production
		if m.conf.IsProduction() {
			w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		}

		next.ServeHTTP(w, r)
	})
}

// CSRF protects forms with a double-submit token / Protège les formulaires par double soumission
// Safe requests get a token cookie when they lack one; unsafe requests must echo the
// cookie value in the csrf_token field or the X-CSRF-Token header.
func (m *Middleware) CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.conf.Security.CSRFEnabled {
			next.ServeHTTP(w, r)
			return
		}

		var token string
		if cookie, err := r.Cookie(csrfCookieName); err == nil {
			token = cookie.Value
		}

		if !isSafeMethod(r.Method) {
			limitRequestBody(w, r, maxFormBytes)
			submitted := r.Header.Get(csrfHeaderName)
			if submitted == "" {
				submitted = r.PostFormValue(csrfFieldName)
			}

			if token == "" || submitted == "" || subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
				m.metrics.RecordCSRFFailure()
				loggerFrom(r.Context()).Warn("CSRF token mismatch",
					"path", r.URL.Path,
					"cookie_len", len(token),
					"submitted_len", len(submitted),
				)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
		}

		if token == "" {
			var err error
			token, err = generateCSRFToken()
			if err != nil {
				loggerFrom(r.Context()).Error("failed to generate CSRF token", "err", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			setCSRFCookie(w, token, m.conf.Session.CookieSecure)
		}

		ctx := context.WithValue(r.Context(), CSRFTokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
