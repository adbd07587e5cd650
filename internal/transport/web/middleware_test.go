package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Olprog59/go-clientbook/internal/config"
	"github.com/Olprog59/go-clientbook/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newTestMiddleware(t *testing.T, conf *config.Config) *Middleware {
	t.Helper()
	mw := NewMiddleware(conf, metrics.NewMetrics(prometheus.NewRegistry()))
	t.Cleanup(mw.Stop)
	return mw
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		assert.NotNil(t, loggerFrom(r.Context()))
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Len(t, seen, 36)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "upstream-id")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "upstream-id", seen)
		assert.Equal(t, "upstream-id", rec.Header().Get(RequestIDHeader))
	})
}

func TestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	rec := httptest.NewRecorder()
	Timeout(20*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "request timeout")

	rec = httptest.NewRecorder()
	Timeout(0)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResponseWriter_KeepsFirstStatus(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())
	assert.Equal(t, http.StatusOK, rw.statusCode)

	rw.WriteHeader(http.StatusSeeOther)
	rw.WriteHeader(http.StatusInternalServerError)
	assert.Equal(t, http.StatusSeeOther, rw.statusCode)
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		env        string
		hsts       bool
		unsafeInln bool
	}{
		{env: "development", hsts: false, unsafeInln: true},
		{env: "production", hsts: true, unsafeInln: false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			mw := newTestMiddleware(t, &config.Config{Environment: tt.env})
			rec := httptest.NewRecorder()
			mw.SecurityHeaders(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			csp := rec.Header().Get("Content-Security-Policy")
			assert.Contains(t, csp, "frame-ancestors 'none'")
			assert.Equal(t, tt.unsafeInln, strings.Contains(csp, "'unsafe-inline'"))
			assert.Equal(t, tt.hsts, rec.Header().Get("Strict-Transport-Security") != "")
			assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		})
	}
}

func TestCors(t *testing.T) {
	mw := newTestMiddleware(t, &config.Config{
		Cors: config.CorsConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	})
	handler := mw.Cors(okHandler())

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
	})
}

func TestCSRF_Disabled(t *testing.T) {
	mw := newTestMiddleware(t, &config.Config{})

	var token string
	handler := mw.CSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = csrfToken(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/client/add", strings.NewReader("Nom=Diallo")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, token)
	assert.Empty(t, rec.Result().Cookies())
}

func TestCSRF_IssuesAndReusesToken(t *testing.T) {
	mw := newTestMiddleware(t, &config.Config{Security: config.SecurityConfig{CSRFEnabled: true}})

	var token string
	handler := mw.CSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = csrfToken(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clients", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, csrfCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	assert.Equal(t, cookies[0].Value, token)

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Result().Cookies(), "an existing token is kept")
	assert.Equal(t, "existing", token)
}

func TestBasicAuth_Disabled(t *testing.T) {
	mw := newTestMiddleware(t, &config.Config{})
	rec := httptest.NewRecorder()
	mw.BasicAuth(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := chain(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}, tag("first"), tag("second"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}
