package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Olprog59/go-clientbook/internal/app"
	"github.com/Olprog59/go-clientbook/internal/config"
	"github.com/Olprog59/go-clientbook/internal/service/auth"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSessionSecret = "integration-test-session-secret-0123456789"

func integrationConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Database: config.DatabaseConfig{
			Type:        "sqlite",
			DSN:         ":memory:",
			AutoMigrate: true,
		},
		Clients: config.ClientsConfig{
			Table:       "Clients",
			IDColumn:    "ID",
			PageSize:    10,
			RecentLimit: 5,
		},
		Session: config.SessionConfig{
			Secret: testSessionSecret,
		},
		Security: config.SecurityConfig{
			CSRFEnabled: true,
		},
		Cors: config.CorsConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Metrics: config.MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// browser replays cookies between requests like a real client would.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]string
	user    string
	pass    string
}

// setupIntegration wires a full stack on an in-memory database.
func setupIntegration(t *testing.T, mutate func(*config.Config)) (*browser, *app.Container) {
	t.Helper()

	cfg := integrationConfig()
	if mutate != nil {
		mutate(cfg)
	}

	container, err := app.NewContainer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	handler, mw := NewMux(NewHandler(container), cfg, container)
	t.Cleanup(mw.Stop)

	return &browser{t: t, handler: handler, cookies: map[string]string{}}, container
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	if b.user != "" {
		req.SetBasicAuth(b.user, b.pass)
	}

	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c.Value
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, target, nil)
}

// post submits a form carrying the current CSRF token, fetching one first if needed.
func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	if _, ok := b.cookies[csrfCookieName]; !ok {
		b.get("/clients")
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set(csrfFieldName, b.cookies[csrfCookieName])
	return b.do(http.MethodPost, target, form)
}

func TestIntegration_ClientLifecycle(t *testing.T) {
	b, _ := setupIntegration(t, nil)

	t.Run("empty dashboard", func(t *testing.T) {
		rec := b.get("/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "Dashboard")
		assert.NotEmpty(t, b.cookies[csrfCookieName], "safe requests issue a CSRF cookie")
	})

	t.Run("add client", func(t *testing.T) {
		rec := b.post("/client/add", url.Values{
			"Nom":      {"Diallo"},
			"Prenom":   {"Amadou"},
			"MobPhone": {""},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/clients", rec.Header().Get("Location"))
		assert.NotEmpty(t, b.cookies[flashCookieName])

		rec = b.get("/clients")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), msgClientAdded)
		assert.Contains(t, rec.Body.String(), "Diallo")
		assert.Empty(t, b.cookies[flashCookieName], "the flash is shown once")

		rec = b.get("/clients")
		assert.NotContains(t, rec.Body.String(), msgClientAdded)
	})

	t.Run("view client", func(t *testing.T) {
		rec := b.get("/client/1")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Diallo")
		assert.Contains(t, body, "Amadou")
		assert.Contains(t, body, "NULL", "empty fields are stored as NULL")
	})

	t.Run("edit form is prefilled", func(t *testing.T) {
		rec := b.get("/client/edit/1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `value="Diallo"`)
		assert.Contains(t, rec.Body.String(), `action="/client/edit/1"`)
	})

	t.Run("edit client", func(t *testing.T) {
		rec := b.post("/client/edit/1", url.Values{
			"Nom":    {"Diallo"},
			"Prenom": {"Ibrahima"},
			"Email":  {"ibrahima@example.com"},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/client/1", rec.Header().Get("Location"))

		rec = b.get("/client/1")
		body := rec.Body.String()
		assert.Contains(t, body, msgClientUpdated)
		assert.Contains(t, body, "Ibrahima")
		assert.NotContains(t, body, "Amadou")
	})

	t.Run("search", func(t *testing.T) {
		rec := b.get("/search?q=Dial&type=nom")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Diallo")

		rec = b.get("/search?q=Nobody&type=nom")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "Ibrahima")

		rec = b.post("/search", url.Values{"search_query": {"1"}, "search_type": {"id"}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Ibrahima")

		rec = b.get("/search?q=&type=all")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/clients", rec.Header().Get("Location"))
	})

	t.Run("api", func(t *testing.T) {
		rec := b.get("/api/clients")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var clients []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clients))
		require.Len(t, clients, 1)
		assert.Equal(t, "Diallo", clients[0]["Nom"])
		assert.Equal(t, "ibrahima@example.com", clients[0]["Email"])
		assert.Contains(t, clients[0], "MobPhone")
		assert.Nil(t, clients[0]["MobPhone"])
	})

	t.Run("delete client", func(t *testing.T) {
		rec := b.post("/client/delete/1", nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/clients", rec.Header().Get("Location"))

		rec = b.get("/clients")
		assert.Contains(t, rec.Body.String(), msgClientDeleted)
		assert.NotContains(t, rec.Body.String(), "Diallo")

		rec = b.get("/client/1")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestIntegration_AddWithoutData(t *testing.T) {
	b, container := setupIntegration(t, nil)

	rec := b.post("/client/add", url.Values{"Nom": {""}, "Prenom": {""}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), msgNoData)

	all, err := container.ClientSvc.ExportAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestIntegration_AddStoresValuesVerbatim(t *testing.T) {
	b, container := setupIntegration(t, nil)

	rec := b.post("/client/add", url.Values{"Nom": {" Diallo "}, "Prenom": {"   "}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	all, err := container.ClientSvc.ExportAll(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, " Diallo ", all[0].Value("Nom"))
	assert.Equal(t, "   ", all[0].Value("Prenom"))
	assert.True(t, all[0].IsNull("Email"))
}

func TestIntegration_MissingAndInvalidIDs(t *testing.T) {
	b, _ := setupIntegration(t, nil)

	rec := b.get("/client/abc")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = b.get("/client/edit/abc")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = b.get("/client/999")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/clients", rec.Header().Get("Location"))
	rec = b.get("/clients")
	assert.Contains(t, rec.Body.String(), msgClientNotFound)

	rec = b.get("/client/edit/999")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = b.post("/client/edit/999", url.Values{"Nom": {"Ghost"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/clients", rec.Header().Get("Location"))
	rec = b.get("/clients")
	assert.Contains(t, rec.Body.String(), msgClientNotFound)
	assert.NotContains(t, rec.Body.String(), "Ghost")
}

func TestIntegration_Pagination(t *testing.T) {
	b, _ := setupIntegration(t, func(c *config.Config) { c.Clients.PageSize = 2 })

	for _, name := range []string{"Bangoura", "Camara", "Keita"} {
		rec := b.post("/client/add", url.Values{"Nom": {name}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
	}
	b.get("/clients") // consume the last flash

	first := b.get("/clients").Body.String()
	assert.Contains(t, first, "Bangoura")
	assert.Contains(t, first, "Camara")
	assert.NotContains(t, first, "Keita")

	second := b.get("/clients?page=2").Body.String()
	assert.Contains(t, second, "Keita")
	assert.NotContains(t, second, "Camara")

	assert.Equal(t, http.StatusOK, b.get("/clients?page=abc").Code)
}

func TestIntegration_CSRF(t *testing.T) {
	b, container := setupIntegration(t, nil)
	b.get("/clients")
	require.NotEmpty(t, b.cookies[csrfCookieName])

	t.Run("mismatched token", func(t *testing.T) {
		form := url.Values{"Nom": {"Diallo"}, csrfFieldName: {"forged"}}
		rec := b.do(http.MethodPost, "/client/add", form)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing cookie", func(t *testing.T) {
		stranger := &browser{t: t, handler: b.handler, cookies: map[string]string{}}
		form := url.Values{"Nom": {"Diallo"}, csrfFieldName: {b.cookies[csrfCookieName]}}
		rec := stranger.do(http.MethodPost, "/client/add", form)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("header token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/client/add", strings.NewReader("Nom=Diallo"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set(csrfHeaderName, b.cookies[csrfCookieName])
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: b.cookies[csrfCookieName]})
		rec := httptest.NewRecorder()
		b.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})

	assert.Equal(t, float64(2), testutil.ToFloat64(container.Metrics.CSRFFailures))
}

func TestIntegration_BasicAuth(t *testing.T) {
	hash, err := auth.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	b, container := setupIntegration(t, func(c *config.Config) {
		c.Auth = config.AuthConfig{Enabled: true, Username: "admin", PasswordHash: hash, Realm: "Clientbook"}
	})

	rec := b.get("/clients")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), `realm="Clientbook"`)

	rec = b.get("/api/clients")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	b.user, b.pass = "admin", "wrong"
	rec = b.get("/clients")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(container.Metrics.AuthFailures))

	b.pass = "s3cret"
	assert.Equal(t, http.StatusOK, b.get("/clients").Code)
	assert.Equal(t, http.StatusOK, b.get("/api/clients").Code)

	b.user = ""
	assert.Equal(t, http.StatusOK, b.get("/health").Code, "health checks stay public")
}

func TestIntegration_HealthAndMetrics(t *testing.T) {
	b, _ := setupIntegration(t, nil)

	rec := b.get("/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)

	rec = b.get("/readiness")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.Checks["database"])
	assert.Equal(t, "ok", health.Checks["clients_table"])

	b.get("/clients")
	rec = b.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="GET /clients",status_code="200"}`)
	assert.Contains(t, body, "go_goroutines")
}

func TestIntegration_ReadinessWithoutTable(t *testing.T) {
	b, _ := setupIntegration(t, func(c *config.Config) { c.Database.AutoMigrate = false })

	rec := b.get("/readiness")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "error", health.Status)
	assert.Equal(t, "ok", health.Checks["database"])
	assert.NotEqual(t, "ok", health.Checks["clients_table"])
}

func TestIntegration_StaticAndSecurityHeaders(t *testing.T) {
	b, _ := setupIntegration(t, nil)

	rec := b.get("/static/js/script.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())

	rec = b.get("/")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "cdn.jsdelivr.net")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}
