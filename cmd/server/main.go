package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Olprog59/go-clientbook/docs"
	"github.com/Olprog59/go-clientbook/internal/app"
	"github.com/Olprog59/go-clientbook/internal/config"
	"github.com/Olprog59/go-clientbook/internal/logging"
	"github.com/Olprog59/go-clientbook/internal/transport/web"
)

// main is the application entry point / Point d'entrée de l'application
//
//	@title			Clientbook API
//	@version		1.0
//	@description	Read-only JSON access to the clients table.
//	@host			localhost:8080
//	@BasePath		/
//	@schemes		http https
//
//	@securityDefinitions.basic	BasicAuth
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

// run initializes and starts the HTTP server / Initialise et démarre le serveur HTTP
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Configure the logger according to the environment
	logCloser := logging.Setup(cfg, os.Stdout)
	defer logCloser.Close()

	logStartupInfo(cfg)

	container, err := app.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	handler := web.NewHandler(container)
	mux, mw := web.NewMux(handler, cfg, container)
	defer mw.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("shutting down server gracefully")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

// logStartupInfo displays startup information / Affiche les informations de démarrage
func logStartupInfo(conf *config.Config) {
	docs.SwaggerInfo.Host = hostFromBaseURL(conf.Server.BaseURL)

	slog.Info("🚀 Starting clientbook",
		"environment", conf.Environment,
		"port", conf.Server.Port,
		"database", conf.Database.Type,
		"table", conf.Clients.Table,
	)

	if conf.RateLimiter.Enabled {
		slog.Info("🛡️  Rate limiter enabled",
			"global_rps", conf.RateLimiter.RPS,
			"global_burst", conf.RateLimiter.Burst,
		)
	} else {
		slog.Warn("⚠️  Rate limiter is DISABLED")
	}

	if conf.Auth.Enabled {
		slog.Info("🔒 Basic authentication enabled", "username", conf.Auth.Username, "realm", conf.Auth.Realm)
	} else if conf.IsProduction() {
		slog.Warn("⚠️  Basic authentication is DISABLED in production")
	}

	if !conf.Security.CSRFEnabled {
		slog.Warn("⚠️  CSRF protection is DISABLED")
	}
}

// hostFromBaseURL keeps the swagger host in line with server.base_url.
func hostFromBaseURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return docs.SwaggerInfo.Host
	}
	return u.Host
}
