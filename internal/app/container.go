package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Olprog59/go-clientbook/internal/config"
	"github.com/Olprog59/go-clientbook/internal/metrics"
	"github.com/Olprog59/go-clientbook/internal/ports"
	"github.com/Olprog59/go-clientbook/internal/repository"
	"github.com/Olprog59/go-clientbook/internal/repository/db"
	"github.com/Olprog59/go-clientbook/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container holds application dependencies / Contient les dépendances de l'application
type Container struct {
	DB         *sql.DB
	ClientRepo ports.ClientRepository
	ClientSvc  *service.ClientService
	Config     *config.Config
	Metrics    *metrics.Metrics
	Registry   *prometheus.Registry
	ctxCancel  context.CancelFunc
}

// NewContainer initializes application container / Initialise le conteneur de l'application
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	// Each container owns its registry so several can coexist in one process
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.NewMetrics(c.Registry)

	if err := c.initDatabase(); err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}

	if err := c.runMigrations(); err != nil {
		c.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	c.initRepositories()
	c.initServices()

	c.updateDatabaseMetrics()

	return c, nil
}

// databaseType resolves the configured engine, SQLite when unset / Résout le moteur configuré
func (c *Container) databaseType() db.DatabaseType {
	return db.ParseDatabaseType(c.Config.Database.Type)
}

// initDatabase initializes database connection / Initialise la connexion à la base de données
func (c *Container) initDatabase() error {
	dbType := c.databaseType()
	if !dbType.IsValid() {
		return fmt.Errorf("unsupported database type %q", c.Config.Database.Type)
	}

	dbConfig := db.DatabaseConfig{
		Type:         dbType,
		DSN:          c.Config.Database.DSN,
		MaxOpenConns: c.Config.Database.MaxOpenConns,
		MaxIdleConns: c.Config.Database.MaxIdleConns,
	}

	database, err := db.NewDatabaseInitializer(dbType).Initialize(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize %s database: %w", dbType, err)
	}

	c.DB = database
	return nil
}

// runMigrations applies database migrations / Applique les migrations de base de données
func (c *Container) runMigrations() error {
	if !c.Config.Database.AutoMigrate {
		slog.Info("automatic migrations disabled, using existing schema")
		return nil
	}

	if err := db.ApplyMigrations(c.DB, c.databaseType(), c.Config.Database.MigrationsPath); err != nil {
		return err
	}

	slog.Info("database migrations applied")
	return nil
}

// initRepositories initializes repositories / Initialise les repositories
func (c *Container) initRepositories() {
	adapter := repository.NewAdapter(c.DB, c.databaseType().String())
	c.ClientRepo = adapter.ClientRepository(c.Config.Clients.Table, c.Config.Clients.IDColumn)

	slog.Info("repositories initialized",
		"database", c.databaseType(),
		"table", c.Config.Clients.Table,
		"id_column", c.ClientRepo.IDColumn(),
	)
}

// initServices initializes application services / Initialise les services applicatifs
func (c *Container) initServices() {
	c.ClientSvc = service.NewClientService(c.ClientRepo, c.Config, c.Metrics)

	ctx, cancel := context.WithCancel(context.Background())
	c.ctxCancel = cancel

	// Start automatic backup goroutine if enabled / Démarre la goroutine de backup automatique si activée
	if c.Config.Backup.Enabled {
		c.startBackupRoutine(ctx)
	}
}

// updateDatabaseMetrics updates database metrics / Met à jour les métriques de la BD
func (c *Container) updateDatabaseMetrics() {
	stats := c.DB.Stats()
	c.Metrics.UpdateDatabaseConnections(stats.OpenConnections)
}

// Close performs graceful shutdown / Effectue un arrêt gracieux
func (c *Container) Close() error {
	if c.ctxCancel != nil {
		c.ctxCancel()
	}
	if c.DB != nil {
		slog.Info("closing database")
		return c.DB.Close()
	}
	return nil
}
