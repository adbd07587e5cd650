package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DatabaseConfig holds database connection config / Contient la config de connexion BD
type DatabaseConfig struct {
	Type         DatabaseType
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// DatabaseInitializer initializes database connections / Initialise les connexions BD
type DatabaseInitializer interface {
	Initialize(config DatabaseConfig) (*sql.DB, error)
	ConfigureConnection(db *sql.DB, config DatabaseConfig) error
	Type() DatabaseType
}

// InitializerRegistry manages database initializers / Gère les initialiseurs de BD
type InitializerRegistry[T DatabaseInitializer] struct {
	factories map[DatabaseType]func() T
}

// NewInitializerRegistry creates registry / Crée le registre
func NewInitializerRegistry[T DatabaseInitializer]() *InitializerRegistry[T] {
	return &InitializerRegistry[T]{
		factories: make(map[DatabaseType]func() T),
	}
}

// Register registers initializer factory / Enregistre une factory d'initialiseur
func (r *InitializerRegistry[T]) Register(dbType DatabaseType, factory func() T) {
	r.factories[dbType] = factory
}

// Get retrieves initializer / Récupère l'initialiseur
func (r *InitializerRegistry[T]) Get(dbType DatabaseType, fallback func() T) T {
	if factory, exists := r.factories[dbType]; exists {
		return factory()
	}
	return fallback()
}

var initializerRegistry = func() *InitializerRegistry[DatabaseInitializer] {
	registry := NewInitializerRegistry[DatabaseInitializer]()
	registry.Register(MySQL, func() DatabaseInitializer { return &mysqlInitializer{} })
	registry.Register(PostgreSQL, func() DatabaseInitializer { return &postgresInitializer{} })
	registry.Register(SQLite, func() DatabaseInitializer { return &sqliteInitializer{} })
	return registry
}()

// NewDatabaseInitializer creates initializer for database type / Crée l'initialiseur pour le type de BD
func NewDatabaseInitializer(dbType DatabaseType) DatabaseInitializer {
	return initializerRegistry.Get(dbType, func() DatabaseInitializer { return &sqliteInitializer{} })
}

// baseInitializer provides common functionality / Fournit les fonctionnalités communes
type baseInitializer struct{}

func (b *baseInitializer) setConnectionPool(db *sql.DB, config DatabaseConfig) {
	maxOpen := config.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 25
	}
	maxIdle := config.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 5
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
}

// open opens, configures and pings a connection pool / Ouvre, configure et teste le pool
func (b *baseInitializer) open(i DatabaseInitializer, config DatabaseConfig) (*sql.DB, error) {
	driver := i.Type().DriverName()
	db, err := sql.Open(driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", i.Type(), err)
	}

	if err := i.ConfigureConnection(db, config); err != nil {
		db.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", i.Type(), err)
	}

	slog.Info("database connected", "type", i.Type().String())
	return db, nil
}

// MySQL initializer / Initialiseur MySQL
type mysqlInitializer struct {
	baseInitializer
}

func (i *mysqlInitializer) Initialize(config DatabaseConfig) (*sql.DB, error) {
	return i.open(i, config)
}

func (i *mysqlInitializer) ConfigureConnection(db *sql.DB, config DatabaseConfig) error {
	i.setConnectionPool(db, config)
	// Session variables would only reach one pooled connection, sql_mode belongs in the DSN.
	return nil
}

func (i *mysqlInitializer) Type() DatabaseType {
	return MySQL
}

// PostgreSQL initializer / Initialiseur PostgreSQL
type postgresInitializer struct {
	baseInitializer
}

func (i *postgresInitializer) Initialize(config DatabaseConfig) (*sql.DB, error) {
	return i.open(i, config)
}

func (i *postgresInitializer) ConfigureConnection(db *sql.DB, config DatabaseConfig) error {
	i.setConnectionPool(db, config)
	return nil
}

func (i *postgresInitializer) Type() DatabaseType {
	return PostgreSQL
}

// SQLite initializer / Initialiseur SQLite
type sqliteInitializer struct {
	baseInitializer
}

func (i *sqliteInitializer) Initialize(config DatabaseConfig) (*sql.DB, error) {
	return i.open(i, config)
}

func (i *sqliteInitializer) ConfigureConnection(db *sql.DB, config DatabaseConfig) error {
	i.setConnectionPool(db, config)

	// Every connection to :memory: is a distinct database.
	if IsInMemorySQLite(config.DSN) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		return nil
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA trusted_schema=OFF;",
		"PRAGMA wal_autocheckpoint=1000;",
		"PRAGMA cache_size=10000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			slog.Warn("failed to execute pragma", "pragma", pragma, "err", err)
		}
	}

	return nil
}

func (i *sqliteInitializer) Type() DatabaseType {
	return SQLite
}

// IsInMemorySQLite reports whether a SQLite DSN points to a memory database / Indique si le DSN SQLite est en mémoire
func IsInMemorySQLite(dsn string) bool {
	return dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
