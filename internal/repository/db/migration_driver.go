package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Olprog59/go-clientbook/internal/repository/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file" // Required for file-based migrations
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// DriverConfig holds driver metadata / Contient les métadonnées du driver
type DriverConfig[T any] struct {
	Name       string
	DBType     DatabaseType
	CreateFunc func(*sql.DB, T) (database.Driver, error)
	Config     T
}

// MigrationDriver creates migration driver using generics / Crée un driver de migration avec génériques
type MigrationDriver[T any] struct {
	config DriverConfig[T]
}

// NewMigrationDriver creates migration driver / Crée un driver de migration
func NewMigrationDriver[T any](config DriverConfig[T]) *MigrationDriver[T] {
	return &MigrationDriver[T]{config: config}
}

// CreateDriver creates database driver / Crée le driver de base de données
func (d *MigrationDriver[T]) CreateDriver(db *sql.DB) (database.Driver, error) {
	return d.config.CreateFunc(db, d.config.Config)
}

// DriverName returns driver name / Retourne le nom du driver
func (d *MigrationDriver[T]) DriverName() string {
	return d.config.Name
}

// Type returns database type / Retourne le type de base de données
func (d *MigrationDriver[T]) Type() DatabaseType {
	return d.config.DBType
}

// MigrationDriverFactory creates migration drivers / Crée les drivers de migration
type MigrationDriverFactory interface {
	CreateDriver(db *sql.DB) (database.Driver, error)
	DriverName() string
	Type() DatabaseType
}

// MigrationDriverRegistry manages migration drivers / Gère les drivers de migration
type MigrationDriverRegistry struct {
	factories map[DatabaseType]MigrationDriverFactory
}

// NewMigrationDriverRegistry creates registry / Crée le registre
func NewMigrationDriverRegistry() *MigrationDriverRegistry {
	registry := &MigrationDriverRegistry{
		factories: make(map[DatabaseType]MigrationDriverFactory),
	}

	registry.Register(SQLite, NewMigrationDriver(DriverConfig[*sqlite.Config]{
		Name:   "sqlite",
		DBType: SQLite,
		CreateFunc: func(db *sql.DB, cfg *sqlite.Config) (database.Driver, error) {
			return sqlite.WithInstance(db, cfg)
		},
		Config: &sqlite.Config{},
	}))

	registry.Register(MySQL, NewMigrationDriver(DriverConfig[*mysql.Config]{
		Name:   "mysql",
		DBType: MySQL,
		CreateFunc: func(db *sql.DB, cfg *mysql.Config) (database.Driver, error) {
			return mysql.WithInstance(db, cfg)
		},
		Config: &mysql.Config{},
	}))

	registry.Register(PostgreSQL, NewMigrationDriver(DriverConfig[*postgres.Config]{
		Name:   "postgres",
		DBType: PostgreSQL,
		CreateFunc: func(db *sql.DB, cfg *postgres.Config) (database.Driver, error) {
			return postgres.WithInstance(db, cfg)
		},
		Config: &postgres.Config{},
	}))

	return registry
}

// Register adds migration driver factory / Ajoute une factory de migration
func (r *MigrationDriverRegistry) Register(dbType DatabaseType, factory MigrationDriverFactory) {
	r.factories[dbType] = factory
}

// GetFactory retrieves migration driver factory / Récupère la factory de migration
func (r *MigrationDriverRegistry) GetFactory(dbType DatabaseType) (MigrationDriverFactory, error) {
	factory, exists := r.factories[dbType]
	if !exists {
		return nil, fmt.Errorf("unsupported database type for migrations: %s", dbType)
	}
	return factory, nil
}

// NewMigrator builds a migrate instance for the engine / Construit une instance migrate pour le moteur
// An empty path uses the migrations embedded in the binary.
func (r *MigrationDriverRegistry) NewMigrator(db *sql.DB, dbType DatabaseType, path string) (*migrate.Migrate, error) {
	driverFactory, err := r.GetFactory(dbType)
	if err != nil {
		return nil, err
	}

	driver, err := driverFactory.CreateDriver(db)
	if err != nil {
		return nil, fmt.Errorf("could not create %s migration driver: %w", dbType, err)
	}

	if path != "" {
		return migrate.NewWithDatabaseInstance("file://"+path, driverFactory.DriverName(), driver)
	}

	source, err := iofs.New(migrations.FS, dbType.String())
	if err != nil {
		return nil, fmt.Errorf("could not open embedded %s migrations: %w", dbType, err)
	}
	return migrate.NewWithInstance("iofs", source, driverFactory.DriverName(), driver)
}

// ApplyMigrations runs every pending up migration / Applique les migrations en attente
func ApplyMigrations(db *sql.DB, dbType DatabaseType, path string) error {
	m, err := NewMigrationDriverRegistry().NewMigrator(db, dbType, path)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	slog.Info("applying database migrations", "type", dbType.String(), "embedded", path == "")
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
