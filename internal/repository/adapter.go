package repository

import (
	"database/sql"

	"github.com/Olprog59/go-clientbook/internal/ports"
	"github.com/Olprog59/go-clientbook/internal/repository/db"
	"github.com/Olprog59/go-clientbook/internal/repository/mysql"
	"github.com/Olprog59/go-clientbook/internal/repository/postgres"
	"github.com/Olprog59/go-clientbook/internal/repository/sqlite"
	"github.com/jmoiron/sqlx"
)

// Compile-time checks to ensure all Factory implementations satisfy DatabaseFactory interface
// Vérifications à la compilation pour s'assurer que toutes les implémentations de Factory satisfont l'interface DatabaseFactory
var (
	_ DatabaseFactory = (*sqlite.Factory)(nil)
	_ DatabaseFactory = (*mysql.Factory)(nil)
	_ DatabaseFactory = (*postgres.Factory)(nil)
)

// factoryRegistry holds all database factories / Registre de toutes les factories de BD
var factoryRegistry = map[db.DatabaseType]DatabaseFactory{
	db.SQLite:     &sqlite.Factory{},
	db.MySQL:      &mysql.Factory{},
	db.PostgreSQL: &postgres.Factory{},
}

// Adapter adapts database connection to repositories / Adapte la connexion BD vers les repositories
type Adapter struct {
	db      *sqlx.DB
	factory DatabaseFactory
}

// NewAdapter creates repository adapter / Crée l'adapteur de repositories
// Unknown drivers fall back to SQLite.
func NewAdapter(database *sql.DB, driver string) *Adapter {
	dbType := db.ParseDatabaseType(driver)
	factory := factoryRegistry[dbType]
	if factory == nil {
		dbType = db.SQLite
		factory = factoryRegistry[db.SQLite]
	}

	return &Adapter{
		db:      sqlx.NewDb(database, dbType.DriverName()),
		factory: factory,
	}
}

// ClientRepository returns appropriate clients repository / Retourne le repository clients approprié
func (a *Adapter) ClientRepository(table, idColumn string) ports.ClientRepository {
	return a.factory.NewClientRepository(a.db, table, idColumn)
}
