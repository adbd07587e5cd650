package repository

import (
	"database/sql"
	"fmt"

	"github.com/Olprog59/go-clientbook/internal/domain"
	"github.com/Olprog59/go-clientbook/internal/ports"
	"github.com/Olprog59/go-clientbook/internal/repository/db"
)

// NewSQLiteClients creates SQLite clients repository for tests / Crée un repository clients SQLite pour les tests
func NewSQLiteClients(database *sql.DB) ports.ClientRepository {
	return NewAdapter(database, db.SQLite.String()).ClientRepository(domain.DefaultClientsTable, domain.DefaultIDColumn)
}

// OpenMemorySQLite opens a migrated in-memory SQLite database for tests / Ouvre une base SQLite en mémoire migrée pour les tests
func OpenMemorySQLite() (*sql.DB, error) {
	database, err := db.NewDatabaseInitializer(db.SQLite).Initialize(db.DatabaseConfig{
		Type: db.SQLite,
		DSN:  ":memory:",
	})
	if err != nil {
		return nil, err
	}

	if err := db.ApplyMigrations(database, db.SQLite, ""); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrate memory database: %w", err)
	}
	return database, nil
}
