package sqlite

import (
	"github.com/Olprog59/go-clientbook/internal/ports"
	"github.com/Olprog59/go-clientbook/internal/repository/sqlstore"
	"github.com/jmoiron/sqlx"
)

// Factory implements DatabaseFactory for SQLite / Implémente DatabaseFactory pour SQLite
// The compile-time check is in adapter.go to avoid import cycles
// La vérification à la compilation est dans adapter.go pour éviter les cycles d'imports
type Factory struct{}

// NewClientRepository creates clients repository / Crée le repository clients
func (f *Factory) NewClientRepository(db *sqlx.DB, table, idColumn string) ports.ClientRepository {
	return sqlstore.NewClientRepository(db, engine{}, table, idColumn)
}
