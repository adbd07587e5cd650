package mysql

import (
	"github.com/Olprog59/go-clientbook/internal/ports"
	"github.com/Olprog59/go-clientbook/internal/repository/sqlstore"
	"github.com/jmoiron/sqlx"
)

// Factory implements DatabaseFactory for MySQL / Implémente DatabaseFactory pour MySQL
type Factory struct{}

// NewClientRepository creates clients repository / Crée le repository clients
func (f *Factory) NewClientRepository(db *sqlx.DB, table, idColumn string) ports.ClientRepository {
	return sqlstore.NewClientRepository(db, engine{}, table, idColumn)
}
