// Package sqlstore implements the clients repository once for every engine.
// Engines differ only by their Engine value: identifier quoting, the LIKE
// operator, the metadata query and driver error translation.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Olprog59/go-clientbook/internal/domain"
	"github.com/Olprog59/go-clientbook/internal/ports"
	"github.com/Olprog59/go-clientbook/internal/repository/builder"
	"github.com/Olprog59/go-clientbook/internal/repository/db"
	"github.com/jmoiron/sqlx"
)

// Engine describes one database engine / Décrit un moteur de base de données
type Engine interface {
	builder.Dialect
	// ColumnsQuery lists the column names of the table bound to its single '?' in declared order.
	ColumnsQuery() string
	// HandleError translates driver errors to typed errors.
	HandleError(err error) error
}

var _ ports.ClientRepository = (*ClientRepository)(nil)

// ClientRepository implements ports.ClientRepository on sqlx / Implémente ports.ClientRepository avec sqlx
type ClientRepository struct {
	db       *sqlx.DB
	engine   Engine
	table    string
	idColumn string
}

// NewClientRepository creates clients repository / Crée le repository clients
func NewClientRepository(database *sqlx.DB, engine Engine, table, idColumn string) *ClientRepository {
	if table == "" {
		table = domain.DefaultClientsTable
	}
	if idColumn == "" {
		idColumn = domain.DefaultIDColumn
	}
	return &ClientRepository{db: database, engine: engine, table: table, idColumn: idColumn}
}

// IDColumn returns the identifier column name / Retourne le nom de la colonne identifiant
func (r *ClientRepository) IDColumn() string {
	return r.idColumn
}

// conn acquires a scoped connection; callers must Close it / Acquiert une connexion, à fermer par l'appelant
func (r *ClientRepository) conn(ctx context.Context) (*sqlx.Conn, error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", r.engine.HandleError(err))
	}
	return conn, nil
}

// Columns returns the table columns in declared order / Retourne les colonnes dans l'ordre déclaré
func (r *ClientRepository) Columns(ctx context.Context) ([]string, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return r.columns(ctx, conn)
}

func (r *ClientRepository) columns(ctx context.Context, conn *sqlx.Conn) ([]string, error) {
	var names []string
	if err := conn.SelectContext(ctx, &names, r.db.Rebind(r.engine.ColumnsQuery()), r.table); err != nil {
		return nil, r.engine.HandleError(err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", db.ErrNoSuchTable, r.table)
	}
	return names, nil
}

// Count returns the number of rows / Retourne le nombre de lignes
func (r *ClientRepository) Count(ctx context.Context) (int, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	stmt := builder.Count(r.engine, r.table)
	var n int
	if err := conn.QueryRowxContext(ctx, stmt.Query).Scan(&n); err != nil {
		return 0, r.engine.HandleError(err)
	}
	return n, nil
}

// List returns a page ordered by identifier ascending / Retourne une page triée par identifiant croissant
func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	return r.selectMany(ctx, builder.SelectPage(r.engine, r.table, r.idColumn, false, limit, offset))
}

// Recent returns the newest rows first / Retourne les lignes les plus récentes d'abord
func (r *ClientRepository) Recent(ctx context.Context, limit int) ([]*domain.Client, error) {
	return r.selectMany(ctx, builder.SelectPage(r.engine, r.table, r.idColumn, true, limit, 0))
}

// All returns every row with every column / Retourne toutes les lignes
func (r *ClientRepository) All(ctx context.Context) ([]*domain.Client, error) {
	return r.selectMany(ctx, builder.SelectPage(r.engine, r.table, r.idColumn, false, 0, 0))
}

// Search runs one of the fixed search shapes / Exécute une des recherches prédéfinies
func (r *ClientRepository) Search(ctx context.Context, searchType domain.SearchType, query string) ([]*domain.Client, error) {
	return r.selectMany(ctx, builder.Search(r.engine, r.table, r.idColumn, searchType, query))
}

// GetByID retrieves a row by identifier / Récupère une ligne par identifiant
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	clients, err := r.selectMany(ctx, builder.SelectByID(r.engine, r.table, r.idColumn, id))
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, db.ErrNoRecord
	}
	return clients[0], nil
}

// Insert writes exactly the supplied columns and returns the new identifier / Insère les colonnes fournies
func (r *ClientRepository) Insert(ctx context.Context, fields map[string]string) (int64, error) {
	if len(fields) == 0 {
		return 0, db.ErrNoData
	}

	conn, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	editable, err := r.editable(ctx, conn, fields)
	if err != nil {
		return 0, err
	}

	set := make([]builder.Assignment, 0, len(fields))
	for _, col := range editable {
		if v, ok := fields[col]; ok {
			set = append(set, builder.Assignment{Column: col, Value: builder.NullIfEmpty(v)})
		}
	}

	stmt, err := builder.Insert(r.engine, r.table, r.idColumn, set)
	if err != nil {
		return 0, db.ErrNoData
	}
	query := r.db.Rebind(stmt.Query)

	if r.engine.Returning() {
		var id int64
		if err := conn.QueryRowxContext(ctx, query, stmt.Args...).Scan(&id); err != nil {
			return 0, r.engine.HandleError(err)
		}
		return id, nil
	}

	result, err := conn.ExecContext(ctx, query, stmt.Args...)
	if err != nil {
		return 0, r.engine.HandleError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, r.engine.HandleError(err)
	}
	return id, nil
}

// Update sets every non-identifier column; missing or empty values become NULL / Met à jour toutes les colonnes
func (r *ClientRepository) Update(ctx context.Context, id int64, fields map[string]string) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	editable, err := r.editable(ctx, conn, fields)
	if err != nil {
		return err
	}

	set := make([]builder.Assignment, len(editable))
	for i, col := range editable {
		set[i] = builder.Assignment{Column: col, Value: builder.NullIfEmpty(fields[col])}
	}

	stmt, err := builder.Update(r.engine, r.table, r.idColumn, id, set)
	if err != nil {
		return db.ErrNoData
	}

	if _, err := conn.ExecContext(ctx, r.db.Rebind(stmt.Query), stmt.Args...); err != nil {
		return r.engine.HandleError(err)
	}
	return nil
}

// Delete removes a row; a missing identifier is not an error / Supprime une ligne
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	stmt := builder.Delete(r.engine, r.table, r.idColumn, id)
	if _, err := conn.ExecContext(ctx, r.db.Rebind(stmt.Query), stmt.Args...); err != nil {
		return r.engine.HandleError(err)
	}
	return nil
}

// editable introspects the table and rejects keys that are not writable columns.
func (r *ClientRepository) editable(ctx context.Context, conn *sqlx.Conn, fields map[string]string) ([]string, error) {
	columns, err := r.columns(ctx, conn)
	if err != nil {
		return nil, err
	}
	editable := domain.EditableColumns(columns, r.idColumn)

	known := make(map[string]struct{}, len(editable))
	for _, col := range editable {
		known[col] = struct{}{}
	}
	for key := range fields {
		if _, ok := known[key]; !ok {
			return nil, fmt.Errorf("%w: %q", db.ErrUnknownColumn, key)
		}
	}
	return editable, nil
}

func (r *ClientRepository) selectMany(ctx context.Context, stmt builder.Statement) ([]*domain.Client, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryxContext(ctx, r.db.Rebind(stmt.Query), stmt.Args...)
	if err != nil {
		return nil, r.engine.HandleError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, r.engine.HandleError(err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, r.engine.HandleError(err)
	}
	ints := integerColumns(types)

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		values := make(map[string]any, len(columns))
		if err := rows.MapScan(values); err != nil {
			return nil, r.engine.HandleError(err)
		}
		coerceIntegers(values, ints)
		clients = append(clients, domain.NewClient(r.idColumn, columns, values))
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.engine.HandleError(err)
	}
	return clients, nil
}
