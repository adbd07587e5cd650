package postgres

import "github.com/Olprog59/go-clientbook/internal/repository/builder"

// engine is the PostgreSQL flavour of sqlstore.Engine / Variante PostgreSQL de sqlstore.Engine
type engine struct{}

// Quote keeps the mixed-case column names of the clients table intact.
func (engine) Quote(ident string) string { return builder.QuoteWith('"', ident) }

func (engine) Like() string { return "ILIKE" }

func (engine) AsText(expr string) string { return "CAST(" + expr + " AS TEXT)" }

func (engine) Returning() bool { return true }

func (engine) ColumnsQuery() string {
	return `SELECT column_name FROM information_schema.columns
	        WHERE table_schema = current_schema() AND table_name = ?
	        ORDER BY ordinal_position`
}

func (engine) HandleError(err error) error { return handleError(err) }
