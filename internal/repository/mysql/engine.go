package mysql

import "github.com/Olprog59/go-clientbook/internal/repository/builder"

// engine is the MySQL flavour of sqlstore.Engine / Variante MySQL de sqlstore.Engine
type engine struct{}

func (engine) Quote(ident string) string { return builder.QuoteWith('`', ident) }

// Like relies on the default case-insensitive collation.
func (engine) Like() string { return "LIKE" }

func (engine) AsText(expr string) string { return "CAST(" + expr + " AS CHAR)" }

func (engine) Returning() bool { return false }

func (engine) ColumnsQuery() string {
	return `SELECT COLUMN_NAME FROM information_schema.columns
	        WHERE table_schema = DATABASE() AND table_name = ?
	        ORDER BY ORDINAL_POSITION`
}

func (engine) HandleError(err error) error { return handleError(err) }
