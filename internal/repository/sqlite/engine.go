package sqlite

import "github.com/Olprog59/go-clientbook/internal/repository/builder"

// engine is the SQLite flavour of sqlstore.Engine / Variante SQLite de sqlstore.Engine
type engine struct{}

func (engine) Quote(ident string) string { return builder.QuoteWith('"', ident) }

// Like is case-insensitive for ASCII in SQLite.
func (engine) Like() string { return "LIKE" }

// AsText is a no-op: SQLite applies LIKE to the text form of any value.
func (engine) AsText(expr string) string { return expr }

func (engine) Returning() bool { return false }

func (engine) ColumnsQuery() string {
	return `SELECT name FROM pragma_table_info(?) ORDER BY cid`
}

func (engine) HandleError(err error) error { return handleError(err) }
