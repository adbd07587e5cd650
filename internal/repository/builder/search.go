package builder

import (
	"strconv"
	"strings"

	"github.com/Olprog59/go-clientbook/internal/domain"
)

// Search maps a search type to its fixed query shape.
// A non-numeric query for SearchByID selects identifier 0, which matches nothing.
func Search(d Dialect, table, idColumn string, searchType domain.SearchType, query string) Statement {
	base := "SELECT * FROM " + d.Quote(table) + " WHERE "
	pattern := "%" + query + "%"

	switch searchType {
	case domain.SearchByID:
		id, err := strconv.ParseInt(strings.TrimSpace(query), 10, 64)
		if err != nil {
			id = 0
		}
		return Statement{
			Query: base + d.Quote(idColumn) + " = ?",
			Args:  []any{id},
		}
	case domain.SearchBySurname:
		return contains(d, base, idColumn, pattern, domain.ColumnSurname)
	case domain.SearchByGivenName:
		return contains(d, base, idColumn, pattern, domain.ColumnGivenName)
	case domain.SearchByPhone:
		return contains(d, base, idColumn, pattern, domain.ColumnMobPhone, domain.ColumnMobPhone2)
	default:
		columns := append([]string{idColumn}, domain.AllFieldsColumns...)
		return contains(d, base, idColumn, pattern, columns...)
	}
}

// contains ORs a LIKE predicate per column, every one bound to the same pattern.
func contains(d Dialect, base, idColumn, pattern string, columns ...string) Statement {
	predicates := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		predicates[i] = d.AsText(d.Quote(col)) + " " + d.Like() + " ?"
		args[i] = pattern
	}
	return Statement{
		Query: base + strings.Join(predicates, " OR ") + " ORDER BY " + d.Quote(idColumn),
		Args:  args,
	}
}
