// Package builder assembles the SQL text of the clients repository.
//
// Column names reach SQL text only through this package, always quoted by the
// dialect, and callers are expected to pass names taken from schema
// introspection. Values never appear in the text: they travel as bound
// arguments behind '?' placeholders, rebound per driver by the caller.
package builder

import (
	"errors"
	"strings"
)

// ErrEmptySet is returned when a write has no column to touch.
var ErrEmptySet = errors.New("builder: no columns to write")

// Dialect captures the engine differences the builder cares about.
type Dialect interface {
	// Quote quotes an identifier.
	Quote(ident string) string
	// Like returns the case-insensitive contains operator.
	Like() string
	// AsText casts a quoted column expression to text for LIKE.
	AsText(expr string) string
	// Returning reports whether INSERT ... RETURNING yields the new identifier.
	Returning() bool
}

// Assignment pairs a column with its bound value.
type Assignment struct {
	Column string
	Value  any
}

// Statement is SQL text plus its bound arguments.
type Statement struct {
	Query string
	Args  []any
}

// NullIfEmpty maps the empty string to SQL NULL.
func NullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// Insert builds INSERT INTO table (cols...) VALUES (?...).
func Insert(d Dialect, table, idColumn string, set []Assignment) (Statement, error) {
	if len(set) == 0 {
		return Statement{}, ErrEmptySet
	}

	names := make([]string, len(set))
	placeholders := make([]string, len(set))
	args := make([]any, len(set))
	for i, a := range set {
		names[i] = d.Quote(a.Column)
		placeholders[i] = "?"
		args[i] = a.Value
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(d.Quote(table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(placeholders, ", "))
	sb.WriteString(")")
	if d.Returning() {
		sb.WriteString(" RETURNING ")
		sb.WriteString(d.Quote(idColumn))
	}

	return Statement{Query: sb.String(), Args: args}, nil
}

// Update builds UPDATE table SET col = ?, ... WHERE id = ?.
func Update(d Dialect, table, idColumn string, id int64, set []Assignment) (Statement, error) {
	if len(set) == 0 {
		return Statement{}, ErrEmptySet
	}

	updates := make([]string, len(set))
	args := make([]any, 0, len(set)+1)
	for i, a := range set {
		updates[i] = d.Quote(a.Column) + " = ?"
		args = append(args, a.Value)
	}
	args = append(args, id)

	query := "UPDATE " + d.Quote(table) +
		" SET " + strings.Join(updates, ", ") +
		" WHERE " + d.Quote(idColumn) + " = ?"

	return Statement{Query: query, Args: args}, nil
}

// Delete builds DELETE FROM table WHERE id = ?.
func Delete(d Dialect, table, idColumn string, id int64) Statement {
	return Statement{
		Query: "DELETE FROM " + d.Quote(table) + " WHERE " + d.Quote(idColumn) + " = ?",
		Args:  []any{id},
	}
}

// SelectByID builds SELECT * FROM table WHERE id = ?.
func SelectByID(d Dialect, table, idColumn string, id int64) Statement {
	return Statement{
		Query: "SELECT * FROM " + d.Quote(table) + " WHERE " + d.Quote(idColumn) + " = ?",
		Args:  []any{id},
	}
}

// SelectPage builds an identifier-ordered page; limit <= 0 means no limit.
func SelectPage(d Dialect, table, idColumn string, descending bool, limit, offset int) Statement {
	order := " ASC"
	if descending {
		order = " DESC"
	}
	query := "SELECT * FROM " + d.Quote(table) + " ORDER BY " + d.Quote(idColumn) + order
	if limit <= 0 {
		return Statement{Query: query}
	}
	return Statement{
		Query: query + " LIMIT ? OFFSET ?",
		Args:  []any{limit, offset},
	}
}

// Count builds SELECT COUNT(*) FROM table.
func Count(d Dialect, table string) Statement {
	return Statement{Query: "SELECT COUNT(*) FROM " + d.Quote(table)}
}

// QuoteWith doubles the quote character inside ident and wraps it.
func QuoteWith(q byte, ident string) string {
	s := string(q)
	return s + strings.ReplaceAll(ident, s, s+s) + s
}
