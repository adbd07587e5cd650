package builder

import (
	"testing"

	"github.com/Olprog59/go-clientbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDialect struct {
	returning bool
}

func (testDialect) Quote(ident string) string { return QuoteWith('"', ident) }
func (testDialect) Like() string               { return "LIKE" }
func (testDialect) AsText(expr string) string  { return "CAST(" + expr + " AS TEXT)" }
func (d testDialect) Returning() bool          { return d.returning }

func TestInsert(t *testing.T) {
	stmt, err := Insert(testDialect{}, "Clients", "ID", []Assignment{
		{Column: "Nom", Value: "Diallo"},
		{Column: "Prenom", Value: "Amadou"},
	})
	require.NoError(t, err)

	assert.Equal(t, `INSERT INTO "Clients" ("Nom", "Prenom") VALUES (?, ?)`, stmt.Query)
	assert.Equal(t, []any{"Diallo", "Amadou"}, stmt.Args)
}

func TestInsert_Returning(t *testing.T) {
	stmt, err := Insert(testDialect{returning: true}, "Clients", "ID", []Assignment{{Column: "Nom", Value: "x"}})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "Clients" ("Nom") VALUES (?) RETURNING "ID"`, stmt.Query)
}

func TestInsert_EmptySet(t *testing.T) {
	_, err := Insert(testDialect{}, "Clients", "ID", nil)
	assert.ErrorIs(t, err, ErrEmptySet)
}

func TestUpdate(t *testing.T) {
	stmt, err := Update(testDialect{}, "Clients", "ID", 12, []Assignment{
		{Column: "Nom", Value: "Smith"},
		{Column: "Email", Value: nil},
	})
	require.NoError(t, err)

	assert.Equal(t, `UPDATE "Clients" SET "Nom" = ?, "Email" = ? WHERE "ID" = ?`, stmt.Query)
	assert.Equal(t, []any{"Smith", nil, int64(12)}, stmt.Args)

	_, err = Update(testDialect{}, "Clients", "ID", 12, nil)
	assert.ErrorIs(t, err, ErrEmptySet)
}

func TestDeleteAndSelectByID(t *testing.T) {
	del := Delete(testDialect{}, "Clients", "ID", 5)
	assert.Equal(t, `DELETE FROM "Clients" WHERE "ID" = ?`, del.Query)
	assert.Equal(t, []any{int64(5)}, del.Args)

	sel := SelectByID(testDialect{}, "Clients", "ID", 5)
	assert.Equal(t, `SELECT * FROM "Clients" WHERE "ID" = ?`, sel.Query)
}

func TestSelectPage(t *testing.T) {
	page := SelectPage(testDialect{}, "Clients", "ID", false, 10, 20)
	assert.Equal(t, `SELECT * FROM "Clients" ORDER BY "ID" ASC LIMIT ? OFFSET ?`, page.Query)
	assert.Equal(t, []any{10, 20}, page.Args)

	recent := SelectPage(testDialect{}, "Clients", "ID", true, 5, 0)
	assert.Equal(t, `SELECT * FROM "Clients" ORDER BY "ID" DESC LIMIT ? OFFSET ?`, recent.Query)

	all := SelectPage(testDialect{}, "Clients", "ID", false, 0, 0)
	assert.Equal(t, `SELECT * FROM "Clients" ORDER BY "ID" ASC`, all.Query)
	assert.Empty(t, all.Args)
}

func TestQuoteWith_EscapesQuote(t *testing.T) {
	assert.Equal(t, `"we""ird"`, QuoteWith('"', `we"ird`))
	assert.Equal(t, "`a``b`", QuoteWith('`', "a`b"))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, NullIfEmpty(""))
	assert.Equal(t, "x", NullIfEmpty("x"))
}

func TestSearch(t *testing.T) {
	d := testDialect{}

	tests := []struct {
		name      string
		typ       domain.SearchType
		query     string
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "numeric id",
			typ:       domain.SearchByID,
			query:     "42",
			wantQuery: `SELECT * FROM "Clients" WHERE "ID" = ?`,
			wantArgs:  []any{int64(42)},
		},
		{
			name:      "non numeric id matches nothing",
			typ:       domain.SearchByID,
			query:     "abc",
			wantQuery: `SELECT * FROM "Clients" WHERE "ID" = ?`,
			wantArgs:  []any{int64(0)},
		},
		{
			name:      "surname",
			typ:       domain.SearchBySurname,
			query:     "Smith",
			wantQuery: `SELECT * FROM "Clients" WHERE CAST("Nom" AS TEXT) LIKE ? ORDER BY "ID"`,
			wantArgs:  []any{"%Smith%"},
		},
		{
			name:      "given name",
			typ:       domain.SearchByGivenName,
			query:     "Ama",
			wantQuery: `SELECT * FROM "Clients" WHERE CAST("Prenom" AS TEXT) LIKE ? ORDER BY "ID"`,
			wantArgs:  []any{"%Ama%"},
		},
		{
			name:      "phones",
			typ:       domain.SearchByPhone,
			query:     "77",
			wantQuery: `SELECT * FROM "Clients" WHERE CAST("MobPhone" AS TEXT) LIKE ? OR CAST("MobPhone2" AS TEXT) LIKE ? ORDER BY "ID"`,
			wantArgs:  []any{"%77%", "%77%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := Search(d, "Clients", "ID", tt.typ, tt.query)
			assert.Equal(t, tt.wantQuery, stmt.Query)
			assert.Equal(t, tt.wantArgs, stmt.Args)
		})
	}
}

func TestSearch_AllScansEightFields(t *testing.T) {
	stmt := Search(testDialect{}, "Clients", "ID", domain.SearchAll, "dak")

	assert.Len(t, stmt.Args, 8)
	for _, arg := range stmt.Args {
		assert.Equal(t, "%dak%", arg)
	}
	for _, col := range []string{"ID", "Nom", "Prenom", "MobPhone", "MobPhone2", "Email", "NIF", "Residence"} {
		assert.Contains(t, stmt.Query, `CAST("`+col+`" AS TEXT) LIKE ?`)
	}
}
