package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Default schema names for the clients table / Noms par défaut du schéma de la table clients
const (
	DefaultClientsTable = "Clients"
	DefaultIDColumn     = "ID"
)

// Searchable columns of the clients table / Colonnes recherchables de la table clients
const (
	ColumnSurname   = "Nom"
	ColumnGivenName = "Prenom"
	ColumnMobPhone  = "MobPhone"
	ColumnMobPhone2 = "MobPhone2"
	ColumnEmail     = "Email"
	ColumnNIF       = "NIF"
	ColumnResidence = "Residence"
)

// Client is one row of the clients table / Une ligne de la table clients
// Columns keeps the engine's declared order; values are nil for SQL NULL.
type Client struct {
	idColumn string
	columns  []string
	values   map[string]any
}

// NewClient builds a client from a scanned row / Construit un client depuis une ligne lue
func NewClient(idColumn string, columns []string, values map[string]any) *Client {
	c := &Client{
		idColumn: idColumn,
		columns:  append([]string(nil), columns...),
		values:   make(map[string]any, len(columns)),
	}
	for _, col := range columns {
		c.values[col] = normalizeValue(values[col])
	}
	return c
}

// normalizeValue converts driver values to plain Go values / Convertit les valeurs du driver
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case int:
		return int64(val)
	case int32:
		return int64(val)
	default:
		return val
	}
}

// Columns returns the ordered column names / Retourne les noms de colonnes ordonnés
func (c *Client) Columns() []string {
	return c.columns
}

// ID returns the client identifier, 0 when unreadable / Retourne l'identifiant du client
func (c *Client) ID() int64 {
	switch v := c.values[c.idColumn].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return id
	default:
		return 0
	}
}

// Value returns the raw value of a column / Retourne la valeur brute d'une colonne
func (c *Client) Value(column string) any {
	return c.values[column]
}

// IsNull reports whether a column holds SQL NULL / Indique si la colonne est NULL
func (c *Client) IsNull(column string) bool {
	return c.values[column] == nil
}

// Display renders a column value as text, empty for NULL / Rend la valeur en texte, vide si NULL
func (c *Client) Display(column string) string {
	switch v := c.values[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// MarshalJSON emits one key per column in column order / Émet une clé par colonne dans l'ordre
func (c *Client) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range c.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.values[col])
		if err != nil {
			return nil, fmt.Errorf("marshal column %s: %w", col, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EditableColumns drops the identifier column / Retire la colonne identifiant
func EditableColumns(columns []string, idColumn string) []string {
	editable := make([]string, 0, len(columns))
	for _, col := range columns {
		if col == idColumn {
			continue
		}
		editable = append(editable, col)
	}
	return editable
}
