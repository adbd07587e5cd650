package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_NormalizesValues(t *testing.T) {
	columns := []string{"ID", "Nom", "MobPhone", "Email"}
	c := NewClient("ID", columns, map[string]any{
		"ID":       int64(7),
		"Nom":      []byte("Diallo"),
		"MobPhone": 771234567,
		"Email":    nil,
	})

	assert.Equal(t, int64(7), c.ID())
	assert.Equal(t, "Diallo", c.Value("Nom"))
	assert.Equal(t, int64(771234567), c.Value("MobPhone"))
	assert.True(t, c.IsNull("Email"))
	assert.Equal(t, columns, c.Columns())
}

func TestClient_ID(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int64
	}{
		{"int64", int64(42), 42},
		{"float", float64(12), 12},
		{"numeric string", "99", 99},
		{"garbage string", "abc", 0},
		{"null", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient("ID", []string{"ID"}, map[string]any{"ID": tt.value})
			assert.Equal(t, tt.want, c.ID())
		})
	}
}

func TestClient_Display(t *testing.T) {
	c := NewClient("ID", []string{"ID", "Nom", "PaieTVA", "Zone"}, map[string]any{
		"ID":      int64(1),
		"Nom":     "Smith",
		"PaieTVA": 1.5,
		"Zone":    nil,
	})

	assert.Equal(t, "1", c.Display("ID"))
	assert.Equal(t, "Smith", c.Display("Nom"))
	assert.Equal(t, "1.5", c.Display("PaieTVA"))
	assert.Equal(t, "", c.Display("Zone"))
	assert.Equal(t, "", c.Display("Unknown"))
}

func TestClient_MarshalJSON_KeepsColumnOrder(t *testing.T) {
	c := NewClient("ID", []string{"ID", "Prenom", "Nom", "Email"}, map[string]any{
		"ID":     int64(3),
		"Prenom": "Amadou",
		"Nom":    "Diallo",
	})

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"ID":3,"Prenom":"Amadou","Nom":"Diallo","Email":null}`, string(data))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 4)
}

func TestEditableColumns(t *testing.T) {
	got := EditableColumns([]string{"ID", "Nom", "Prenom"}, "ID")
	assert.Equal(t, []string{"Nom", "Prenom"}, got)

	assert.Empty(t, EditableColumns([]string{"ID"}, "ID"))
}

func TestParseSearchType(t *testing.T) {
	tests := []struct {
		raw  string
		want SearchType
	}{
		{"id", SearchByID},
		{"nom", SearchBySurname},
		{"NOM", SearchBySurname},
		{"prenom", SearchByGivenName},
		{" mobphone ", SearchByPhone},
		{"all", SearchAll},
		{"", SearchAll},
		{"email", SearchAll},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSearchType(tt.raw))
		})
	}
}
