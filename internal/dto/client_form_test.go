package dto_test

import (
	"net/url"
	"testing"

	"github.com/Olprog59/go-clientbook/internal/dto"
	"github.com/stretchr/testify/assert"
)

var columns = []string{"ID", "Nom", "Prenom", "Email", "MobPhone"}

func TestClientForm_CreateFields(t *testing.T) {
	form := dto.NewClientForm(url.Values{
		"ID":     {"7"},
		"Nom":    {"  Diallo "},
		"Prenom": {"Amadou"},
		"Email":  {""},
		"Extra":  {"ignored"},
	})

	fields := form.CreateFields(columns, "ID")

	assert.Equal(t, map[string]string{"Nom": "  Diallo ", "Prenom": "Amadou"}, fields)
}

func TestClientForm_CreateFieldsEmpty(t *testing.T) {
	form := dto.NewClientForm(url.Values{"Nom": {""}, "Prenom": {""}})
	assert.Empty(t, form.CreateFields(columns, "ID"))

	assert.Empty(t, dto.NewClientForm(nil).CreateFields(columns, "ID"))
}

func TestClientForm_KeepsWhitespaceValues(t *testing.T) {
	form := dto.NewClientForm(url.Values{"Nom": {"   "}, "Email": {" a@b.sn "}})

	assert.Equal(t, map[string]string{"Nom": "   ", "Email": " a@b.sn "}, form.CreateFields(columns, "ID"))

	fields := form.UpdateFields(columns, "ID")
	assert.Equal(t, "   ", fields["Nom"])
	assert.Equal(t, " a@b.sn ", fields["Email"])
	assert.Empty(t, fields["Prenom"])
}

func TestClientForm_UpdateFields(t *testing.T) {
	form := dto.NewClientForm(url.Values{
		"ID":  {"7"},
		"Nom": {"Sow"},
	})

	fields := form.UpdateFields(columns, "ID")

	assert.Equal(t, map[string]string{
		"Nom":      "Sow",
		"Prenom":   "",
		"Email":    "",
		"MobPhone": "",
	}, fields)
}

func TestSearchRequestFromValues(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   dto.SearchRequest
	}{
		{"query string", url.Values{"q": {"Smith"}, "type": {"nom"}}, dto.SearchRequest{Query: "Smith", Type: "nom"}},
		{"form names", url.Values{"search_query": {" 77 "}, "search_type": {"mobphone"}}, dto.SearchRequest{Query: "77", Type: "mobphone"}},
		{"query string wins", url.Values{"q": {"a"}, "search_query": {"b"}}, dto.SearchRequest{Query: "a"}},
		{"empty", url.Values{}, dto.SearchRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dto.SearchRequestFromValues(tt.values))
		})
	}
}
