package dto

import (
	"net/url"
	"strings"
)

// ClientForm holds a submitted client form / Contient un formulaire client soumis
// Fields are keyed by column name.
type ClientForm struct {
	values url.Values
}

// NewClientForm wraps parsed form values / Enveloppe les valeurs du formulaire
func NewClientForm(values url.Values) *ClientForm {
	if values == nil {
		values = url.Values{}
	}
	return &ClientForm{values: values}
}

// Get returns the submitted value of a column as sent / Retourne la valeur soumise telle quelle
func (f *ClientForm) Get(column string) string {
	return f.values.Get(column)
}

// CreateFields keeps the non-identifier columns with a non-empty value / Garde les colonnes non vides
// Whitespace counts as a value; only "" is omitted.
func (f *ClientForm) CreateFields(columns []string, idColumn string) map[string]string {
	fields := make(map[string]string)
	for _, col := range columns {
		if col == idColumn {
			continue
		}
		if v := f.Get(col); v != "" {
			fields[col] = v
		}
	}
	return fields
}

// UpdateFields carries every non-identifier column, "" when absent / Porte toutes les colonnes hors identifiant
func (f *ClientForm) UpdateFields(columns []string, idColumn string) map[string]string {
	fields := make(map[string]string, len(columns))
	for _, col := range columns {
		if col == idColumn {
			continue
		}
		fields[col] = f.Get(col)
	}
	return fields
}

// SearchRequest is DTO for search requests / Est le DTO pour les recherches
type SearchRequest struct {
	Query string `json:"q"`    // Search text / Texte recherché
	Type  string `json:"type"` // Search discriminant / Type de recherche
}

// SearchRequestFromValues reads q/type, falling back to the form names search_query/search_type / Lit q/type
func SearchRequestFromValues(values url.Values) SearchRequest {
	query := values.Get("q")
	if query == "" {
		query = values.Get("search_query")
	}
	searchType := values.Get("type")
	if searchType == "" {
		searchType = values.Get("search_type")
	}
	return SearchRequest{
		Query: strings.TrimSpace(query),
		Type:  strings.TrimSpace(searchType),
	}
}
