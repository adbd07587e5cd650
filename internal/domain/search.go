package domain

import "strings"

// SearchType selects one of the fixed search query shapes / Sélectionne une forme de recherche
type SearchType string

const (
	SearchByID        SearchType = "id"       // Exact identifier match / Correspondance exacte sur l'ID
	SearchBySurname   SearchType = "nom"      // Surname contains / Le nom contient
	SearchByGivenName SearchType = "prenom"   // Given name contains / Le prénom contient
	SearchByPhone     SearchType = "mobphone" // Either phone contains / L'un des téléphones contient
	SearchAll         SearchType = "all"      // OR across eight fields / OU sur huit champs
)

// ParseSearchType maps a raw selector, unknown values fall back to SearchAll / Convertit un sélecteur brut
func ParseSearchType(raw string) SearchType {
	switch st := SearchType(strings.ToLower(strings.TrimSpace(raw))); st {
	case SearchByID, SearchBySurname, SearchByGivenName, SearchByPhone:
		return st
	default:
		return SearchAll
	}
}

// String returns string representation
func (t SearchType) String() string {
	return string(t)
}

// AllFieldsColumns lists the text columns scanned by SearchAll, identifier excluded.
var AllFieldsColumns = []string{
	ColumnSurname,
	ColumnGivenName,
	ColumnMobPhone,
	ColumnMobPhone2,
	ColumnEmail,
	ColumnNIF,
	ColumnResidence,
}
