package ports

import (
	"context"

	"github.com/Olprog59/go-clientbook/internal/domain"
)

// SchemaInspector reads the clients table layout / Lit la structure de la table clients
type SchemaInspector interface {
	// Columns returns column names in declared order, identifier first / Retourne les colonnes dans l'ordre déclaré
	Columns(ctx context.Context) ([]string, error)

	// IDColumn returns the identifier column name / Retourne le nom de la colonne identifiant
	IDColumn() string
}

// ClientReader reads client records / Lit les fiches clients
type ClientReader interface {
	// Count returns total row count / Retourne le nombre total de lignes
	Count(ctx context.Context) (int, error)

	// List returns a page ordered by identifier ascending / Retourne une page triée par ID croissant
	List(ctx context.Context, limit, offset int) ([]*domain.Client, error)

	// Recent returns the newest clients, identifier descending / Retourne les clients les plus récents
	Recent(ctx context.Context, limit int) ([]*domain.Client, error)

	// GetByID retrieves one client, db.ErrNoRecord when absent / Récupère un client par ID
	GetByID(ctx context.Context, id int64) (*domain.Client, error)

	// All returns every client / Retourne tous les clients
	All(ctx context.Context) ([]*domain.Client, error)

	// Search runs one of the fixed search shapes / Exécute une des formes de recherche
	Search(ctx context.Context, searchType domain.SearchType, query string) ([]*domain.Client, error)
}

// ClientWriter creates, updates and deletes clients / Crée, modifie et supprime les clients
type ClientWriter interface {
	// Insert writes exactly the supplied columns and returns the new ID / Insère les colonnes fournies
	Insert(ctx context.Context, fields map[string]string) (int64, error)

	// Update sets every non-ID column, missing ones to NULL / Met à jour toutes les colonnes hors ID
	Update(ctx context.Context, id int64, fields map[string]string) error

	// Delete removes a client, missing IDs are not an error / Supprime un client
	Delete(ctx context.Context, id int64) error
}

// ClientRepository is the composite repository / Interface composite du repository
type ClientRepository interface {
	SchemaInspector
	ClientReader
	ClientWriter
}
