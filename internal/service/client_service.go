package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Olprog59/go-clientbook/internal/config"
	"github.com/Olprog59/go-clientbook/internal/domain"
	"github.com/Olprog59/go-clientbook/internal/dto"
	"github.com/Olprog59/go-clientbook/internal/ports"
	"github.com/Olprog59/go-clientbook/internal/repository"
)

// Common service errors
var (
	ErrClientNotFound = errors.New("client not found")
	ErrNoData         = errors.New("no data provided")
)

const (
	defaultPageSize    = 10
	defaultRecentLimit = 5
)

// ClientMetricsRecorder records client metrics / Enregistre les métriques clients
type ClientMetricsRecorder interface {
	RecordClientOperation(operation, status string)
	RecordSearch(searchType string)
	SetClientCount(count int)
}

// Dashboard is the home page content / Contenu de la page d'accueil
type Dashboard struct {
	Total   int
	Recent  []*domain.Client
	Columns []string
}

// Page is one page of the client list / Une page de la liste des clients
type Page struct {
	Clients    []*domain.Client
	Columns    []string
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// HasPrev reports whether a previous page exists.
func (p *Page) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p *Page) HasNext() bool { return p.Page < p.TotalPages }

// SearchResult is the outcome of a search / Résultat d'une recherche
type SearchResult struct {
	Clients []*domain.Client
	Columns []string
	Query   string
	Type    domain.SearchType
	Total   int
}

// ClientService handles client record operations / Gère les opérations sur les fiches clients
type ClientService struct {
	repo        ports.ClientRepository
	metrics     ClientMetricsRecorder
	pageSize    int
	recentLimit int
}

// NewClientService creates client service instance / Crée une instance du service clients
func NewClientService(repo ports.ClientRepository, conf *config.Config, metrics ClientMetricsRecorder) *ClientService {
	s := &ClientService{
		repo:        repo,
		metrics:     metrics,
		pageSize:    defaultPageSize,
		recentLimit: defaultRecentLimit,
	}
	if conf != nil {
		if conf.Clients.PageSize > 0 {
			s.pageSize = conf.Clients.PageSize
		}
		if conf.Clients.RecentLimit > 0 {
			s.recentLimit = conf.Clients.RecentLimit
		}
	}
	return s
}

// IDColumn returns the identifier column name / Retourne le nom de la colonne identifiant
func (s *ClientService) IDColumn() string {
	return s.repo.IDColumn()
}

// Dashboard returns the total count and the newest clients / Retourne le total et les derniers clients
func (s *ClientService) Dashboard(ctx context.Context) (*Dashboard, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		slog.Error("failed to count clients", "err", err)
		return nil, fmt.Errorf("count clients: %w", err)
	}
	s.recordCount(total)

	recent, err := s.repo.Recent(ctx, s.recentLimit)
	if err != nil {
		slog.Error("failed to load recent clients", "err", err)
		return nil, fmt.Errorf("recent clients: %w", err)
	}

	columns, err := s.repo.Columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("client columns: %w", err)
	}

	return &Dashboard{Total: total, Recent: recent, Columns: columns}, nil
}

// ListPage returns one page; out-of-range page numbers are clamped / Retourne une page bornée
func (s *ClientService) ListPage(ctx context.Context, page int) (*Page, error) {
	page = clampPage(page, s.pageSize)

	total, err := s.repo.Count(ctx)
	if err != nil {
		slog.Error("failed to count clients", "err", err)
		return nil, fmt.Errorf("count clients: %w", err)
	}
	s.recordCount(total)

	clients, err := s.repo.List(ctx, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		slog.Error("failed to list clients", "page", page, "err", err)
		return nil, fmt.Errorf("list clients: %w", err)
	}

	columns, err := s.repo.Columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("client columns: %w", err)
	}

	return &Page{
		Clients:    clients,
		Columns:    columns,
		Page:       page,
		PageSize:   s.pageSize,
		Total:      total,
		TotalPages: totalPages(total, s.pageSize),
	}, nil
}

// GetClient retrieves one client / Récupère un client
func (s *ClientService) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			s.record("view", "not_found")
			return nil, ErrClientNotFound
		}
		s.record("view", "error")
		slog.Error("failed to get client", "id", id, "err", err)
		return nil, fmt.Errorf("get client %d: %w", id, err)
	}
	s.record("view", "success")
	return client, nil
}

// Columns returns every column of the clients table / Retourne toutes les colonnes
func (s *ClientService) Columns(ctx context.Context) ([]string, error) {
	columns, err := s.repo.Columns(ctx)
	if err != nil {
		slog.Error("failed to introspect clients table", "err", err)
		return nil, fmt.Errorf("client columns: %w", err)
	}
	return columns, nil
}

// EditableColumns returns the columns a form may write / Retourne les colonnes modifiables
func (s *ClientService) EditableColumns(ctx context.Context) ([]string, error) {
	columns, err := s.Columns(ctx)
	if err != nil {
		return nil, err
	}
	return domain.EditableColumns(columns, s.repo.IDColumn()), nil
}

// CreateClient inserts the non-empty submitted fields / Insère les champs soumis non vides
func (s *ClientService) CreateClient(ctx context.Context, form *dto.ClientForm) (int64, error) {
	columns, err := s.Columns(ctx)
	if err != nil {
		s.record("create", "error")
		return 0, err
	}

	fields := form.CreateFields(columns, s.repo.IDColumn())
	if len(fields) == 0 {
		s.record("create", "no_data")
		return 0, ErrNoData
	}

	id, err := s.repo.Insert(ctx, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNoData) {
			s.record("create", "no_data")
			return 0, ErrNoData
		}
		s.record("create", "error")
		slog.Error("failed to insert client", "err", err)
		return 0, fmt.Errorf("insert client: %w", err)
	}

	s.record("create", "success")
	slog.Info("client created", "id", id, "fields", len(fields))
	return id, nil
}

// UpdateClient overwrites every editable column of an existing client / Met à jour un client existant
func (s *ClientService) UpdateClient(ctx context.Context, id int64, form *dto.ClientForm) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			s.record("update", "not_found")
			return ErrClientNotFound
		}
		s.record("update", "error")
		return fmt.Errorf("get client %d: %w", id, err)
	}

	columns, err := s.Columns(ctx)
	if err != nil {
		s.record("update", "error")
		return err
	}

	if err := s.repo.Update(ctx, id, form.UpdateFields(columns, s.repo.IDColumn())); err != nil {
		s.record("update", "error")
		slog.Error("failed to update client", "id", id, "err", err)
		return fmt.Errorf("update client %d: %w", id, err)
	}

	s.record("update", "success")
	slog.Info("client updated", "id", id)
	return nil
}

// DeleteClient removes a client; a missing one is not an error / Supprime un client
func (s *ClientService) DeleteClient(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.record("delete", "error")
		slog.Error("failed to delete client", "id", id, "err", err)
		return fmt.Errorf("delete client %d: %w", id, err)
	}
	s.record("delete", "success")
	slog.Info("client deleted", "id", id)
	return nil
}

// Search dispatches on the raw search type, unknown types search all fields / Recherche par type
func (s *ClientService) Search(ctx context.Context, query, rawType string) (*SearchResult, error) {
	searchType := domain.ParseSearchType(rawType)
	if s.metrics != nil {
		s.metrics.RecordSearch(searchType.String())
	}

	clients, err := s.repo.Search(ctx, searchType, query)
	if err != nil {
		slog.Error("search failed", "type", searchType, "err", err)
		return nil, fmt.Errorf("search clients: %w", err)
	}

	columns, err := s.repo.Columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("client columns: %w", err)
	}

	return &SearchResult{
		Clients: clients,
		Columns: columns,
		Query:   query,
		Type:    searchType,
		Total:   len(clients),
	}, nil
}

// ExportAll returns every client with every column / Retourne tous les clients
func (s *ClientService) ExportAll(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.repo.All(ctx)
	if err != nil {
		s.record("export", "error")
		slog.Error("failed to export clients", "err", err)
		return nil, fmt.Errorf("export clients: %w", err)
	}
	s.record("export", "success")
	return clients, nil
}

func (s *ClientService) record(operation, status string) {
	if s.metrics != nil {
		s.metrics.RecordClientOperation(operation, status)
	}
}

func (s *ClientService) recordCount(total int) {
	if s.metrics != nil {
		s.metrics.SetClientCount(total)
	}
}
