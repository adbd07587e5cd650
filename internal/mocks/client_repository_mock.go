package mocks

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/Olprog59/go-clientbook/internal/domain"
	"github.com/Olprog59/go-clientbook/internal/ports"
	"github.com/Olprog59/go-clientbook/internal/repository/db"
)

var _ ports.ClientRepository = (*MockClientRepository)(nil)

// MockClientRepository is an in-memory implementation of ports.ClientRepository for testing
type MockClientRepository struct {
	// Mock data storage
	Schema []string
	Rows   map[int64]map[string]string
	nextID int64

	// Mock behavior flags
	ColumnsError error
	CountError   error
	ListError    error
	GetByIDError error
	InsertError  error
	UpdateError  error
	DeleteError  error
	SearchError  error

	// Call tracking
	InsertCalls int
	UpdateCalls int
	DeleteCalls int
	SearchCalls int
	LastSearch  domain.SearchType
	LastFields  map[string]string
}

// NewMockClientRepository creates a mock with the given columns, identifier first
func NewMockClientRepository(columns ...string) *MockClientRepository {
	if len(columns) == 0 {
		columns = []string{domain.DefaultIDColumn, domain.ColumnSurname, domain.ColumnGivenName, domain.ColumnEmail}
	}
	return &MockClientRepository{
		Schema: columns,
		Rows:   make(map[int64]map[string]string),
	}
}

func (m *MockClientRepository) IDColumn() string {
	return m.Schema[0]
}

func (m *MockClientRepository) Columns(ctx context.Context) ([]string, error) {
	if m.ColumnsError != nil {
		return nil, m.ColumnsError
	}
	return append([]string(nil), m.Schema...), nil
}

func (m *MockClientRepository) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	return len(m.Rows), nil
}

func (m *MockClientRepository) List(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	all := m.sorted(false)
	if offset >= len(all) {
		return []*domain.Client{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (m *MockClientRepository) Recent(ctx context.Context, limit int) ([]*domain.Client, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	all := m.sorted(true)
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *MockClientRepository) All(ctx context.Context) ([]*domain.Client, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.sorted(false), nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	if _, ok := m.Rows[id]; !ok {
		return nil, db.ErrNoRecord
	}
	return m.client(id), nil
}

// Search matches case-insensitively on surname for every type but id
func (m *MockClientRepository) Search(ctx context.Context, searchType domain.SearchType, query string) ([]*domain.Client, error) {
	m.SearchCalls++
	m.LastSearch = searchType
	if m.SearchError != nil {
		return nil, m.SearchError
	}

	results := make([]*domain.Client, 0)
	for _, c := range m.sorted(false) {
		if searchType == domain.SearchByID {
			if strconv.FormatInt(c.ID(), 10) == query {
				results = append(results, c)
			}
			continue
		}
		if strings.Contains(strings.ToLower(c.Display(domain.ColumnSurname)), strings.ToLower(query)) {
			results = append(results, c)
		}
	}
	return results, nil
}

func (m *MockClientRepository) Insert(ctx context.Context, fields map[string]string) (int64, error) {
	m.InsertCalls++
	m.LastFields = fields
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	if len(fields) == 0 {
		return 0, db.ErrNoData
	}
	m.nextID++
	m.Rows[m.nextID] = copyFields(fields)
	return m.nextID, nil
}

func (m *MockClientRepository) Update(ctx context.Context, id int64, fields map[string]string) error {
	m.UpdateCalls++
	m.LastFields = fields
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Rows[id]; ok {
		m.Rows[id] = copyFields(fields)
	}
	return nil
}

func (m *MockClientRepository) Delete(ctx context.Context, id int64) error {
	m.DeleteCalls++
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Rows, id)
	return nil
}

func (m *MockClientRepository) sorted(descending bool) []*domain.Client {
	ids := make([]int64, 0, len(m.Rows))
	for id := range m.Rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if descending {
			return ids[i] > ids[j]
		}
		return ids[i] < ids[j]
	})

	clients := make([]*domain.Client, len(ids))
	for i, id := range ids {
		clients[i] = m.client(id)
	}
	return clients
}

func (m *MockClientRepository) client(id int64) *domain.Client {
	values := map[string]any{m.IDColumn(): id}
	for col, v := range m.Rows[id] {
		if v != "" {
			values[col] = v
		}
	}
	return domain.NewClient(m.IDColumn(), m.Schema, values)
}

func copyFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
