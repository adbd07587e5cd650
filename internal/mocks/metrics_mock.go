package mocks

// MockMetrics is a mock implementation of metrics recorder for testing
type MockMetrics struct {
	Operations map[string]int // "operation/status" -> calls
	Searches   map[string]int
	LastCount  int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Operations: make(map[string]int),
		Searches:   make(map[string]int),
	}
}

func (m *MockMetrics) RecordClientOperation(operation, status string) {
	m.Operations[operation+"/"+status]++
}

func (m *MockMetrics) RecordSearch(searchType string) {
	m.Searches[searchType]++
}

func (m *MockMetrics) SetClientCount(count int) {
	m.LastCount = count
}
