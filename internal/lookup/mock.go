package lookup

import (
	"context"
	"errors"
	"sync"
)

// ErrMockNotImplemented is returned when MockProvider has no SearchFn.
var ErrMockNotImplemented = errors.New("lookup.MockProvider: search not implemented")

// MockProvider is a test double for Provider.
type MockProvider struct {
	SearchFn func(context.Context, SearchRequest) ([]Result, error)

	mu              sync.Mutex
	SearchCallCount int
	SearchCallArgs  []SearchRequest
}

// NewMockProvider returns a MockProvider with no stub configured.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Search invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockProvider) Search(ctx context.Context, req SearchRequest) ([]Result, error) {
	m.mu.Lock()
	m.SearchCallCount++
	copied := req
	copied.ExcludedIDs = append([]string(nil), req.ExcludedIDs...)
	m.SearchCallArgs = append(m.SearchCallArgs, copied)
	m.mu.Unlock()

	if m.SearchFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.SearchFn(ctx, req)
}

// Calls returns a copy of the recorded requests.
func (m *MockProvider) Calls() []SearchRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SearchRequest(nil), m.SearchCallArgs...)
}
