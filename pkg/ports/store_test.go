package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/ports"
)

// MockStore is a map-backed implementation of SessionStore for testing purposes.
type MockStore struct {
	data map[string]*domain.Session
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Session),
	}
}

func (m *MockStore) Create(ctx context.Context, sessionID string) (*domain.Session, error) {
	s := domain.NewSession(sessionID)
	m.data[sessionID] = s.Snapshot()
	return s, nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	s, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	// Copy to simulate serialization
	return s.Snapshot(), nil
}

func (m *MockStore) Save(ctx context.Context, session *domain.Session) error {
	m.data[session.ID] = session.Snapshot()
	return nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestSessionStore_Contract(t *testing.T) {
	// This test verifies that the MockStore complies with the SessionStore contract.
	// It also keeps the contract suite itself honest.
	ports.RunSessionStoreContract(t, NewMockStore())
}
