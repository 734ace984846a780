package prefixes

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPrefixesService is a mock implementation of the PrefixesService interface
type MockPrefixesService struct {
	mock.Mock
}

func (m *MockPrefixesService) Resolve(ctx context.Context, guildID string) (string, error) {
	args := m.Called(ctx, guildID)
	return args.String(0), args.Error(1)
}

func (m *MockPrefixesService) SetPrefix(ctx context.Context, guildID, guildName, prefix string) error {
	args := m.Called(ctx, guildID, guildName, prefix)
	return args.Error(0)
}

func (m *MockPrefixesService) DefaultPrefix() string {
	args := m.Called()
	return args.String(0)
}
