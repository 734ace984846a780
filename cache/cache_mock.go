package cache

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPrefixCache is a mock implementation of the PrefixCache interface
type MockPrefixCache struct {
	mock.Mock
}

func (m *MockPrefixCache) Get(ctx context.Context, guildID string) (string, bool, error) {
	args := m.Called(ctx, guildID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockPrefixCache) Set(ctx context.Context, guildID, prefix string) error {
	args := m.Called(ctx, guildID, prefix)
	return args.Error(0)
}

func (m *MockPrefixCache) Add(ctx context.Context, guildID, prefix string) error {
	args := m.Called(ctx, guildID, prefix)
	return args.Error(0)
}
