package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/userprofile/backend/internal/service"
	"github.com/pageza/userprofile/backend/internal/types"
)

var (
	_ service.TokenVerifier   = (*MockTokenVerifier)(nil)
	_ service.AvatarStorage   = (*MockAvatarStorage)(nil)
	_ service.IProfileService = (*MockProfileService)(nil)
)

// MockTokenVerifier is a mock implementation of service.TokenVerifier
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Decode(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

// MockAvatarStorage is a mock implementation of service.AvatarStorage
type MockAvatarStorage struct {
	mock.Mock
}

func (m *MockAvatarStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockAvatarStorage) URL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockAvatarStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockProfileService is a mock implementation of service.IProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) CreateProfile(ctx context.Context, actorID, targetID uint, in *types.CreateProfileInput) (*types.ProfileResponse, error) {
	args := m.Called(ctx, actorID, targetID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ProfileResponse), args.Error(1)
}
