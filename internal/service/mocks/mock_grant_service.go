package mocks

import (
	"context"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockGrantService is a testify mock for service.GrantService.
type MockGrantService struct {
	mock.Mock
}

var _ service.GrantService = (*MockGrantService)(nil)

func (m *MockGrantService) Grant(ctx context.Context, in service.GrantInput) (*model.Grant, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Grant), args.Error(1)
}

func (m *MockGrantService) Revoke(ctx context.Context, in service.GrantInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockGrantService) List(ctx context.Context, username string) (*service.GrantList, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GrantList), args.Error(1)
}
