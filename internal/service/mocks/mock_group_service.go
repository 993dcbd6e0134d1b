package mocks

import (
	"context"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockGroupService is a testify mock for service.GroupService.
type MockGroupService struct {
	mock.Mock
}

var _ service.GroupService = (*MockGroupService)(nil)

func (m *MockGroupService) AddMember(ctx context.Context, group, member string) error {
	args := m.Called(ctx, group, member)
	return args.Error(0)
}

func (m *MockGroupService) RemoveMember(ctx context.Context, group, member string) error {
	args := m.Called(ctx, group, member)
	return args.Error(0)
}

func (m *MockGroupService) Members(ctx context.Context, group string) ([]model.User, error) {
	args := m.Called(ctx, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}
