package mocks

import (
	"context"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockUserService is a testify mock for service.UserService.
type MockUserService struct {
	mock.Mock
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Add(ctx context.Context, in service.AddUserInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Describe(ctx context.Context, username string) (*model.UserDetails, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserDetails), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, opts service.ListUsersOptions) ([]model.User, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, username string, in service.UpdateUserInput) (*model.User, error) {
	args := m.Called(ctx, username, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) SetPassword(ctx context.Context, username, pw string, plain bool) error {
	args := m.Called(ctx, username, pw, plain)
	return args.Error(0)
}

func (m *MockUserService) CheckPassword(ctx context.Context, username, pw string) (bool, error) {
	args := m.Called(ctx, username, pw)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) SetActive(ctx context.Context, username string, active bool) error {
	args := m.Called(ctx, username, active)
	return args.Error(0)
}

func (m *MockUserService) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserService) SetAdmin(ctx context.Context, username string, admin bool) error {
	args := m.Called(ctx, username, admin)
	return args.Error(0)
}
