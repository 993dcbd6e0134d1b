package mocks

import (
	"context"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, f repository.UserFilter) ([]model.User, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) SetPassword(ctx context.Context, userNo int64, encoded string) error {
	args := m.Called(ctx, userNo, encoded)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, userNo int64) error {
	args := m.Called(ctx, userNo)
	return args.Error(0)
}

func (m *MockUserRepository) AddRole(ctx context.Context, userNo int64, role string) error {
	args := m.Called(ctx, userNo, role)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveRole(ctx context.Context, userNo int64, role string) error {
	args := m.Called(ctx, userNo, role)
	return args.Error(0)
}

func (m *MockUserRepository) Roles(ctx context.Context, userNo int64) ([]string, error) {
	args := m.Called(ctx, userNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
