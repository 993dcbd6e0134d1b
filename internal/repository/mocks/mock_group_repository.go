package mocks

import (
	"context"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) AddMember(ctx context.Context, groupID, memberID int64) error {
	args := m.Called(ctx, groupID, memberID)
	return args.Error(0)
}

func (m *MockGroupRepository) RemoveMember(ctx context.Context, groupID, memberID int64) error {
	args := m.Called(ctx, groupID, memberID)
	return args.Error(0)
}

func (m *MockGroupRepository) Members(ctx context.Context, groupID int64) ([]model.User, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockGroupRepository) Memberships(ctx context.Context, memberID int64) ([]model.User, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}
