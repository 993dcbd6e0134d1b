package mocks

import (
	"context"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) Create(ctx context.Context, c *model.Collection) (*model.Collection, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockCollectionRepository) FindByPath(ctx context.Context, path string) (*model.Collection, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockCollectionRepository) ListByUser(ctx context.Context, userNo int64) ([]model.Collection, error) {
	args := m.Called(ctx, userNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Collection), args.Error(1)
}

func (m *MockCollectionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCollectionRepository) Objects(ctx context.Context, id int64) ([]model.CollectionObject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CollectionObject), args.Error(1)
}
