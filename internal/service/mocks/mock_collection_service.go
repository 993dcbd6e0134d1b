package mocks

import (
	"context"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/service"
	"github.com/ledeuns/davical-cmdlnut/internal/storage"
	"github.com/stretchr/testify/mock"
)

// MockCollectionService is a testify mock for service.CollectionService.
type MockCollectionService struct {
	mock.Mock
}

var _ service.CollectionService = (*MockCollectionService)(nil)

func (m *MockCollectionService) AddCalendar(ctx context.Context, username, name string, opts service.CollectionOptions) (*model.Collection, error) {
	args := m.Called(ctx, username, name, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockCollectionService) AddAddressbook(ctx context.Context, username, name string, opts service.CollectionOptions) (*model.Collection, error) {
	args := m.Called(ctx, username, name, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockCollectionService) List(ctx context.Context, username string) ([]model.Collection, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Collection), args.Error(1)
}

func (m *MockCollectionService) Get(ctx context.Context, username, name string) (*model.Collection, error) {
	args := m.Called(ctx, username, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockCollectionService) Delete(ctx context.Context, username, name string) error {
	args := m.Called(ctx, username, name)
	return args.Error(0)
}

func (m *MockCollectionService) Export(ctx context.Context, username, name string, store storage.Storage) (*service.ExportResult, error) {
	args := m.Called(ctx, username, name, store)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}
