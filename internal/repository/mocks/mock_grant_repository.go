package mocks

import (
	"context"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockGrantRepository struct {
	mock.Mock
}

func (m *MockGrantRepository) Upsert(ctx context.Context, g *model.Grant) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGrantRepository) Revoke(ctx context.Context, g *model.Grant) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGrantRepository) ListTo(ctx context.Context, userNo int64) ([]model.Grant, error) {
	args := m.Called(ctx, userNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Grant), args.Error(1)
}

func (m *MockGrantRepository) ListFrom(ctx context.Context, userNo int64) ([]model.Grant, error) {
	args := m.Called(ctx, userNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Grant), args.Error(1)
}
