package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"furnicost/internal/extraction"
	"furnicost/internal/model"
	"furnicost/internal/service"
	"furnicost/internal/storage"
)

type MockEstimateService struct {
	mock.Mock
}

func (m *MockEstimateService) DetectArea(ctx context.Context, r io.Reader, filename string) (*extraction.Result, error) {
	args := m.Called(ctx, r, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extraction.Result), args.Error(1)
}

func (m *MockEstimateService) Create(ctx context.Context, in service.CreateEstimateInput) (*model.Estimate, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Estimate), args.Error(1)
}

func (m *MockEstimateService) List(ctx context.Context, limit, offset int) (*service.EstimateListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EstimateListResult), args.Error(1)
}

func (m *MockEstimateService) Get(ctx context.Context, id string) (*model.Estimate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Estimate), args.Error(1)
}

func (m *MockEstimateService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEstimateService) OpenDrawing(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, id)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockEstimateService) DrawingURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockEstimateService) Materials() service.MaterialsResult {
	args := m.Called()
	return args.Get(0).(service.MaterialsResult)
}
