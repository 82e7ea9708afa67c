package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"template-registry-service/internal/core/domain"
)

// MockTemplateRepo is a mock of TemplateRepository.
type MockTemplateRepo struct {
	mock.Mock
}

func (m *MockTemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateRepo) Update(ctx context.Context, t *domain.Template) (bool, error) {
	args := m.Called(ctx, t)
	return args.Bool(0), args.Error(1)
}

func (m *MockTemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *MockTemplateRepo) GetByName(ctx context.Context, name string) (*domain.Template, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *MockTemplateRepo) GetAll(ctx context.Context) ([]*domain.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Template), args.Error(1)
}

func (m *MockTemplateRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockObjectStore is a mock of ObjectStore.
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) EnsureBucket(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

func (m *MockObjectStore) PresignUpload(ctx context.Context, bucket, key string, expiry time.Duration, contentType string) (string, error) {
	args := m.Called(ctx, bucket, key, expiry, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) ListKeys(ctx context.Context, bucket, prefix string) ([]string, error) {
	args := m.Called(ctx, bucket, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockObjectStore) DeleteKey(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *MockObjectStore) DeleteKeysByPrefix(ctx context.Context, bucket, prefix string) error {
	args := m.Called(ctx, bucket, prefix)
	return args.Error(0)
}
