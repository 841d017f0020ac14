package catalog

import (
	"context"

	"github.com/nantech/inventory/internal/domain/catalog"
	"github.com/nantech/inventory/internal/domain/partner"
	"github.com/nantech/inventory/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockItemRepository is a mock implementation of catalog.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *catalog.Item) (int64, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) FindByID(ctx context.Context, id int64) (*catalog.ItemView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ItemView), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter catalog.ItemFilter) ([]catalog.ItemView, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ItemView), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.ItemView, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ItemView), args.Error(1)
}

func (m *MockItemRepository) Search(ctx context.Context, term string) ([]catalog.ItemView, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ItemView), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockItemIndex is a mock implementation of catalog.ItemIndex
type MockItemIndex struct {
	mock.Mock
}

func (m *MockItemIndex) Index(ctx context.Context, item catalog.ItemView) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemIndex) Remove(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemIndex) IndexAll(ctx context.Context, items []catalog.ItemView) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockItemIndex) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemIndex) Search(ctx context.Context, term string) ([]int64, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockItemMetrics is a mock implementation of ItemMetrics
type MockItemMetrics struct {
	mock.Mock
}

func (m *MockItemMetrics) RecordItemMutation(ctx context.Context, operation string) {
	m.Called(ctx, operation)
}

func (m *MockItemMetrics) RecordDeleteBlocked(ctx context.Context, table string) {
	m.Called(ctx, table)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindAll(ctx context.Context) ([]partner.Supplier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Supplier), args.Error(1)
}
