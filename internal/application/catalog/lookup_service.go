package catalog

import (
	"context"

	"github.com/nantech/inventory/internal/domain/catalog"
	"github.com/nantech/inventory/internal/domain/partner"
)

// LookupService serves the reference lists used by item forms and filters
type LookupService struct {
	categoryRepo catalog.CategoryRepository
	supplierRepo partner.SupplierRepository
}

// NewLookupService creates a new LookupService
func NewLookupService(categoryRepo catalog.CategoryRepository, supplierRepo partner.SupplierRepository) *LookupService {
	return &LookupService{
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
	}
}

// ListCategories returns all categories ordered by name
func (s *LookupService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toCategoryResponses(categories), nil
}

// ListSuppliers returns all suppliers ordered by name
func (s *LookupService) ListSuppliers(ctx context.Context) ([]SupplierResponse, error) {
	suppliers, err := s.supplierRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toSupplierResponses(suppliers), nil
}
