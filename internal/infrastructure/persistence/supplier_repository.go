package persistence

import (
	"context"

	"github.com/nantech/inventory/internal/domain/partner"
	"github.com/nantech/inventory/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindAll returns every supplier ordered by name
func (r *GormSupplierRepository) FindAll(ctx context.Context) ([]partner.Supplier, error) {
	var rows []models.SupplierModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	suppliers := make([]partner.Supplier, 0, len(rows))
	for i := range rows {
		suppliers = append(suppliers, rows[i].ToDomain())
	}
	return suppliers, nil
}
