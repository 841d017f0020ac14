package models

import "github.com/nantech/inventory/internal/domain/partner"

// SupplierModel is the persistence model for partner.Supplier
type SupplierModel struct {
	IDModel
	Name    string  `gorm:"type:varchar(255);not null"`
	Contact *string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier
func (m *SupplierModel) ToDomain() partner.Supplier {
	return partner.Supplier{ID: m.ID, Name: m.Name, Contact: m.Contact}
}
