package partner

import "context"

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindAll returns every supplier ordered by name
	FindAll(ctx context.Context) ([]Supplier, error)
}
