package catalog

import "context"

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindAll returns every category ordered by name
	FindAll(ctx context.Context) ([]Category, error)
}
