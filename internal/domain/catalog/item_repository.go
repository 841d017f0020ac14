package catalog

import "context"

// Tables whose rows reference an item. Order matters: deletion checks them
// in this sequence and stops at the first table with a referencing row.
var ItemDependentTables = []string{"stock_in", "stock_out", "requests"}

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// Create stores a new item and returns its generated id
	Create(ctx context.Context, item *Item) (int64, error)

	// FindByID returns the joined view, or shared.ErrNotFound
	FindByID(ctx context.Context, id int64) (*ItemView, error)

	// FindAll returns joined views matching filter, ordered by name
	FindAll(ctx context.Context, filter ItemFilter) ([]ItemView, error)

	// FindByIDs returns joined views for ids, ordered by name. Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []int64) ([]ItemView, error)

	// Search returns joined views whose name contains term (case-insensitive), ordered by name
	Search(ctx context.Context, term string) ([]ItemView, error)

	// Update overwrites the writable fields of an existing item, or returns shared.ErrNotFound
	Update(ctx context.Context, item *Item) error

	// Delete removes an item atomically. It returns shared.ErrNotFound when the
	// item does not exist and a referential constraint error when any row in
	// ItemDependentTables references it.
	Delete(ctx context.Context, id int64) error
}
