package catalog

import "context"

// ItemIndex is a secondary full-text index over item views.
// The item table stays authoritative; the index may lag behind it, so callers
// load the current rows for the ids a search returns.
type ItemIndex interface {
	Index(ctx context.Context, item ItemView) error
	// IndexAll stores or replaces the documents for items in bulk
	IndexAll(ctx context.Context, items []ItemView) error
	Remove(ctx context.Context, id int64) error
	// Count returns the number of indexed documents
	Count(ctx context.Context) (int64, error)
	// Search returns the ids of every matching item, ordered by name
	Search(ctx context.Context, term string) ([]int64, error)
}
