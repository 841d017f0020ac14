package catalog

import (
	"github.com/nantech/inventory/internal/domain/catalog"
	"github.com/nantech/inventory/internal/domain/partner"
)

// ItemRequest is the body of item create and update requests.
// Update replaces every field; omitted optional fields reset to defaults.
type ItemRequest struct {
	Name       string `json:"name" binding:"max=200"`
	CategoryID int64  `json:"category_id"`
	Stock      *int   `json:"stock"`
	SupplierID *int64 `json:"supplier_id"`
}

func (r ItemRequest) toInput() catalog.ItemInput {
	return catalog.ItemInput{
		Name:       r.Name,
		CategoryID: r.CategoryID,
		Stock:      r.Stock,
		SupplierID: r.SupplierID,
	}
}

// ItemListQuery holds the optional list filters
type ItemListQuery struct {
	CategoryID *int64
	SupplierID *int64
}

// ItemSearchQuery holds the search term and the optional list filters
type ItemSearchQuery struct {
	Term string
	ItemListQuery
}

func (q ItemListQuery) filter() catalog.ItemFilter {
	return catalog.ItemFilter{CategoryID: q.CategoryID, SupplierID: q.SupplierID}
}

// ItemResponse represents an item with its joined display names
type ItemResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	CategoryID   int64   `json:"category_id"`
	Stock        int     `json:"stock"`
	SupplierID   *int64  `json:"supplier_id"`
	CategoryName string  `json:"category_name"`
	SupplierName *string `json:"supplier_name"`
}

// CreateItemResponse carries the generated id of a new item
type CreateItemResponse struct {
	ID int64 `json:"id"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Contact *string `json:"contact"`
}

// ToItemResponse converts a domain view to a response
func ToItemResponse(v catalog.ItemView) ItemResponse {
	return ItemResponse{
		ID:           v.ID,
		Name:         v.Name,
		CategoryID:   v.CategoryID,
		Stock:        v.Stock,
		SupplierID:   v.SupplierID,
		CategoryName: v.CategoryName,
		SupplierName: v.SupplierName,
	}
}

// ToItemResponses converts views, never returning nil
func ToItemResponses(views []catalog.ItemView) []ItemResponse {
	out := make([]ItemResponse, 0, len(views))
	for _, v := range views {
		out = append(out, ToItemResponse(v))
	}
	return out
}

func toCategoryResponses(categories []catalog.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out
}

func toSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, SupplierResponse{ID: s.ID, Name: s.Name, Contact: s.Contact})
	}
	return out
}
