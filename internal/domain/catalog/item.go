package catalog

import (
	"strings"

	"github.com/nantech/inventory/internal/domain/shared"
)

// Item is a tracked inventory item.
// Every item belongs to a category; the supplier is optional.
type Item struct {
	ID         int64
	Name       string
	CategoryID int64
	Stock      int
	SupplierID *int64
}

// ItemView is the read model of an item with joined display names.
type ItemView struct {
	Item
	CategoryName string
	SupplierName *string
}

// ItemInput carries the writable fields of an item.
// Nil Stock defaults to 0, nil SupplierID stores no supplier.
type ItemInput struct {
	Name       string
	CategoryID int64
	Stock      *int
	SupplierID *int64
}

// NewItem validates input and builds an item ready to be stored
func NewItem(input ItemInput) (*Item, error) {
	item := &Item{}
	if err := item.apply(input); err != nil {
		return nil, err
	}
	return item, nil
}

// Replace overwrites all writable fields of the item.
// Omitted optional fields reset to their defaults; there is no partial patching.
func (i *Item) Replace(input ItemInput) error {
	return i.apply(input)
}

func (i *Item) apply(input ItemInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.CategoryID <= 0 {
		return shared.NewValidationError("Name and category are required")
	}

	stock := 0
	if input.Stock != nil {
		stock = *input.Stock
	}
	if stock < 0 {
		return shared.NewValidationError("Stock cannot be negative")
	}

	var supplierID *int64
	if input.SupplierID != nil && *input.SupplierID > 0 {
		id := *input.SupplierID
		supplierID = &id
	}

	i.Name = name
	i.CategoryID = input.CategoryID
	i.Stock = stock
	i.SupplierID = supplierID
	return nil
}
