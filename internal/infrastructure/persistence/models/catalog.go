package models

import (
	"github.com/nantech/inventory/internal/domain/catalog"
)

// ItemModel is the persistence model for catalog.Item
type ItemModel struct {
	IDModel
	Name       string `gorm:"type:varchar(255);not null"`
	CategoryID int64  `gorm:"not null;index"`
	Stock      int    `gorm:"not null"`
	SupplierID *int64 `gorm:"index"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the persistence model to a domain Item
func (m *ItemModel) ToDomain() *catalog.Item {
	return &catalog.Item{
		ID:         m.ID,
		Name:       m.Name,
		CategoryID: m.CategoryID,
		Stock:      m.Stock,
		SupplierID: m.SupplierID,
	}
}

// FromDomain populates the persistence model from a domain Item
func (m *ItemModel) FromDomain(i *catalog.Item) {
	m.ID = i.ID
	m.Name = i.Name
	m.CategoryID = i.CategoryID
	m.Stock = i.Stock
	m.SupplierID = i.SupplierID
}

// ItemViewRow is the scan target of the item/category/supplier join
type ItemViewRow struct {
	ID           int64
	Name         string
	CategoryID   int64
	Stock        int
	SupplierID   *int64
	CategoryName string
	SupplierName *string
}

// ToDomain converts the row into a catalog.ItemView
func (r *ItemViewRow) ToDomain() catalog.ItemView {
	return catalog.ItemView{
		Item: catalog.Item{
			ID:         r.ID,
			Name:       r.Name,
			CategoryID: r.CategoryID,
			Stock:      r.Stock,
			SupplierID: r.SupplierID,
		},
		CategoryName: r.CategoryName,
		SupplierName: r.SupplierName,
	}
}

// CategoryModel is the persistence model for catalog.Category
type CategoryModel struct {
	IDModel
	Name string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() catalog.Category {
	return catalog.Category{ID: m.ID, Name: m.Name}
}
