package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormStockSnapshotProvider implements StockSnapshotProvider over the items table.
type GormStockSnapshotProvider struct {
	db *gorm.DB
}

// NewGormStockSnapshotProvider creates a new GormStockSnapshotProvider.
func NewGormStockSnapshotProvider(db *gorm.DB) *GormStockSnapshotProvider {
	return &GormStockSnapshotProvider{db: db}
}

// StockSnapshot counts all items and those with no stock left.
func (p *GormStockSnapshotProvider) StockSnapshot(ctx context.Context) (StockSnapshot, error) {
	var row struct {
		Items           int64
		ItemsOutOfStock int64
	}
	err := p.db.WithContext(ctx).
		Table("items").
		Select("COUNT(*) AS items, COALESCE(SUM(CASE WHEN stock = 0 THEN 1 ELSE 0 END), 0) AS items_out_of_stock").
		Scan(&row).Error
	if err != nil {
		return StockSnapshot{}, err
	}
	return StockSnapshot{Items: row.Items, ItemsOutOfStock: row.ItemsOutOfStock}, nil
}
