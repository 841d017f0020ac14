package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// StockSnapshot is a point-in-time view of the item table.
type StockSnapshot struct {
	Items           int64
	ItemsOutOfStock int64
}

// StockSnapshotProvider supplies gauge values for periodic collection.
type StockSnapshotProvider interface {
	StockSnapshot(ctx context.Context) (StockSnapshot, error)
}

// InventoryMetricsConfig holds configuration for InventoryMetrics.
type InventoryMetricsConfig struct {
	Meter    metric.Meter
	Logger   *zap.Logger
	Provider StockSnapshotProvider
}

// InventoryMetrics records item mutations, blocked deletions and login outcomes,
// and periodically samples stock levels.
type InventoryMetrics struct {
	logger   *zap.Logger
	provider StockSnapshotProvider

	itemMutations   *Counter
	deleteBlocked   *Counter
	loginAttempts   *Counter
	itemsTotal      *Gauge
	itemsOutOfStock *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// NewInventoryMetrics creates the inventory instruments on cfg.Meter.
func NewInventoryMetrics(cfg InventoryMetricsConfig) (*InventoryMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &InventoryMetrics{
		logger:   logger,
		provider: cfg.Provider,
		stopChan: make(chan struct{}),
	}

	var err error
	if m.itemMutations, err = NewCounter(cfg.Meter,
		"inventory_item_mutations_total", "Committed item creates, updates and deletes", "{mutations}"); err != nil {
		return nil, err
	}
	if m.deleteBlocked, err = NewCounter(cfg.Meter,
		"inventory_delete_blocked_total", "Item deletions refused because of referencing rows", "{deletions}"); err != nil {
		return nil, err
	}
	if m.loginAttempts, err = NewCounter(cfg.Meter,
		"inventory_login_attempts_total", "Login attempts by outcome", "{attempts}"); err != nil {
		return nil, err
	}
	if m.itemsTotal, err = NewGauge(cfg.Meter,
		"inventory_items", "Number of tracked items", "{items}"); err != nil {
		return nil, err
	}
	if m.itemsOutOfStock, err = NewGauge(cfg.Meter,
		"inventory_items_out_of_stock", "Number of items with zero stock", "{items}"); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordItemMutation counts a committed create, update or delete.
func (m *InventoryMetrics) RecordItemMutation(ctx context.Context, operation string) {
	m.itemMutations.Inc(ctx, AttrOperation.String(operation))
}

// RecordDeleteBlocked counts a deletion refused because table references the item.
func (m *InventoryMetrics) RecordDeleteBlocked(ctx context.Context, table string) {
	m.deleteBlocked.Inc(ctx, AttrTable.String(table))
}

// RecordLogin counts a login attempt by outcome (success, invalid_credentials, error).
func (m *InventoryMetrics) RecordLogin(ctx context.Context, outcome string) {
	m.loginAttempts.Inc(ctx, AttrOutcome.String(outcome))
}

// StartPeriodicCollection samples stock gauges every interval until Stop or ctx ends.
// It is a no-op without a provider and only starts once.
func (m *InventoryMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if m.provider == nil {
		return
	}
	m.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}
		go m.runPeriodicCollection(ctx, interval)
	})
}

func (m *InventoryMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.collect(ctx)

	for {
		select {
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collect(ctx)
		}
	}
}

func (m *InventoryMetrics) collect(ctx context.Context) {
	snapshot, err := m.provider.StockSnapshot(ctx)
	if err != nil {
		m.logger.Warn("Failed to collect stock snapshot", zap.Error(err))
		return
	}
	m.itemsTotal.Record(ctx, snapshot.Items)
	m.itemsOutOfStock.Record(ctx, snapshot.ItemsOutOfStock)
}

// Stop stops the periodic collection.
func (m *InventoryMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}
