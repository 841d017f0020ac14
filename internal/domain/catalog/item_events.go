package catalog

import (
	"github.com/nantech/inventory/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeItem = "Item"

// Event type constants
const (
	EventTypeItemCreated = "ItemCreated"
	EventTypeItemUpdated = "ItemUpdated"
	EventTypeItemDeleted = "ItemDeleted"
)

// ItemEvent is published after an item mutation commits.
// Deleted events carry only the id.
type ItemEvent struct {
	shared.BaseDomainEvent
	ItemID     int64  `json:"item_id"`
	Name       string `json:"name,omitempty"`
	CategoryID int64  `json:"category_id,omitempty"`
	Stock      int    `json:"stock"`
	SupplierID *int64 `json:"supplier_id,omitempty"`
}

// NewItemCreatedEvent creates an ItemCreated event
func NewItemCreatedEvent(item *Item) *ItemEvent {
	return newItemEvent(EventTypeItemCreated, item)
}

// NewItemUpdatedEvent creates an ItemUpdated event
func NewItemUpdatedEvent(item *Item) *ItemEvent {
	return newItemEvent(EventTypeItemUpdated, item)
}

// NewItemDeletedEvent creates an ItemDeleted event
func NewItemDeletedEvent(id int64) *ItemEvent {
	return &ItemEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemDeleted, AggregateTypeItem, id),
		ItemID:          id,
	}
}

func newItemEvent(eventType string, item *Item) *ItemEvent {
	return &ItemEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeItem, item.ID),
		ItemID:          item.ID,
		Name:            item.Name,
		CategoryID:      item.CategoryID,
		Stock:           item.Stock,
		SupplierID:      item.SupplierID,
	}
}
