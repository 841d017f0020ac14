package catalog

import (
	"errors"
	"testing"

	"github.com/nantech/inventory/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func idPtr(v int64) *int64    { return &v }
func strPtr(v string) *string { return &v }

func TestNewItem(t *testing.T) {
	t.Run("defaults stock and supplier", func(t *testing.T) {
		item, err := NewItem(ItemInput{Name: "Widget", CategoryID: 1})
		require.NoError(t, err)

		assert.Equal(t, "Widget", item.Name)
		assert.Equal(t, int64(1), item.CategoryID)
		assert.Equal(t, 0, item.Stock)
		assert.Nil(t, item.SupplierID)
	})

	t.Run("trims name", func(t *testing.T) {
		item, err := NewItem(ItemInput{Name: "  Bolt  ", CategoryID: 2, Stock: intPtr(5), SupplierID: idPtr(3)})
		require.NoError(t, err)

		assert.Equal(t, "Bolt", item.Name)
		assert.Equal(t, 5, item.Stock)
		assert.Equal(t, int64(3), *item.SupplierID)
	})

	t.Run("zero supplier means none", func(t *testing.T) {
		item, err := NewItem(ItemInput{Name: "Nut", CategoryID: 2, SupplierID: idPtr(0)})
		require.NoError(t, err)
		assert.Nil(t, item.SupplierID)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		cases := map[string]ItemInput{
			"empty name":       {Name: "", CategoryID: 1},
			"blank name":       {Name: "   ", CategoryID: 1},
			"missing category": {Name: "Widget"},
			"negative stock":   {Name: "Widget", CategoryID: 1, Stock: intPtr(-1)},
		}
		for name, input := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := NewItem(input)
				assert.True(t, errors.Is(err, shared.ErrInvalidInput))
			})
		}
	})
}

func TestItem_Replace(t *testing.T) {
	item := &Item{ID: 4, Name: "Old", CategoryID: 1, Stock: 9, SupplierID: idPtr(2)}

	err := item.Replace(ItemInput{Name: "New", CategoryID: 3})
	require.NoError(t, err)

	assert.Equal(t, int64(4), item.ID)
	assert.Equal(t, "New", item.Name)
	assert.Equal(t, int64(3), item.CategoryID)
	assert.Equal(t, 0, item.Stock)
	assert.Nil(t, item.SupplierID)
}

func TestItem_ReplaceInvalidKeepsState(t *testing.T) {
	item := &Item{ID: 4, Name: "Old", CategoryID: 1, Stock: 9}

	err := item.Replace(ItemInput{Name: "", CategoryID: 3})
	require.Error(t, err)

	assert.Equal(t, "Old", item.Name)
	assert.Equal(t, 9, item.Stock)
}

func TestItemEvents(t *testing.T) {
	item := &Item{ID: 11, Name: "Widget", CategoryID: 1, Stock: 2}

	created := NewItemCreatedEvent(item)
	assert.Equal(t, EventTypeItemCreated, created.EventType())
	assert.Equal(t, int64(11), created.AggregateID())
	assert.Equal(t, "Widget", created.Name)

	deleted := NewItemDeletedEvent(11)
	assert.Equal(t, EventTypeItemDeleted, deleted.EventType())
	assert.Empty(t, deleted.Name)
}
