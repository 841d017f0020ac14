package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingPublisher_Publish(t *testing.T) {
	p := NewRecordingPublisher()
	e1 := NewTestEvent("ItemCreated", 1)
	e2 := NewTestEvent("ItemDeleted", 1)

	require.NoError(t, p.Publish(context.Background(), e1, e2))

	assert.Equal(t, 2, p.Count())
	assert.Equal(t, []string{"ItemCreated", "ItemDeleted"}, p.Types())
	assert.Equal(t, int64(1), p.Published()[0].AggregateID())
	assert.Equal(t, "TestAggregate", p.Published()[0].AggregateType())
}

func TestRecordingPublisher_SetErrorStillRecords(t *testing.T) {
	p := NewRecordingPublisher()
	p.SetError(assert.AnError)

	err := p.Publish(context.Background(), NewTestEvent("ItemCreated", 2))

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, p.Count())
}

func TestRecordingPublisher_Reset(t *testing.T) {
	p := NewRecordingPublisher()
	p.SetError(assert.AnError)
	_ = p.Publish(context.Background(), NewTestEvent("ItemCreated", 3))

	p.Reset()

	assert.Zero(t, p.Count())
	assert.NoError(t, p.Publish(context.Background(), NewTestEvent("ItemCreated", 3)))
}

func TestRecordingPublisher_Concurrent(t *testing.T) {
	p := NewRecordingPublisher()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = p.Publish(context.Background(), NewTestEvent("ItemUpdated", id))
		}(int64(i))
	}
	wg.Wait()

	assert.True(t, WaitForEventCount(p, 20, time.Second))
	assert.Len(t, p.Published(), 20)
}

func TestNewTestEvent_UniqueIDs(t *testing.T) {
	a := NewTestEvent("X", 1)
	b := NewTestEvent("X", 1)

	assert.NotEqual(t, a.EventID(), b.EventID())
	assert.Equal(t, "test-data", a.Data)
	assert.False(t, a.OccurredAt().IsZero())
}
