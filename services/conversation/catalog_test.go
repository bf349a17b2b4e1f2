package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendai/models"
)

func TestCatalogListKeepsOrder(t *testing.T) {
	c := testCatalog()

	slots := c.List()
	require.Len(t, slots, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{slots[0].ID, slots[1].ID, slots[2].ID})

	// Repeated calls return the same catalog.
	assert.Equal(t, slots, c.List())
}

func TestCatalogFindByID(t *testing.T) {
	c := testCatalog()

	slot, ok := c.FindByID(2)
	require.True(t, ok)
	assert.Equal(t, "Amanhã 10:30", slot.When)

	_, ok = c.FindByID(42)
	assert.False(t, ok)
}

func TestCatalogFindByWhen(t *testing.T) {
	c := testCatalog()

	slot, ok := c.FindByWhen("Sexta 09:00")
	require.True(t, ok)
	assert.Equal(t, 3, slot.ID)

	_, ok = c.FindByWhen("Nunca")
	assert.False(t, ok)
}

func TestDefaultSlots(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	slots := DefaultSlots(now)
	require.Len(t, slots, 4)

	ids := map[int]bool{}
	for _, s := range slots {
		assert.False(t, ids[s.ID], "duplicate slot id %d", s.ID)
		ids[s.ID] = true
		assert.NotEmpty(t, s.When)
		assert.False(t, s.Start.IsZero())
		assert.True(t, s.Start.After(now))
	}

	assert.Equal(t, models.Slot{ID: 2, When: "Amanhã 10:30", Start: time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)}, slots[1])
}
