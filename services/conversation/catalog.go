package conversation

import (
	"fmt"
	"time"

	"agendai/models"
)

// SlotCatalog is the fixed, ordered list of offerable appointment
// slots. It is built once at process start and is read-only afterwards.
type SlotCatalog struct {
	slots []models.Slot
}

// NewSlotCatalog builds a catalog from the given slots, preserving
// their order.
func NewSlotCatalog(slots []models.Slot) *SlotCatalog {
	return &SlotCatalog{slots: append([]models.Slot(nil), slots...)}
}

// List returns the catalog in display order.
func (c *SlotCatalog) List() []models.Slot {
	return append([]models.Slot(nil), c.slots...)
}

// FindByID returns the slot with the given id; the bool reports
// whether it exists.
func (c *SlotCatalog) FindByID(id int) (models.Slot, bool) {
	for _, s := range c.slots {
		if s.ID == id {
			return s, true
		}
	}
	return models.Slot{}, false
}

// FindByWhen returns the slot whose display label matches exactly.
// Used to recover the concrete start time from a session, which only
// stores the label.
func (c *SlotCatalog) FindByWhen(when string) (models.Slot, bool) {
	for _, s := range c.slots {
		if s.When == when {
			return s, true
		}
	}
	return models.Slot{}, false
}

// DefaultSlots builds the clinic's standard offer relative to now:
// two openings tomorrow morning, one tomorrow afternoon and one the
// day after.
func DefaultSlots(now time.Time) []models.Slot {
	day := func(offset, hour, min int) time.Time {
		d := now.AddDate(0, 0, offset)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, now.Location())
	}
	label := func(offset int, clock string) string {
		switch offset {
		case 1:
			return "Amanhã " + clock
		default:
			return fmt.Sprintf("%s %s", day(offset, 0, 0).Format("02/01"), clock)
		}
	}
	return []models.Slot{
		{ID: 1, When: label(1, "09:00"), Start: day(1, 9, 0)},
		{ID: 2, When: label(1, "10:30"), Start: day(1, 10, 30)},
		{ID: 3, When: label(1, "14:00"), Start: day(1, 14, 0)},
		{ID: 4, When: label(2, "16:30"), Start: day(2, 16, 30)},
	}
}
