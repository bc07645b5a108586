package domain

// AvailabilityTracker binds one menu item to a visibility flag on one
// menu card. Toggling the flag takes effect on the next query; the card
// never caches the filtered view.
type AvailabilityTracker struct {
	Item      MenuItem
	Available bool
}

// MenuCard is a named list of tracked menu items. An item not tracked
// on a card is never orderable from that card.
type MenuCard struct {
	ID   int
	Name string

	trackers []*AvailabilityTracker
}

func NewMenuCard(id int, name string) *MenuCard {
	return &MenuCard{ID: id, Name: name}
}

func (c *MenuCard) AddAvailabilityTracker(t *AvailabilityTracker) {
	c.trackers = append(c.trackers, t)
}

// Trackers returns a copy of the tracker list in insertion order.
func (c *MenuCard) Trackers() []*AvailabilityTracker {
	out := make([]*AvailabilityTracker, len(c.trackers))
	copy(out, c.trackers)
	return out
}

// AvailableMenuItems returns the tracked items whose tracker is
// available, in insertion order. The slice is a defensive copy; callers
// cannot reach the card's internal list through it.
func (c *MenuCard) AvailableMenuItems() []MenuItem {
	out := make([]MenuItem, 0, len(c.trackers))
	for _, t := range c.trackers {
		if t.Available {
			out = append(out, t.Item)
		}
	}
	return out
}
