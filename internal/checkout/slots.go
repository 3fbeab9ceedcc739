package checkout

import "time"

const slotInterval = 30 * time.Minute

var (
	lastSlotOfDay    = 23*time.Hour + 30*time.Minute
	nextDayFirstSlot = 9 * time.Hour
)

// DeliverySlots lists the selectable delivery times: half-hour increments from
// now+30min (rounded up to the next half hour) through 23:30 the same day. If
// that window has already elapsed, the slots cover 09:00 to 23:30 tomorrow.
func DeliverySlots(now time.Time) []time.Time {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	first := ceilHalfHour(now.Add(30 * time.Minute))
	last := midnight.Add(lastSlotOfDay)

	if first.After(last) {
		tomorrow := midnight.AddDate(0, 0, 1)
		first = tomorrow.Add(nextDayFirstSlot)
		last = tomorrow.Add(lastSlotOfDay)
	}

	var slots []time.Time
	for t := first; !t.After(last); t = t.Add(slotInterval) {
		slots = append(slots, t)
	}
	return slots
}

// ValidSlot reports whether slot appears in the list generated for now.
func ValidSlot(slot, now time.Time) bool {
	for _, s := range DeliverySlots(now) {
		if s.Equal(slot) {
			return true
		}
	}
	return false
}

func ceilHalfHour(t time.Time) time.Time {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())

	elapsed := t.Sub(midnight)
	rounded := elapsed.Truncate(slotInterval)
	if rounded < elapsed {
		rounded += slotInterval
	}
	return midnight.Add(rounded)
}
