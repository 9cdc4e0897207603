package domain

import "time"

// Event is a calendar entry as reported by the remote store. Only the
// fields needed for free/busy computation are carried.
type Event struct {
	ID      string
	Summary string
	Start   time.Time
	End     time.Time
}

func (e Event) Overlaps(window TimeWindow) bool {
	return e.Start.Before(window.End()) && window.Start().Before(e.End)
}
