package domain

// Slot is a bookable time window with a human-readable label.
// Slots are never persisted, they are recomputed from the remote
// calendar state on every query.
type Slot struct {
	Window TimeWindow `json:"window"`
	Label  string     `json:"label"`
}

// SlotLabelLayout is the clock format shown to users, e.g. "02:30 PM".
const SlotLabelLayout = "03:04 PM"

func NewSlot(window TimeWindow) Slot {
	return Slot{
		Window: window,
		Label:  window.Start().Format(SlotLabelLayout),
	}
}
