package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeWindow is a half-open interval [Start, End). Immutable once
// constructed, which is why the fields are unexported.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !start.Before(end) {
		return TimeWindow{}, fmt.Errorf("time window start %s must be before end %s", start, end)
	}
	return TimeWindow{start: start, end: end}, nil
}

// WindowAt builds a window of the given duration starting at start.
func WindowAt(start time.Time, duration time.Duration) (TimeWindow, error) {
	return NewTimeWindow(start, start.Add(duration))
}

func (w TimeWindow) Start() time.Time {
	return w.start
}

func (w TimeWindow) End() time.Time {
	return w.end
}

func (w TimeWindow) Duration() time.Duration {
	return w.end.Sub(w.start)
}

// Overlaps reports whether two half-open intervals intersect.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

func (w TimeWindow) IsZero() bool {
	return w.start.IsZero() && w.end.IsZero()
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s, %s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}

type windowJSON struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w TimeWindow) MarshalJSON() ([]byte, error) {
	return json.Marshal(windowJSON{Start: w.start, End: w.end})
}

func (w *TimeWindow) UnmarshalJSON(data []byte) error {
	var raw windowJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	window, err := NewTimeWindow(raw.Start, raw.End)
	if err != nil {
		return err
	}
	*w = window
	return nil
}
