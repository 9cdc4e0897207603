package domain

import (
	"fmt"
	"time"
)

// BusinessHours is process-wide scheduling configuration, read-only
// after startup.
type BusinessHours struct {
	StartHour       int
	EndHour         int
	Granularity     time.Duration
	DefaultDuration time.Duration
}

func (b BusinessHours) Validate() error {
	if b.StartHour < 0 || b.EndHour > 24 || b.StartHour >= b.EndHour {
		return fmt.Errorf("invalid business hours %d-%d", b.StartHour, b.EndHour)
	}
	if b.Granularity <= 0 {
		return fmt.Errorf("invalid slot granularity %s", b.Granularity)
	}
	if b.DefaultDuration <= 0 {
		return fmt.Errorf("invalid default duration %s", b.DefaultDuration)
	}
	return nil
}

// DayStart returns the opening time on the calendar day of t.
func (b BusinessHours) DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), b.StartHour, 0, 0, 0, t.Location())
}

// DayEnd returns the closing time on the calendar day of t.
func (b BusinessHours) DayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), b.EndHour, 0, 0, 0, t.Location())
}
