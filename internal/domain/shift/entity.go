package shift

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time without a date, interpreted in the
// deployment timezone. Shifts crossing midnight are not supported.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" on a 24-hour clock.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On anchors the time of day onto the calendar day of ref, in ref's location.
func (t TimeOfDay) On(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour, t.Minute, 0, 0, ref.Location())
}

// MinutesOfDay returns minutes since midnight, for ordering checks.
func (t TimeOfDay) MinutesOfDay() int {
	return t.Hour*60 + t.Minute
}

// Shift is an employee's recurring expected daily work window. One shift per
// employee at a time; updates replace the previous definition.
type Shift struct {
	ID         string
	EmployeeID string
	StartTime  TimeOfDay
	EndTime    TimeOfDay
	// Weekdays holds active days, 1=Monday ... 7=Sunday.
	Weekdays  []int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActiveOn reports whether the shift has an active entry for the weekday of d.
// An inactive day does not block check-in; callers use this for reporting and
// the absence sweep only.
func (s Shift) ActiveOn(d time.Time) bool {
	iso := int(d.Weekday())
	if iso == 0 {
		iso = 7 // time.Sunday is 0
	}
	for _, wd := range s.Weekdays {
		if wd == iso {
			return true
		}
	}
	return false
}

// DefaultShift is applied when an employee has no registered shift:
// 09:00-17:00, Monday through Friday.
func DefaultShift(employeeID string) Shift {
	return Shift{
		EmployeeID: employeeID,
		StartTime:  TimeOfDay{Hour: 9},
		EndTime:    TimeOfDay{Hour: 17},
		Weekdays:   []int{1, 2, 3, 4, 5},
	}
}
