// Package openinghours models the weekday portion of opening_hours rules:
// the WeekDay enumeration, Nth modifiers and WeekDayRange clauses, plus the
// selector grammar that builds them from text.
package openinghours

import (
	"fmt"
	"time"
)

// WeekDay is one of the seven days, Monday first. The zero value is unset.
type WeekDay uint8

const (
	Monday WeekDay = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekDayLabels = [...]string{
	Monday:    "Mo",
	Tuesday:   "Tu",
	Wednesday: "We",
	Thursday:  "Th",
	Friday:    "Fr",
	Saturday:  "Sa",
	Sunday:    "Su",
}

// IsValid reports whether d is one of the seven days
func (d WeekDay) IsValid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the canonical two-letter label
func (d WeekDay) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("WeekDay(%d)", uint8(d))
	}
	return weekDayLabels[d]
}

// Weekday converts d to the time package representation.
// The boolean is false for the zero value and out-of-range days.
func (d WeekDay) Weekday() (time.Weekday, bool) {
	switch {
	case !d.IsValid():
		return 0, false
	case d == Sunday:
		return time.Sunday, true
	default:
		return time.Weekday(d), true
	}
}

// MarshalText implements encoding.TextMarshaler
func (d WeekDay) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, newInvalidWeekDay(d.String())
	}
	return []byte(weekDayLabels[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *WeekDay) UnmarshalText(text []byte) error {
	day, err := ParseWeekDay(string(text))
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// WeekDayFromLabel looks up a day by its exact, case-sensitive label.
// The boolean is false when nothing matches.
func WeekDayFromLabel(label string) (WeekDay, bool) {
	for _, d := range AllWeekDays() {
		if weekDayLabels[d] == label {
			return d, true
		}
	}
	return 0, false
}

// ParseWeekDay is WeekDayFromLabel returning an *InvalidWeekDayError on a miss
func ParseWeekDay(label string) (WeekDay, error) {
	d, ok := WeekDayFromLabel(label)
	if !ok {
		return 0, newInvalidWeekDay(label)
	}
	return d, nil
}

// AllWeekDays returns the seven days in enumeration order
func AllWeekDays() []WeekDay {
	return []WeekDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// WeekDayLabels returns the seven canonical labels in enumeration order.
// Used for validation listings and error messages.
func WeekDayLabels() []string {
	labels := make([]string, 0, len(weekDayLabels)-1)
	for _, d := range AllWeekDays() {
		labels = append(labels, weekDayLabels[d])
	}
	return labels
}
