package openinghours

import (
	"slices"
	"strings"
)

// RangeKind is the shape a WeekDayRange serializes as
type RangeKind int

const (
	// PlainDay is a single day, e.g. "Mo"
	PlainDay RangeKind = iota
	// DayRange is a contiguous span, e.g. "Mo-Fr"
	DayRange
	// NthQualified is a day limited to occurrences in the month, e.g. "Sa[1,3]"
	NthQualified
)

func (k RangeKind) String() string {
	switch k {
	case DayRange:
		return "DayRange"
	case NthQualified:
		return "NthQualified"
	default:
		return "PlainDay"
	}
}

// WeekDayRange is one clause of the weekday selector of a rule.
//
// A well-formed range has a start day and then either an end day or a list
// of Nth modifiers. The type does not enforce the exclusivity: when both are
// set the end day wins in String and Kind, while Equal and Fingerprint still
// take the Nth list into account.
//
// WeekDayRange is not safe for concurrent mutation. Nths returns the owned
// slice; use Clone to hand out independent copies.
type WeekDayRange struct {
	startDay WeekDay
	endDay   WeekDay
	nths     []Nth
}

// SetStartDay sets the day the range starts on
func (r *WeekDayRange) SetStartDay(day WeekDay) {
	r.startDay = day
}

// SetStartDayFromText sets the start day from its canonical label.
// The range is left unchanged when the label is unknown.
func (r *WeekDayRange) SetStartDayFromText(label string) error {
	day, err := ParseWeekDay(label)
	if err != nil {
		return err
	}
	r.startDay = day
	return nil
}

// SetEndDay sets the day the range ends on; the zero WeekDay clears it
func (r *WeekDayRange) SetEndDay(day WeekDay) {
	r.endDay = day
}

// SetEndDayFromText sets the end day from its canonical label
func (r *WeekDayRange) SetEndDayFromText(label string) error {
	day, err := ParseWeekDay(label)
	if err != nil {
		return err
	}
	r.endDay = day
	return nil
}

// SetNths replaces the Nth modifiers. The range takes ownership of nths.
func (r *WeekDayRange) SetNths(nths []Nth) {
	r.nths = nths
}

// StartDay returns the start day, zero if never set
func (r *WeekDayRange) StartDay() WeekDay {
	return r.startDay
}

// EndDay returns the end day, zero when absent
func (r *WeekDayRange) EndDay() WeekDay {
	return r.endDay
}

// HasEndDay reports whether an end day is present
func (r *WeekDayRange) HasEndDay() bool {
	return r.endDay != 0
}

// Nths returns the live Nth slice
func (r *WeekDayRange) Nths() []Nth {
	return r.nths
}

// Kind reports which serialized form the range takes
func (r *WeekDayRange) Kind() RangeKind {
	switch {
	case r.HasEndDay():
		return DayRange
	case len(r.nths) > 0:
		return NthQualified
	default:
		return PlainDay
	}
}

// String returns the canonical form: "Mo", "Mo-Fr" or "Sa[1,3]".
// An end day suppresses the Nth list.
func (r *WeekDayRange) String() string {
	var b strings.Builder
	b.WriteString(r.startDay.String())
	switch r.Kind() {
	case DayRange:
		b.WriteByte('-')
		b.WriteString(r.endDay.String())
	case NthQualified:
		b.WriteByte('[')
		b.WriteString(FormatNthList(r.nths))
		b.WriteByte(']')
	}
	return b.String()
}

// Equal compares start day, end day and the Nth list element by element.
// A nil and an empty Nth list are equal.
func (r *WeekDayRange) Equal(other *WeekDayRange) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	return r.startDay == other.startDay &&
		r.endDay == other.endDay &&
		slices.Equal(r.nths, other.nths)
}

// Clone returns a deep copy
func (r *WeekDayRange) Clone() *WeekDayRange {
	c := *r
	if r.nths != nil {
		c.nths = slices.Clone(r.nths)
	}
	return &c
}

// Validate checks that every field holds a value the parser accepts:
// a valid start day, an absent or valid end day, and valid Nths.
func (r *WeekDayRange) Validate() error {
	if !r.startDay.IsValid() {
		return newInvalidWeekDay(r.startDay.String())
	}
	if r.HasEndDay() && !r.endDay.IsValid() {
		return newInvalidWeekDay(r.endDay.String())
	}
	for _, n := range r.nths {
		if err := n.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler. It fails for ranges whose
// text UnmarshalText would reject.
func (r *WeekDayRange) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

// UnmarshalText parses a single range such as "Sa[1,3]"
func (r *WeekDayRange) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekDayRange(string(text))
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}
