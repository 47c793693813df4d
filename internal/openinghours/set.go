package openinghours

import "strings"

// RangeSet keeps distinct weekday ranges in insertion order
type RangeSet struct {
	buckets map[uint64][]*WeekDayRange
	ranges  []*WeekDayRange
}

// NewRangeSet creates a set holding the distinct values of ranges
func NewRangeSet(ranges ...*WeekDayRange) *RangeSet {
	s := &RangeSet{buckets: make(map[uint64][]*WeekDayRange)}
	for _, r := range ranges {
		s.Add(r)
	}
	return s
}

// Add inserts r unless an equal range is already present.
// It returns false for duplicates and nil ranges.
func (s *RangeSet) Add(r *WeekDayRange) bool {
	if r == nil || s.Contains(r) {
		return false
	}
	fp := r.Fingerprint()
	s.buckets[fp] = append(s.buckets[fp], r)
	s.ranges = append(s.ranges, r)
	return true
}

// Contains reports whether a range equal to r is present
func (s *RangeSet) Contains(r *WeekDayRange) bool {
	if r == nil {
		return false
	}
	for _, existing := range s.buckets[r.Fingerprint()] {
		if existing.Equal(r) {
			return true
		}
	}
	return false
}

// Len returns the number of distinct ranges
func (s *RangeSet) Len() int {
	return len(s.ranges)
}

// Ranges returns the ranges in insertion order
func (s *RangeSet) Ranges() []*WeekDayRange {
	return s.ranges
}

// String joins the canonical forms with commas, as in a selector
func (s *RangeSet) String() string {
	return FormatSelector(s.ranges)
}

// FormatSelector joins the canonical forms of ranges with commas
func FormatSelector(ranges []*WeekDayRange) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}
