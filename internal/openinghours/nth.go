package openinghours

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const maxNth = 5

// Nth selects occurrences of a weekday within a month: 1 is the first,
// -1 the last. End is zero for a single ordinal; otherwise Start-End is an
// ascending positive span such as 1-2.
type Nth struct {
	Start int
	End   int
}

// NewNth returns the single ordinal n
func NewNth(n int) (Nth, error) {
	if n == 0 || n < -maxNth || n > maxNth {
		return Nth{}, errors.Wrapf(ErrInvalidNth, "%d is outside 1..%d and -%d..-1", n, maxNth, maxNth)
	}
	return Nth{Start: n}, nil
}

// NewNthRange returns the span start-end
func NewNthRange(start, end int) (Nth, error) {
	if start < 1 || end > maxNth || start >= end {
		return Nth{}, errors.Wrapf(ErrInvalidNth, "%d-%d is not an ascending span within 1..%d", start, end, maxNth)
	}
	return Nth{Start: start, End: end}, nil
}

// ParseNth reads "3", "-1" or "1-2"
func ParseNth(text string) (Nth, error) {
	if rest, ok := strings.CutPrefix(text, "-"); ok {
		n, ok := atoiDigits(rest)
		if !ok {
			return Nth{}, errors.Wrapf(ErrInvalidNth, "%q", text)
		}
		return NewNth(-n)
	}
	if before, after, found := strings.Cut(text, "-"); found {
		start, okStart := atoiDigits(before)
		end, okEnd := atoiDigits(after)
		if !okStart || !okEnd {
			return Nth{}, errors.Wrapf(ErrInvalidNth, "%q", text)
		}
		return NewNthRange(start, end)
	}
	n, ok := atoiDigits(text)
	if !ok {
		return Nth{}, errors.Wrapf(ErrInvalidNth, "%q", text)
	}
	return NewNth(n)
}

// atoiDigits accepts only plain ASCII digits, no sign
func atoiDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// Validate reports ErrInvalidNth when n could not have come from ParseNth
func (n Nth) Validate() error {
	var err error
	if n.End != 0 {
		_, err = NewNthRange(n.Start, n.End)
	} else {
		_, err = NewNth(n.Start)
	}
	return err
}

// IsRange reports whether n spans more than one ordinal
func (n Nth) IsRange() bool {
	return n.End != 0
}

func (n Nth) String() string {
	if n.End != 0 {
		return strconv.Itoa(n.Start) + "-" + strconv.Itoa(n.End)
	}
	return strconv.Itoa(n.Start)
}

// FormatNthList joins the text forms with commas, the inverse of ParseNthList
func FormatNthList(nths []Nth) string {
	parts := make([]string, len(nths))
	for i, n := range nths {
		parts[i] = n.String()
	}
	return strings.Join(parts, ",")
}

// ParseNthList reads the comma separated body of a bracket, e.g. "1,3" or "-1"
func ParseNthList(text string) ([]Nth, error) {
	if text == "" {
		return nil, nil
	}
	parts := strings.Split(text, ",")
	nths := make([]Nth, 0, len(parts))
	for _, p := range parts {
		n, err := ParseNth(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		nths = append(nths, n)
	}
	return nths, nil
}
