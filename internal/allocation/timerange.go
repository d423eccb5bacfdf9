package allocation

import (
	"fmt"
	"strings"
)

const rangeSeparator = " - "

// TimeRange is a half-open interval [Start, End) within one day.
type TimeRange struct {
	Start TimeOfDay `json:"startTime"`
	End   TimeOfDay `json:"endTime"`
}

// NewTimeRange builds a range without validating it.
func NewTimeRange(start, end TimeOfDay) TimeRange {
	return TimeRange{Start: start, End: end}
}

// ParseTimeRange parses an "HH:MM - HH:MM" label.
func ParseTimeRange(label string) (TimeRange, error) {
	parts := strings.SplitN(label, "-", 2)
	if len(parts) != 2 {
		return TimeRange{}, fmt.Errorf("parse time range %q: missing separator", label)
	}
	start, err := ParseTimeOfDay(parts[0])
	if err != nil {
		return TimeRange{}, err
	}
	end, err := ParseTimeOfDay(parts[1])
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: start, End: end}, nil
}

// Valid reports Start < End.
func (r TimeRange) Valid() bool {
	return r.Start < r.End
}

// Label renders the range as "HH:MM - HH:MM".
func (r TimeRange) Label() string {
	return r.Start.String() + rangeSeparator + r.End.String()
}

func (r TimeRange) String() string {
	return r.Label()
}

// Overlaps reports whether a and b share any instant. Ranges that only touch
// at a boundary do not overlap.
func Overlaps(a, b TimeRange) bool {
	return a.Start < b.End && a.End > b.Start
}

// OverlapsAny reports whether r overlaps at least one of others.
func OverlapsAny(r TimeRange, others []TimeRange) bool {
	for _, o := range others {
		if Overlaps(r, o) {
			return true
		}
	}
	return false
}
