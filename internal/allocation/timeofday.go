// Package allocation holds the pure room allocation logic: time-of-day
// arithmetic, slot quantization, conflict detection against reservations and
// maintenance windows, and best-fit room selection. Nothing here performs I/O
// and every function is safe for concurrent use.
package allocation

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Quantum is the granularity every bookable boundary aligns to.
const Quantum = 15 * time.Minute

const (
	minutesPerDay  = 24 * 60
	quantumMinutes = int(Quantum / time.Minute)
	layout         = "15:04"
)

// TimeOfDay is a wall-clock time within a single operating day, stored as
// minutes since midnight.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from an hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses an "HH:MM" value.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	t, err := time.Parse(layout, strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", raw, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

// MustParseTimeOfDay is ParseTimeOfDay for constants and tests.
func MustParseTimeOfDay(raw string) TimeOfDay {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeOfDayOf truncates t to the minute and drops its date.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Add shifts t by d, truncated to whole minutes.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d/time.Minute)
}

// Sub returns the duration t-u.
func (t TimeOfDay) Sub(u TimeOfDay) time.Duration {
	return time.Duration(int(t)-int(u)) * time.Minute
}

func (t TimeOfDay) Before(u TimeOfDay) bool { return t < u }
func (t TimeOfDay) After(u TimeOfDay) bool  { return t > u }

// OnQuarterHour reports whether the minute component is 0, 15, 30 or 45.
func (t TimeOfDay) OnQuarterHour() bool {
	return t.Minute()%quantumMinutes == 0
}

// String renders "HH:MM". The end of the last slot of the day renders as "24:00".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan reads "HH:MM" text columns.
func (t *TimeOfDay) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan time of day: unsupported type %T", src)
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the time of day as "HH:MM" text.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}
