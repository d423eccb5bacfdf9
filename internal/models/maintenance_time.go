package models

import "github.com/noah-isme/room-booking-api/internal/allocation"

// MaintenanceTime blocks every room for the window it covers.
type MaintenanceTime struct {
	ID        int64                `db:"id" json:"id"`
	StartTime allocation.TimeOfDay `db:"start_time" json:"startTime"`
	EndTime   allocation.TimeOfDay `db:"end_time" json:"endTime"`
}

// Range returns the window as a time range.
func (m MaintenanceTime) Range() allocation.TimeRange {
	return allocation.NewTimeRange(m.StartTime, m.EndTime)
}

// MaintenanceRanges converts windows for the allocation core.
func MaintenanceRanges(windows []MaintenanceTime) []allocation.TimeRange {
	ranges := make([]allocation.TimeRange, 0, len(windows))
	for _, w := range windows {
		ranges = append(ranges, w.Range())
	}
	return ranges
}
