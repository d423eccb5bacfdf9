package models

import (
	"time"

	"github.com/noah-isme/room-booking-api/internal/allocation"
)

// BookedRoom is one ledger row. A booking request spanning several slots
// produces one row per slot, all sharing BookingReference and BookingDateTime.
type BookedRoom struct {
	ID               int64                `db:"id" json:"id"`
	RoomName         string               `db:"room_name" json:"roomName"`
	StartTime        allocation.TimeOfDay `db:"start_time" json:"startTime"`
	EndTime          allocation.TimeOfDay `db:"end_time" json:"endTime"`
	NumberOfPersons  int                  `db:"number_of_persons" json:"numberOfPersons"`
	BookingReference string               `db:"booking_reference" json:"bookingReference"`
	BookedBy         string               `db:"booked_by" json:"bookedBy"`
	BookingDateTime  time.Time            `db:"booking_date_time" json:"bookingDateTime"`
}

// Range returns the slot the row reserves.
func (b BookedRoom) Range() allocation.TimeRange {
	return allocation.NewTimeRange(b.StartTime, b.EndTime)
}

// BookedRanges converts ledger rows for the allocation core.
func BookedRanges(rows []BookedRoom) []allocation.TimeRange {
	ranges := make([]allocation.TimeRange, 0, len(rows))
	for _, row := range rows {
		ranges = append(ranges, row.Range())
	}
	return ranges
}
